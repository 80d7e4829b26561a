package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/collection"
)

// UserService covers profile management and favorites.
type UserService struct {
	users repositories.UserRepository
	games repositories.GameRepository
}

func NewUserService(users repositories.UserRepository, games repositories.GameRepository) *UserService {
	return &UserService{users: users, games: games}
}

// Profile returns the account document.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ProfileInput is the editable slice of the account.
type ProfileInput struct {
	DisplayName  string `json:"display_name" validate:"required,min=2,max=50"`
	ProfileImage string `json:"profile_image" validate:"nullable,url"`
	PersonalNote string `json:"personal_note" validate:"nullable,max=500"`
}

// UpdateProfile edits display name, avatar, and note. Email and role are
// not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = strings.TrimSpace(in.DisplayName)
	user.ProfileImage = in.ProfileImage
	user.PersonalNote = in.PersonalNote

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperr.New(apperr.KindAuth, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "password hash failed", err)
	}
	user.Password = hash
	return s.users.Update(ctx, user)
}

// Favorites resolves the user's favorite game ids into catalog entries.
// Ids pointing at deleted games are silently dropped.
func (s *UserService) Favorites(ctx context.Context, userID primitive.ObjectID) ([]models.Game, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Favorites) == 0 {
		return []models.Game{}, nil
	}

	games, err := s.games.FindByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}

	// $in does not preserve order; return games in the order they were
	// favorited.
	byID := collection.KeyBy(games, func(g models.Game) primitive.ObjectID { return g.ID })
	ordered := make([]models.Game, 0, len(games))
	for _, id := range user.Favorites {
		if g, ok := byID[id]; ok {
			ordered = append(ordered, g)
		}
	}
	return ordered, nil
}

// AddFavorite marks a game as a favorite. Adding twice is a no-op.
func (s *UserService) AddFavorite(ctx context.Context, userID, gameID primitive.ObjectID) error {
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return err
	}
	return s.users.AddFavorite(ctx, userID, gameID)
}

// RemoveFavorite unmarks a game. Removing an absent favorite is a no-op.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, gameID primitive.ObjectID) error {
	return s.users.RemoveFavorite(ctx, userID, gameID)
}
