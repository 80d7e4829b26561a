package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/event"
	"github.com/gametribe/backend/pkg/logger"
)

// AuthService handles registration, login, and the guest-cart merge that
// happens on both.
type AuthService struct {
	users repositories.UserRepository
	carts repositories.CartRepository
}

func NewAuthService(users repositories.UserRepository, carts repositories.CartRepository) *AuthService {
	return &AuthService{users: users, carts: carts}
}

// AuthResult is what register and login hand back to the controller.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account, merges any guest cart the client carried,
// and issues a token. Duplicate emails surface as a conflict.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string, guestCart []models.CartItem) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "password hash failed", err)
	}

	user := &models.User{
		Email:       email,
		Password:    hash,
		DisplayName: displayName,
		Role:        auth.RoleUser,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.mergeGuestCart(ctx, user.ID, guestCart)

	event.FireAsync(EventUserRegistered, user)

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "token issue failed", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both come back as the same auth error.
func (s *AuthService) Login(ctx context.Context, email, password string, guestCart []models.CartItem) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindAuth, "Invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.KindAuth, "Invalid credentials")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperr.New(apperr.KindAuth, "Invalid credentials")
	}

	s.mergeGuestCart(ctx, user.ID, guestCart)

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "token issue failed", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me returns the account behind a token's user id.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// mergeGuestCart folds the client's guest cart into the server cart.
// A merge failure must not block login, so it only logs.
func (s *AuthService) mergeGuestCart(ctx context.Context, userID primitive.ObjectID, guest []models.CartItem) {
	if len(guest) == 0 {
		return
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Warn("guest cart merge skipped", "user_id", userID.Hex(), "error", err)
		return
	}
	cart.Items = models.MergeItems(guest, cart.Items)
	if err := s.carts.Save(ctx, cart); err != nil {
		logger.Warn("guest cart merge save failed", "user_id", userID.Hex(), "error", err)
	}
}
