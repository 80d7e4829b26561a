package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
)

// AdminService backs the admin user management and dashboard endpoints.
type AdminService struct {
	users  repositories.UserRepository
	games  repositories.GameRepository
	orders repositories.OrderRepository
}

func NewAdminService(users repositories.UserRepository, games repositories.GameRepository, orders repositories.OrderRepository) *AdminService {
	return &AdminService{users: users, games: games, orders: orders}
}

// Users lists accounts for the admin panel.
func (s *AdminService) Users(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.users.All(ctx, page, limit)
}

// AdminUserInput is the slice of an account an admin may edit.
type AdminUserInput struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Role        string `json:"role" validate:"required,in=user,admin"`
	IsActive    bool   `json:"is_active"`
}

// UpdateUser lets an admin change role, active flag, and display name.
func (s *AdminService) UpdateUser(ctx context.Context, id primitive.ObjectID, in AdminUserInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.DisplayName = in.DisplayName
	user.Role = in.Role
	user.IsActive = in.IsActive

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. The caller cannot delete themselves;
// that guard keeps at least the acting admin alive.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id primitive.ObjectID) error {
	if actorID == id {
		return apperr.New(apperr.KindValidation, "You cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// Dashboard aggregates the numbers the admin landing page shows.
type Dashboard struct {
	UserCount  int64          `json:"user_count"`
	GameCount  int64          `json:"game_count"`
	OrderCount int64          `json:"order_count"`
	Revenue    float64        `json:"revenue"`
	Recent     []models.Order `json:"recent_orders"`
}

// DashboardData collects counts, revenue, and the latest orders.
func (s *AdminService) DashboardData(ctx context.Context) (*Dashboard, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.games.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Order{}
	}

	return &Dashboard{
		UserCount:  users,
		GameCount:  games,
		OrderCount: stats.OrderCount,
		Revenue:    stats.Revenue,
		Recent:     recent,
	}, nil
}
