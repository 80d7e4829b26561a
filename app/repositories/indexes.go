package repositories

import (
	"context"
	"fmt"

	"github.com/gametribe/backend/pkg/database"
)

// EnsureIndexes creates every unique and query index the repositories
// rely on. Called once at boot, after the mongo connection is up.
func EnsureIndexes(ctx context.Context) error {
	all := []interface {
		EnsureIndexes(context.Context) error
	}{
		&mongoUserRepository{col: database.Collection("users")},
		&mongoGameRepository{col: database.Collection("games")},
		&mongoCartRepository{col: database.Collection("carts")},
		&mongoOrderRepository{col: database.Collection("orders")},
	}

	for _, r := range all {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("repositories: ensure indexes: %w", err)
		}
	}
	return nil
}
