package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/config"
	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/database"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the initial admin account unless one already
// exists. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context) error {
	col := database.Collection("users")

	email := config.Get("ADMIN_EMAIL", "admin@gametribe.shop")
	n, err := col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword(
		[]byte(config.Get("ADMIN_PASSWORD", "change-me-now")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = col.InsertOne(ctx, models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: "Store Admin",
		Role:        auth.RoleAdmin,
		IsActive:    true,
		Favorites:   []primitive.ObjectID{},
		MemberSince: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return err
}
