// Package repositories provides MongoDB data access. Each repository is
// an interface consumed by the services plus a mongo-driver
// implementation; the interfaces keep the service tests on in-memory
// fakes.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/database"
	"github.com/gametribe/backend/pkg/metrics"
)

// UserRepository is the data-access surface for user documents.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	All(ctx context.Context, page, limit int) ([]models.User, int64, error)
	IncrementGamesOwned(ctx context.Context, id primitive.ObjectID, by int) error
	AddFavorite(ctx context.Context, id, gameID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, id, gameID primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewUserRepository returns the mongo-backed user repository.
func NewUserRepository() UserRepository {
	return &mongoUserRepository{col: database.Collection("users")}
}

func (r *mongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer metrics.ObserveMongoOp("users", "find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "user lookup failed", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveMongoOp("users", "find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "user lookup failed", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveMongoOp("users", "insert", time.Now())

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.MemberSince.IsZero() {
		user.MemberSince = now
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}

	res, err := r.col.InsertOne(ctx, user)
	if database.IsDup(err) {
		return apperr.New(apperr.KindConflict, "Email already registered")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "user insert failed", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveMongoOp("users", "update", time.Now())

	user.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if database.IsDup(err) {
		return apperr.New(apperr.KindConflict, "Email already registered")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "user update failed", err)
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveMongoOp("users", "delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "user delete failed", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (r *mongoUserRepository) All(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	defer metrics.ObserveMongoOp("users", "find", time.Now())

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "user count failed", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "user list failed", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "user decode failed", err)
	}
	return users, total, nil
}

func (r *mongoUserRepository) IncrementGamesOwned(ctx context.Context, id primitive.ObjectID, by int) error {
	defer metrics.ObserveMongoOp("users", "update", time.Now())

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"games_owned": by},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "games_owned update failed", err)
	}
	return nil
}

func (r *mongoUserRepository) AddFavorite(ctx context.Context, id, gameID primitive.ObjectID) error {
	defer metrics.ObserveMongoOp("users", "update", time.Now())

	// $addToSet keeps the favorites list duplicate-free.
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"favorites": gameID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "favorite add failed", err)
	}
	return nil
}

func (r *mongoUserRepository) RemoveFavorite(ctx context.Context, id, gameID primitive.ObjectID) error {
	defer metrics.ObserveMongoOp("users", "update", time.Now())

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"favorites": gameID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "favorite remove failed", err)
	}
	return nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	defer metrics.ObserveMongoOp("users", "count", time.Now())

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "user count failed", err)
	}
	return total, nil
}
