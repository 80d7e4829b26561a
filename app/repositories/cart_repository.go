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

// CartRepository is the data-access surface for cart documents. One
// document per user; GetOrCreate materialises the cart lazily.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type mongoCartRepository struct {
	col *mongo.Collection
}

// NewCartRepository returns the mongo-backed cart repository.
func NewCartRepository() CartRepository {
	return &mongoCartRepository{col: database.Collection("carts")}
}

func (r *mongoCartRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoCartRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	defer metrics.ObserveMongoOp("carts", "find", time.Now())

	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Wrap(apperr.KindInternal, "cart lookup failed", err)
	}

	now := time.Now()
	cart = models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.col.InsertOne(ctx, cart)
	if database.IsDup(err) {
		// Concurrent create for the same user; fetch the winner.
		if err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "cart lookup failed", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "cart create failed", err)
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return &cart, nil
}

// Save persists the full item list. Cart writes are last-write-wins.
func (r *mongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	defer metrics.ObserveMongoOp("carts", "update", time.Now())

	cart.UpdatedAt = time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{
			"items":      cart.Items,
			"updated_at": cart.UpdatedAt,
		}},
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "cart save failed", err)
	}
	return nil
}
