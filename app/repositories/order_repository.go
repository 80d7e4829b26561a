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

// ErrDuplicateOrderNumber signals a unique-index collision on
// order_number. The order service regenerates the number and retries.
var ErrDuplicateOrderNumber = errors.New("repositories: duplicate order number")

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	OrderCount int64   `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// OrderRepository is the data-access surface for order documents.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	Recent(ctx context.Context, n int) ([]models.Order, error)
	Stats(ctx context.Context) (DashboardStats, error)
}

type mongoOrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository returns the mongo-backed order repository.
func NewOrderRepository() OrderRepository {
	return &mongoOrderRepository{col: database.Collection("orders")}
}

func (r *mongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// Insert persists a new order. A unique-index violation on order_number
// surfaces as ErrDuplicateOrderNumber so the caller can regenerate.
func (r *mongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveMongoOp("orders", "insert", time.Now())

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if database.IsDup(err) {
		return ErrDuplicateOrderNumber
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "order insert failed", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find", time.Now())

	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order lookup failed", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find", time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order list failed", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order decode failed", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) All(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	defer metrics.ObserveMongoOp("orders", "find", time.Now())

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "order count failed", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "order list failed", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "order decode failed", err)
	}
	return orders, total, nil
}

// UpdateStatus persists only the status and transition timestamps; the
// item snapshot and money amounts stay frozen.
func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveMongoOp("orders", "update", time.Now())

	order.UpdatedAt = time.Now()
	set := bson.M{
		"status":     order.Status,
		"updated_at": order.UpdatedAt,
	}
	if order.PaidAt != nil {
		set["paid_at"] = order.PaidAt
	}
	if order.DeliveredAt != nil {
		set["delivered_at"] = order.DeliveredAt
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": set})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "order status update failed", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Order")
	}
	return nil
}

func (r *mongoOrderRepository) Recent(ctx context.Context, n int) ([]models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find", time.Now())

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order list failed", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "order decode failed", err)
	}
	return orders, nil
}

// Stats aggregates order count and total revenue, excluding cancelled
// orders from revenue.
func (r *mongoOrderRepository) Stats(ctx context.Context) (DashboardStats, error) {
	defer metrics.ObserveMongoOp("orders", "aggregate", time.Now())

	var stats DashboardStats

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, apperr.Wrap(apperr.KindInternal, "order count failed", err)
	}
	stats.OrderCount = total

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": models.StatusCancelled}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, apperr.Wrap(apperr.KindInternal, "revenue aggregation failed", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return stats, apperr.Wrap(apperr.KindInternal, "revenue decode failed", err)
	}
	if len(out) > 0 {
		stats.Revenue = out[0].Revenue
	}
	return stats, nil
}
