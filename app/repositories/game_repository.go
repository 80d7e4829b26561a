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

// GameQuery describes a catalog listing request.
type GameQuery struct {
	Search   string
	Genre    string
	Featured *bool
	Sort     string // "price_asc" | "price_desc" | "name" | "" (newest first)
	Page     int
	Limit    int
}

// GameRepository is the data-access surface for catalog documents.
type GameRepository interface {
	Find(ctx context.Context, q GameQuery) ([]models.Game, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type mongoGameRepository struct {
	col *mongo.Collection
}

// NewGameRepository returns the mongo-backed game repository.
func NewGameRepository() GameRepository {
	return &mongoGameRepository{col: database.Collection("games")}
}

func (r *mongoGameRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "genres", Value: 1}}},
	})
	return err
}

func (q GameQuery) filter() bson.M {
	filter := bson.M{}
	if q.Search != "" {
		// Case-insensitive substring match on name or description.
		re := primitive.Regex{Pattern: regexQuote(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if q.Genre != "" {
		filter["genres"] = q.Genre
	}
	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}
	return filter
}

func (q GameQuery) sort() bson.D {
	switch q.Sort {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// regexQuote escapes regex metacharacters so search input is treated
// literally.
func regexQuote(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (r *mongoGameRepository) Find(ctx context.Context, q GameQuery) ([]models.Game, int64, error) {
	defer metrics.ObserveMongoOp("games", "find", time.Now())

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	filter := q.filter()
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "game count failed", err)
	}

	opts := options.Find().
		SetSort(q.sort()).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "game list failed", err)
	}
	defer cur.Close(ctx)

	var games []models.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "game decode failed", err)
	}
	return games, total, nil
}

func (r *mongoGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	defer metrics.ObserveMongoOp("games", "find", time.Now())

	var g models.Game
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Game")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "game lookup failed", err)
	}
	return &g, nil
}

func (r *mongoGameRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	defer metrics.ObserveMongoOp("games", "find", time.Now())

	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "game list failed", err)
	}
	defer cur.Close(ctx)

	var games []models.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "game decode failed", err)
	}
	return games, nil
}

func (r *mongoGameRepository) Create(ctx context.Context, game *models.Game) error {
	defer metrics.ObserveMongoOp("games", "insert", time.Now())

	now := time.Now()
	game.CreatedAt = now
	game.UpdatedAt = now
	if game.Genres == nil {
		game.Genres = []string{}
	}

	res, err := r.col.InsertOne(ctx, game)
	if database.IsDup(err) {
		return apperr.New(apperr.KindConflict, "A game with that name already exists")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "game insert failed", err)
	}
	game.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoGameRepository) Update(ctx context.Context, game *models.Game) error {
	defer metrics.ObserveMongoOp("games", "update", time.Now())

	game.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if database.IsDup(err) {
		return apperr.New(apperr.KindConflict, "A game with that name already exists")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "game update failed", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Game")
	}
	return nil
}

func (r *mongoGameRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveMongoOp("games", "delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "game delete failed", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Game")
	}
	return nil
}

func (r *mongoGameRepository) Count(ctx context.Context) (int64, error) {
	defer metrics.ObserveMongoOp("games", "count", time.Now())

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "game count failed", err)
	}
	return total, nil
}
