package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/cache"
	"github.com/gametribe/backend/pkg/metrics"
	"github.com/gametribe/backend/pkg/storage"
)

const (
	catalogCacheTTL   = 5 * time.Minute
	catalogCacheScope = "catalog:"
)

// CatalogService serves game reads through the Redis cache and handles
// the admin mutations that invalidate it.
type CatalogService struct {
	games repositories.GameRepository
}

func NewCatalogService(games repositories.GameRepository) *CatalogService {
	return &CatalogService{games: games}
}

// GameList is one cached page of the catalog.
type GameList struct {
	Games []models.Game `json:"games"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func listCacheKey(q repositories.GameQuery) string {
	featured := ""
	if q.Featured != nil {
		featured = fmt.Sprintf("%t", *q.Featured)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%d:%d",
		catalogCacheScope, q.Search, q.Genre, featured, q.Sort, q.Page, q.Limit)
}

// List returns one catalog page, cache-first.
func (s *CatalogService) List(ctx context.Context, q repositories.GameQuery) (*GameList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Genre != "" && !models.ValidGenre(q.Genre) {
		return nil, apperr.Validation(map[string]string{
			"genre": "Unknown genre.",
		})
	}

	var cached GameList
	if cache.Get(listCacheKey(q), &cached) {
		metrics.CacheHits.Inc()
		return &cached, nil
	}
	metrics.CacheMisses.Inc()

	games, total, err := s.games.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []models.Game{}
	}

	list := &GameList{Games: games, Total: total, Page: q.Page, Limit: q.Limit}
	_ = cache.Set(listCacheKey(q), list, catalogCacheTTL)
	return list, nil
}

// Get returns one game, cache-first.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	key := catalogCacheScope + "game:" + id.Hex()

	var cached models.Game
	if cache.Get(key, &cached) {
		metrics.CacheHits.Inc()
		return &cached, nil
	}
	metrics.CacheMisses.Inc()

	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(key, game, catalogCacheTTL)
	return game, nil
}

// GameInput is the admin create/update payload.
type GameInput struct {
	Name        string    `json:"name" validate:"required,min=1"`
	Description string    `json:"description" validate:"required"`
	Price       float64   `json:"price" validate:"numeric,gte=0"`
	Genres      []string  `json:"genres"`
	Featured    bool      `json:"featured"`
	ReleaseDate time.Time `json:"release_date"`
}

func (in GameInput) genresError() map[string]string {
	for _, g := range in.Genres {
		if !models.ValidGenre(g) {
			return map[string]string{"genres": "Unknown genre: " + g}
		}
	}
	return nil
}

// Create adds a catalog entry and invalidates the listing cache.
func (s *CatalogService) Create(ctx context.Context, in GameInput) (*models.Game, error) {
	if errs := in.genresError(); errs != nil {
		return nil, apperr.Validation(errs)
	}

	game := &models.Game{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Genres:      in.Genres,
		Featured:    in.Featured,
		ReleaseDate: in.ReleaseDate,
	}
	if err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}
	s.invalidate(game.ID)
	return game, nil
}

// Update edits a catalog entry and invalidates its caches. Existing cart
// lines and order snapshots keep their captured values.
func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, in GameInput) (*models.Game, error) {
	if errs := in.genresError(); errs != nil {
		return nil, apperr.Validation(errs)
	}

	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	game.Name = strings.TrimSpace(in.Name)
	game.Description = in.Description
	game.Price = in.Price
	game.Genres = in.Genres
	game.Featured = in.Featured
	game.ReleaseDate = in.ReleaseDate

	if err := s.games.Update(ctx, game); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return game, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// UploadImage stores a cover image through the storage manager and
// records its public URL on the game.
func (s *CatalogService) UploadImage(ctx context.Context, id primitive.ObjectID, filename string, data []byte) (*models.Game, error) {
	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, apperr.Validation(map[string]string{
			"image": "The image must be a jpg, png, or webp file.",
		})
	}

	key := "covers/" + id.Hex() + ext
	if err := storage.Put(key, data); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "image upload failed", err)
	}

	game.Image = storage.URL(key)
	if err := s.games.Update(ctx, game); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return game, nil
}

func (s *CatalogService) invalidate(id primitive.ObjectID) {
	_ = cache.Del(catalogCacheScope + "game:" + id.Hex())
	_ = cache.DelPattern(catalogCacheScope + "list:*")
}
