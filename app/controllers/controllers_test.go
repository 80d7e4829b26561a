package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/controllers"
	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/app/routes"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/router"
	"github.com/gametribe/backend/pkg/ws"
)

// Minimal in-memory repositories; only the methods the exercised
// endpoints reach are meaningful.

type memGames struct {
	mu    sync.Mutex
	games map[primitive.ObjectID]models.Game
}

func (m *memGames) Find(_ context.Context, _ repositories.GameQuery) ([]models.Game, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Game
	for _, g := range m.games {
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (m *memGames) FindByID(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		return &g, nil
	}
	return nil, apperr.NotFound("Game")
}

func (m *memGames) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Game
	for _, id := range ids {
		if g, ok := m.games[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGames) Create(_ context.Context, g *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = primitive.NewObjectID()
	m.games[g.ID] = *g
	return nil
}

func (m *memGames) Update(_ context.Context, g *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = *g
	return nil
}

func (m *memGames) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memGames) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.games)), nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart
}

func (m *memCarts) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[userID]; ok {
		cp := *c
		cp.Items = append([]models.CartItem(nil), c.Items...)
		return &cp, nil
	}
	c := &models.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: []models.CartItem{}}
	m.carts[userID] = c
	cp := *c
	return &cp, nil
}

func (m *memCarts) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &cp
	return nil
}

func (m *memCarts) items(userID primitive.ObjectID) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[userID]; ok {
		return append([]models.CartItem(nil), c.Items...)
	}
	return nil
}

type testEnv struct {
	handler http.Handler
	games   *memGames
	carts   *memCarts
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	games := &memGames{games: map[primitive.ObjectID]models.Game{}}
	carts := &memCarts{carts: map[primitive.ObjectID]*models.Cart{}}

	catalogSvc := services.NewCatalogService(games)
	cartSvc := services.NewCartService(carts, games)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Auth:      controllers.NewAuthController(nil),
		Games:     controllers.NewGameController(catalogSvc),
		Cart:      controllers.NewCartController(cartSvc),
		Orders:    controllers.NewOrderController(nil),
		Users:     controllers.NewUserController(nil),
		Admin:     controllers.NewAdminController(nil, nil),
		GraphQL:   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		OrdersHub: ws.NewHub(),
	})
	return &testEnv{handler: r.Handler(), games: games, carts: carts}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestCartMutationWithoutTokenIs401(t *testing.T) {
	env := newEnv(t)
	g := models.Game{Name: "A", Price: 10}
	require.NoError(t, env.games.Create(context.Background(), &g))

	rec := env.do(t, http.MethodPost, "/api/cart", "",
		map[string]any{"game_id": g.ID.Hex(), "quantity": 1})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// No cart was created or touched.
	assert.Empty(t, env.carts.carts)
}

func TestCartMutationWithGarbageTokenIs401(t *testing.T) {
	env := newEnv(t)

	rec := env.do(t, http.MethodPost, "/api/cart", "not-a-jwt",
		map[string]any{"game_id": primitive.NewObjectID().Hex(), "quantity": 1})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.carts.carts)
}

func TestCartAddRoundTrip(t *testing.T) {
	env := newEnv(t)
	g := models.Game{Name: "Stardew Valley", Price: 13.99}
	require.NoError(t, env.games.Create(context.Background(), &g))

	userID := primitive.NewObjectID()
	token, err := auth.GenerateToken(userID.Hex(), auth.RoleUser)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/cart", token,
		map[string]any{"game_id": g.ID.Hex(), "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			Subtotal  float64 `json:"subtotal"`
			ItemCount int     `json:"item_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.InDelta(t, 27.98, out.Data.Subtotal, 1e-9)
	assert.Equal(t, 2, out.Data.ItemCount)

	items := env.carts.items(userID)
	require.Len(t, items, 1)
	assert.Equal(t, "Stardew Valley", items[0].Name)
}

func TestCartAddRejectsZeroQuantityWith422(t *testing.T) {
	env := newEnv(t)
	g := models.Game{Name: "A", Price: 10}
	require.NoError(t, env.games.Create(context.Background(), &g))

	token, err := auth.GenerateToken(primitive.NewObjectID().Hex(), auth.RoleUser)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/cart", token,
		map[string]any{"game_id": g.ID.Hex(), "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminRouteForbiddenForUserRole(t *testing.T) {
	env := newEnv(t)
	token, err := auth.GenerateToken(primitive.NewObjectID().Hex(), auth.RoleUser)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/games", token,
		map[string]any{"name": "X", "description": "Y", "price": 1.0})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCanCreateGame(t *testing.T) {
	env := newEnv(t)
	token, err := auth.GenerateToken(primitive.NewObjectID().Hex(), auth.RoleAdmin)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/games", token, map[string]any{
		"name":        "Neon Drift Racer",
		"description": "Arcade racing",
		"price":       29.99,
		"genres":      []string{"racing"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	n, err := env.games.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPublicCatalogShow(t *testing.T) {
	env := newEnv(t)
	g := models.Game{Name: "Silent Ward", Price: 34.99}
	require.NoError(t, env.games.Create(context.Background(), &g))

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/games/%s", g.ID.Hex()), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Silent Ward", out.Data.Name)
	assert.Equal(t, 34.99, out.Data.Price)
}

func TestUnknownGameIs404(t *testing.T) {
	env := newEnv(t)
	rec := env.do(t, http.MethodGet, "/api/games/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed ids look the same as misses.
	rec = env.do(t, http.MethodGet, "/api/games/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
