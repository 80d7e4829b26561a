package services_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
)

// In-memory repository fakes. They honor the same error contracts as the
// mongo implementations so the services cannot tell them apart.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.New(apperr.KindConflict, "Email already registered")
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) All(_ context.Context, _, _ int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) IncrementGamesOwned(_ context.Context, id primitive.ObjectID, by int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.GamesOwned += by
	}
	return nil
}

func (f *fakeUserRepo) AddFavorite(_ context.Context, id, gameID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	if !u.HasFavorite(gameID) {
		u.Favorites = append(u.Favorites, gameID)
	}
	return nil
}

func (f *fakeUserRepo) RemoveFavorite(_ context.Context, id, gameID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	for i, fav := range u.Favorites {
		if fav == gameID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

type fakeGameRepo struct {
	mu    sync.Mutex
	games map[primitive.ObjectID]*models.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[primitive.ObjectID]*models.Game{}}
}

func (f *fakeGameRepo) put(g models.Game) models.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	cp := g
	f.games[g.ID] = &cp
	return g
}

func (f *fakeGameRepo) Find(_ context.Context, _ repositories.GameQuery) ([]models.Game, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Game
	for _, g := range f.games {
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (f *fakeGameRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.games[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, apperr.NotFound("Game")
}

func (f *fakeGameRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Game
	for _, id := range ids {
		if g, ok := f.games[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) Create(_ context.Context, game *models.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.Name == game.Name {
			return apperr.New(apperr.KindConflict, "A game with that name already exists")
		}
	}
	game.ID = primitive.NewObjectID()
	cp := *game
	f.games[game.ID] = &cp
	return nil
}

func (f *fakeGameRepo) Update(_ context.Context, game *models.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.games[game.ID]; !ok {
		return apperr.NotFound("Game")
	}
	cp := *game
	f.games[game.ID] = &cp
	return nil
}

func (f *fakeGameRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.games[id]; !ok {
		return apperr.NotFound("Game")
	}
	delete(f.games, id)
	return nil
}

func (f *fakeGameRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.games)), nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart
	// saveErr, when set, makes Save fail. Used to test fail-closed paths.
	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCartRepo) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[userID]; ok {
		cp := *c
		cp.Items = append([]models.CartItem(nil), c.Items...)
		return &cp, nil
	}
	c := &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items:  []models.CartItem{},
	}
	f.carts[userID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeCartRepo) Save(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	f.carts[cart.UserID] = &cp
	return nil
}

// items reads the persisted cart lines for assertions.
func (f *fakeCartRepo) items(userID primitive.ObjectID) []models.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[userID]; ok {
		return append([]models.CartItem(nil), c.Items...)
	}
	return nil
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[primitive.ObjectID]*models.Order
	numbers map[string]bool
	// dupRemaining forces the next n inserts to report a number collision.
	dupRemaining int
	insertErr    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  map[primitive.ObjectID]*models.Order{},
		numbers: map[string]bool{},
	}
}

func (f *fakeOrderRepo) Insert(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.dupRemaining > 0 {
		f.dupRemaining--
		return repositories.ErrDuplicateOrderNumber
	}
	if f.numbers[order.OrderNumber] {
		return repositories.ErrDuplicateOrderNumber
	}
	order.ID = primitive.NewObjectID()
	f.numbers[order.OrderNumber] = true
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, apperr.NotFound("Order")
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) All(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[order.ID]
	if !ok {
		return apperr.NotFound("Order")
	}
	stored.Status = order.Status
	stored.PaidAt = order.PaidAt
	stored.DeliveredAt = order.DeliveredAt
	return nil
}

func (f *fakeOrderRepo) Recent(_ context.Context, n int) ([]models.Order, error) {
	orders, _, err := f.All(context.Background(), 1, n)
	return orders, err
}

func (f *fakeOrderRepo) Stats(_ context.Context) (repositories.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := repositories.DashboardStats{OrderCount: int64(len(f.orders))}
	for _, o := range f.orders {
		if o.Status != models.StatusCancelled {
			stats.Revenue += o.Total
		}
	}
	return stats, nil
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}
