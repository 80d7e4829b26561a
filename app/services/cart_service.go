package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
)

// CartService orchestrates the cart engine: it loads the document,
// applies the pure model operations, and saves the result.
// Cart writes are last-write-wins; concurrent mutations of the same cart
// are not serialized.
type CartService struct {
	carts repositories.CartRepository
	games repositories.GameRepository
}

func NewCartService(carts repositories.CartRepository, games repositories.GameRepository) *CartService {
	return &CartService{carts: carts, games: games}
}

// CartView pairs the cart with its derived totals.
type CartView struct {
	Cart   *models.Cart  `json:"cart"`
	Totals models.Totals `json:"totals"`
}

func view(cart *models.Cart) *CartView {
	return &CartView{Cart: cart, Totals: cart.ComputeTotals()}
}

// Get returns the user's cart, creating an empty one on first touch.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(cart), nil
}

// Add puts qty of a catalog game into the cart. The game's name, price,
// and image are captured now; later catalog edits do not touch the line.
func (s *CartService) Add(ctx context.Context, userID, gameID primitive.ObjectID, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, apperr.Validation(map[string]string{
			"quantity": "The quantity must be at least 1.",
		})
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(*game, qty)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
// A game id absent from the cart is a silent no-op.
func (s *CartService) SetQuantity(ctx context.Context, userID, gameID primitive.ObjectID, qty int) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(gameID, qty)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// Remove deletes a line.
func (s *CartService) Remove(ctx context.Context, userID, gameID primitive.ObjectID) (*CartView, error) {
	return s.SetQuantity(ctx, userID, gameID, 0)
}

// Clear empties the cart. The document stays behind for reuse.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// Merge folds a guest cart into the server cart and returns the result.
func (s *CartService) Merge(ctx context.Context, userID primitive.ObjectID, guest []models.CartItem) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = models.MergeItems(guest, cart.Items)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}
