package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaxRate is the flat rate applied to every cart subtotal.
const TaxRate = 0.08

// CartItem is one line in a cart. Name, price, and image are captured
// from the catalog at add-time so the line survives later catalog edits.
type CartItem struct {
	GameID   primitive.ObjectID `bson:"game" json:"game_id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image,omitempty" json:"image"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is a user's open cart. One document per user (unique index on
// user); it is created lazily and cleared, never deleted, at checkout.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user_id"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Totals holds the derived money amounts for a cart or an order. Values
// keep full float64 precision; rounding happens in the resource layer.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// AddItem merges a game into the cart: if the game is already present
// its quantity grows by qty, otherwise a new denormalized line is
// appended. qty must already be validated > 0.
func (c *Cart) AddItem(game Game, qty int) {
	for i := range c.Items {
		if c.Items[i].GameID == game.ID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		GameID:   game.ID,
		Name:     game.Name,
		Price:    game.Price,
		Image:    game.Image,
		Quantity: qty,
	})
}

// SetQuantity replaces the quantity for the given game. A quantity
// below 1 removes the line; an absent game id is a silent no-op.
func (c *Cart) SetQuantity(gameID primitive.ObjectID, qty int) {
	for i := range c.Items {
		if c.Items[i].GameID == gameID {
			if qty < 1 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = qty
			}
			return
		}
	}
}

// RemoveItem deletes the line for gameID. No-op when absent.
func (c *Cart) RemoveItem(gameID primitive.ObjectID) {
	c.SetQuantity(gameID, 0)
}

// Clear empties the cart. The document itself persists.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// ComputeTotals derives subtotal, tax, total, and item count from the
// current lines. Pure and idempotent.
func (c *Cart) ComputeTotals() Totals {
	return ComputeTotals(c.Items)
}

// ComputeTotals derives the money amounts for any item list.
func ComputeTotals(items []CartItem) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Price * float64(item.Quantity)
		t.ItemCount += item.Quantity
	}
	t.Tax = t.Subtotal * TaxRate
	t.Total = t.Subtotal + t.Tax
	return t
}

// MergeItems combines a guest cart with the server cart: quantities sum
// for games present in both, guest-only lines are appended in order.
// Guest lines come straight from the client, so lines that would break
// the quantity >= 1 invariant or carry a negative price are dropped.
// Pure function; neither input is mutated.
func MergeItems(guest, server []CartItem) []CartItem {
	merged := make([]CartItem, len(server))
	copy(merged, server)

	for _, g := range guest {
		if g.Quantity < 1 || g.Price < 0 {
			continue
		}
		found := false
		for i := range merged {
			if merged[i].GameID == g.GameID {
				merged[i].Quantity += g.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, g)
		}
	}
	return merged
}
