package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func respondCart(c *ctx.Context, v *services.CartView) {
	resource.New(resources.CartResource{}, v).Respond(c.W)
}

// Show returns the caller's cart with computed totals.
func (cc *CartController) Show(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	v, err := cc.carts.Get(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}

type addItemRequest struct {
	GameID   string `json:"game_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,integer,gte=1"`
}

// Add puts a game in the cart, or grows its quantity if already there.
func (cc *CartController) Add(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req addItemRequest
	if !c.BindJSON(&req) {
		return
	}

	gameID, err := primitive.ObjectIDFromHex(req.GameID)
	if err != nil {
		c.ValidationError(map[string]string{"game_id": "The game_id must be a valid id."})
		return
	}

	v, err := cc.carts.Add(c.Context(), userID, gameID, req.Quantity)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"integer,gte=0"`
}

// UpdateQuantity sets the quantity for one line. Zero removes it.
func (cc *CartController) UpdateQuantity(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "gameId")
	if !ok {
		return
	}

	var req quantityRequest
	if !c.BindJSON(&req) {
		return
	}

	v, err := cc.carts.SetQuantity(c.Context(), userID, gameID, req.Quantity)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}

// Remove drops one line from the cart.
func (cc *CartController) Remove(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "gameId")
	if !ok {
		return
	}

	v, err := cc.carts.Remove(c.Context(), userID, gameID)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}

// Clear empties the cart. The document survives for the next add.
func (cc *CartController) Clear(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	v, err := cc.carts.Clear(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}

type mergeRequest struct {
	Items []models.CartItem `json:"items"`
}

// Merge folds a guest cart into the server cart. Quantities sum for
// games present in both.
func (cc *CartController) Merge(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req mergeRequest
	if !c.BindJSON(&req) {
		return
	}

	v, err := cc.carts.Merge(c.Context(), userID, req.Items)
	if err != nil {
		c.AppError(err)
		return
	}
	respondCart(c, v)
}
