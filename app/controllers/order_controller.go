package controllers

import (
	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
	"github.com/gametribe/backend/pkg/validate"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type checkoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,in=creditCard,paypal"`
}

// Store places an order from the caller's cart. The cart must not be
// empty; totals are frozen into the order at this point.
func (oc *OrderController) Store(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if !c.BindJSON(&req) {
		return
	}
	// The nested address carries its own tags; validate it separately
	// since tag validation does not recurse.
	if errs := validate.Struct(&req.ShippingAddress); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return
	}

	order, err := oc.orders.Place(c.Context(), userID, services.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		c.AppError(err)
		return
	}

	created(c, resources.OrderResource{}, *order)
}

// Index lists the caller's own orders, newest first.
func (oc *OrderController) Index(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := oc.orders.ListForUser(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.CollectionOf(resources.OrderResource{}, orders).Respond(c.W)
}

// Show returns one of the caller's orders. An order belonging to
// another user is indistinguishable from a missing one.
func (oc *OrderController) Show(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := oc.orders.GetForUser(c.Context(), userID, orderID)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.OrderResource{}, *order).Respond(c.W)
}
