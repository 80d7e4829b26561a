package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/pkg/apperr"
	"github.com/gametribe/backend/pkg/event"
	"github.com/gametribe/backend/pkg/logger"
	"github.com/gametribe/backend/pkg/metrics"
)

// orderNumberAttempts bounds regeneration on order-number collisions.
const orderNumberAttempts = 5

// OrderService owns checkout and the order status machine.
type OrderService struct {
	orders repositories.OrderRepository
	carts  repositories.CartRepository
	users  repositories.UserRepository
}

func NewOrderService(orders repositories.OrderRepository, carts repositories.CartRepository, users repositories.UserRepository) *OrderService {
	return &OrderService{orders: orders, carts: carts, users: users}
}

// CheckoutInput is the validated checkout payload.
type CheckoutInput struct {
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

// Place turns the user's cart into an order.
//
// The cart is cleared only after the order document is persisted; any
// failure before that leaves the cart untouched, so the user retries
// without re-adding items.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, in CheckoutInput) (*models.Order, error) {
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, apperr.Validation(map[string]string{
			"payment_method": "The payment method must be creditCard or paypal.",
		})
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.New(apperr.KindEmptyCart, "Cannot place an order with an empty cart")
	}

	// Snapshot items and totals; the order never reads the catalog again.
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	totals := models.ComputeTotals(items)

	now := time.Now()
	order := &models.Order{
		UserID:          userID,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Status:          models.StatusConfirmed,
		PaidAt:          &now,
	}

	if err := s.insertWithUniqueNumber(ctx, order); err != nil {
		return nil, err
	}

	// Order is durable from here; the remaining steps must not fail the
	// checkout.
	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		logger.Error("cart clear after checkout failed",
			"order_number", order.OrderNumber, "error", err)
	}
	if err := s.users.IncrementGamesOwned(ctx, userID, totals.ItemCount); err != nil {
		logger.Error("games_owned increment failed",
			"order_number", order.OrderNumber, "error", err)
	}

	metrics.OrdersPlaced.Inc()
	event.FireAsync(EventOrderPlaced, order)

	return order, nil
}

// insertWithUniqueNumber persists the order, regenerating the order
// number on unique-index collisions up to orderNumberAttempts times.
func (s *OrderService) insertWithUniqueNumber(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = models.NewOrderNumber()
		err := s.orders.Insert(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateOrderNumber) {
			return err
		}
		metrics.OrderNumberRetries.Inc()
	}
	return apperr.New(apperr.KindConflict, "Could not allocate an order number, please retry")
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// GetForUser returns one order, refusing to reveal other users' orders.
// A foreign order id reads as not found, not forbidden.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.NotFound("Order")
	}
	return order, nil
}

// All returns every order, paginated, for the admin view.
func (s *OrderService) All(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	return s.orders.All(ctx, page, limit)
}

// UpdateStatus moves an order through the status machine. Illegal
// transitions are validation errors; the item snapshot and totals are
// never touched.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.Validation(map[string]string{
			"status": "Unknown order status.",
		})
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, status) {
		return nil, apperr.Validation(map[string]string{
			"status": "Cannot move order from " + order.Status + " to " + status + ".",
		})
	}

	order.Status = status
	now := time.Now()
	switch status {
	case models.StatusConfirmed:
		order.PaidAt = &now
	case models.StatusDelivered:
		order.DeliveredAt = &now
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}
