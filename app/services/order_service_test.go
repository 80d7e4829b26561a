package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/apperr"
)

func shipping() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Address:    "12 Analytical Way",
		City:       "London",
		State:      "LDN",
		PostalCode: "E1 6AN",
	}
}

type orderFixture struct {
	svc    *services.OrderService
	orders *fakeOrderRepo
	carts  *fakeCartRepo
	users  *fakeUserRepo
	games  *fakeGameRepo
	cart   *services.CartService
	userID primitive.ObjectID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	orders := newFakeOrderRepo()
	carts := newFakeCartRepo()
	users := newFakeUserRepo()
	games := newFakeGameRepo()

	user := &models.User{Email: "ada@example.com", DisplayName: "Ada", Role: "user", IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))

	return &orderFixture{
		svc:    services.NewOrderService(orders, carts, users),
		orders: orders,
		carts:  carts,
		users:  users,
		games:  games,
		cart:   services.NewCartService(carts, games),
		userID: user.ID,
	}
}

func (f *orderFixture) fillCart(t *testing.T, price float64, qty int) models.Game {
	t.Helper()
	g := f.games.put(models.Game{Name: primitive.NewObjectID().Hex(), Price: price})
	_, err := f.cart.Add(context.Background(), f.userID, g.ID, qty)
	require.NoError(t, err)
	return g
}

func TestPlaceEmptyCartCreatesNoOrder(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})

	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))
	assert.Zero(t, f.orders.count())
}

func TestPlaceRejectsUnknownPaymentMethod(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)

	_, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   "bitcoin",
	})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, f.orders.count())
}

func TestPlaceSnapshotsTotalsAndClearsCart(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10.00, 2)
	f.fillCart(t, 5.50, 1)

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentPaypal,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.InDelta(t, 25.50, order.Subtotal, 1e-9)
	assert.InDelta(t, 2.04, order.Tax, 1e-9)
	assert.InDelta(t, 27.54, order.Total, 1e-9)
	assert.NotNil(t, order.PaidAt)
	assert.Regexp(t, `^GTE\d{8}-\d{4}$`, order.OrderNumber)

	// Cart cleared only after the insert succeeded.
	assert.Empty(t, f.carts.items(f.userID))

	// gamesOwned grew by the item count.
	u, err := f.users.FindByID(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.GamesOwned)
}

func TestPlaceTotalsFrozenAgainstCatalogEdits(t *testing.T) {
	f := newOrderFixture(t)
	g := f.fillCart(t, 10.00, 1)

	// Catalog price changes between add-to-cart and checkout.
	g.Price = 99.99
	f.games.put(g)

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)

	assert.InDelta(t, 10.00, order.Subtotal, 1e-9)
	assert.InDelta(t, 10.00, order.Items[0].Price, 1e-9)
}

func TestPlaceRetriesOrderNumberCollisions(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)
	f.orders.dupRemaining = 3

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestPlaceGivesUpAfterBoundedRetries(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)
	f.orders.dupRemaining = 5

	_, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPlaceInsertFailureLeavesCartIntact(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 2)
	f.orders.insertErr = apperr.New(apperr.KindInternal, "write failed")

	_, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.Error(t, err)

	items := f.carts.items(f.userID)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)

	_, err = f.svc.GetForUser(context.Background(), primitive.NewObjectID(), order.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	got, err := f.svc.GetForUser(context.Background(), f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestUpdateStatusFollowsMachine(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)

	// confirmed -> shipped -> delivered is legal.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)

	got, err := f.svc.UpdateStatus(context.Background(), order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, got.DeliveredAt)

	// delivered is terminal.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, 10, 1)

	order, err := f.svc.Place(context.Background(), f.userID, services.CheckoutInput{
		ShippingAddress: shipping(),
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "teleported")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
