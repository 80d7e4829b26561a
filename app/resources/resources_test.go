package resources_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.04, resources.Round2(2.0400000000000005))
	assert.Equal(t, 27.54, resources.Round2(27.540000000000003))
	assert.Equal(t, 0.1, resources.Round2(0.10000000000000002))
	assert.Equal(t, 10.0, resources.Round2(10))
}

func TestCartResourceRoundsMoneyAtTheEdge(t *testing.T) {
	items := []models.CartItem{
		{GameID: primitive.NewObjectID(), Name: "A", Price: 10.00, Quantity: 2},
		{GameID: primitive.NewObjectID(), Name: "B", Price: 5.50, Quantity: 1},
	}
	cart := &models.Cart{ID: primitive.NewObjectID(), Items: items, UpdatedAt: time.Now()}
	view := &services.CartView{Cart: cart, Totals: cart.ComputeTotals()}

	out := resources.CartResource{}.ToArray(view)

	assert.Equal(t, 25.50, out["subtotal"])
	assert.Equal(t, 2.04, out["tax"])
	assert.Equal(t, 27.54, out["total"])
	assert.Equal(t, 3, out["item_count"])
}

func TestOrderResourceKeepsFrozenAmounts(t *testing.T) {
	o := models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "GTE12345678-0042",
		UserID:      primitive.NewObjectID(),
		Subtotal:    25.5,
		Tax:         25.5 * models.TaxRate,
		Total:       25.5 * (1 + models.TaxRate),
		Status:      models.StatusConfirmed,
	}

	out := resources.OrderResource{}.ToArray(o)

	assert.Equal(t, "GTE12345678-0042", out["order_number"])
	assert.Equal(t, 2.04, out["tax"])
	assert.Equal(t, 27.54, out["total"])
}
