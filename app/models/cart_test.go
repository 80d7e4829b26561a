package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
)

func game(name string, price float64) models.Game {
	return models.Game{ID: primitive.NewObjectID(), Name: name, Price: price}
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	g := game("Hollow Knight", 14.99)
	cart := &models.Cart{}

	cart.AddItem(g, 1)
	cart.AddItem(g, 1)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Hollow Knight", cart.Items[0].Name)
}

func TestAddItemCapturesCatalogSnapshot(t *testing.T) {
	g := game("Celeste", 19.99)
	g.Image = "covers/celeste.png"
	cart := &models.Cart{}

	cart.AddItem(g, 1)

	assert.Equal(t, 19.99, cart.Items[0].Price)
	assert.Equal(t, "covers/celeste.png", cart.Items[0].Image)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	g1 := game("A", 10)
	g2 := game("B", 5)
	cart := &models.Cart{}
	cart.AddItem(g1, 2)
	cart.AddItem(g2, 1)

	cart.SetQuantity(g1.ID, 0)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, g2.ID, cart.Items[0].GameID)

	totals := cart.ComputeTotals()
	assert.Equal(t, 5.0, totals.Subtotal)
	assert.Equal(t, 1, totals.ItemCount)
}

func TestSetQuantityAbsentGameIsNoOp(t *testing.T) {
	g := game("A", 10)
	cart := &models.Cart{}
	cart.AddItem(g, 1)

	cart.SetQuantity(primitive.NewObjectID(), 5)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	cart := &models.Cart{}
	cart.RemoveItem(primitive.NewObjectID())
	assert.Empty(t, cart.Items)
}

func TestClearEmptiesItems(t *testing.T) {
	cart := &models.Cart{}
	cart.AddItem(game("A", 10), 3)

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ComputeTotals().ItemCount)
}

func TestTotals(t *testing.T) {
	cart := &models.Cart{}
	cart.AddItem(game("A", 10.00), 2)
	cart.AddItem(game("B", 5.50), 1)

	totals := cart.ComputeTotals()

	assert.InDelta(t, 25.50, totals.Subtotal, 1e-9)
	assert.InDelta(t, 2.04, totals.Tax, 1e-9)
	assert.InDelta(t, 27.54, totals.Total, 1e-9)
	assert.Equal(t, 3, totals.ItemCount)
}

func TestTotalsIdempotent(t *testing.T) {
	cart := &models.Cart{}
	cart.AddItem(game("A", 10.00), 2)

	first := cart.ComputeTotals()
	second := cart.ComputeTotals()

	assert.Equal(t, first, second)
}

func TestTotalsEmptyCart(t *testing.T) {
	cart := &models.Cart{}
	totals := cart.ComputeTotals()

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
	assert.Zero(t, totals.ItemCount)
}

func TestMergeItems(t *testing.T) {
	shared := primitive.NewObjectID()
	guestOnly := primitive.NewObjectID()
	serverOnly := primitive.NewObjectID()

	guest := []models.CartItem{
		{GameID: shared, Name: "Shared", Price: 10, Quantity: 2},
		{GameID: guestOnly, Name: "GuestOnly", Price: 5, Quantity: 1},
	}
	server := []models.CartItem{
		{GameID: shared, Name: "Shared", Price: 10, Quantity: 1},
		{GameID: serverOnly, Name: "ServerOnly", Price: 7, Quantity: 1},
	}

	merged := models.MergeItems(guest, server)

	require.Len(t, merged, 3)
	byID := map[primitive.ObjectID]models.CartItem{}
	for _, item := range merged {
		byID[item.GameID] = item
	}
	assert.Equal(t, 3, byID[shared].Quantity)
	assert.Equal(t, 1, byID[guestOnly].Quantity)
	assert.Equal(t, 1, byID[serverOnly].Quantity)
}

func TestMergeItemsDropsInvalidGuestLines(t *testing.T) {
	zero := primitive.NewObjectID()
	negative := primitive.NewObjectID()

	guest := []models.CartItem{
		{GameID: zero, Name: "Zero", Price: 10, Quantity: 0},
		{GameID: negative, Name: "Negative", Price: 10, Quantity: -3},
	}

	assert.Empty(t, models.MergeItems(guest, nil))
}

func TestMergeItemsNegativeGuestQuantityCannotDrainServerLine(t *testing.T) {
	shared := primitive.NewObjectID()

	guest := []models.CartItem{
		{GameID: shared, Name: "Shared", Price: 15, Quantity: -2},
		{GameID: primitive.NewObjectID(), Name: "Stolen", Price: -5, Quantity: 1},
	}
	server := []models.CartItem{
		{GameID: shared, Name: "Shared", Price: 15, Quantity: 2},
	}

	merged := models.MergeItems(guest, server)

	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Quantity)

	totals := models.ComputeTotals(merged)
	assert.InDelta(t, 30.00, totals.Subtotal, 1e-9)
	assert.Equal(t, 2, totals.ItemCount)
}

func TestMergeItemsDoesNotMutateInputs(t *testing.T) {
	shared := primitive.NewObjectID()
	guest := []models.CartItem{{GameID: shared, Quantity: 2}}
	server := []models.CartItem{{GameID: shared, Quantity: 1}}

	_ = models.MergeItems(guest, server)

	assert.Equal(t, 2, guest[0].Quantity)
	assert.Equal(t, 1, server[0].Quantity)
}
