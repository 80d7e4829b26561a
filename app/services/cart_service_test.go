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

func newCartFixture() (*services.CartService, *fakeCartRepo, *fakeGameRepo) {
	carts := newFakeCartRepo()
	games := newFakeGameRepo()
	return services.NewCartService(carts, games), carts, games
}

func TestCartAddPersistsDenormalizedLine(t *testing.T) {
	svc, carts, games := newCartFixture()
	userID := primitive.NewObjectID()
	g := games.put(models.Game{Name: "Stardew Valley", Price: 13.99, Image: "covers/sdv.png"})

	v, err := svc.Add(context.Background(), userID, g.ID, 2)
	require.NoError(t, err)

	require.Len(t, v.Cart.Items, 1)
	assert.Equal(t, 2, v.Totals.ItemCount)

	stored := carts.items(userID)
	require.Len(t, stored, 1)
	assert.Equal(t, "Stardew Valley", stored[0].Name)
	assert.Equal(t, 13.99, stored[0].Price)
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, games := newCartFixture()
	g := games.put(models.Game{Name: "A", Price: 10})

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), g.ID, 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCartAddUnknownGame(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	svc, carts, games := newCartFixture()
	userID := primitive.NewObjectID()
	g := games.put(models.Game{Name: "A", Price: 10})

	_, err := svc.Add(context.Background(), userID, g.ID, 3)
	require.NoError(t, err)

	v, err := svc.SetQuantity(context.Background(), userID, g.ID, 0)
	require.NoError(t, err)

	assert.Empty(t, v.Cart.Items)
	assert.Empty(t, carts.items(userID))
}

func TestCartClearKeepsDocument(t *testing.T) {
	svc, _, games := newCartFixture()
	userID := primitive.NewObjectID()
	g := games.put(models.Game{Name: "A", Price: 10})

	_, err := svc.Add(context.Background(), userID, g.ID, 1)
	require.NoError(t, err)

	v, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, v.Cart.Items)
	assert.False(t, v.Cart.ID.IsZero())
}

func TestCartMerge(t *testing.T) {
	svc, _, games := newCartFixture()
	userID := primitive.NewObjectID()
	g := games.put(models.Game{Name: "A", Price: 10})

	_, err := svc.Add(context.Background(), userID, g.ID, 1)
	require.NoError(t, err)

	guest := []models.CartItem{
		{GameID: g.ID, Name: "A", Price: 10, Quantity: 2},
		{GameID: primitive.NewObjectID(), Name: "B", Price: 5, Quantity: 1},
	}
	v, err := svc.Merge(context.Background(), userID, guest)
	require.NoError(t, err)

	require.Len(t, v.Cart.Items, 2)
	assert.Equal(t, 4, v.Totals.ItemCount)
}
