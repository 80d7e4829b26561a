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
	"github.com/gametribe/backend/pkg/auth"
)

func newAuthFixture() (*services.AuthService, *fakeUserRepo, *fakeCartRepo) {
	users := newFakeUserRepo()
	carts := newFakeCartRepo()
	return services.NewAuthService(users, carts), users, carts
}

func TestRegisterIssuesValidToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	res, err := svc.Register(context.Background(), "Ada@Example.com", "s3cretpass", "Ada", nil)
	require.NoError(t, err)

	// Email is normalized to lower case.
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, auth.RoleUser, res.User.Role)
	assert.True(t, res.User.IsActive)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.Hex(), claims.UserID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "ada@example.com", "s3cretpass", "Ada", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ada@example.com", "otherpass1", "Ada Again", nil)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginWrongPasswordIsAuthError(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "ada@example.com", "s3cretpass", "Ada", nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrongpass", nil)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestLoginUnknownEmailIsAuthError(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever1", nil)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	svc, users, _ := newAuthFixture()
	res, err := svc.Register(context.Background(), "ada@example.com", "s3cretpass", "Ada", nil)
	require.NoError(t, err)

	res.User.IsActive = false
	require.NoError(t, users.Update(context.Background(), res.User))

	_, err = svc.Login(context.Background(), "ada@example.com", "s3cretpass", nil)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestLoginMergesGuestCart(t *testing.T) {
	svc, _, carts := newAuthFixture()
	res, err := svc.Register(context.Background(), "ada@example.com", "s3cretpass", "Ada", nil)
	require.NoError(t, err)

	// Server cart already holds one line.
	shared := primitive.NewObjectID()
	cart, err := carts.GetOrCreate(context.Background(), res.User.ID)
	require.NoError(t, err)
	cart.Items = []models.CartItem{{GameID: shared, Name: "Shared", Price: 10, Quantity: 1}}
	require.NoError(t, carts.Save(context.Background(), cart))

	guest := []models.CartItem{
		{GameID: shared, Name: "Shared", Price: 10, Quantity: 2},
		{GameID: primitive.NewObjectID(), Name: "GuestOnly", Price: 5, Quantity: 1},
	}
	_, err = svc.Login(context.Background(), "ada@example.com", "s3cretpass", guest)
	require.NoError(t, err)

	items := carts.items(res.User.ID)
	require.Len(t, items, 2)
	for _, item := range items {
		if item.GameID == shared {
			assert.Equal(t, 3, item.Quantity)
		}
	}
}
