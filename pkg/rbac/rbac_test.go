package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/middleware"
	"github.com/gametribe/backend/pkg/rbac"
)

func serveGuest(t *testing.T, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	h := rbac.Guest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, reached
}

func TestGuestAllowsAnonymousCaller(t *testing.T) {
	rec, reached := serveGuest(t, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestGuestAllowsGarbageToken(t *testing.T) {
	rec, reached := serveGuest(t, "not-a-jwt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestGuestRejectsValidTokenWithoutAuthChain(t *testing.T) {
	token, err := auth.GenerateToken("user-1", auth.RoleUser)
	require.NoError(t, err)

	rec, reached := serveGuest(t, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, reached)
}

func TestHasRoleForbidsMissingRole(t *testing.T) {
	token, err := auth.GenerateToken("user-1", auth.RoleUser)
	require.NoError(t, err)

	h := middleware.Auth(rbac.HasRole(auth.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
