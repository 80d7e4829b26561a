package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gametribe/backend/pkg/apperr"
)

func TestKindOf(t *testing.T) {
	err := apperr.New(apperr.KindEmptyCart, "cart is empty")
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))

	wrapped := fmt.Errorf("placing order: %w", err)
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(wrapped))

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("driver timeout")))
}

func TestIsMatchesByKind(t *testing.T) {
	err := apperr.NotFound("Game")
	assert.True(t, errors.Is(err, apperr.New(apperr.KindNotFound, "")))
	assert.False(t, errors.Is(err, apperr.New(apperr.KindConflict, "")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation: http.StatusUnprocessableEntity,
		apperr.KindNotFound:   http.StatusNotFound,
		apperr.KindEmptyCart:  http.StatusBadRequest,
		apperr.KindAuth:       http.StatusUnauthorized,
		apperr.KindForbidden:  http.StatusForbidden,
		apperr.KindConflict:   http.StatusConflict,
		apperr.KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apperr.HTTPStatus(kind), string(kind))
	}
}

func TestInternalMessageNeverLeaks(t *testing.T) {
	err := apperr.Wrap(apperr.KindInternal, "mongo: connection reset by peer", errors.New("raw"))
	assert.Equal(t, "Internal Server Error", apperr.Message(err))

	assert.Equal(t, "Game not found", apperr.Message(apperr.NotFound("Game")))
}

func TestValidationFields(t *testing.T) {
	err := apperr.Validation(map[string]string{"email": "The email field is required."})
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "The email field is required.", fields["email"])
}
