// Package response writes the store's JSON envelope:
// {"status":…, "message":…, "data":…, "errors":…}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/gametribe/backend/pkg/apperr"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Kind:    string(apperr.KindValidation),
		Errors:  errs,
	})
}

// AppError translates a kinded application error into the envelope. The
// stable kind string rides along so clients can branch without parsing
// messages.
func AppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	write(w, apperr.HTTPStatus(kind), envelope{
		Status:  apperr.HTTPStatus(kind),
		Message: apperr.Message(err),
		Kind:    string(kind),
		Errors:  apperr.FieldsOf(err),
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, envelope{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
		Kind:    string(apperr.KindAuth),
	})
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	write(w, http.StatusForbidden, envelope{
		Status:  http.StatusForbidden,
		Message: "Forbidden",
		Kind:    string(apperr.KindForbidden),
	})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	write(w, http.StatusNotFound, envelope{
		Status:  http.StatusNotFound,
		Message: "Not found",
		Kind:    string(apperr.KindNotFound),
	})
}
