// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and shape the response through a
// resource transformer; they carry no business rules of their own.
package controllers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/middleware"
	"github.com/gametribe/backend/pkg/resource"
)

// currentUserID extracts the authenticated caller's id. When it is
// absent or malformed the 401 is already written and ok is false.
func currentUserID(c *ctx.Context) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		c.Unauthorized()
		return primitive.NilObjectID, false
	}
	return id, true
}

// paramID parses the {param} path segment as an ObjectID. A malformed
// id gets a 404 so probing with garbage looks the same as a miss.
func paramID(c *ctx.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.NotFound("Not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageQuery reads ?page= and ?limit= with sane bounds.
func pageQuery(c *ctx.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// created writes a 201 with a transformed single resource.
func created(c *ctx.Context, t resource.Transformer, v any) {
	c.JSON(http.StatusCreated, resource.Map{"data": t.ToArray(v)})
}
