// Package resource provides API resource transformers. A Resource
// controls exactly what JSON shape an endpoint returns; money fields are
// rounded here, at the presentation edge, never in the models.
//
//	resource.New(&OrderResource{}, order).Respond(w)
//	resource.CollectionOf(&GameResource{}, games).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
)

// Map is the output of ToArray.
type Map = map[string]any

// Transformer converts one model instance into a Map.
type Transformer interface {
	ToArray(v any) Map
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// Resource wraps a single model with its transformer.
type Resource struct {
	transformer Transformer
	data        any
	meta        Map
}

// New creates a Resource for a single model instance.
func New(t Transformer, data any) *Resource {
	return &Resource{transformer: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// MarshalJSON lets a Resource be nested inside another payload.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Respond writes the resource as JSON with status 200.
func (r *Resource) Respond(w http.ResponseWriter) {
	out := Map{"data": r.transformer.ToArray(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// Collection wraps a slice of models with a transformer.
type Collection struct {
	transformer Transformer
	items       []any
	pagination  *Pagination
	meta        Map
}

// CollectionOf creates a Collection from a typed slice.
func CollectionOf[T any](t Transformer, items []T) *Collection {
	boxed := make([]any, len(items))
	for i, v := range items {
		boxed[i] = v
	}
	return &Collection{transformer: t, items: boxed}
}

// WithPagination attaches pagination metadata.
func (c *Collection) WithPagination(p Pagination) *Collection {
	c.pagination = &p
	return c
}

// WithMeta attaches extra metadata.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// Items returns the transformed items without writing a response.
func (c *Collection) Items() []Map {
	out := make([]Map, len(c.items))
	for i, item := range c.items {
		out[i] = c.transformer.ToArray(item)
	}
	return out
}

// Respond writes the collection as JSON with status 200.
func (c *Collection) Respond(w http.ResponseWriter) {
	out := Map{"data": c.Items()}
	if c.pagination != nil {
		out["pagination"] = c.pagination
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
