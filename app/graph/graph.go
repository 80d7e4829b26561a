// Package graph exposes the read-only catalog over GraphQL. Queries
// only; all mutation goes through the REST surface.
package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	gqlschema "github.com/gametribe/backend/pkg/graphql"
	"github.com/gametribe/backend/pkg/response"
)

var gameType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Game",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"image":       &graphql.Field{Type: graphql.String},
		"genres":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"featured":    &graphql.Field{Type: graphql.Boolean},
	},
})

func gameMap(g models.Game) map[string]any {
	return map[string]any{
		"id":          g.ID.Hex(),
		"name":        g.Name,
		"description": g.Description,
		"price":       resources.Round2(g.Price),
		"image":       g.Image,
		"genres":      g.Genres,
		"featured":    g.Featured,
	}
}

// NewSchema builds the catalog query schema over the given service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"game": &graphql.Field{
				Type: gameType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := primitive.ObjectIDFromHex(p.Args["id"].(string))
					if err != nil {
						return nil, nil
					}
					game, err := catalog.Get(p.Context, id)
					if err != nil {
						return nil, nil
					}
					return gameMap(*game), nil
				},
			},
			"games": &graphql.Field{
				Type: graphql.NewList(gameType),
				Args: graphql.FieldConfigArgument{
					"genre":    &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"featured": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					q := repositories.GameQuery{Page: 1, Limit: 20}
					if v, ok := p.Args["genre"].(string); ok {
						q.Genre = v
					}
					if v, ok := p.Args["search"].(string); ok {
						q.Search = v
					}
					if v, ok := p.Args["featured"].(bool); ok {
						q.Featured = &v
					}
					if v, ok := p.Args["limit"].(int); ok && v > 0 && v <= 100 {
						q.Limit = v
					}

					list, err := catalog.List(p.Context, q)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list.Games))
					for i, g := range list.Games {
						out[i] = gameMap(g)
					}
					return out, nil
				},
			},
		},
	})

	return gqlschema.NewSchema(query)
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Handler serves POST /graphql against the catalog schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			response.Error(w, http.StatusBadRequest, "A query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
