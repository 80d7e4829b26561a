// Package models holds the bson document models and the pure domain
// logic that operates on them.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gametribe/backend/pkg/collection"
)

// Genres a game may be tagged with.
var Genres = []string{
	"action", "adventure", "rpg", "strategy", "simulation",
	"sports", "racing", "puzzle", "shooter", "horror", "indie",
}

// ValidGenre reports whether g is a known genre tag.
func ValidGenre(g string) bool {
	return collection.Contains(Genres, func(known string) bool { return known == g })
}

// Game is a catalog entry. Name carries a unique index.
type Game struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image,omitempty" json:"image"`
	Genres      []string           `bson:"genres" json:"genres"`
	Featured    bool               `bson:"featured" json:"featured"`
	ReleaseDate time.Time          `bson:"release_date,omitempty" json:"release_date"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
