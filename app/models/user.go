package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. Email carries a unique index and is
// stored lowercased. Password holds the bcrypt hash and never leaves
// the server.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"-"`
	DisplayName  string               `bson:"display_name" json:"display_name"`
	ProfileImage string               `bson:"profile_image,omitempty" json:"profile_image"`
	PersonalNote string               `bson:"personal_note,omitempty" json:"personal_note"`
	Role         string               `bson:"role" json:"role"`
	IsActive     bool                 `bson:"is_active" json:"is_active"`
	GamesOwned   int                  `bson:"games_owned" json:"games_owned"`
	Favorites    []primitive.ObjectID `bson:"favorites" json:"favorites"`
	MemberSince  time.Time            `bson:"member_since" json:"member_since"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasFavorite reports whether gameID is already in the favorites list.
func (u *User) HasFavorite(gameID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == gameID {
			return true
		}
	}
	return false
}
