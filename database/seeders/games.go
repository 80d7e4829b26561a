package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/pkg/database"
)

func init() {
	Register("games", SeedGames)
}

// SeedGames inserts a starter catalog. Skips any game whose name is
// already taken, so reruns are safe.
func SeedGames(ctx context.Context) error {
	col := database.Collection("games")

	games := []models.Game{
		{
			Name:        "Neon Drift Racer",
			Description: "Arcade racing through a synthwave city. Drift, boost, repeat.",
			Price:       29.99,
			Genres:      []string{"racing", "action"},
			Featured:    true,
			ReleaseDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Dungeon of Embers",
			Description: "A roguelike RPG where every torch you light changes the map.",
			Price:       19.99,
			Genres:      []string{"rpg", "indie"},
			Featured:    true,
			ReleaseDate: time.Date(2023, 10, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Harvest Orbit",
			Description: "Run a farm on a space station. Crops grow in zero gravity.",
			Price:       24.99,
			Genres:      []string{"simulation", "indie"},
			ReleaseDate: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Grand Tactician IV",
			Description: "Turn-based empire strategy spanning four centuries.",
			Price:       49.99,
			Genres:      []string{"strategy"},
			ReleaseDate: time.Date(2022, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Silent Ward",
			Description: "Survival horror in an abandoned hospital that listens to your mic.",
			Price:       34.99,
			Genres:      []string{"horror", "adventure"},
			ReleaseDate: time.Date(2023, 2, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Strikers United 26",
			Description: "Five-a-side football with full cross-play.",
			Price:       59.99,
			Genres:      []string{"sports"},
			Featured:    true,
			ReleaseDate: time.Date(2025, 9, 26, 0, 0, 0, 0, time.UTC),
		},
	}

	now := time.Now()
	for _, g := range games {
		n, err := col.CountDocuments(ctx, bson.M{"name": g.Name})
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		g.CreatedAt = now
		g.UpdatedAt = now
		if _, err := col.InsertOne(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
