package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/config"
	"github.com/gametribe/backend/database/seeders"
	"github.com/gametribe/backend/pkg/database"
)

// gametribe seed runs every registered seeder.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the starter catalog and admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		defer database.Disconnect(ctx) //nolint:errcheck

		if err := repositories.EnsureIndexes(ctx); err != nil {
			return err
		}

		fmt.Println("Seeding database...")
		if err := seeders.RunAll(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}
