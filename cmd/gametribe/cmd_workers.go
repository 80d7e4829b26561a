package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gametribe/backend/config"
	"github.com/gametribe/backend/internal/server"
	"github.com/gametribe/backend/pkg/database"
	"github.com/gametribe/backend/pkg/queue"
	"github.com/gametribe/backend/pkg/schedule"
)

// gametribe queue:failed prints the most recent failed jobs.
var queueFailedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List recently failed queue jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		defer database.Disconnect(ctx) //nolint:errcheck

		cur, err := database.Collection("failed_jobs").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "failed_at", Value: -1}}).SetLimit(50))
		if err != nil {
			return err
		}
		var failed []queue.FailedJob
		if err := cur.All(ctx, &failed); err != nil {
			return err
		}

		if len(failed) == 0 {
			fmt.Println("No failed jobs.")
			return nil
		}
		for _, f := range failed {
			fmt.Printf("%s  %-30s attempts=%d  %s\n",
				f.FailedAt.Format(time.RFC3339), f.JobType, f.Attempts, f.Error)
		}
		return nil
	},
}

// gametribe schedule:list prints the registered recurring tasks.
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the registered scheduled tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		server.RegisterSchedules()
		entries := schedule.List()
		if len(entries) == 0 {
			fmt.Println("No scheduled tasks registered.")
			return nil
		}
		for _, e := range entries {
			fmt.Println(e)
		}
		return nil
	},
}
