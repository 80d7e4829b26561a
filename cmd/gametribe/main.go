package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gametribe",
	Short: "GameTribe store backend CLI",
	Long:  "GameTribe is a games storefront backend. Use this CLI to run the server, seed the database, and inspect routes and jobs.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueFailedCmd)
	rootCmd.AddCommand(scheduleListCmd)
}
