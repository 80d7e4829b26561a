package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gametribe/backend/app/routes"
	"github.com/gametribe/backend/internal/server"
	"github.com/gametribe/backend/pkg/router"
)

// gametribe serve starts the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the store server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// gametribe route:list prints every named route.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		// Handlers are never invoked here; only the route table matters.
		routes.RegisterAPI(r, routes.Deps{})

		lines := r.Routes()
		if len(lines) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}
