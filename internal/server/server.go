// Package server boots the store: config, MongoDB, Redis, storage,
// queue workers, scheduler, event listeners, and the HTTP and gRPC
// servers, then blocks until shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/gametribe/backend/app/controllers"
	"github.com/gametribe/backend/app/graph"
	"github.com/gametribe/backend/app/jobs"
	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/routes"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/config"
	"github.com/gametribe/backend/pkg/cache"
	"github.com/gametribe/backend/pkg/database"
	"github.com/gametribe/backend/pkg/event"
	grpcserver "github.com/gametribe/backend/pkg/grpc"
	"github.com/gametribe/backend/pkg/logger"
	"github.com/gametribe/backend/pkg/metrics"
	"github.com/gametribe/backend/pkg/middleware"
	"github.com/gametribe/backend/pkg/queue"
	"github.com/gametribe/backend/pkg/reqid"
	"github.com/gametribe/backend/pkg/router"
	"github.com/gametribe/backend/pkg/schedule"
	"github.com/gametribe/backend/pkg/storage"
	"github.com/gametribe/backend/pkg/ws"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	logger.AttachHandler(logger.NewMongoHandler(database.Collection("logs")))

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache and redis queue disabled", "error", err)
	}
	storage.Connect()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootCtx, bootCancel := context.WithTimeout(ctx, 30*time.Second)
	defer bootCancel()
	if err := repositories.EnsureIndexes(bootCtx); err != nil {
		return err
	}

	// Repositories and services.
	users := repositories.NewUserRepository()
	games := repositories.NewGameRepository()
	carts := repositories.NewCartRepository()
	orders := repositories.NewOrderRepository()

	authSvc := services.NewAuthService(users, carts)
	catalogSvc := services.NewCatalogService(games)
	cartSvc := services.NewCartService(carts, games)
	orderSvc := services.NewOrderService(orders, carts, users)
	userSvc := services.NewUserService(users, games)
	adminSvc := services.NewAdminService(users, games, orders)

	// Background queue.
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseMongo(database.Collection("failed_jobs"))
	jobs.RegisterAll()
	queue.StartWorkers(ctx, queueWorkers)

	// Live order feed.
	ordersHub := ws.NewHub()
	go ordersHub.Run()

	registerListeners(ordersHub)
	RegisterSchedules()
	schedule.Start(ctx)

	// HTTP surface.
	schema, err := graph.NewSchema(catalogSvc)
	if err != nil {
		return err
	}

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		metrics.Middleware(),
	)
	routes.RegisterAPI(r, routes.Deps{
		Auth:      controllers.NewAuthController(authSvc),
		Games:     controllers.NewGameController(catalogSvc),
		Cart:      controllers.NewCartController(cartSvc),
		Orders:    controllers.NewOrderController(orderSvc),
		Users:     controllers.NewUserController(userSvc),
		Admin:     controllers.NewAdminController(adminSvc, orderSvc),
		GraphQL:   graph.Handler(schema),
		OrdersHub: ordersHub,
	})

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ready := func() bool { return true }
	grpcSrv, grpcLis, err := grpcserver.Start(config.GRPCPort(), ready)
	if err != nil {
		return err
	}
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			logger.Error("grpc server stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gametribe listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	grpcserver.Stop(grpcSrv)
	event.Flush()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect", "error", err)
	}
	return nil
}

// registerListeners wires the domain events fired by the services.
func registerListeners(ordersHub *ws.Hub) {
	event.Listen(services.EventOrderPlaced, func(payload any) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}

		job := &jobs.OrderConfirmationJob{
			OrderNumber: order.OrderNumber,
			Email:       order.ShippingAddress.Email,
			FullName:    order.ShippingAddress.FullName,
			Total:       resources.Round2(order.Total),
		}
		for _, item := range order.Items {
			job.Items = append(job.Items, jobs.ConfirmedItem{
				Name:     item.Name,
				Price:    resources.Round2(item.Price),
				Quantity: item.Quantity,
			})
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("order confirmation dispatch failed",
				"order_number", order.OrderNumber, "error", err)
		}

		ordersHub.BroadcastJSON(map[string]any{
			"event":        "order.placed",
			"order_number": order.OrderNumber,
			"total":        resources.Round2(order.Total),
			"items":        len(order.Items),
		})
	})

	event.Listen(services.EventOrderStatusChanged, func(payload any) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		ordersHub.BroadcastJSON(map[string]any{
			"event":        "order.status_changed",
			"order_number": order.OrderNumber,
			"status":       order.Status,
		})
	})
}

// RegisterSchedules sets up the recurring maintenance tasks. Exported
// so the CLI can list them without booting the server.
func RegisterSchedules() {
	// Carts untouched for 30 days are emptied so stale prices do not
	// resurface months later.
	schedule.Daily().Name("carts.prune").WithoutOverlapping().Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().AddDate(0, 0, -30)
		res, err := database.Collection("carts").UpdateMany(ctx,
			bson.M{"updated_at": bson.M{"$lt": cutoff}, "items.0": bson.M{"$exists": true}},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()}},
		)
		if err != nil {
			logger.Error("cart prune failed", "error", err)
			return
		}
		if res.ModifiedCount > 0 {
			logger.Info("pruned stale carts", "count", res.ModifiedCount)
		}
	})
}
