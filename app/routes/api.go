package routes

import (
	"net/http"
	"time"

	"github.com/gametribe/backend/app/controllers"
	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/metrics"
	"github.com/gametribe/backend/pkg/middleware"
	"github.com/gametribe/backend/pkg/rbac"
	"github.com/gametribe/backend/pkg/response"
	"github.com/gametribe/backend/pkg/router"
	"github.com/gametribe/backend/pkg/ws"
)

// Deps carries everything the route table needs. Wired in the server
// bootstrap.
type Deps struct {
	Auth   *controllers.AuthController
	Games  *controllers.GameController
	Cart   *controllers.CartController
	Orders *controllers.OrderController
	Users  *controllers.UserController
	Admin  *controllers.AdminController

	GraphQL   http.HandlerFunc
	OrdersHub *ws.Hub
}

// RegisterAPI mounts the full HTTP surface.
func RegisterAPI(r *router.Router, d Deps) {
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	api := r.Group("/api")

	// Auth. Login and register are throttled harder than the rest of
	// the API and refuse already-authenticated callers.
	guarded := []router.Middleware{rbac.Guest, middleware.RateLimit(10, time.Minute)}
	api.Post("/auth/register", "auth.register", ctx.Wrap(d.Auth.Register), guarded...)
	api.Post("/auth/login", "auth.login", ctx.Wrap(d.Auth.Login), guarded...)

	// Public catalog.
	api.Get("/games", "games.index", ctx.Wrap(d.Games.Index))
	api.Get("/games/{id}", "games.show", ctx.Wrap(d.Games.Show))
	r.Post("/graphql", "graphql", d.GraphQL)

	// Signed-in surface.
	protected := api.Group("", middleware.Auth)
	protected.Get("/auth/me", "auth.me", ctx.Wrap(d.Auth.Me))

	protected.Get("/cart", "cart.show", ctx.Wrap(d.Cart.Show))
	protected.Post("/cart", "cart.add", ctx.Wrap(d.Cart.Add))
	protected.Post("/cart/merge", "cart.merge", ctx.Wrap(d.Cart.Merge))
	protected.Put("/cart/{gameId}", "cart.update", ctx.Wrap(d.Cart.UpdateQuantity))
	protected.Delete("/cart/{gameId}", "cart.remove", ctx.Wrap(d.Cart.Remove))
	protected.Delete("/cart", "cart.clear", ctx.Wrap(d.Cart.Clear))

	protected.Post("/orders", "orders.store", ctx.Wrap(d.Orders.Store))
	protected.Get("/orders", "orders.index", ctx.Wrap(d.Orders.Index))
	protected.Get("/orders/{id}", "orders.show", ctx.Wrap(d.Orders.Show))

	protected.Get("/users/profile", "users.profile", ctx.Wrap(d.Users.Profile))
	protected.Put("/users/profile", "users.profile.update", ctx.Wrap(d.Users.UpdateProfile))
	protected.Put("/users/password", "users.password", ctx.Wrap(d.Users.ChangePassword))
	protected.Get("/users/favorites", "users.favorites", ctx.Wrap(d.Users.Favorites))
	protected.Post("/users/favorites/{gameId}", "users.favorites.add", ctx.Wrap(d.Users.AddFavorite))
	protected.Delete("/users/favorites/{gameId}", "users.favorites.remove", ctx.Wrap(d.Users.RemoveFavorite))

	// Admin surface.
	admin := protected.Group("", rbac.HasRole(auth.RoleAdmin))
	admin.Post("/games", "admin.games.store", ctx.Wrap(d.Games.Store))
	admin.Put("/games/{id}", "admin.games.update", ctx.Wrap(d.Games.Update))
	admin.Delete("/games/{id}", "admin.games.destroy", ctx.Wrap(d.Games.Destroy))
	admin.Post("/games/{id}/image", "admin.games.image", ctx.Wrap(d.Games.UploadImage))

	admin.Get("/admin/users", "admin.users.index", ctx.Wrap(d.Admin.Users))
	admin.Put("/admin/users/{id}", "admin.users.update", ctx.Wrap(d.Admin.UpdateUser))
	admin.Delete("/admin/users/{id}", "admin.users.destroy", ctx.Wrap(d.Admin.DeleteUser))
	admin.Get("/admin/orders", "admin.orders.index", ctx.Wrap(d.Admin.Orders))
	admin.Put("/admin/orders/{id}/status", "admin.orders.status", ctx.Wrap(d.Admin.UpdateOrderStatus))
	admin.Get("/admin/dashboard", "admin.dashboard", ctx.Wrap(d.Admin.Dashboard))

	// Live order feed for the admin dashboard.
	r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, d.OrdersHub)
	}, middleware.Auth, rbac.HasRole(auth.RoleAdmin))
}
