package controllers

import (
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
)

type AdminController struct {
	admin  *services.AdminService
	orders *services.OrderService
}

func NewAdminController(admin *services.AdminService, orders *services.OrderService) *AdminController {
	return &AdminController{admin: admin, orders: orders}
}

// Users lists accounts, paginated.
func (ac *AdminController) Users(c *ctx.Context) {
	page, limit := pageQuery(c)

	users, total, err := ac.admin.Users(c.Context(), page, limit)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.CollectionOf(resources.UserResource{}, users).
		WithPagination(resource.Pagination{Page: page, PerPage: limit, Total: total}).
		Respond(c.W)
}

// UpdateUser edits role, active flag, and display name of an account.
func (ac *AdminController) UpdateUser(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.AdminUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := ac.admin.UpdateUser(c.Context(), id, in)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.UserResource{}, *user).Respond(c.W)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (ac *AdminController) DeleteUser(c *ctx.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ac.admin.DeleteUser(c.Context(), actorID, id); err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{"deleted": id.Hex()})
}

// Orders lists every order in the store, paginated.
func (ac *AdminController) Orders(c *ctx.Context) {
	page, limit := pageQuery(c)

	orders, total, err := ac.orders.All(c.Context(), page, limit)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.CollectionOf(resources.OrderResource{}, orders).
		WithPagination(resource.Pagination{Page: page, PerPage: limit, Total: total}).
		Respond(c.W)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order through the fulfilment machine.
func (ac *AdminController) UpdateOrderStatus(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if !c.BindJSON(&req) {
		return
	}

	order, err := ac.orders.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.OrderResource{}, *order).Respond(c.W)
}

// Dashboard returns the store-wide counters and recent orders.
func (ac *AdminController) Dashboard(c *ctx.Context) {
	data, err := ac.admin.DashboardData(c.Context())
	if err != nil {
		c.AppError(err)
		return
	}

	recent := resource.CollectionOf(resources.OrderResource{}, data.Recent).Items()
	c.Success(resource.Map{
		"user_count":  data.UserCount,
		"game_count":  data.GameCount,
		"order_count": data.OrderCount,
		"revenue":     resources.Round2(data.Revenue),
		"recent":      recent,
	})
}
