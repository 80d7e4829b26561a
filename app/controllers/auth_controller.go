package controllers

import (
	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required,min=8,max=72"`
	DisplayName string            `json:"display_name" validate:"required,min=2,max=50"`
	GuestCart   []models.CartItem `json:"guest_cart"`
}

// Register creates an account and signs the caller in. A guest cart, if
// sent, is merged into the fresh server cart.
func (ac *AuthController) Register(c *ctx.Context) {
	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}

	res, err := ac.auth.Register(c.Context(), req.Email, req.Password, req.DisplayName, req.GuestCart)
	if err != nil {
		c.AppError(err)
		return
	}

	c.Created(resource.Map{
		"token": res.Token,
		"user":  resources.UserResource{}.ToArray(*res.User),
	})
}

type loginRequest struct {
	Email     string            `json:"email" validate:"required,email"`
	Password  string            `json:"password" validate:"required"`
	GuestCart []models.CartItem `json:"guest_cart"`
}

// Login exchanges credentials for a token.
func (ac *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}

	res, err := ac.auth.Login(c.Context(), req.Email, req.Password, req.GuestCart)
	if err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{
		"token": res.Token,
		"user":  resources.UserResource{}.ToArray(*res.User),
	})
}

// Me returns the account behind the presented token.
func (ac *AuthController) Me(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ac.auth.Me(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.UserResource{}, *user).Respond(c.W)
}
