package controllers

import (
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Profile returns the caller's account.
func (uc *UserController) Profile(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := uc.users.Profile(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.UserResource{}, *user).Respond(c.W)
}

// UpdateProfile edits display name, avatar, and note.
func (uc *UserController) UpdateProfile(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in services.ProfileInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.users.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.UserResource{}, *user).Respond(c.W)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePassword rotates the password after verifying the current one.
func (uc *UserController) ChangePassword(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req passwordRequest
	if !c.BindJSON(&req) {
		return
	}

	if err := uc.users.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{"message": "Password updated"})
}

// Favorites lists the caller's favorite games. Entries deleted from the
// catalog drop out silently.
func (uc *UserController) Favorites(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	games, err := uc.users.Favorites(c.Context(), userID)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.CollectionOf(resources.GameResource{}, games).Respond(c.W)
}

// AddFavorite marks a game as a favorite. Idempotent.
func (uc *UserController) AddFavorite(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "gameId")
	if !ok {
		return
	}

	if err := uc.users.AddFavorite(c.Context(), userID, gameID); err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{"favorited": gameID.Hex()})
}

// RemoveFavorite unmarks a favorite. Idempotent.
func (uc *UserController) RemoveFavorite(c *ctx.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "gameId")
	if !ok {
		return
	}

	if err := uc.users.RemoveFavorite(c.Context(), userID, gameID); err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{"unfavorited": gameID.Hex()})
}
