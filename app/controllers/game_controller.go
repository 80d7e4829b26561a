package controllers

import (
	"io"
	"net/http"

	"github.com/gametribe/backend/app/repositories"
	"github.com/gametribe/backend/app/resources"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/ctx"
	"github.com/gametribe/backend/pkg/resource"
)

// maxCoverBytes caps uploaded cover art at 5 MiB.
const maxCoverBytes = 5 << 20

type GameController struct {
	catalog *services.CatalogService
}

func NewGameController(catalog *services.CatalogService) *GameController {
	return &GameController{catalog: catalog}
}

// Index lists the catalog with search, genre, featured, and sort
// filters. Public.
func (gc *GameController) Index(c *ctx.Context) {
	page, limit := pageQuery(c)
	q := repositories.GameQuery{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		q.Featured = &featured
	}

	list, err := gc.catalog.List(c.Context(), q)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.CollectionOf(resources.GameResource{}, list.Games).
		WithPagination(resource.Pagination{Page: list.Page, PerPage: list.Limit, Total: list.Total}).
		Respond(c.W)
}

// Show returns one catalog entry. Public.
func (gc *GameController) Show(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	game, err := gc.catalog.Get(c.Context(), id)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.GameResource{}, *game).Respond(c.W)
}

// Store creates a catalog entry. Admin only.
func (gc *GameController) Store(c *ctx.Context) {
	var in services.GameInput
	if !c.BindJSON(&in) {
		return
	}

	game, err := gc.catalog.Create(c.Context(), in)
	if err != nil {
		c.AppError(err)
		return
	}

	created(c, resources.GameResource{}, *game)
}

// Update replaces a catalog entry. Admin only.
func (gc *GameController) Update(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in services.GameInput
	if !c.BindJSON(&in) {
		return
	}

	game, err := gc.catalog.Update(c.Context(), id, in)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.GameResource{}, *game).Respond(c.W)
}

// Destroy removes a catalog entry. Admin only. Existing cart and order
// lines keep their denormalized copy of the game.
func (gc *GameController) Destroy(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := gc.catalog.Delete(c.Context(), id); err != nil {
		c.AppError(err)
		return
	}

	c.Success(resource.Map{"deleted": id.Hex()})
}

// UploadImage accepts multipart cover art under the "image" field and
// stores it on the configured disk. Admin only.
func (gc *GameController) UploadImage(c *ctx.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxCoverBytes)
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "An image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	game, err := gc.catalog.UploadImage(c.Context(), id, header.Filename, data)
	if err != nil {
		c.AppError(err)
		return
	}

	resource.New(resources.GameResource{}, *game).Respond(c.W)
}
