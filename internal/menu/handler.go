package menu

import (
	"github.com/gofiber/fiber/v2"
)

// Handler serves the public menu endpoints.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/restaurants/:id/menu", h.getMenu)
}

func (h *Handler) getMenu(c *fiber.Ctx) error {
	items, err := h.service.ListAvailable(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(items)
}
