package restaurant

import (
	"github.com/gofiber/fiber/v2"
)

// Handler serves the public restaurant catalog endpoints.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/restaurants", h.listRestaurants)
	app.Get("/api/v1/restaurants/:id", h.getRestaurant)
}

func (h *Handler) listRestaurants(c *fiber.Ctx) error {
	restaurants, err := h.service.ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(restaurants)
}

func (h *Handler) getRestaurant(c *fiber.Ctx) error {
	rest, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "restaurant not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(rest)
}
