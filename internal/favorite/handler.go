package favorite

import (
	"github.com/gofiber/fiber/v2"

	"food-miniapp-backend/internal/telegram"
)

// Handler delegates favorite operations to the favorite service. This
// keeps favorite-specific HTTP routing isolated.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/favorites", h.getFavorites)
	app.Post("/api/v1/favorites", h.addFavorite)
	app.Delete("/api/v1/favorites/:restaurantId", h.removeFavorite)
}

type favoriteRequest struct {
	RestaurantID string `json:"restaurantId"`
}

func (h *Handler) getFavorites(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	favs, err := h.service.List(userKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(favs)
}

func (h *Handler) addFavorite(c *fiber.Ctx) error {
	payload := new(favoriteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.RestaurantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "restaurantId is required"})
	}
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	fav, err := h.service.Add(userKey, payload.RestaurantID)
	if err != nil {
		switch err {
		case ErrAlreadyFavorite:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "restaurant already in favorites"})
		case ErrInvalidRestaurant:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (h *Handler) removeFavorite(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Remove(userKey, c.Params("restaurantId")); err != nil {
		switch err {
		case ErrNotFavorite:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "restaurant not in favorites"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
