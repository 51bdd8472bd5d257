package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"food-miniapp-backend/internal/telegram"
)

// Handler delegates cart operations to the cart service. This keeps
// cart-specific HTTP routing isolated.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.changeQuantity)
	app.Post("/api/v1/cart/replace", h.replaceCart)
	app.Post("/api/v1/cart/refresh", h.refresh)
	app.Delete("/api/v1/cart", h.clearCart)
}

type changeQuantityRequest struct {
	MenuItemID   string `json:"menuItemId"`
	RestaurantID string `json:"restaurantId"`
	Delta        int    `json:"delta"`
}

type replaceCartRequest struct {
	MenuItemID   string `json:"menuItemId"`
	RestaurantID string `json:"restaurantId"`
	Quantity     int    `json:"quantity"`
}

type cartResponse struct {
	Items []Line  `json:"items"`
	Total float64 `json:"total"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	lines, err := h.service.Get(c.Context(), userKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cartResponse{Items: lines, Total: Total(lines)})
}

func (h *Handler) changeQuantity(c *fiber.Ctx) error {
	payload := new(changeQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID == "" || payload.RestaurantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "menuItemId and restaurantId are required"})
	}
	if payload.Delta == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "delta must be non-zero"})
	}

	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.ChangeQuantity(c.Context(), userKey, payload.RestaurantID, payload.MenuItemID, payload.Delta)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			// a decision state, not a failure: the client must replace
			// the cart or drop the addition
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"conflict":          true,
				"cartRestaurantId":  conflict.CartRestaurantID,
				"pendingMenuItemId": conflict.PendingMenuItemID,
				"pendingQuantity":   conflict.PendingQuantity,
			})
		}
		if err == ErrInvalidItem {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(snap)
}

func (h *Handler) replaceCart(c *fiber.Ctx) error {
	payload := new(replaceCartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID == "" || payload.RestaurantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "menuItemId and restaurantId are required"})
	}
	if payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity must be positive"})
	}

	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	lines, err := h.service.ReplaceCart(c.Context(), userKey, payload.RestaurantID, payload.MenuItemID, payload.Quantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cartResponse{Items: lines, Total: Total(lines)})
}

func (h *Handler) refresh(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	lines, err := h.service.Refresh(c.Context(), userKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cartResponse{Items: lines, Total: Total(lines)})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Clear(c.Context(), userKey); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
