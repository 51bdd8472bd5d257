package order

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/telegram"
)

// Handler delegates order operations to the order service. It also holds
// the menu service for enriching order lines with item details.
type Handler struct {
	service     *Service
	menuService menu.ServiceInterface
}

func NewHandler(s *Service, ms menu.ServiceInterface) *Handler {
	return &Handler{service: s, menuService: ms}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/active", h.getActiveOrders)
	app.Post("/api/v1/orders/:id/cancel", h.cancelOrder)
}

type createOrderRequest struct {
	DeliveryAddress      *string `json:"deliveryAddress,omitempty"`
	DeliveryInstructions *string `json:"deliveryInstructions,omitempty"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	// the body is optional; submission works without a delivery address
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	created, err := h.service.Submit(c.Context(), userKey, payload.DeliveryAddress, payload.DeliveryInstructions)
	if err != nil {
		switch {
		case err == ErrEmptyCart:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		case err == ErrMixedCart:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart holds items from more than one restaurant"})
		case err == ErrActiveOrder:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "an active order is already in progress"})
		case errors.Is(err, ErrLinesFailed):
			// the order row exists but is incomplete; surfaced as a
			// generic failure, reconciled by the orders list view
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "order could not be completed"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// getOrders returns all orders belonging to the currently authenticated
// user, with order lines enriched with their menu items for display.
func (h *Handler) getOrders(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	if h.menuService != nil {
		h.enrichLines(orders)
	}
	return c.JSON(orders)
}

func (h *Handler) getActiveOrders(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	active, err := h.service.Active(userKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"active": len(active) > 0, "orders": active})
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userKey, err := telegram.GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.Cancel(c.Context(), userKey, c.Params("id"))
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrNotCancellable:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "only pending orders can be cancelled"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(ord)
}

// enrichLines attaches menu item details to every order line in one bulk
// lookup per request.
func (h *Handler) enrichLines(orders []Order) {
	idSet := map[string]struct{}{}
	for _, ord := range orders {
		for _, l := range ord.Items {
			idSet[l.MenuItemID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	items, err := h.menuService.ListByIDs(ids)
	if err != nil {
		log.Printf("warning: could not enrich order lines: %v", err)
		return
	}

	byID := make(map[string]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for oi := range orders {
		for li := range orders[oi].Items {
			if it, ok := byID[orders[oi].Items[li].MenuItemID]; ok {
				item := it
				orders[oi].Items[li].MenuItem = &item
			}
		}
	}
}
