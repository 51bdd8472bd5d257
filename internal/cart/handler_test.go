package cart

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

func makeAppWithCartHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-Key"); v != "" {
			claims := jwt.MapClaims{"user_key": v}
			tok := &jwt.Token{Claims: claims}
			c.Locals("user", tok)
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newHandlerFixture() (*fiber.App, *InMemoryRepository) {
	items := []menu.Item{
		{ID: "item-x", RestaurantID: "rest-a", Name: "Margherita", Price: 100, IsAvailable: true},
		{ID: "item-z", RestaurantID: "rest-b", Name: "Philadelphia", Price: 15, IsAvailable: true},
	}
	restaurants := []restaurant.Restaurant{
		{ID: "rest-a", Name: "Pizza Palace", IsActive: true},
		{ID: "rest-b", Name: "Sushi Master", IsActive: true},
	}
	repo := NewInMemoryRepository(items, restaurants)
	service := NewService(repo, NewInMemoryMirror(time.Minute))
	return makeAppWithCartHandler(NewHandler(service)), repo
}

func TestCartRoutes_Basic(t *testing.T) {
	app, _ := newHandlerFixture()

	// ensure routes registered
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	for _, p := range []string{"/api/v1/cart", "/api/v1/cart/items", "/api/v1/cart/replace", "/api/v1/cart/refresh"} {
		if !routes[p] {
			t.Fatalf("expected route %q to be registered", p)
		}
	}

	// unauthenticated access should be blocked
	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	// authenticated add
	req2 := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"menuItemId":"item-x","restaurantId":"rest-a","delta":2}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-Key", "telegram_42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"item-x":2`) {
		t.Fatalf("expected snapshot with quantity 2, got %s", string(b2))
	}

	// cart view contains the enriched line and the total
	req3 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req3.Header.Set("X-User-Key", "telegram_42")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for cart view, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"total":200`) {
		t.Fatalf("expected total 200, got %s", string(b3))
	}

	// clear
	req4 := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	req4.Header.Set("X-User-Key", "telegram_42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", res4.StatusCode)
	}
}

func TestCartRoutes_ConflictDecision(t *testing.T) {
	app, _ := newHandlerFixture()

	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"menuItemId":"item-x","restaurantId":"rest-a","delta":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Key", "telegram_42")
	if res, _ := app.Test(req); res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for first add, got %d", res.StatusCode)
	}

	// adding from another restaurant yields the conflict decision payload
	req2 := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"menuItemId":"item-z","restaurantId":"rest-b","delta":1}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-Key", "telegram_42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for cross-restaurant add, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	for _, want := range []string{`"conflict":true`, `"cartRestaurantId":"rest-a"`, `"pendingMenuItemId":"item-z"`} {
		if !strings.Contains(string(b2), want) {
			t.Fatalf("conflict payload missing %s: %s", want, string(b2))
		}
	}

	// resolving via replace leaves exactly the new line
	req3 := httptest.NewRequest("POST", "/api/v1/cart/replace", strings.NewReader(`{"menuItemId":"item-z","restaurantId":"rest-b","quantity":1}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-Key", "telegram_42")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for replace, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if strings.Contains(string(b3), "item-x") {
		t.Fatalf("expected old line to be gone after replace, got %s", string(b3))
	}
	if !strings.Contains(string(b3), "item-z") {
		t.Fatalf("expected new line after replace, got %s", string(b3))
	}
}
