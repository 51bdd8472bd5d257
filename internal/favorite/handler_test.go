package favorite

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"food-miniapp-backend/internal/restaurant"
)

func newTestApp() *fiber.App {
	repo := NewInMemoryRepository([]restaurant.Restaurant{
		{ID: "rest-a", Name: "Pizza Palace", IsActive: true},
		{ID: "rest-b", Name: "Sushi Master", IsActive: true},
	})
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-Key"); v != "" {
			claims := jwt.MapClaims{"user_key": v}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	NewHandler(NewService(repo)).RegisterProtectedRoutes(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-Key", "telegram_42")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestFavoriteRoutes(t *testing.T) {
	app := newTestApp()

	status, body := do(t, app, "POST", "/api/v1/favorites", `{"restaurantId":"rest-a"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	// adding the same restaurant twice is a conflict
	status, _ = do(t, app, "POST", "/api/v1/favorites", `{"restaurantId":"rest-a"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate favorite, got %d", status)
	}

	status, _ = do(t, app, "POST", "/api/v1/favorites", `{}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing restaurantId, got %d", status)
	}

	status, body = do(t, app, "GET", "/api/v1/favorites", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `"name":"Pizza Palace"`) {
		t.Fatalf("expected restaurant enrichment, got %s", body)
	}

	status, _ = do(t, app, "DELETE", "/api/v1/favorites/rest-a", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204 for remove, got %d", status)
	}
	status, _ = do(t, app, "DELETE", "/api/v1/favorites/rest-a", "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for repeated remove, got %d", status)
	}
}

func TestFavoriteRoutes_PerUser(t *testing.T) {
	app := newTestApp()

	status, _ := do(t, app, "POST", "/api/v1/favorites", `{"restaurantId":"rest-b"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	// another user sees an empty list
	req := httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req.Header.Set("X-User-Key", "telegram_7")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	if strings.Contains(string(b), "rest-b") {
		t.Fatalf("favorites leaked across users: %s", string(b))
	}

	// no identity at all is rejected
	req2 := httptest.NewRequest("GET", "/api/v1/favorites", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", res2.StatusCode)
	}
}
