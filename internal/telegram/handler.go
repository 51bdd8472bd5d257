package telegram

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Handler exposes the auth endpoint and the profile endpoint.
type Handler struct {
	service   *Service
	jwtSecret string
}

func NewHandler(service *Service, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/telegram", h.authenticate)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
}

type authRequest struct {
	InitData string `json:"initData"`
}

func (h *Handler) authenticate(c *fiber.Ctx) error {
	payload := new(authRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.InitData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "initData is required"})
	}

	profile, err := h.service.Authenticate(payload.InitData)
	if err != nil {
		switch err {
		case ErrBadInitData, ErrStaleData:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	claims := jwt.MapClaims{
		"user_key":    profile.UserKey,
		"telegram_id": profile.TelegramID,
		"exp":         time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"profile": profile,
		"token":   signed,
	})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userKey, err := GetUserKeyFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	profile, err := h.service.GetProfile(userKey)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "profile not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(profile)
}

// GetUserKeyFromCtx extracts the user partition key from the JWT the
// middleware stored on the request.
func GetUserKeyFromCtx(c *fiber.Ctx) (string, error) {
	u := c.Locals("user")
	if u == nil {
		return "", fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	key, ok := claims["user_key"].(string)
	if !ok || key == "" {
		return "", fiber.ErrUnauthorized
	}
	return key, nil
}
