package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/app/service"
	"github.com/suwityarat/portfolio/internal/apperror"
	"go.uber.org/zap"
)

// AdminDeps groups dependencies required by the admin handler.
type AdminDeps struct {
	Logger *zap.Logger
	Admin  service.AdminService
}

// AdminHandler implements the PIN login for the admin tools page.
type AdminHandler struct {
	logger *zap.Logger
	admin  service.AdminService
}

// NewAdminHandler creates an admin handler with the provided dependencies.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		logger: logger,
		admin:  deps.Admin,
	}
}

// Register wires admin routes onto the provided router.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/api/admin/authenticate", h.Authenticate)
}

// AuthenticateRequest carries the submitted PIN.
type AuthenticateRequest struct {
	PIN string `json:"pin"`
}

// Authenticate handles POST /api/admin/authenticate
func (h *AdminHandler) Authenticate(c *fiber.Ctx) error {
	var req AuthenticateRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("invalid authenticate request body", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Authentication failed",
		})
	}

	if err := h.admin.Authenticate(req.PIN); err != nil {
		if apperror.IsNotConfigured(err) {
			h.logger.Error("admin pin is not set")
		} else {
			h.logger.Warn("admin authentication rejected", zap.String("ip", ClientIP(c)))
		}
		return writeError(c, err, "Authentication failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     AdminCookie,
		Value:    "true",
		MaxAge:   cookieMaxAge,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{"success": true})
}
