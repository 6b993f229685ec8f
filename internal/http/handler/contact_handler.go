package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/app/service"
	"go.uber.org/zap"
)

const contactThanks = "Thank you for your message! I'll get back to you soon."

// ContactDeps groups dependencies required by the contact handler.
type ContactDeps struct {
	Logger   *zap.Logger
	Contacts service.ContactService
}

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	logger   *zap.Logger
	contacts service.ContactService
}

// NewContactHandler creates a contact handler with the provided dependencies.
func NewContactHandler(deps ContactDeps) *ContactHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{
		logger:   logger,
		contacts: deps.Contacts,
	}
}

// Register wires contact routes onto the provided router. Extra handlers run
// before Submit, e.g. a rate limiter.
func (h *ContactHandler) Register(router fiber.Router, middleware ...fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	router.Post("/api/contact", append(handlers, h.Submit)...)
}

// ContactRequest represents the contact form body.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("invalid contact request body", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process contact form",
		})
	}

	msg, err := h.contacts.Submit(requestContext(c), service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Source:    req.Source,
		IP:        ClientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Referrer:  c.Get(fiber.HeaderReferer),
		URL:       c.BaseURL() + c.OriginalURL(),
	})
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to process contact form", zap.Error(err))
		}
		return writeError(c, err, "Failed to process contact form")
	}

	h.logger.Info("contact message queued",
		zap.String("id", msg.ID),
		zap.String("source", msg.Source))

	return c.JSON(fiber.Map{
		"success": true,
		"message": contactThanks,
	})
}

// ClientIP prefers the edge proxy's connecting-IP header over the socket address.
func ClientIP(c *fiber.Ctx) string {
	if ip := c.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return c.IP()
}
