package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/app/service"
	"github.com/suwityarat/portfolio/internal/apperror"
	"github.com/suwityarat/portfolio/internal/http/middleware"
	"go.uber.org/zap"
)

// AnalyticsDeps groups dependencies required by the analytics handler.
type AnalyticsDeps struct {
	Logger    *zap.Logger
	Analytics service.AnalyticsService
}

// AnalyticsHandler serves event tracking and the admin dashboard data.
type AnalyticsHandler struct {
	logger    *zap.Logger
	analytics service.AnalyticsService
}

// NewAnalyticsHandler creates an analytics handler with the provided dependencies.
func NewAnalyticsHandler(deps AnalyticsDeps) *AnalyticsHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{
		logger:    logger,
		analytics: deps.Analytics,
	}
}

// Register wires analytics routes onto the provided router.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	analytics := router.Group("/api/analytics")
	{
		analytics.Post("/track", h.Track)
		// Not gated: the admin page only calls it after login.
		analytics.Get("/summary", h.Summary)
		analytics.Post("/reset", h.Reset)
	}
}

// TrackRequest is a client-reported analytics event.
type TrackRequest struct {
	Type      string `json:"type"`
	Page      string `json:"page"`
	Action    string `json:"action,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Track handles POST /api/analytics/track
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var req TrackRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("invalid track request body", zap.Error(err))
		return writeAnalyticsError(c, fiber.StatusInternalServerError, "Failed to track event")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = middleware.SessionID(c)
	}

	_, err := h.analytics.Track(requestContext(c), service.TrackInput{
		Type:      req.Type,
		Page:      req.Page,
		Action:    req.Action,
		SessionID: sessionID,
	})
	if err != nil {
		if apperror.IsValidation(err) {
			return writeAnalyticsError(c, fiber.StatusBadRequest, apperror.MessageOf(err, "Invalid event type"))
		}
		h.logger.Error("failed to track analytics event", zap.Error(err))
		return writeAnalyticsError(c, fiber.StatusInternalServerError, "Failed to track event")
	}

	return c.JSON(fiber.Map{"success": true})
}

// Summary handles GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary := h.analytics.Summary(requestContext(c))
	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// Reset handles POST /api/analytics/reset
func (h *AnalyticsHandler) Reset(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return writeAnalyticsError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if _, err := h.analytics.Reset(requestContext(c)); err != nil {
		h.logger.Error("failed to reset analytics", zap.Error(err))
		return writeAnalyticsError(c, fiber.StatusInternalServerError, "Failed to reset analytics data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Analytics data reset successfully",
	})
}
