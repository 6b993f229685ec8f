package middleware

import (
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/app/service"
	"go.uber.org/zap"
)

// PageViews records a page_view for every GET of a site page. API calls,
// admin pages, health probes and files with an extension are skipped.
// Tracking failures never affect the response.
func PageViews(analytics service.AnalyticsService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet && isTrackedPage(c.Path()) {
			_, err := analytics.Track(c.UserContext(), service.TrackInput{
				Type:      string(model.EventPageView),
				Page:      c.Path(),
				SessionID: SessionID(c),
			})
			if err != nil {
				logger.Warn("failed to track page view", zap.String("path", c.Path()), zap.Error(err))
			}
		}
		return c.Next()
	}
}

func isTrackedPage(p string) bool {
	switch {
	case strings.HasPrefix(p, "/api/"), p == "/api":
		return false
	case strings.HasPrefix(p, "/health"):
		return false
	case service.IsAdminPath(p):
		return false
	case path.Ext(p) != "":
		return false
	}
	return true
}
