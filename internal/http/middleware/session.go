package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionCookie correlates analytics events from one browser.
	SessionCookie = "session_id"
	sessionKey    = "session_id"
	sessionMaxAge = 86400
)

// Session resolves the analytics session id from the cookie. A browser
// without one gets a fresh id when it loads a site page.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		if sid == "" && c.Method() == fiber.MethodGet && isTrackedPage(c.Path()) {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				MaxAge:   sessionMaxAge,
				HTTPOnly: true,
				Secure:   true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(sessionKey, sid)
		return c.Next()
	}
}

// SessionID returns the session id set by Session, falling back to the cookie.
func SessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals(sessionKey).(string); ok && sid != "" {
		return sid
	}
	return c.Cookies(SessionCookie)
}
