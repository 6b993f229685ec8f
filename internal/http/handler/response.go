package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/apperror"
)

const (
	// AdminCookie marks a browser that passed the admin PIN check.
	AdminCookie  = "admin_authenticated"
	cookieMaxAge = 86400
)

// requestContext returns the request-scoped context, falling back to Background.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

// statusFor maps an application error code onto an HTTP status.
func statusFor(err error) int {
	switch apperror.CodeOf(err) {
	case apperror.CodeValidation:
		return fiber.StatusBadRequest
	case apperror.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err. Internal errors
// never leak their cause and use fallback instead.
func errorMessage(err error, fallback string) string {
	if apperror.CodeOf(err) == apperror.CodeInternal {
		return fallback
	}
	return apperror.MessageOf(err, fallback)
}

func writeError(c *fiber.Ctx, err error, fallback string) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": errorMessage(err, fallback),
	})
}

// writeAnalyticsError is writeError with the success flag analytics clients expect.
func writeAnalyticsError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// IsAdmin reports whether the request carries the admin cookie.
func IsAdmin(c *fiber.Ctx) bool {
	return c.Cookies(AdminCookie) == "true"
}
