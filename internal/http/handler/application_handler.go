package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/app/service"
	"go.uber.org/zap"
)

// ApplicationDeps groups dependencies required by the application handler.
type ApplicationDeps struct {
	Logger       *zap.Logger
	Applications service.ApplicationService
}

// ApplicationHandler implements CRUD over saved cover-letter applications.
type ApplicationHandler struct {
	logger       *zap.Logger
	applications service.ApplicationService
}

// NewApplicationHandler creates an application handler with the provided dependencies.
func NewApplicationHandler(deps ApplicationDeps) *ApplicationHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationHandler{
		logger:       logger,
		applications: deps.Applications,
	}
}

// Register wires application routes onto the provided router.
func (h *ApplicationHandler) Register(router fiber.Router) {
	applications := router.Group("/api/applications")
	{
		applications.Post("/", h.Create)
		applications.Get("/", h.List)
		applications.Get("/:id", h.Get)
		applications.Delete("/:id", h.Delete)
	}
}

// CreateApplicationRequest represents the request body for saving an application.
type CreateApplicationRequest struct {
	ApplicationName  string                  `json:"applicationName"`
	JobDetails       *model.JobDetails       `json:"jobDetails"`
	GeneratedContent *model.GeneratedContent `json:"generatedContent"`
}

// Create handles POST /api/applications
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("invalid application request body", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save application",
		})
	}

	app, err := h.applications.CreateApplication(requestContext(c), service.CreateApplicationInput{
		Name:             req.ApplicationName,
		JobDetails:       req.JobDetails,
		GeneratedContent: req.GeneratedContent,
	})
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to save application", zap.Error(err))
		}
		return writeError(c, err, "Failed to save application")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"application": app,
	})
}

// List handles GET /api/applications
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	items, err := h.applications.ListApplications(requestContext(c))
	if err != nil {
		h.logger.Error("failed to fetch applications", zap.Error(err))
		return writeError(c, err, "Failed to fetch applications")
	}
	if items == nil {
		items = []model.ApplicationListItem{}
	}

	return c.JSON(fiber.Map{"applications": items})
}

// Get handles GET /api/applications/:id
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := h.applications.GetApplication(requestContext(c), id)
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to fetch application", zap.Error(err), zap.String("id", id))
		}
		return writeError(c, err, "Failed to fetch application")
	}

	return c.JSON(fiber.Map{"application": app})
}

// Delete handles DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.applications.DeleteApplication(requestContext(c), id); err != nil {
		h.logger.Error("failed to delete application", zap.Error(err), zap.String("id", id))
		return writeError(c, err, "Failed to delete application")
	}

	return c.JSON(fiber.Map{"success": true})
}
