package server

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/suwityarat/portfolio/config"
	"github.com/suwityarat/portfolio/internal/app/service"
	"github.com/suwityarat/portfolio/internal/http/handler"
	"github.com/suwityarat/portfolio/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs to serve every route.
type Dependencies struct {
	Logger *zap.Logger
	Config *config.Config

	Contacts     service.ContactService
	Analytics    service.AnalyticsService
	Applications service.ApplicationService
	Admin        service.AdminService

	// Redis backs the contact rate limiter; nil disables it.
	Redis redis.UniversalClient
	// Checks feed /health/ready.
	Checks map[string]handler.Check
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with all routes registered.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}

	app := fiber.New(fiber.Config{
		AppName:               "portfolio",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	log := s.deps.Logger

	s.app.Use(middleware.Recovery(log))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(log.Named("http")))
	s.app.Use(middleware.Metrics())
	s.app.Use(middleware.CORS(s.deps.Config.Server.CORSOrigin))
	s.app.Use(middleware.Session())
	if s.deps.Analytics != nil {
		s.app.Use(middleware.PageViews(s.deps.Analytics, log.Named("pageview")))
	}
}

func (s *Server) registerRoutes() {
	log := s.deps.Logger
	cfg := s.deps.Config

	handler.NewHealthHandler(handler.HealthDeps{
		Logger: log,
		Checks: s.deps.Checks,
	}).Register(s.app)

	var contactLimits []fiber.Handler
	if s.deps.Redis != nil {
		// Keyed like the stored contact IP so visitors behind the edge proxy
		// do not share one bucket.
		limit := middleware.ContactRateLimitConfig(cfg.RateLimit.ContactMax, cfg.RateLimit.ContactWindow)
		limit.KeyFunc = handler.ClientIP
		contactLimits = append(contactLimits, middleware.RateLimit(s.deps.Redis, limit, log.Named("ratelimit")))
	}
	handler.NewContactHandler(handler.ContactDeps{
		Logger:   log.Named("contact"),
		Contacts: s.deps.Contacts,
	}).Register(s.app, contactLimits...)

	handler.NewAdminHandler(handler.AdminDeps{
		Logger: log.Named("admin"),
		Admin:  s.deps.Admin,
	}).Register(s.app)

	handler.NewAnalyticsHandler(handler.AnalyticsDeps{
		Logger:    log.Named("analytics"),
		Analytics: s.deps.Analytics,
	}).Register(s.app)

	handler.NewApplicationHandler(handler.ApplicationDeps{
		Logger:       log.Named("applications"),
		Applications: s.deps.Applications,
	}).Register(s.app)

	handler.NewSEOHandler(cfg.Site.Pages).Register(s.app)

	s.registerStatic(cfg.Site.StaticDir)
}

// registerStatic serves the built site; unknown page paths fall back to
// index.html so client-side routes resolve.
func (s *Server) registerStatic(dir string) {
	if dir == "" {
		return
	}
	s.app.Static("/", dir, fiber.Static{
		Compress: true,
		Index:    "index.html",
	})

	index := filepath.Join(dir, "index.html")
	s.app.Get("/*", func(c *fiber.Ctx) error {
		if isAPIPath(c.Path()) {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
