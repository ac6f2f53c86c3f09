// Package api exposes the triage system over HTTP: the analysis workflow,
// the list/calendar/overview projections, contacts, and exports.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/obessu/eventflow/internal/health"
	"github.com/obessu/eventflow/internal/metrics"
	"github.com/obessu/eventflow/internal/requestid"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	ListenAddr  string
	APIKey      string // empty disables auth
	DefaultYear int
}

// Server is the API Fiber application.
type Server struct {
	app      *fiber.App
	handlers *Handlers
	logger   zerolog.Logger
	config   ServerConfig
}

// NewServer creates and configures the API server.
func NewServer(
	cfg ServerConfig,
	handlers *Handlers,
	checker *health.Checker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ReadBufferSize:        8192,
		WriteBufferSize:       8192,
		BodyLimit:             16 * 1024 * 1024, // uploaded documents arrive base64-inlined
	})

	s := &Server{
		app:      app,
		handlers: handlers,
		logger:   logger.With().Str("component", "api_server").Logger(),
		config:   cfg,
	}

	s.setupMiddleware(cfg, m, logger)
	s.setupRoutes(handlers, checker, m)

	return s
}

func (s *Server) setupMiddleware(cfg ServerConfig, m *metrics.Metrics, logger zerolog.Logger) {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID middleware. The ID rides the user context so handlers and
	// the AI collaborator calls log under the same correlation ID.
	s.app.Use(func(c *fiber.Ctx) error {
		reqID := requestid.Ensure(c.Get(requestid.Header))
		c.SetUserContext(requestid.Into(c.UserContext(), reqID))
		c.Set(requestid.Header, reqID)
		c.Locals("request_id", reqID)
		return c.Next()
	})

	// Auth middleware (static API key)
	if cfg.APIKey != "" {
		s.app.Use(newAuthMiddleware(cfg.APIKey))
	}

	// Audit middleware (log + request metrics)
	s.app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		// Probes are too noisy to log or measure
		if path == "/healthz" || path == "/readyz" || path == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		// Route pattern, not raw path, to keep label cardinality bounded
		route := c.Route().Path
		if route == "" || route == "/" {
			route = path
		}
		elapsed := time.Since(start)
		if m != nil {
			m.RecordRequest(route, status, elapsed)
		}

		logger.Info().
			Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Dur("duration", elapsed).
			Str("ip", c.IP()).
			Str("request_id", localString(c, "request_id")).
			Msg("api request")

		return err
	})
}

func (s *Server) setupRoutes(h *Handlers, checker *health.Checker, m *metrics.Metrics) {
	// Probe endpoints (no auth required — handled in auth middleware)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/readyz", func(c *fiber.Ctx) error {
		results := checker.RunAll(c.Context())
		ready := true
		for _, st := range results {
			if st == health.StatusDown {
				ready = false
				break
			}
		}
		status := "ready"
		code := fiber.StatusOK
		if !ready {
			status = "not_ready"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "checks": results})
	})

	if m != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	v1 := s.app.Group("/api/v1")

	v1.Post("/analyze", h.Analyze)
	v1.Post("/followup/summarize", h.SummarizeFollowUp)

	v1.Get("/events", h.ListEvents)
	v1.Get("/events/:id", h.GetEvent)
	v1.Patch("/events/:id", h.UpdateEvent)
	v1.Delete("/events/:id", h.DeleteEvent)
	v1.Get("/events/:id/export", h.ExportEvent)
	v1.Post("/events/:id/briefing", h.GenerateBriefing)

	v1.Get("/calendar", h.Calendar)
	v1.Get("/calendar/themes", h.Themes)

	v1.Get("/stakeholders", h.Stakeholders)
	v1.Post("/stakeholders/rename", h.RenameStakeholder)

	v1.Get("/contacts", h.ListContacts)
	v1.Post("/contacts", h.CreateContact)
	v1.Get("/contacts/:id", h.GetContact)
	v1.Put("/contacts/:id", h.UpdateContact)
	v1.Delete("/contacts/:id", h.DeleteContact)
}

// Listen starts serving. Blocks until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info().Str("addr", s.config.ListenAddr).Msg("api server listening")
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully stops the server. The context bounds how long
// in-flight requests may take to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func newAuthMiddleware(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip auth for probe endpoints
		path := c.Path()
		if path == "/healthz" || path == "/readyz" || path == "/metrics" {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return problemResponse(c, fiber.StatusUnauthorized,
				"missing_auth", "Unauthorized",
				"Authorization header is required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return problemResponse(c, fiber.StatusUnauthorized,
				"invalid_auth_scheme", "Unauthorized",
				"Authorization header must use Bearer scheme")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			return problemResponse(c, fiber.StatusUnauthorized,
				"invalid_token", "Unauthorized",
				"Invalid API key")
		}
		return c.Next()
	}
}

func customErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		logger.Error().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
		return problemResponse(c, code, "internal_error", "Internal Server Error", err.Error())
	}
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
