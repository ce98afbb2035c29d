package api

import (
	"errors"
	"log/slog"
	"time"

	"sahaya/app/config"
	"sahaya/app/service/area"
	"sahaya/app/service/assistant"
	"sahaya/app/service/history"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Server)(nil)

type Server struct {
	cfg *config.Config
	app *fiber.App

	assistantSvc *assistant.Service
	areaSvc      *area.Service
	historySvc   *history.Service
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:          do.MustInvoke[*config.Config](di),
		assistantSvc: do.MustInvoke[*assistant.Service](di),
		areaSvc:      do.MustInvoke[*area.Service](di),
		historySvc:   do.MustInvoke[*history.Service](di),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: s.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", s.handleHealth)
	apiGroup.Get("/status", s.handleStatus)

	aiGroup := apiGroup.Group("/ai")
	aiGroup.Post("/chat", s.handleChat)
	aiGroup.Post("/support", s.handleSupport)
	aiGroup.Post("/area-safety", s.handleAreaSafety)
	aiGroup.Post("/threat-assessment", s.handleThreatAssessment)

	chatGroup := apiGroup.Group("/chat")
	chatGroup.Get("/history", s.handleHistory)
	chatGroup.Post("/clear", s.handleClear)
	chatGroup.Get("/stats", s.handleStats)

	app.Use(s.handleNotFound)

	s.app = app

	return s, nil
}

func (s *Server) Listen() error {
	slog.Info("HTTP API listening", "addr", s.cfg.Server.Addr)

	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App is exposed for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	slog.Error("Request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)

	return c.Status(code).JSON(fiber.Map{
		"success":   false,
		"error":     err.Error(),
		"timestamp": timestamp(),
	})
}

func (s *Server) handleNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":   false,
		"error":     "Resource not found",
		"timestamp": timestamp(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":   false,
		"error":     message,
		"timestamp": timestamp(),
	})
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
