package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bakuscan/config"
	"bakuscan/models"
	"bakuscan/services"
	"bakuscan/storage"
	"bakuscan/utils"
)

const sessionCookie = "bakuscan_session"

// Identifier is the boundary to the vision model.
type Identifier interface {
	Identify(ctx context.Context, imageBytes []byte) models.IdentificationResult
}

// Server is the HTTP front end: identification, scan history and market data.
type Server struct {
	app        *fiber.App
	cfg        *config.Config
	logger     *utils.Logger
	identifier Identifier
	market     *services.MarketService
	store      storage.ScanStore
}

// New builds the fiber application with all routes registered.
func New(cfg *config.Config, logger *utils.Logger, identifier Identifier, market *services.MarketService, store storage.ScanStore) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		identifier: identifier,
		market:     market,
		store:      store,
	}

	app := fiber.New(fiber.Config{
		AppName:               "bakuscan",
		DisableStartupMessage: true,
	})

	app.Use(s.sessionMiddleware)

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/analyze", s.handleAnalyze)
	api.Get("/history", s.handleHistory)
	api.Get("/market-data", s.handleMarketData)
	api.Get("/pricing", s.handlePricing)
	api.Get("/images", s.handleImages)

	s.app = app
	return s
}

// Listen serves HTTP on the given address until the process exits.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// sessionMiddleware issues a session cookie on first contact and makes the
// session ID available to handlers.
func (s *Server) sessionMiddleware(c *fiber.Ctx) error {
	sid := c.Cookies(sessionCookie)
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
	c.Locals("session_id", sid)
	return c.Next()
}

func sessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("session_id").(string); ok {
		return sid
	}
	return ""
}
