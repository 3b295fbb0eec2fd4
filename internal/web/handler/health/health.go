// Package health serves the unauthenticated liveness endpoint.
package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
	"github.com/pkg/errors"
)

// Path is the liveness endpoint path.
const Path = "/healthz"

// Build metadata, injected at link time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Service is the health handler service.
type Service struct {
	handler.Service
	startedAt time.Time
}

// Handler is the health handler.
var Handler = Service{}

// Init initializes the health handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.startedAt = time.Now()

	app.Get(Path, s.Get)

	return nil
}

// Get reports service status and build metadata.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "ok",
		"version":    Version,
		"commit":     Commit,
		"build_time": BuildTime,
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
	})
}
