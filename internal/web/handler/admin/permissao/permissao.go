// Package permissao serves the permission catalog listing.
package permissao

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

// Path is the permission catalog path.
const Path = "/permissoes"

// Service is the permission catalog handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the permission catalog handler.
var Handler = Service{}

// Init initializes the permission catalog handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, auth.RequireSuperuser(), s.List)

	return nil
}

// List returns the active catalog ordered by id, so the admin UI can
// render the grant matrix grouped by category.
func (s *Service) List(c *fiber.Ctx) error {
	var entries []models.PermissaoSistema

	if err := s.db.Where("ativo = ?", true).Order("id").Find(&entries).Error; err != nil {
		log.Error().Err(err).Msg("failed to list permission catalog")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(entries)
}
