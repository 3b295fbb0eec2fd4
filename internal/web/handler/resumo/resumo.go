// Package resumo serves monthly summary CRUD.
package resumo

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

// Path is the monthly summary resource path.
const Path = "/resumo-mensal"

// Service is the monthly summary handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the monthly summary handler.
var Handler = Service{}

type payload struct {
	ClienteID      uint            `json:"cliente_id" validate:"required"`
	Mes            string          `json:"mes" validate:"required,max=20"`
	Ano            int             `json:"ano" validate:"required,gte=2000,lte=2100"`
	TotalDespesas  decimal.Decimal `json:"total_despesas"`
	TotalOrcamento decimal.Decimal `json:"total_orcamento"`
}

// Init initializes the monthly summary handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseResumoMensal, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseResumoMensal, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseResumoMensal, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseResumoMensal, auth.ActionDelete), s.Delete)
	})

	return nil
}

func (s *Service) apply(resumo *models.ResumoMensal, body *payload) {
	resumo.ClienteID = body.ClienteID
	resumo.Mes = body.Mes
	resumo.Ano = body.Ano
	resumo.TotalDespesas = body.TotalDespesas
	resumo.TotalOrcamento = body.TotalOrcamento
}

// List returns summaries, optionally filtered by ?cliente_id= and ?ano=.
func (s *Service) List(c *fiber.Ctx) error {
	query := s.db.Order("ano desc, id desc")

	if clienteID := c.QueryInt("cliente_id"); clienteID > 0 {
		query = query.Where("cliente_id = ?", clienteID)
	}

	if ano := c.QueryInt("ano"); ano > 0 {
		query = query.Where("ano = ?", ano)
	}

	var resumos []models.ResumoMensal

	if err := query.Find(&resumos).Error; err != nil {
		log.Error().Err(err).Msg("failed to list resumo_mensal")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(resumos)
}

// Post creates a summary row.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var resumo models.ResumoMensal
	s.apply(&resumo, &body)

	if err := s.db.Create(&resumo).Error; err != nil {
		log.Error().Err(err).Msg("failed to create resumo_mensal")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(resumo)
}

// Put updates a summary row.
func (s *Service) Put(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var resumo models.ResumoMensal
	if err := s.db.First(&resumo, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(&resumo, &body)

	if err := s.db.Save(&resumo).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update resumo_mensal")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(resumo)
}

// Delete removes a summary row.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	result := s.db.Delete(&models.ResumoMensal{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete resumo_mensal")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
