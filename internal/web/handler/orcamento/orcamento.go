// Package orcamento serves work-budget line CRUD.
package orcamento

import (
	"errors"
	"time"

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

const (
	// Path is the work-budget resource path.
	Path = "/orcamento-obra"

	dateLayout = "2006-01-02"
)

// Service is the work-budget handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the work-budget handler.
var Handler = Service{}

type payload struct {
	ClienteID     uint            `json:"cliente_id" validate:"required"`
	Etapa         string          `json:"etapa" validate:"required,max=255"`
	Descricao     string          `json:"descricao" validate:"required,max=255"`
	Unidade       string          `json:"unidade" validate:"required,max=50"`
	Quantidade    float64         `json:"quantidade" validate:"gte=0"`
	CustoUnitario decimal.Decimal `json:"custo_unitario"`
	Data          string          `json:"data" validate:"omitempty,datetime=2006-01-02"`
}

// Init initializes the work-budget handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseOrcamento, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseOrcamento, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseOrcamento, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseOrcamento, auth.ActionDelete), s.Delete)
	})

	return nil
}

func (s *Service) apply(linha *models.OrcamentoObra, body *payload) {
	linha.ClienteID = body.ClienteID
	linha.Etapa = body.Etapa
	linha.Descricao = body.Descricao
	linha.Unidade = body.Unidade
	linha.Quantidade = body.Quantidade
	linha.CustoUnitario = body.CustoUnitario
	linha.Data = nil

	if body.Data != "" {
		if parsed, err := time.Parse(dateLayout, body.Data); err == nil {
			linha.Data = &parsed
		}
	}
}

// List returns budget lines, optionally filtered by ?cliente_id=.
func (s *Service) List(c *fiber.Ctx) error {
	query := s.db.Order("id")

	if clienteID := c.QueryInt("cliente_id"); clienteID > 0 {
		query = query.Where("cliente_id = ?", clienteID)
	}

	var linhas []models.OrcamentoObra

	if err := query.Find(&linhas).Error; err != nil {
		log.Error().Err(err).Msg("failed to list orcamento_obra")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(linhas)
}

// Post creates a budget line.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var linha models.OrcamentoObra
	s.apply(&linha, &body)

	if err := s.db.Create(&linha).Error; err != nil {
		log.Error().Err(err).Msg("failed to create orcamento_obra")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(linha)
}

// Put updates a budget line.
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

	var linha models.OrcamentoObra
	if err := s.db.First(&linha, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(&linha, &body)

	if err := s.db.Save(&linha).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update orcamento_obra")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(linha)
}

// Delete removes a budget line.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	result := s.db.Delete(&models.OrcamentoObra{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete orcamento_obra")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
