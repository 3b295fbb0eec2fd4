// Package despesa serves project expense CRUD.
package despesa

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
	// Path is the expense resource path.
	Path = "/despesas"

	dateLayout = "2006-01-02"
)

// Service is the expense handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the expense handler.
var Handler = Service{}

type payload struct {
	ClienteID   *uint           `json:"cliente_id"`
	Servico     string          `json:"servico" validate:"max=255"`
	Descricao   string          `json:"descricao" validate:"max=255"`
	Valor       decimal.Decimal `json:"valor"`
	Data        string          `json:"data" validate:"omitempty,datetime=2006-01-02"`
	Categoria   string          `json:"categoria" validate:"max=100"`
	Status      string          `json:"status" validate:"omitempty,oneof=Pendente Pago Cancelado"`
	Observacoes string          `json:"observacoes"`
}

// Init initializes the expense handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseDespesas, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseDespesas, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseDespesas, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseDespesas, auth.ActionDelete), s.Delete)
	})

	return nil
}

func (s *Service) apply(despesa *models.Despesa, body *payload) {
	despesa.ClienteID = body.ClienteID
	despesa.Servico = body.Servico
	despesa.Descricao = body.Descricao
	despesa.Valor = body.Valor
	despesa.Categoria = body.Categoria
	despesa.Observacoes = body.Observacoes
	despesa.Data = nil

	if body.Data != "" {
		if parsed, err := time.Parse(dateLayout, body.Data); err == nil {
			despesa.Data = &parsed
		}
	}

	despesa.Status = body.Status
	if despesa.Status == "" {
		despesa.Status = models.DespesaStatusPendente
	}
}

// List returns expenses, optionally filtered by ?cliente_id= and ?status=.
func (s *Service) List(c *fiber.Ctx) error {
	query := s.db.Order("id desc")

	if clienteID := c.QueryInt("cliente_id"); clienteID > 0 {
		query = query.Where("cliente_id = ?", clienteID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var despesas []models.Despesa

	if err := query.Find(&despesas).Error; err != nil {
		log.Error().Err(err).Msg("failed to list despesas")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(despesas)
}

// Post creates an expense.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var despesa models.Despesa
	s.apply(&despesa, &body)

	if err := s.db.Create(&despesa).Error; err != nil {
		log.Error().Err(err).Msg("failed to create despesa")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(despesa)
}

// Put updates an expense.
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

	var despesa models.Despesa
	if err := s.db.First(&despesa, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(&despesa, &body)

	if err := s.db.Save(&despesa).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update despesa")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(despesa)
}

// Delete removes an expense.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	result := s.db.Delete(&models.Despesa{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete despesa")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
