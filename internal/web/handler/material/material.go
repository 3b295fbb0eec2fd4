// Package material serves material price/stock CRUD.
package material

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

// Path is the material price resource path.
const Path = "/valor-materiais"

// Service is the material price handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the material price handler.
var Handler = Service{}

type payload struct {
	ClienteID         *uint           `json:"cliente_id"`
	DescricaoProduto  string          `json:"descricao_produto" validate:"required,max=255"`
	Marca             string          `json:"marca" validate:"max=100"`
	UnidadeMedida     string          `json:"unidade_medida" validate:"max=50"`
	ValorUnitario     decimal.Decimal `json:"valor_unitario"`
	EstoqueAtual      int             `json:"estoque_atual" validate:"gte=0"`
	EstoqueMinimo     int             `json:"estoque_minimo" validate:"gte=0"`
	DataUltimaEntrada string          `json:"data_ultima_entrada" validate:"max=50"`
	Responsavel       string          `json:"responsavel" validate:"max=255"`
	Fornecedor        string          `json:"fornecedor" validate:"max=255"`
	Localizacao       string          `json:"localizacao" validate:"max=255"`
	Observacoes       string          `json:"observacoes" validate:"max=255"`
}

// Init initializes the material price handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseValorMateriais, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseValorMateriais, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseValorMateriais, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseValorMateriais, auth.ActionDelete), s.Delete)
	})

	return nil
}

func (s *Service) apply(material *models.ValorMaterial, body *payload) {
	material.ClienteID = body.ClienteID
	material.DescricaoProduto = body.DescricaoProduto
	material.Marca = body.Marca
	material.UnidadeMedida = body.UnidadeMedida
	material.ValorUnitario = body.ValorUnitario
	material.EstoqueAtual = body.EstoqueAtual
	material.EstoqueMinimo = body.EstoqueMinimo
	material.DataUltimaEntrada = body.DataUltimaEntrada
	material.Responsavel = body.Responsavel
	material.Fornecedor = body.Fornecedor
	material.Localizacao = body.Localizacao
	material.Observacoes = body.Observacoes
}

// List returns material prices, optionally filtered by ?cliente_id=.
func (s *Service) List(c *fiber.Ctx) error {
	query := s.db.Order("descricao_produto")

	if clienteID := c.QueryInt("cliente_id"); clienteID > 0 {
		query = query.Where("cliente_id = ?", clienteID)
	}

	var materiais []models.ValorMaterial

	if err := query.Find(&materiais).Error; err != nil {
		log.Error().Err(err).Msg("failed to list valor_materiais")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(materiais)
}

// Post creates a material price entry.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var material models.ValorMaterial
	s.apply(&material, &body)

	if err := s.db.Create(&material).Error; err != nil {
		log.Error().Err(err).Msg("failed to create valor_material")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(material)
}

// Put updates a material price entry.
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

	var material models.ValorMaterial
	if err := s.db.First(&material, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(&material, &body)

	if err := s.db.Save(&material).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update valor_material")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(material)
}

// Delete removes a material price entry.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	result := s.db.Delete(&models.ValorMaterial{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete valor_material")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
