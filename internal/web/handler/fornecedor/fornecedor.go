// Package fornecedor serves supplier CRUD.
package fornecedor

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

// Path is the supplier resource path.
const Path = "/fornecedores"

// Service is the supplier handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the supplier handler.
var Handler = Service{}

// payload is the supplier create/update body.
type payload struct {
	Nome    string `json:"nome" validate:"required,max=255"`
	CNPJ    string `json:"cnpj" validate:"max=20"`
	Contato string `json:"contato" validate:"max=255"`
}

// Init initializes the supplier handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseFornecedores, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseFornecedores, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseFornecedores, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseFornecedores, auth.ActionDelete), s.Delete)
	})

	return nil
}

// List returns all suppliers.
func (s *Service) List(c *fiber.Ctx) error {
	var fornecedores []models.Fornecedor

	if err := s.db.Order("nome").Find(&fornecedores).Error; err != nil {
		log.Error().Err(err).Msg("failed to list fornecedores")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fornecedores)
}

// Post creates a supplier.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	fornecedor := models.Fornecedor{Nome: body.Nome, CNPJ: body.CNPJ, Contato: body.Contato}

	if err := s.db.Create(&fornecedor).Error; err != nil {
		log.Error().Err(err).Msg("failed to create fornecedor")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(fornecedor)
}

// Put updates a supplier.
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

	var fornecedor models.Fornecedor
	if err := s.db.First(&fornecedor, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	fornecedor.Nome = body.Nome
	fornecedor.CNPJ = body.CNPJ
	fornecedor.Contato = body.Contato

	if err := s.db.Save(&fornecedor).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update fornecedor")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fornecedor)
}

// Delete removes a supplier.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	result := s.db.Delete(&models.Fornecedor{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete fornecedor")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
