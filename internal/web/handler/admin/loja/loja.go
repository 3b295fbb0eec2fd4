// Package loja serves the superuser-only store management surface.
package loja

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

// Path is the store management resource path.
const Path = "/admin/lojas"

// Service is the store management handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the store management handler.
var Handler = Service{}

type payload struct {
	Nome     string `json:"nome" validate:"required,max=255"`
	Codigo   string `json:"codigo" validate:"max=50"`
	Endereco string `json:"endereco" validate:"max=255"`
	Ativo    *bool  `json:"ativo"`
}

// Init initializes the store management handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireSuperuser())
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Post)
		router.Put(handler.RouterIDPath, s.Put)
		router.Delete(handler.RouterIDPath, s.Delete)
	})

	return nil
}

// List returns all stores.
func (s *Service) List(c *fiber.Ctx) error {
	var lojas []models.Loja

	if err := s.db.Order("nome").Find(&lojas).Error; err != nil {
		log.Error().Err(err).Msg("failed to list lojas")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(lojas)
}

// Post creates a store.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	loja := models.Loja{Nome: body.Nome, Codigo: body.Codigo, Endereco: body.Endereco, Ativo: true}
	if body.Ativo != nil {
		loja.Ativo = *body.Ativo
	}

	if err := s.db.Create(&loja).Error; err != nil {
		log.Error().Err(err).Str("codigo", body.Codigo).Msg("failed to create loja")
		return handler.Detail(c, fiber.StatusConflict, "loja já cadastrada")
	}

	return c.Status(fiber.StatusCreated).JSON(loja)
}

// Put updates a store.
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

	var loja models.Loja
	if err := s.db.First(&loja, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	loja.Nome = body.Nome
	loja.Codigo = body.Codigo
	loja.Endereco = body.Endereco

	if body.Ativo != nil {
		loja.Ativo = *body.Ativo
	}

	if err := s.db.Save(&loja).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update loja")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(loja)
}

// Delete removes a store and its group links.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loja_id = ?", id).Delete(&models.LojaGrupo{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Loja{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to delete loja")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}
