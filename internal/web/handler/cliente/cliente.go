// Package cliente serves client CRUD with row-level scope enforcement.
// Listing is filtered to the caller's client scope; detail, update and
// delete deny records outside it. An empty scope short-circuits to an
// empty list without touching storage.
package cliente

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

// Path is the client resource path.
const Path = "/clientes"

// Service is the client handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the client handler.
var Handler = Service{}

type payload struct {
	Nome     string `json:"nome" validate:"required,max=255"`
	CNPJ     string `json:"cnpj" validate:"max=20"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Contato  string `json:"contato" validate:"max=255"`
	Endereco string `json:"endereco" validate:"max=255"`
}

// Init initializes the client handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseClientes, auth.ActionRead), s.List)
		router.Get(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseClientes, auth.ActionRead), s.Get)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseClientes, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseClientes, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseClientes, auth.ActionDelete), s.Delete)
	})

	return nil
}

// scope resolves the caller's client scope.
func (s *Service) scope(c *fiber.Ctx) *auth.Scope {
	ident := auth.CurrentIdentity(c)
	if ident == nil {
		return auth.RestrictedScope(nil)
	}

	return s.authService.ClientScope(&ident.User)
}

// List returns the clients inside the caller's scope.
func (s *Service) List(c *fiber.Ctx) error {
	scope := s.scope(c)
	if scope.Empty() {
		return c.JSON([]models.Cliente{})
	}

	query := s.db.Order("nome")
	if !scope.Unrestricted() {
		query = query.Where("id IN ?", scope.IDs())
	}

	var clientes []models.Cliente

	if err := query.Find(&clientes).Error; err != nil {
		log.Error().Err(err).Msg("failed to list clientes")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(clientes)
}

// Get returns one client, membership-checked against the caller's scope.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if !s.scope(c).Allows(id) {
		return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	var cliente models.Cliente
	if err := s.db.First(&cliente, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(cliente)
}

// Post creates a client.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	cliente := models.Cliente{
		Nome:     body.Nome,
		CNPJ:     body.CNPJ,
		Email:    body.Email,
		Contato:  body.Contato,
		Endereco: body.Endereco,
	}

	if err := s.db.Create(&cliente).Error; err != nil {
		log.Error().Err(err).Msg("failed to create cliente")
		return handler.Detail(c, fiber.StatusConflict, "cliente já cadastrado")
	}

	return c.Status(fiber.StatusCreated).JSON(cliente)
}

// Put updates a client inside the caller's scope.
func (s *Service) Put(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if !s.scope(c).Allows(id) {
		return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var cliente models.Cliente
	if err := s.db.First(&cliente, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	cliente.Nome = body.Nome
	cliente.CNPJ = body.CNPJ
	cliente.Email = body.Email
	cliente.Contato = body.Contato
	cliente.Endereco = body.Endereco

	if err := s.db.Save(&cliente).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update cliente")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(cliente)
}

// Delete removes a client inside the caller's scope, along with its group
// scope links.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if !s.scope(c).Allows(id) {
		return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cliente_id = ?", id).Delete(&models.ClienteGrupo{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Cliente{}, id)
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
		log.Error().Err(err).Uint("id", id).Msg("failed to delete cliente")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}
