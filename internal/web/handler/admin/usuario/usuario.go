// Package usuario serves the superuser-only user management surface.
package usuario

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

// Path is the user management resource path.
const Path = "/admin/usuarios"

// Service is the user management handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the user management handler.
var Handler = Service{}

// payload is the user create/update body. Password is optional on update;
// when supplied it is re-hashed.
type payload struct {
	Username    string `json:"username" validate:"required,max=100"`
	Password    string `json:"password" validate:"omitempty,min=6"`
	Nome        string `json:"nome" validate:"required,max=255"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	NivelAcesso string `json:"nivel_acesso" validate:"required,max=50"`
	Ativo       *bool  `json:"ativo"`
	GrupoID     *uint  `json:"grupo_id"`
}

// Init initializes the user management handler.
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

// List returns all users. Password hashes never serialize.
func (s *Service) List(c *fiber.Ctx) error {
	var usuarios []models.Usuario

	if err := s.db.Order("username").Find(&usuarios).Error; err != nil {
		log.Error().Err(err).Msg("failed to list usuarios")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(usuarios)
}

// Post creates a user. Password is mandatory on creation.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	if body.Password == "" {
		return handler.Detail(c, fiber.StatusUnprocessableEntity, "senha obrigatória")
	}

	usuario := models.Usuario{
		Username:       body.Username,
		HashedPassword: models.HashPassword(body.Password),
		Nome:           body.Nome,
		Email:          body.Email,
		NivelAcesso:    body.NivelAcesso,
		Ativo:          true,
		GrupoID:        body.GrupoID,
	}

	if body.Ativo != nil {
		usuario.Ativo = *body.Ativo
	}

	if err := s.db.Create(&usuario).Error; err != nil {
		log.Error().Err(err).Str("username", body.Username).Msg("failed to create usuario")
		return handler.Detail(c, fiber.StatusConflict, "username já cadastrado")
	}

	log.Info().Str("username", usuario.Username).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(usuario)
}

// Put updates a user, re-hashing the password only when one is supplied.
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

	var usuario models.Usuario
	if err := s.db.First(&usuario, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	usuario.Username = body.Username
	usuario.Nome = body.Nome
	usuario.Email = body.Email
	usuario.NivelAcesso = body.NivelAcesso
	usuario.GrupoID = body.GrupoID

	if body.Ativo != nil {
		usuario.Ativo = *body.Ativo
	}

	if body.Password != "" {
		usuario.HashedPassword = models.HashPassword(body.Password)
	}

	if err := s.db.Save(&usuario).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update usuario")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(usuario)
}

// Delete removes a user. The caller cannot delete itself.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if ident := auth.CurrentIdentity(c); ident != nil && ident.User.ID == id {
		return handler.Detail(c, fiber.StatusUnprocessableEntity, "não é possível excluir o próprio usuário")
	}

	result := s.db.Delete(&models.Usuario{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint("id", id).Msg("failed to delete usuario")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	if result.RowsAffected == 0 {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}
