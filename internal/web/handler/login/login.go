// Package login serves token issuance and the current-user endpoint.
package login

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

const (
	// Path is the token issuance endpoint path.
	Path = "/login"

	// MePath is the current-user endpoint path.
	MePath = "/me"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// credentials is the login request body.
type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userPayload is the user representation embedded in login and /me
// responses.
type userPayload struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	NivelAcesso string `json:"nivel_acesso"`
	Ativo       bool   `json:"ativo"`
	IsAdmin     bool   `json:"is_admin"`
	GrupoID     *uint  `json:"grupo_id"`
}

func newUserPayload(u *models.Usuario) userPayload {
	return userPayload{
		ID:          u.ID,
		Username:    u.Username,
		Nome:        u.Nome,
		Email:       u.Email,
		NivelAcesso: u.NivelAcesso,
		Ativo:       u.Ativo,
		IsAdmin:     u.IsSuperuser(),
		GrupoID:     u.GrupoID,
	}
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Post(Path, s.Post)
	app.Get(MePath, auth.Middleware(authService, cfg.Auth.JWTSecret), s.GetMe)

	return nil
}

// Post authenticates a username/password pair and issues a bearer token.
func (s *Service) Post(c *fiber.Ctx) error {
	var creds credentials

	if err := c.BodyParser(&creds); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&creds); err != nil {
		return handler.ValidationDetail(c, err)
	}

	user, err := s.authService.Authenticate(creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserInactive) {
			return handler.Detail(c, fiber.StatusForbidden, "usuário inativo")
		}

		return handler.Detail(c, fiber.StatusUnauthorized, "usuário ou senha incorretos")
	}

	token, err := auth.IssueToken(s.cfg.Auth.JWTSecret, user.Username, s.cfg.Auth.TokenTTL)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("token issuance failed")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         newUserPayload(user),
	})
}

// GetMe returns the authenticated caller's profile.
func (s *Service) GetMe(c *fiber.Ctx) error {
	ident := auth.CurrentIdentity(c)
	if ident == nil {
		return handler.Detail(c, fiber.StatusUnauthorized, "not authenticated")
	}

	return c.JSON(newUserPayload(&ident.User))
}
