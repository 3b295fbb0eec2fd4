// Package testes serves the store and air-conditioning maintenance test
// logs. Both resources share one shape and the same rules: reading needs
// store access (all stores or individual store), mutations need the store
// management grant, and every operation is membership-checked against the
// caller's client scope. Records carry optional photo/video uploads.
package testes

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/upload"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

const (
	// LojaPath is the store test log resource path.
	LojaPath = "/testes-loja"

	// ArCondicionadoPath is the AC test log resource path.
	ArCondicionadoPath = "/testes-ar-condicionado"

	dateLayout = "2006-01-02"
)

// registro is the shared row shape of both test log tables.
type registro struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DataTeste  time.Time `gorm:"column:data_teste" json:"data_teste"`
	ClienteID  uint      `gorm:"column:cliente_id" json:"cliente_id"`
	Horario    string    `json:"horario"`
	Foto       string    `json:"foto"`
	Video      string    `json:"video"`
	Status     string    `json:"status"`
	Observacao string    `json:"observacao"`
}

// form is the multipart create/update body (files arrive separately).
type form struct {
	DataTeste  string `form:"data_teste" validate:"required,datetime=2006-01-02"`
	ClienteID  uint   `form:"cliente_id" validate:"required"`
	Horario    string `form:"horario" validate:"required,len=5"`
	Status     string `form:"status" validate:"required,oneof=OK OFF"`
	Observacao string `form:"observacao" validate:"max=150"`
}

// Service is the test log handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
	uploads     *upload.Store
}

// Handler is the test log handler.
var Handler = Service{}

// SetUploadStore wires the media store. Must be called before Init.
func (s *Service) SetUploadStore(store *upload.Store) {
	s.uploads = store
}

// Init initializes the test log handler for both resources.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil || s.uploads == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	read := auth.RequireAnyPermissionID(authService, auth.PermLojasTodas, auth.PermLojaIndividual)
	manage := auth.RequireAnyPermissionID(authService, auth.PermGerenciarLojas)

	for path, table := range map[string]string{
		LojaPath:           models.TesteLoja{}.TableName(),
		ArCondicionadoPath: models.TesteArCondicionado{}.TableName(),
	} {
		tableName := table

		app.Route(path, func(router fiber.Router) {
			router.Get(handler.RouterRootPath, read, s.list(tableName))
			router.Post(handler.RouterRootPath, manage, s.create(tableName))
			router.Put(handler.RouterIDPath, manage, s.update(tableName))
			router.Delete(handler.RouterIDPath, manage, s.delete(tableName))
		})
	}

	return nil
}

func (s *Service) scope(c *fiber.Ctx) *auth.Scope {
	ident := auth.CurrentIdentity(c)
	if ident == nil {
		return auth.RestrictedScope(nil)
	}

	return s.authService.ClientScope(&ident.User)
}

// parseForm reads and validates the multipart fields. OFF outcomes must
// carry an observation.
func (s *Service) parseForm(c *fiber.Ctx) (*form, error) {
	var body form

	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return nil, err
	}

	if body.Status == models.TesteStatusOFF && body.Observacao == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "status OFF exige observação")
	}

	return &body, nil
}

// saveMedia stores an optional uploaded file and replaces the previous
// one. It returns the stored filename, or the current name when the field
// is absent.
func (s *Service) saveMedia(c *fiber.Ctx, field string, kind upload.Kind, current string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Field absent: keep whatever is stored.
		return current, nil
	}

	name, err := s.uploads.Save(fh, kind)
	if err != nil {
		return "", err
	}

	if current != "" {
		if err := s.uploads.Remove(current); err != nil {
			log.Warn().Err(err).Str("file", current).Msg("failed to remove replaced media file")
		}
	}

	return name, nil
}

func (s *Service) formError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return handler.Detail(c, fiberErr.Code, fiberErr.Message)
	}

	return handler.ValidationDetail(c, err)
}

func (s *Service) list(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := s.scope(c)
		if scope.Empty() {
			return c.JSON([]registro{})
		}

		query := s.db.Table(table).Order("data_teste desc, horario desc")
		if !scope.Unrestricted() {
			query = query.Where("cliente_id IN ?", scope.IDs())
		}

		if clienteID := c.QueryInt("cliente_id"); clienteID > 0 {
			if !scope.Allows(uint(clienteID)) {
				return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
			}

			query = query.Where("cliente_id = ?", clienteID)
		}

		var registros []registro

		if err := query.Find(&registros).Error; err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to list test records")
			return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
		}

		return c.JSON(registros)
	}
}

func (s *Service) create(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := s.parseForm(c)
		if err != nil {
			return s.formError(c, err)
		}

		if !s.scope(c).Allows(body.ClienteID) {
			return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
		}

		dataTeste, _ := time.Parse(dateLayout, body.DataTeste)

		rec := registro{
			DataTeste:  dataTeste,
			ClienteID:  body.ClienteID,
			Horario:    body.Horario,
			Status:     body.Status,
			Observacao: body.Observacao,
		}

		if rec.Foto, err = s.saveMedia(c, "foto", upload.KindFoto, ""); err != nil {
			return handler.Detail(c, fiber.StatusUnprocessableEntity, "foto inválida")
		}

		if rec.Video, err = s.saveMedia(c, "video", upload.KindVideo, ""); err != nil {
			return handler.Detail(c, fiber.StatusUnprocessableEntity, "vídeo inválido")
		}

		if err := s.db.Table(table).Create(&rec).Error; err != nil {
			log.Error().Err(err).Str("table", table).Msg("failed to create test record")
			return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
		}

		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

func (s *Service) update(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
		}

		var rec registro
		if err := s.db.Table(table).First(&rec, id).Error; err != nil {
			return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		// The record's current owner and the requested owner must both be
		// inside the caller's scope.
		scope := s.scope(c)
		if !scope.Allows(rec.ClienteID) {
			return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
		}

		body, err := s.parseForm(c)
		if err != nil {
			return s.formError(c, err)
		}

		if !scope.Allows(body.ClienteID) {
			return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
		}

		dataTeste, _ := time.Parse(dateLayout, body.DataTeste)

		rec.DataTeste = dataTeste
		rec.ClienteID = body.ClienteID
		rec.Horario = body.Horario
		rec.Status = body.Status
		rec.Observacao = body.Observacao

		if rec.Foto, err = s.saveMedia(c, "foto", upload.KindFoto, rec.Foto); err != nil {
			return handler.Detail(c, fiber.StatusUnprocessableEntity, "foto inválida")
		}

		if rec.Video, err = s.saveMedia(c, "video", upload.KindVideo, rec.Video); err != nil {
			return handler.Detail(c, fiber.StatusUnprocessableEntity, "vídeo inválido")
		}

		if err := s.db.Table(table).Save(&rec).Error; err != nil {
			log.Error().Err(err).Str("table", table).Uint("id", id).Msg("failed to update test record")
			return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
		}

		return c.JSON(rec)
	}
}

func (s *Service) delete(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
		}

		var rec registro
		if err := s.db.Table(table).First(&rec, id).Error; err != nil {
			return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		if !s.scope(c).Allows(rec.ClienteID) {
			return handler.Detail(c, fiber.StatusForbidden, handler.MsgForbidden)
		}

		if err := s.db.Table(table).Delete(&registro{}, id).Error; err != nil {
			log.Error().Err(err).Str("table", table).Uint("id", id).Msg("failed to delete test record")
			return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
		}

		// Media files are removed best-effort after the row is gone.
		for _, name := range []string{rec.Foto, rec.Video} {
			if name == "" {
				continue
			}

			if err := s.uploads.Remove(name); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("failed to remove media file")
			}
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}
