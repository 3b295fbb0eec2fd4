// Package contrato serves contract CRUD and the contract document upload.
package contrato

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
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
	// Path is the contract resource path.
	Path = "/contratos"

	// ArquivoPath is the per-contract document upload subpath.
	ArquivoPath = "/:id/arquivo"

	dateLayout = "2006-01-02"

	// maxArquivoBytes caps a contract document at 15 MiB.
	maxArquivoBytes = 15 << 20
)

// Service is the contract handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the contract handler.
var Handler = Service{}

// payload is the contract create/update body. Dates travel as
// "YYYY-MM-DD" strings.
type payload struct {
	Numero             string          `json:"numero" validate:"required,max=50"`
	ClienteID          uint            `json:"cliente_id" validate:"required"`
	Valor              decimal.Decimal `json:"valor"`
	DataInicio         string          `json:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim            string          `json:"data_fim" validate:"omitempty,datetime=2006-01-02"`
	Tipo               string          `json:"tipo" validate:"max=100"`
	Situacao           string          `json:"situacao" validate:"max=100"`
	PrazoPagamento     string          `json:"prazo_pagamento" validate:"max=100"`
	QuantidadeParcelas string          `json:"quantidade_parcelas" validate:"max=50"`
}

// Init initializes the contract handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionRead), s.List)
		router.Post(handler.RouterRootPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionCreate), s.Post)
		router.Put(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionUpdate), s.Put)
		router.Delete(handler.RouterIDPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionDelete), s.Delete)
		router.Post(ArquivoPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionUpdate), s.PostArquivo)
		router.Get(ArquivoPath, auth.RequirePermission(authService, auth.BaseContratos, auth.ActionRead), s.GetArquivo)
	})

	return nil
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}

	return &parsed
}

func (s *Service) apply(contrato *models.Contrato, body *payload) {
	contrato.Numero = body.Numero
	contrato.ClienteID = body.ClienteID
	contrato.Valor = body.Valor
	contrato.DataInicio = parseDate(body.DataInicio)
	contrato.DataFim = parseDate(body.DataFim)
	contrato.Tipo = body.Tipo
	contrato.Situacao = body.Situacao
	contrato.PrazoPagamento = body.PrazoPagamento
	contrato.QuantidadeParcelas = body.QuantidadeParcelas
}

// List returns all contracts.
func (s *Service) List(c *fiber.Ctx) error {
	var contratos []models.Contrato

	if err := s.db.Order("id desc").Find(&contratos).Error; err != nil {
		log.Error().Err(err).Msg("failed to list contratos")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(contratos)
}

// Post creates a contract.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var contrato models.Contrato
	s.apply(&contrato, &body)

	if err := s.db.Create(&contrato).Error; err != nil {
		log.Error().Err(err).Msg("failed to create contrato")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(contrato)
}

// Put updates a contract.
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

	var contrato models.Contrato
	if err := s.db.First(&contrato, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(&contrato, &body)

	if err := s.db.Save(&contrato).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update contrato")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(contrato)
}

// Delete removes a contract and its stored document, if any.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var contrato models.Contrato
	if err := s.db.First(&contrato, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if contrato.ArquivoUploadID != nil {
			if err := tx.Delete(&models.ArquivoImportado{}, *contrato.ArquivoUploadID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&contrato).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to delete contrato")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GetArquivo downloads the stored contract document.
func (s *Service) GetArquivo(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var contrato models.Contrato
	if err := s.db.First(&contrato, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	if contrato.ArquivoUploadID == nil {
		return handler.Detail(c, fiber.StatusNotFound, "contrato sem arquivo")
	}

	var arquivo models.ArquivoImportado
	if err := s.db.First(&arquivo, *contrato.ArquivoUploadID).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, "contrato sem arquivo")
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+arquivo.Nome+`"`)

	return c.Send(arquivo.Conteudo)
}

// PostArquivo attaches a document to a contract. The file content is kept
// in the database; a re-upload replaces the previous document.
func (s *Service) PostArquivo(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var contrato models.Contrato
	if err := s.db.First(&contrato, id).Error; err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "arquivo ausente")
	}

	if fh.Size > maxArquivoBytes {
		return handler.Detail(c, fiber.StatusRequestEntityTooLarge, "arquivo excede o tamanho máximo")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".doc" && ext != ".docx" {
		return handler.Detail(c, fiber.StatusUnprocessableEntity, "formato de arquivo não suportado")
	}

	src, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded contract document")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(io.LimitReader(src, maxArquivoBytes))
	if err != nil {
		log.Error().Err(err).Msg("failed to read uploaded contract document")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if contrato.ArquivoUploadID != nil {
			if err := tx.Delete(&models.ArquivoImportado{}, *contrato.ArquivoUploadID).Error; err != nil {
				return err
			}
		}

		arquivo := models.ArquivoImportado{
			Nome:     fh.Filename,
			Entidade: "contratos",
			Conteudo: content,
			Tamanho:  len(content),
		}
		if err := tx.Create(&arquivo).Error; err != nil {
			return err
		}

		contrato.Arquivo = fh.Filename
		contrato.ArquivoUploadID = &arquivo.ID

		return tx.Save(&contrato).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to store contract document")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(contrato)
}
