// Package grupo serves the superuser-only group management surface,
// including the junction replacement endpoints that define a group's
// permission grants, client scope and store links.
package grupo

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	controller "github.com/gestao-obras/gestao-obras/internal/db/controller/grupo"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

const (
	// Path is the group management resource path.
	Path = "/admin/grupos"

	// PermissoesPath is the nested permission set subpath.
	PermissoesPath = "/:id/permissoes"

	// ClientesPath is the nested client scope subpath.
	ClientesPath = "/:id/clientes"

	// LojasPath is the nested store link subpath.
	LojasPath = "/:id/lojas"
)

// Service is the group management handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the group management handler.
var Handler = Service{}

// payload is the group create/update body.
type payload struct {
	Nome      string `json:"nome" validate:"required,max=100"`
	Descricao string `json:"descricao"`
	Status    string `json:"status" validate:"omitempty,oneof=Aprovado Pendente Rejeitado"`
	Motivo    string `json:"motivo"`

	ValorMaximoDiarioFinanceiro        decimal.Decimal `json:"valor_maximo_diario_financeiro"`
	PrecoVenda                         decimal.Decimal `json:"preco_venda"`
	PlanoContas                        decimal.Decimal `json:"plano_contas"`
	ValorMaximoMovimentacao            decimal.Decimal `json:"valor_maximo_movimentacao"`
	ValorMaximoSolicitacaoCompra       decimal.Decimal `json:"valor_maximo_solicitacao_compra"`
	ValorMaximoDiarioSolicitacaoCompra decimal.Decimal `json:"valor_maximo_diario_solicitacao_compra"`
}

// idsPayload carries a junction replacement set.
type idsPayload struct {
	IDs []uint `json:"ids" validate:"required"`
}

// lojasPayload carries a store link replacement set.
type lojasPayload struct {
	Lojas []controller.LojaLink `json:"lojas" validate:"required"`
}

// Init initializes the group management handler.
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
		router.Get(PermissoesPath, s.GetPermissoes)
		router.Put(PermissoesPath, s.PutPermissoes)
		router.Get(ClientesPath, s.GetClientes)
		router.Put(ClientesPath, s.PutClientes)
		router.Get(LojasPath, s.GetLojas)
		router.Put(LojasPath, s.PutLojas)
	})

	return nil
}

func (s *Service) apply(grupo *models.GrupoUsuario, body *payload) {
	grupo.Nome = body.Nome
	grupo.Descricao = body.Descricao
	grupo.Motivo = body.Motivo

	grupo.Status = body.Status
	if grupo.Status == "" {
		grupo.Status = models.GrupoStatusAprovado
	}

	grupo.ValorMaximoDiarioFinanceiro = body.ValorMaximoDiarioFinanceiro
	grupo.PrecoVenda = body.PrecoVenda
	grupo.PlanoContas = body.PlanoContas
	grupo.ValorMaximoMovimentacao = body.ValorMaximoMovimentacao
	grupo.ValorMaximoSolicitacaoCompra = body.ValorMaximoSolicitacaoCompra
	grupo.ValorMaximoDiarioSolicitacaoCompra = body.ValorMaximoDiarioSolicitacaoCompra
}

// List returns all groups.
func (s *Service) List(c *fiber.Ctx) error {
	grupos, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list grupos")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(grupos)
}

// Post creates a group.
func (s *Service) Post(c *fiber.Ctx) error {
	var body payload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if err := s.validator.Struct(&body); err != nil {
		return handler.ValidationDetail(c, err)
	}

	var grupo models.GrupoUsuario
	s.apply(&grupo, &body)

	if err := controller.Create(s.db, &grupo); err != nil {
		log.Error().Err(err).Str("nome", body.Nome).Msg("failed to create grupo")
		return handler.Detail(c, fiber.StatusConflict, "grupo já cadastrado")
	}

	return c.Status(fiber.StatusCreated).JSON(grupo)
}

// Put updates a group.
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

	grupo, err := controller.Get(s.db, id)
	if err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	s.apply(grupo, &body)

	if err := controller.Update(s.db, grupo); err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to update grupo")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(grupo)
}

// Delete removes a group, clearing junctions and member references.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	err = controller.Delete(s.db, id)

	switch {
	case errors.Is(err, controller.ErrGrupoNotFound):
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to delete grupo")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GetPermissoes returns the group's granted catalog ids.
func (s *Service) GetPermissoes(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if _, err := controller.Get(s.db, id); err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	ids, err := controller.PermissionIDs(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to load grupo permissions")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ids": ids})
}

// PutPermissoes replaces the group's permission grant set.
func (s *Service) PutPermissoes(c *fiber.Ctx) error {
	return s.putIDSet(c, controller.ReplacePermissions)
}

// GetClientes returns the group's client scope ids.
func (s *Service) GetClientes(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if _, err := controller.Get(s.db, id); err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	ids, err := controller.ClienteIDs(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to load grupo clientes")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ids": ids})
}

// PutClientes replaces the group's client scope set.
func (s *Service) PutClientes(c *fiber.Ctx) error {
	return s.putIDSet(c, controller.ReplaceClientes)
}

func (s *Service) putIDSet(c *fiber.Ctx, replace func(*gorm.DB, uint, []uint) error) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var body idsPayload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	err = replace(s.db, id, body.IDs)

	switch {
	case errors.Is(err, controller.ErrGrupoNotFound):
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to replace grupo junction set")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GetLojas returns the group's store links.
func (s *Service) GetLojas(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if _, err := controller.Get(s.db, id); err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	links, err := controller.Lojas(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("failed to load grupo lojas")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"lojas": links})
}

// PutLojas replaces the group's store link set.
func (s *Service) PutLojas(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	var body lojasPayload

	if err := c.BodyParser(&body); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	err = controller.ReplaceLojas(s.db, id, body.Lojas)

	switch {
	case errors.Is(err, controller.ErrGrupoNotFound):
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	case err != nil:
		log.Error().Err(err).Uint("id", id).Msg("failed to replace grupo lojas")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(fiber.Map{"ok": true})
}
