package auth

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// Service answers permission and client-scope questions for a user. It
// only ever reads; all grant mutations go through the admin handlers.
type Service struct {
	db *gorm.DB
}

// NewService returns a Service backed by the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission reports whether the user may perform action on the
// category identified by baseID. Superusers always may; users without a
// group never may. Database failures and malformed inputs deny and log,
// they never panic or surface an error to the caller.
func (s *Service) HasPermission(u *models.Usuario, baseID uint, action Action) bool {
	if u.IsSuperuser() {
		return true
	}

	if u.GrupoID == nil {
		return false
	}

	if baseID%100 != 1 {
		log.Warn().Uint("base_id", baseID).Msg("permission check with malformed base id")
		return false
	}

	off, ok := action.Offset()
	if !ok {
		log.Warn().Int("action", int(action)).Msg("permission check with unknown action")
		return false
	}

	return s.groupHasID(*u.GrupoID, baseID+off)
}

// HasPermissionID reports whether the user holds the exact catalog id.
// It is the check for standalone ids (Sistema and Lojas blocks) that do
// not follow the base-plus-offset scheme.
func (s *Service) HasPermissionID(u *models.Usuario, permID uint) bool {
	if u.IsSuperuser() {
		return true
	}

	if u.GrupoID == nil {
		return false
	}

	return s.groupHasID(*u.GrupoID, permID)
}

// HasAnyPermissionID reports whether the user holds at least one of the
// given catalog ids.
func (s *Service) HasAnyPermissionID(u *models.Usuario, permIDs ...uint) bool {
	if u.IsSuperuser() {
		return true
	}

	for _, id := range permIDs {
		if s.HasPermissionID(u, id) {
			return true
		}
	}

	return false
}

// groupHasID checks a single grant. A grant only counts when the
// group-permission link and the catalog entry itself are both active.
func (s *Service) groupHasID(grupoID, permID uint) bool {
	var count int64

	err := s.db.Model(&models.PermissaoGrupo{}).
		Joins("JOIN permissoes_sistema ON permissoes_sistema.id = permissoes_grupos.permissao_id").
		Where("permissoes_grupos.grupo_id = ?", grupoID).
		Where("permissoes_grupos.permissao_id = ?", permID).
		Where("permissoes_grupos.ativo = ?", true).
		Where("permissoes_sistema.ativo = ?", true).
		Count(&count).Error
	if err != nil {
		log.Error().Err(err).Uint("grupo_id", grupoID).Uint("permissao_id", permID).
			Msg("permission lookup failed, denying")
		return false
	}

	return count > 0
}

// GrantedIDs returns every active catalog id granted to the user's group,
// in ascending order. Superusers get the full active catalog; users
// without a group get an empty list.
func (s *Service) GrantedIDs(u *models.Usuario) []uint {
	if u.IsSuperuser() {
		var ids []uint

		err := s.db.Model(&models.PermissaoSistema{}).
			Where("ativo = ?", true).
			Order("id").
			Pluck("id", &ids).Error
		if err != nil {
			log.Error().Err(err).Msg("catalog lookup failed")
			return nil
		}

		return ids
	}

	if u.GrupoID == nil {
		return nil
	}

	var ids []uint

	err := s.db.Model(&models.PermissaoGrupo{}).
		Joins("JOIN permissoes_sistema ON permissoes_sistema.id = permissoes_grupos.permissao_id").
		Where("permissoes_grupos.grupo_id = ?", *u.GrupoID).
		Where("permissoes_grupos.ativo = ?", true).
		Where("permissoes_sistema.ativo = ?", true).
		Order("permissoes_grupos.permissao_id").
		Pluck("permissoes_grupos.permissao_id", &ids).Error
	if err != nil {
		log.Error().Err(err).Uint("grupo_id", *u.GrupoID).Msg("grant lookup failed")
		return nil
	}

	return ids
}

// ClientScope resolves the set of client ids the user may see.
// Superusers and users without a group are unrestricted; grouped users
// are limited to their group's linked clients, which may be an empty set.
func (s *Service) ClientScope(u *models.Usuario) *Scope {
	if u.IsSuperuser() || u.GrupoID == nil {
		return UnrestrictedScope()
	}

	var ids []uint

	err := s.db.Model(&models.ClienteGrupo{}).
		Where("grupo_id = ?", *u.GrupoID).
		Pluck("cliente_id", &ids).Error
	if err != nil {
		log.Error().Err(err).Uint("grupo_id", *u.GrupoID).
			Msg("client scope lookup failed, denying all clients")
		return RestrictedScope(nil)
	}

	return RestrictedScope(ids)
}
