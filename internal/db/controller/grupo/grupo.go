// Package grupo implements group storage operations, including the
// transactional junction replacement the admin surface builds on.
package grupo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// Errors returned by the group controller.
var (
	ErrDBNil         = errors.New("db is nil")
	ErrGrupoNotFound = errors.New("grupo not found")
	ErrNomeEmpty     = errors.New("grupo nome is empty")
)

// LojaLink is one store grant inside a replacement set.
type LojaLink struct {
	LojaID      uint `json:"loja_id"`
	AcessoTotal bool `json:"acesso_total"`
}

// GetAll returns every group ordered by name.
func GetAll(db *gorm.DB) ([]models.GrupoUsuario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grupos []models.GrupoUsuario
	if err := db.Order("nome").Find(&grupos).Error; err != nil {
		return nil, err
	}

	return grupos, nil
}

// Get returns one group by id.
func Get(db *gorm.DB, id uint) (*models.GrupoUsuario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grupo models.GrupoUsuario

	err := db.First(&grupo, id).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrGrupoNotFound
	case err != nil:
		return nil, err
	}

	return &grupo, nil
}

// Create inserts a new group.
func Create(db *gorm.DB, grupo *models.GrupoUsuario) error {
	if db == nil {
		return ErrDBNil
	}

	if grupo.Nome == "" {
		return ErrNomeEmpty
	}

	return db.Create(grupo).Error
}

// Update persists changes to an existing group.
func Update(db *gorm.DB, grupo *models.GrupoUsuario) error {
	if db == nil {
		return ErrDBNil
	}

	if grupo.Nome == "" {
		return ErrNomeEmpty
	}

	return db.Save(grupo).Error
}

// Delete removes a group, its junction rows and, in the same transaction,
// clears the group reference of every member so no user is left pointing
// at a dead group.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.GrupoUsuario{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrGrupoNotFound
		}

		if err := tx.Where("grupo_id = ?", id).Delete(&models.PermissaoGrupo{}).Error; err != nil {
			return err
		}

		if err := tx.Where("grupo_id = ?", id).Delete(&models.ClienteGrupo{}).Error; err != nil {
			return err
		}

		if err := tx.Where("grupo_id = ?", id).Delete(&models.LojaGrupo{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Usuario{}).
			Where("grupo_id = ?", id).
			Update("grupo_id", nil).Error
	})
}

// PermissionIDs returns the group's granted catalog ids (active rows only),
// ascending.
func PermissionIDs(db *gorm.DB, grupoID uint) ([]uint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []uint

	err := db.Model(&models.PermissaoGrupo{}).
		Where("grupo_id = ? AND ativo = ?", grupoID, true).
		Order("permissao_id").
		Pluck("permissao_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ReplacePermissions swaps the group's permission grant set for the given
// ids. The replacement is delete-all-then-insert inside one transaction so
// a failure leaves the previous set intact.
func ReplacePermissions(db *gorm.DB, grupoID uint, permIDs []uint) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, grupoID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grupo_id = ?", grupoID).Delete(&models.PermissaoGrupo{}).Error; err != nil {
			return err
		}

		for _, permID := range permIDs {
			link := models.PermissaoGrupo{GrupoID: grupoID, PermissaoID: permID, Ativo: true}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// ClienteIDs returns the group's scoped client ids, ascending.
func ClienteIDs(db *gorm.DB, grupoID uint) ([]uint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []uint

	err := db.Model(&models.ClienteGrupo{}).
		Where("grupo_id = ?", grupoID).
		Order("cliente_id").
		Pluck("cliente_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ReplaceClientes swaps the group's client scope set, transactionally.
func ReplaceClientes(db *gorm.DB, grupoID uint, clienteIDs []uint) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, grupoID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grupo_id = ?", grupoID).Delete(&models.ClienteGrupo{}).Error; err != nil {
			return err
		}

		for _, clienteID := range clienteIDs {
			link := models.ClienteGrupo{GrupoID: grupoID, ClienteID: clienteID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Lojas returns the group's store links.
func Lojas(db *gorm.DB, grupoID uint) ([]models.LojaGrupo, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var links []models.LojaGrupo

	err := db.Where("grupo_id = ?", grupoID).Order("loja_id").Find(&links).Error
	if err != nil {
		return nil, err
	}

	return links, nil
}

// ReplaceLojas swaps the group's store link set, transactionally.
func ReplaceLojas(db *gorm.DB, grupoID uint, lojas []LojaLink) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, grupoID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grupo_id = ?", grupoID).Delete(&models.LojaGrupo{}).Error; err != nil {
			return err
		}

		for _, loja := range lojas {
			link := models.LojaGrupo{GrupoID: grupoID, LojaID: loja.LojaID, AcessoTotal: loja.AcessoTotal}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
