package models

// PermissaoGrupo is the junction defining the permission grant set for a
// group. A grant only counts while both this row and the referenced catalog
// entry are active.
type PermissaoGrupo struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// GrupoID is the granting group.
	GrupoID uint `gorm:"column:grupo_id;not null;index" json:"grupo_id"`
	// PermissaoID is the granted catalog id.
	PermissaoID uint `gorm:"column:permissao_id;not null" json:"permissao_id"`
	// Ativo suspends the grant without removing the row.
	Ativo bool `gorm:"default:true" json:"ativo"`
}

// TableName specifies the database table name for the PermissaoGrupo model.
func (PermissaoGrupo) TableName() string {
	return "permissoes_grupos"
}
