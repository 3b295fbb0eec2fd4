package models

// PermissaoSistema represents one entry of the fixed permission catalog.
// IDs follow the 4-digit convention: a hundreds-block per category with the
// action encoded as an offset within the block (read +0, update +1,
// delete +2, create +3). IDs are assigned by the catalog, never
// auto-generated, and are immutable once created.
type PermissaoSistema struct {
	// ID is the externally assigned, stable catalog id.
	ID uint `gorm:"primaryKey;autoIncrement:false" json:"id"`
	// Nome is the unique permission display name.
	Nome string `gorm:"unique;size:255;not null" json:"nome"`
	// Descricao provides a human-readable explanation of the grant.
	Descricao string `gorm:"type:text" json:"descricao"`
	// Categoria groups entries (Sistema, Cadastros, Obras, Financeiro, ...).
	Categoria string `gorm:"size:100" json:"categoria"`
	// Ativo excludes the entry from checks without deleting it.
	Ativo bool `gorm:"default:true" json:"ativo"`
}

// TableName specifies the database table name for the PermissaoSistema model.
func (PermissaoSistema) TableName() string {
	return "permissoes_sistema"
}
