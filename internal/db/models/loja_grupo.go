package models

// LojaGrupo is the junction linking groups to stores. AcessoTotal marks the
// row as granting access to every store instead of the referenced one.
type LojaGrupo struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	GrupoID     uint `gorm:"column:grupo_id;not null;index" json:"grupo_id"`
	LojaID      uint `gorm:"column:loja_id;not null" json:"loja_id"`
	AcessoTotal bool `gorm:"default:false" json:"acesso_total"`
}

// TableName specifies the database table name for the LojaGrupo model.
func (LojaGrupo) TableName() string {
	return "lojas_grupos"
}
