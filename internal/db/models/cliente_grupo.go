package models

// ClienteGrupo is the junction defining the row-level client scope of a
// group: which Cliente records (and records referencing them) the group's
// users may access.
type ClienteGrupo struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// GrupoID is the scoped group.
	GrupoID uint `gorm:"column:grupo_id;not null;index" json:"grupo_id"`
	// ClienteID is an accessible client.
	ClienteID uint `gorm:"column:cliente_id;not null" json:"cliente_id"`
}

// TableName specifies the database table name for the ClienteGrupo model.
func (ClienteGrupo) TableName() string {
	return "clientes_grupos"
}
