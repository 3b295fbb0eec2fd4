package models

// Cliente represents a client owning construction projects. Clients are the
// anchor of row-level scoping: group membership decides which clients (and
// which dependent records) a user may see.
type Cliente struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nome     string `gorm:"unique;size:255;not null" json:"nome"`
	CNPJ     string `gorm:"column:cnpj;unique;size:20" json:"cnpj"`
	Email    string `gorm:"size:255" json:"email"`
	Contato  string `gorm:"size:255" json:"contato"`
	Endereco string `gorm:"size:255" json:"endereco"`
}

// TableName specifies the database table name for the Cliente model.
func (Cliente) TableName() string {
	return "clientes"
}
