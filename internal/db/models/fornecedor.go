package models

// Fornecedor represents a material or service supplier.
type Fornecedor struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Nome    string `gorm:"size:255;not null" json:"nome"`
	CNPJ    string `gorm:"column:cnpj;size:20" json:"cnpj"`
	Contato string `gorm:"size:255" json:"contato"`
}

// TableName specifies the database table name for the Fornecedor model.
func (Fornecedor) TableName() string {
	return "fornecedores"
}
