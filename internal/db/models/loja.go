package models

// Loja represents a store serviced by the maintenance teams.
type Loja struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nome     string `gorm:"size:255;not null" json:"nome"`
	Codigo   string `gorm:"unique;size:50" json:"codigo"`
	Endereco string `gorm:"size:255" json:"endereco"`
	Ativo    bool   `gorm:"default:true" json:"ativo"`
}

// TableName specifies the database table name for the Loja model.
func (Loja) TableName() string {
	return "lojas"
}
