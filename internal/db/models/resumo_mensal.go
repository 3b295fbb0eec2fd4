package models

import "github.com/shopspring/decimal"

// ResumoMensal represents the monthly expense/budget totals of a client.
type ResumoMensal struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ClienteID      uint            `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Mes            string          `gorm:"size:20;not null" json:"mes"`
	Ano            int             `gorm:"not null" json:"ano"`
	TotalDespesas  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_despesas"`
	TotalOrcamento decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_orcamento"`
}

// TableName specifies the database table name for the ResumoMensal model.
func (ResumoMensal) TableName() string {
	return "resumo_mensal"
}
