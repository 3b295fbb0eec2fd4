package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DespesaStatusPendente is the default status of a new expense.
const DespesaStatusPendente = "Pendente"

// Despesa represents a project expense.
type Despesa struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	ClienteID *uint `gorm:"column:cliente_id;index" json:"cliente_id"`
	// Servico names the billed service; Descricao carries free-form detail.
	Servico     string          `gorm:"size:255" json:"servico"`
	Descricao   string          `gorm:"size:255" json:"descricao"`
	Valor       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"valor"`
	Data        *time.Time      `gorm:"type:date" json:"data"`
	Categoria   string          `gorm:"size:100" json:"categoria"`
	Status      string          `gorm:"size:50;default:'Pendente'" json:"status"`
	Observacoes string          `gorm:"type:text" json:"observacoes"`
}

// TableName specifies the database table name for the Despesa model.
func (Despesa) TableName() string {
	return "despesas"
}
