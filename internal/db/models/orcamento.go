package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrcamentoObra represents one line of a construction work budget.
type OrcamentoObra struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ClienteID     uint            `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Etapa         string          `gorm:"size:255;not null" json:"etapa"`
	Descricao     string          `gorm:"size:255;not null" json:"descricao"`
	Unidade       string          `gorm:"size:50;not null" json:"unidade"`
	Quantidade    float64         `gorm:"not null" json:"quantidade"`
	CustoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"custo_unitario"`
	Data          *time.Time      `gorm:"type:date" json:"data"`
}

// TableName specifies the database table name for the OrcamentoObra model.
func (OrcamentoObra) TableName() string {
	return "orcamento_obra"
}
