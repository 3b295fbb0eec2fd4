package models

import "github.com/shopspring/decimal"

// ValorMaterial represents the current price and stock of a material.
type ValorMaterial struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// ClienteID optionally scopes the price to a specific client.
	ClienteID        *uint           `gorm:"column:cliente_id;index" json:"cliente_id"`
	DescricaoProduto string          `gorm:"size:255;not null" json:"descricao_produto"`
	Marca            string          `gorm:"size:100" json:"marca"`
	UnidadeMedida    string          `gorm:"size:50" json:"unidade_medida"`
	ValorUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"valor_unitario"`
	EstoqueAtual     int             `gorm:"default:0" json:"estoque_atual"`
	EstoqueMinimo    int             `gorm:"default:0" json:"estoque_minimo"`
	DataUltimaEntrada string         `gorm:"size:50" json:"data_ultima_entrada"`
	Responsavel      string          `gorm:"size:255" json:"responsavel"`
	Fornecedor       string          `gorm:"size:255" json:"fornecedor"`
	Localizacao      string          `gorm:"size:255" json:"localizacao"`
	Observacoes      string          `gorm:"size:255" json:"observacoes"`
}

// TableName specifies the database table name for the ValorMaterial model.
func (ValorMaterial) TableName() string {
	return "valor_materiais"
}
