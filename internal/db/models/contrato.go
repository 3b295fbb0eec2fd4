package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contrato represents a construction contract with a client.
type Contrato struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Numero             string          `gorm:"size:50;not null" json:"numero"`
	ClienteID          uint            `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Valor              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"valor"`
	DataInicio         *time.Time      `gorm:"column:data_inicio;type:date" json:"data_inicio"`
	DataFim            *time.Time      `gorm:"column:data_fim;type:date" json:"data_fim"`
	Tipo               string          `gorm:"size:100" json:"tipo"`
	Situacao           string          `gorm:"size:100" json:"situacao"`
	PrazoPagamento     string          `gorm:"size:100" json:"prazo_pagamento"`
	QuantidadeParcelas string          `gorm:"size:50" json:"quantidade_parcelas"`
	// Arquivo is the name of an attached contract document, if any.
	Arquivo string `gorm:"size:255" json:"arquivo"`
	// ArquivoUploadID references the stored upload the document came from.
	ArquivoUploadID *uint `gorm:"column:arquivo_upload_id" json:"arquivo_upload_id"`
}

// TableName specifies the database table name for the Contrato model.
func (Contrato) TableName() string {
	return "contratos"
}
