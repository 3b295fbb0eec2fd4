package models

import "time"

// ArquivoImportado stores the raw bytes of an uploaded import file so the
// source document of an import can be re-downloaded later.
type ArquivoImportado struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Nome     string    `gorm:"size:255;not null" json:"nome"`
	Entidade string    `gorm:"size:100;not null" json:"entidade"`
	Conteudo []byte    `gorm:"type:blob;not null" json:"-"`
	Tamanho  int       `gorm:"not null" json:"tamanho"`
	CriadoEm time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

// TableName specifies the database table name for the ArquivoImportado model.
func (ArquivoImportado) TableName() string {
	return "arquivos_importados"
}
