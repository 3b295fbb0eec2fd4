package models

import "time"

// Maintenance test outcome values.
const (
	TesteStatusOK  = "OK"
	TesteStatusOFF = "OFF"
)

// TesteLoja represents a store maintenance test log entry. The record is
// client-scoped: access is decided by the owning ClienteID.
type TesteLoja struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// DataTeste is the day the test was performed.
	DataTeste time.Time `gorm:"column:data_teste;type:date;not null" json:"data_teste"`
	// ClienteID is the client owning the tested site.
	ClienteID uint `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	// Horario is the wall-clock time of the test in HH:MM.
	Horario string `gorm:"size:5;not null" json:"horario"`
	// Foto and Video are stored upload filenames, if media was attached.
	Foto  string `gorm:"size:255" json:"foto"`
	Video string `gorm:"size:255" json:"video"`
	// Status is OK or OFF. OFF requires an Observacao.
	Status string `gorm:"size:10;not null" json:"status"`
	// Observacao is limited to 150 characters.
	Observacao string `gorm:"size:150" json:"observacao"`
}

// TableName specifies the database table name for the TesteLoja model.
func (TesteLoja) TableName() string {
	return "testes_loja"
}

// TesteArCondicionado represents an air-conditioning maintenance test log
// entry, with the same shape and scoping rules as TesteLoja.
type TesteArCondicionado struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DataTeste  time.Time `gorm:"column:data_teste;type:date;not null" json:"data_teste"`
	ClienteID  uint      `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Horario    string    `gorm:"size:5;not null" json:"horario"`
	Foto       string    `gorm:"size:255" json:"foto"`
	Video      string    `gorm:"size:255" json:"video"`
	Status     string    `gorm:"size:10;not null" json:"status"`
	Observacao string    `gorm:"size:150" json:"observacao"`
}

// TableName specifies the database table name for the TesteArCondicionado model.
func (TesteArCondicionado) TableName() string {
	return "testes_ar_condicionado"
}
