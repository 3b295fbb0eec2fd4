package models

import "github.com/shopspring/decimal"

// Group approval status values. Informational only; a group's grants apply
// regardless of status.
const (
	GrupoStatusAprovado  = "Aprovado"
	GrupoStatusPendente  = "Pendente"
	GrupoStatusRejeitado = "Rejeitado"
)

// GrupoUsuario is the sole unit of delegated authorization: a named
// collection of granted permission ids (PermissaoGrupo), accessible client
// ids (ClienteGrupo) and store links (LojaGrupo), plus monetary approval
// thresholds carried for the finance workflows.
type GrupoUsuario struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey" json:"id"`
	// Nome is the unique display name of the group.
	Nome string `gorm:"unique;size:100;not null" json:"nome"`
	// Descricao provides a human-readable explanation of the group's purpose.
	Descricao string `gorm:"type:text" json:"descricao"`
	// Status is the approval state (Aprovado, Pendente, Rejeitado).
	Status string `gorm:"size:20;default:'Aprovado'" json:"status"`
	// Motivo optionally records why the group was created or rejected.
	Motivo string `gorm:"type:text" json:"motivo"`

	// Monetary approval thresholds. Stored and returned, not enforced here.
	ValorMaximoDiarioFinanceiro        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"valor_maximo_diario_financeiro"`
	PrecoVenda                         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"preco_venda"`
	PlanoContas                        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"plano_contas"`
	ValorMaximoMovimentacao            decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"valor_maximo_movimentacao"`
	ValorMaximoSolicitacaoCompra       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"valor_maximo_solicitacao_compra"`
	ValorMaximoDiarioSolicitacaoCompra decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"valor_maximo_diario_solicitacao_compra"`
}

// TableName specifies the database table name for the GrupoUsuario model.
func (GrupoUsuario) TableName() string {
	return "grupos_usuarios"
}
