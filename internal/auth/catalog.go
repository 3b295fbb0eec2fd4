package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// Permission base ids. A base id is the "read" permission of its category
// block; update/delete/create resolve as base+1/+2/+3. The Sistema and
// Lojas blocks additionally carry standalone ids that are granted directly
// rather than via action offsets.
const (
	// Sistema block (standalone ids, no action offsets).
	PermDashboard     uint = 1001
	PermRelatorios    uint = 1002
	PermAnalises      uint = 1003
	PermAdministracao uint = 1004
	PermBackup        uint = 1005

	// CRUD category base ids.
	BaseUsuarios       uint = 1101
	BaseClientes       uint = 1201
	BaseFornecedores   uint = 1301
	BaseContratos      uint = 1401
	BaseOrcamento      uint = 1501
	BaseDespesas       uint = 1601
	BaseValorMateriais uint = 1701
	BaseResumoMensal   uint = 1801

	// Lojas block (standalone ids).
	PermLojasTodas     uint = 1901
	PermLojaIndividual uint = 1902
	PermGerenciarLojas uint = 1903
)

// catalogCategories used by the default catalog.
const (
	categoriaSistema    = "Sistema"
	categoriaCadastros  = "Cadastros"
	categoriaObras      = "Obras"
	categoriaFinanceiro = "Financeiro"
	categoriaMateriais  = "Materiais"
	categoriaRelatorios = "Relatórios"
	categoriaLojas      = "Lojas"
)

// DefaultCatalog returns the fixed permission entries the system
// recognizes. IDs are stable constants shared with the frontend; they are
// never reassigned.
func DefaultCatalog() []models.PermissaoSistema {
	return []models.PermissaoSistema{
		{ID: PermDashboard, Nome: "Dashboard", Categoria: categoriaSistema, Ativo: true},
		{ID: PermRelatorios, Nome: "Relatórios", Categoria: categoriaSistema, Ativo: true},
		{ID: PermAnalises, Nome: "Análises", Categoria: categoriaSistema, Ativo: true},
		{ID: PermAdministracao, Nome: "Administração do Sistema", Categoria: categoriaSistema, Ativo: true},
		{ID: PermBackup, Nome: "Backup", Categoria: categoriaSistema, Ativo: true},

		{ID: BaseUsuarios, Nome: "Usuários", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseUsuarios + 1, Nome: "Usuários - Alterar", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseUsuarios + 2, Nome: "Usuários - Excluir", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseUsuarios + 3, Nome: "Usuários - Criar", Categoria: categoriaCadastros, Ativo: true},

		{ID: BaseClientes, Nome: "Clientes", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseClientes + 1, Nome: "Clientes - Alterar", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseClientes + 2, Nome: "Clientes - Excluir", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseClientes + 3, Nome: "Clientes - Criar/Importar", Categoria: categoriaCadastros, Ativo: true},

		{ID: BaseFornecedores, Nome: "Fornecedores", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseFornecedores + 1, Nome: "Fornecedores - Alterar", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseFornecedores + 2, Nome: "Fornecedores - Excluir", Categoria: categoriaCadastros, Ativo: true},
		{ID: BaseFornecedores + 3, Nome: "Fornecedores - Criar/Importar", Categoria: categoriaCadastros, Ativo: true},

		{ID: BaseContratos, Nome: "Contratos", Categoria: categoriaObras, Ativo: true},
		{ID: BaseContratos + 1, Nome: "Contratos - Alterar", Categoria: categoriaObras, Ativo: true},
		{ID: BaseContratos + 2, Nome: "Contratos - Excluir", Categoria: categoriaObras, Ativo: true},
		{ID: BaseContratos + 3, Nome: "Contratos - Criar/Importar", Categoria: categoriaObras, Ativo: true},

		{ID: BaseOrcamento, Nome: "Orçamento de Obra", Categoria: categoriaObras, Ativo: true},
		{ID: BaseOrcamento + 1, Nome: "Orçamento - Alterar", Categoria: categoriaObras, Ativo: true},
		{ID: BaseOrcamento + 2, Nome: "Orçamento - Excluir", Categoria: categoriaObras, Ativo: true},
		{ID: BaseOrcamento + 3, Nome: "Orçamento - Criar/Importar", Categoria: categoriaObras, Ativo: true},

		{ID: BaseDespesas, Nome: "Despesas", Categoria: categoriaFinanceiro, Ativo: true},
		{ID: BaseDespesas + 1, Nome: "Despesas - Alterar", Categoria: categoriaFinanceiro, Ativo: true},
		{ID: BaseDespesas + 2, Nome: "Despesas - Excluir", Categoria: categoriaFinanceiro, Ativo: true},
		{ID: BaseDespesas + 3, Nome: "Despesas - Criar/Importar", Categoria: categoriaFinanceiro, Ativo: true},

		{ID: BaseValorMateriais, Nome: "Valor Materiais", Categoria: categoriaMateriais, Ativo: true},
		{ID: BaseValorMateriais + 1, Nome: "Valor Materiais - Alterar", Categoria: categoriaMateriais, Ativo: true},
		{ID: BaseValorMateriais + 2, Nome: "Valor Materiais - Excluir", Categoria: categoriaMateriais, Ativo: true},
		{ID: BaseValorMateriais + 3, Nome: "Valor Materiais - Criar/Importar", Categoria: categoriaMateriais, Ativo: true},

		{ID: BaseResumoMensal, Nome: "Resumo Mensal", Categoria: categoriaRelatorios, Ativo: true},
		{ID: BaseResumoMensal + 1, Nome: "Resumo Mensal - Alterar", Categoria: categoriaRelatorios, Ativo: true},
		{ID: BaseResumoMensal + 2, Nome: "Resumo Mensal - Excluir", Categoria: categoriaRelatorios, Ativo: true},
		{ID: BaseResumoMensal + 3, Nome: "Resumo Mensal - Criar/Importar", Categoria: categoriaRelatorios, Ativo: true},

		{ID: PermLojasTodas, Nome: "Acesso a Todas as Lojas", Categoria: categoriaLojas, Ativo: true},
		{ID: PermLojaIndividual, Nome: "Acesso a Loja Individual", Categoria: categoriaLojas, Ativo: true},
		{ID: PermGerenciarLojas, Nome: "Gerenciar Lojas", Categoria: categoriaLojas, Ativo: true},
	}
}

// EnsureCatalog upserts the given permission entries by id: missing entries
// are inserted with their fixed id, existing ones get name/category
// reconciled and are reactivated; ids are never reassigned. The call is
// idempotent and intended to run at every service start.
//
// Seeding never fails the caller. Failures are logged and skipped, since
// the catalog is bootstrap data and self-heals on the next start.
func EnsureCatalog(db *gorm.DB, entries []models.PermissaoSistema) {
	if db == nil {
		log.Error().Msg("permission catalog seeding skipped: db is nil")
		return
	}

	for _, want := range entries {
		var existing models.PermissaoSistema

		err := db.First(&existing, want.ID).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&want).Error; err != nil {
				log.Warn().Err(err).Uint("id", want.ID).Msg("failed to seed permission entry")
			}
		case err != nil:
			log.Warn().Err(err).Uint("id", want.ID).Msg("failed to read permission entry")
		default:
			changed := false

			if existing.Nome != want.Nome {
				existing.Nome = want.Nome
				changed = true
			}

			if existing.Categoria != want.Categoria {
				existing.Categoria = want.Categoria
				changed = true
			}

			if !existing.Ativo {
				existing.Ativo = true
				changed = true
			}

			if changed {
				if err := db.Save(&existing).Error; err != nil {
					log.Warn().Err(err).Uint("id", want.ID).Msg("failed to reconcile permission entry")
				}
			}
		}
	}
}
