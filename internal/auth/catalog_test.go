package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	entries := DefaultCatalog()

	seen := make(map[uint]bool, len(entries))
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate catalog id %d", e.ID)
		seen[e.ID] = true

		assert.NotEmpty(t, e.Nome, "entry %d has no name", e.ID)
		assert.NotEmpty(t, e.Categoria, "entry %d has no category", e.ID)
		assert.True(t, e.Ativo, "entry %d must ship active", e.ID)
		assert.GreaterOrEqual(t, e.ID, uint(1001))
		assert.Less(t, e.ID, uint(2000))
	}

	// Every CRUD family carries all four action offsets.
	for _, base := range []uint{BaseUsuarios, BaseClientes, BaseFornecedores, BaseContratos,
		BaseOrcamento, BaseDespesas, BaseValorMateriais, BaseResumoMensal} {
		for off := uint(0); off < 4; off++ {
			assert.True(t, seen[base+off], "missing id %d", base+off)
		}
	}

	// Standalone ids.
	for _, id := range []uint{PermDashboard, PermRelatorios, PermAnalises, PermAdministracao,
		PermBackup, PermLojasTodas, PermLojaIndividual, PermGerenciarLojas} {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

func TestEnsureCatalog_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	EnsureCatalog(db, DefaultCatalog())

	var first int64
	require.NoError(t, db.Model(&models.PermissaoSistema{}).Count(&first).Error)
	require.Equal(t, int64(len(DefaultCatalog())), first)

	// Second run must not duplicate or error.
	EnsureCatalog(db, DefaultCatalog())

	var second int64
	require.NoError(t, db.Model(&models.PermissaoSistema{}).Count(&second).Error)
	assert.Equal(t, first, second)
}

func TestEnsureCatalog_ReconcilesWithoutReassigningIDs(t *testing.T) {
	db := setupTestDB(t)

	// Seed a drifted entry: stale name, wrong category, deactivated.
	stale := models.PermissaoSistema{ID: BaseClientes, Nome: "Clientes (antigo)", Categoria: "Outro", Ativo: false}
	require.NoError(t, db.Create(&stale).Error)

	EnsureCatalog(db, DefaultCatalog())

	var got models.PermissaoSistema
	require.NoError(t, db.First(&got, BaseClientes).Error)

	assert.Equal(t, BaseClientes, got.ID)
	assert.Equal(t, "Clientes", got.Nome)
	assert.Equal(t, categoriaCadastros, got.Categoria)
	assert.True(t, got.Ativo)
}

func TestEnsureCatalog_NilDBDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		EnsureCatalog(nil, DefaultCatalog())
	})
}

func TestActionOffset(t *testing.T) {
	testCases := []struct {
		action   Action
		offset   uint
		known    bool
		asString string
	}{
		{action: ActionRead, offset: 0, known: true, asString: "read"},
		{action: ActionUpdate, offset: 1, known: true, asString: "update"},
		{action: ActionDelete, offset: 2, known: true, asString: "delete"},
		{action: ActionCreate, offset: 3, known: true, asString: "create"},
		{action: Action(7), known: false, asString: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.asString, func(t *testing.T) {
			off, ok := tc.action.Offset()
			assert.Equal(t, tc.known, ok)

			if tc.known {
				assert.Equal(t, tc.offset, off)
			}

			assert.Equal(t, tc.asString, tc.action.String())
		})
	}
}
