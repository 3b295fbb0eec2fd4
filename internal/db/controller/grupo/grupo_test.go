package grupo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.Usuario{},
		&models.GrupoUsuario{},
		&models.PermissaoGrupo{},
		&models.ClienteGrupo{},
		&models.LojaGrupo{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedGrupo(t *testing.T, db *gorm.DB, nome string) *models.GrupoUsuario {
	t.Helper()

	grupo := models.GrupoUsuario{Nome: nome, Status: models.GrupoStatusAprovado}
	require.NoError(t, Create(db, &grupo))

	return &grupo
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		grupo         models.GrupoUsuario
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			grupo:         models.GrupoUsuario{Nome: "x"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			grupo:         models.GrupoUsuario{},
			expectedError: ErrNomeEmpty,
		},
		{
			name:    "successful create",
			dbParam: db,
			grupo:   models.GrupoUsuario{Nome: "Manutenção"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Create(tc.dbParam, &tc.grupo)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, tc.grupo.ID)
			}
		})
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedGrupo(t, db, "Financeiro")

	_, err := Get(nil, seeded.ID)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get(db, 999)
	require.ErrorIs(t, err, ErrGrupoNotFound)

	got, err := Get(db, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Financeiro", got.Nome)
}

func TestReplacePermissions(t *testing.T) {
	db := setupTestDB(t)
	grupo := seedGrupo(t, db, "Obras")

	require.ErrorIs(t, ReplacePermissions(db, 999, []uint{1201}), ErrGrupoNotFound)

	// First set.
	require.NoError(t, ReplacePermissions(db, grupo.ID, []uint{1201, 1601, 1604}))

	ids, err := PermissionIDs(db, grupo.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1201, 1601, 1604}, ids)

	// Replacement drops everything not in the new set.
	require.NoError(t, ReplacePermissions(db, grupo.ID, []uint{1301}))

	ids, err = PermissionIDs(db, grupo.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1301}, ids)

	// Empty replacement clears the set.
	require.NoError(t, ReplacePermissions(db, grupo.ID, nil))

	ids, err = PermissionIDs(db, grupo.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReplaceClientes(t *testing.T) {
	db := setupTestDB(t)
	grupo := seedGrupo(t, db, "Obra Sul")

	require.NoError(t, ReplaceClientes(db, grupo.ID, []uint{7, 12}))

	ids, err := ClienteIDs(db, grupo.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 12}, ids)

	require.NoError(t, ReplaceClientes(db, grupo.ID, []uint{12, 30}))

	ids, err = ClienteIDs(db, grupo.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{12, 30}, ids)
}

func TestReplaceLojas(t *testing.T) {
	db := setupTestDB(t)
	grupo := seedGrupo(t, db, "Lojas Norte")

	require.NoError(t, ReplaceLojas(db, grupo.ID, []LojaLink{
		{LojaID: 1, AcessoTotal: false},
		{LojaID: 2, AcessoTotal: true},
	}))

	links, err := Lojas(db, grupo.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.False(t, links[0].AcessoTotal)
	assert.True(t, links[1].AcessoTotal)
}

func TestDelete_ClearsJunctionsAndMembers(t *testing.T) {
	db := setupTestDB(t)
	grupo := seedGrupo(t, db, "Extinto")

	require.NoError(t, ReplacePermissions(db, grupo.ID, []uint{1201}))
	require.NoError(t, ReplaceClientes(db, grupo.ID, []uint{5}))

	membro := models.Usuario{
		Username:       "membro",
		Nome:           "Membro",
		NivelAcesso:    "visualizacao",
		Ativo:          true,
		HashedPassword: "x",
		GrupoID:        &grupo.ID,
	}
	require.NoError(t, db.Create(&membro).Error)

	require.ErrorIs(t, Delete(db, 999), ErrGrupoNotFound)
	require.NoError(t, Delete(db, grupo.ID))

	_, err := Get(db, grupo.ID)
	require.ErrorIs(t, err, ErrGrupoNotFound)

	var permCount, clienteCount int64
	db.Model(&models.PermissaoGrupo{}).Where("grupo_id = ?", grupo.ID).Count(&permCount)
	db.Model(&models.ClienteGrupo{}).Where("grupo_id = ?", grupo.ID).Count(&clienteCount)
	assert.Zero(t, permCount)
	assert.Zero(t, clienteCount)

	// The member's group reference is cleared, not dangling.
	var reloaded models.Usuario
	require.NoError(t, db.First(&reloaded, membro.ID).Error)
	assert.Nil(t, reloaded.GrupoID)
}
