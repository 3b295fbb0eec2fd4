package cliente

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

const testSecret = "cliente-test-secret"

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.AutoMigrate(
		&models.Usuario{},
		&models.GrupoUsuario{},
		&models.PermissaoSistema{},
		&models.PermissaoGrupo{},
		&models.Cliente{},
		&models.ClienteGrupo{},
	))

	auth.EnsureCatalog(db, auth.DefaultCatalog())

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret

	authService := auth.NewService(db)

	app := fiber.New()
	app.Use(auth.Middleware(authService, testSecret))

	svc := Service{}
	require.NoError(t, svc.Init(app, cfg, db, authService))

	return app, db
}

// seedGroup creates a group with the given permission grants and client
// scope, returning its id.
func seedGroup(t *testing.T, db *gorm.DB, permIDs, clienteIDs []uint) uint {
	t.Helper()

	grupo := models.GrupoUsuario{Nome: "grupo-" + t.Name(), Status: models.GrupoStatusAprovado}
	require.NoError(t, db.Create(&grupo).Error)

	for _, id := range permIDs {
		require.NoError(t, db.Create(&models.PermissaoGrupo{
			GrupoID:     grupo.ID,
			PermissaoID: id,
			Ativo:       true,
		}).Error)
	}

	for _, id := range clienteIDs {
		require.NoError(t, db.Create(&models.ClienteGrupo{
			GrupoID:   grupo.ID,
			ClienteID: id,
		}).Error)
	}

	return grupo.ID
}

func seedUser(t *testing.T, db *gorm.DB, username, nivel string, grupoID *uint) string {
	t.Helper()

	user := models.Usuario{
		Username:       username,
		Nome:           username,
		HashedPassword: models.HashPassword("x"),
		NivelAcesso:    nivel,
		Ativo:          true,
		GrupoID:        grupoID,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.IssueToken(testSecret, username, 0)
	require.NoError(t, err)

	return token
}

func seedCliente(t *testing.T, db *gorm.DB, nome string) uint {
	t.Helper()

	cliente := models.Cliente{Nome: nome}
	require.NoError(t, db.Create(&cliente).Error)

	return cliente.ID
}

func perform(t *testing.T, app *fiber.App, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func decodeClientes(t *testing.T, resp *http.Response) []models.Cliente {
	t.Helper()

	var clientes []models.Cliente
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&clientes))

	return clientes
}

func TestList_SuperuserSeesAll(t *testing.T) {
	app, db := setupTestApp(t)
	seedCliente(t, db, "Obra Centro")
	seedCliente(t, db, "Obra Norte")

	token := seedUser(t, db, "admin", "admin", nil)

	resp := perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeClientes(t, resp), 2)
}

func TestList_ScopedUserSeesOnlyOwnClients(t *testing.T) {
	app, db := setupTestApp(t)
	visivel := seedCliente(t, db, "Obra Centro")
	seedCliente(t, db, "Obra Norte")

	grupoID := seedGroup(t, db, []uint{auth.BaseClientes}, []uint{visivel})
	token := seedUser(t, db, "ana", "visualizacao", &grupoID)

	resp := perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	clientes := decodeClientes(t, resp)
	require.Len(t, clientes, 1)
	assert.Equal(t, visivel, clientes[0].ID)
}

func TestList_EmptyScopeReturnsEmptyList(t *testing.T) {
	app, db := setupTestApp(t)
	seedCliente(t, db, "Obra Centro")

	// read permission granted but no clients linked to the group
	grupoID := seedGroup(t, db, []uint{auth.BaseClientes}, nil)
	token := seedUser(t, db, "ana", "visualizacao", &grupoID)

	resp := perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeClientes(t, resp))
}

func TestList_WithoutReadPermission(t *testing.T) {
	app, db := setupTestApp(t)
	seedCliente(t, db, "Obra Centro")

	grupoID := seedGroup(t, db, nil, nil)
	token := seedUser(t, db, "ana", "visualizacao", &grupoID)

	resp := perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGet_OutsideScope(t *testing.T) {
	app, db := setupTestApp(t)
	visivel := seedCliente(t, db, "Obra Centro")
	oculto := seedCliente(t, db, "Obra Norte")

	grupoID := seedGroup(t, db, []uint{auth.BaseClientes}, []uint{visivel})
	token := seedUser(t, db, "ana", "visualizacao", &grupoID)

	resp := perform(t, app, http.MethodGet, Path+"/"+itoa(oculto), token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, http.MethodGet, Path+"/"+itoa(visivel), token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPost_CreateAndConflict(t *testing.T) {
	app, db := setupTestApp(t)
	token := seedUser(t, db, "admin", "admin", nil)

	resp := perform(t, app, http.MethodPost, Path, token, fiber.Map{"nome": "Obra Sul"})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = perform(t, app, http.MethodPost, Path, token, fiber.Map{"nome": "Obra Sul"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDelete_ClearsScopeLinks(t *testing.T) {
	app, db := setupTestApp(t)
	id := seedCliente(t, db, "Obra Centro")
	grupoID := seedGroup(t, db, nil, []uint{id})
	_ = grupoID

	token := seedUser(t, db, "admin", "admin", nil)

	resp := perform(t, app, http.MethodDelete, Path+"/"+itoa(id), token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var links int64
	require.NoError(t, db.Model(&models.ClienteGrupo{}).Where("cliente_id = ?", id).Count(&links).Error)
	assert.Zero(t, links)
}

func TestUpdate_OutsideScope(t *testing.T) {
	app, db := setupTestApp(t)
	visivel := seedCliente(t, db, "Obra Centro")
	oculto := seedCliente(t, db, "Obra Norte")

	grupoID := seedGroup(t, db, []uint{auth.BaseClientes, auth.BaseClientes + 1}, []uint{visivel})
	token := seedUser(t, db, "ana", "visualizacao", &grupoID)

	resp := perform(t, app, http.MethodPut, Path+"/"+itoa(oculto), token, fiber.Map{"nome": "Renomeada"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
