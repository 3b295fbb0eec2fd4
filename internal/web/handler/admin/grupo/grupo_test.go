package grupo

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
	controller "github.com/gestao-obras/gestao-obras/internal/db/controller/grupo"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

const testSecret = "grupo-test-secret"

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
		&models.Loja{},
		&models.LojaGrupo{},
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

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	user := models.Usuario{
		Username:       "admin",
		Nome:           "admin",
		HashedPassword: models.HashPassword("x"),
		NivelAcesso:    "admin",
		Ativo:          true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.IssueToken(testSecret, "admin", 0)
	require.NoError(t, err)

	return token
}

func perform(t *testing.T, app *fiber.App, method, target, token string, body any) *http.Response {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func createGrupo(t *testing.T, app *fiber.App, token, nome string) uint {
	t.Helper()

	resp := perform(t, app, http.MethodPost, Path, token, fiber.Map{"nome": nome})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.GrupoUsuario
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotZero(t, created.ID)
	assert.Equal(t, models.GrupoStatusAprovado, created.Status)

	return created.ID
}

func TestPutPermissoes_ReplacesGrantSet(t *testing.T) {
	app, db := setupTestApp(t)
	token := adminToken(t, db)

	id := createGrupo(t, app, token, "Manutenção")
	target := Path + "/" + strconv.FormatUint(uint64(id), 10) + "/permissoes"

	resp := perform(t, app, http.MethodPut, target, token, fiber.Map{
		"ids": []uint{auth.BaseClientes, auth.BaseClientes + 1},
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// second replacement drops the first set entirely
	resp = perform(t, app, http.MethodPut, target, token, fiber.Map{
		"ids": []uint{auth.PermLojasTodas},
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = perform(t, app, http.MethodGet, target, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		IDs []uint `json:"ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []uint{auth.PermLojasTodas}, body.IDs)
}

func TestPutClientes_DefinesScope(t *testing.T) {
	app, db := setupTestApp(t)
	token := adminToken(t, db)

	id := createGrupo(t, app, token, "Obra Norte")
	target := Path + "/" + strconv.FormatUint(uint64(id), 10) + "/clientes"

	resp := perform(t, app, http.MethodPut, target, token, fiber.Map{"ids": []uint{7, 12}})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	ids, err := controller.ClienteIDs(db, id)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 12}, ids)
}

func TestPutLojas_ReplacesLinks(t *testing.T) {
	app, db := setupTestApp(t)
	token := adminToken(t, db)

	id := createGrupo(t, app, token, "Lojas Sul")
	target := Path + "/" + strconv.FormatUint(uint64(id), 10) + "/lojas"

	resp := perform(t, app, http.MethodPut, target, token, fiber.Map{
		"lojas": []controller.LojaLink{{LojaID: 3, AcessoTotal: true}, {LojaID: 5}},
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	links, err := controller.Lojas(db, id)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.True(t, links[0].AcessoTotal)
}

func TestPutPermissoes_UnknownGrupo(t *testing.T) {
	app, db := setupTestApp(t)
	token := adminToken(t, db)

	resp := perform(t, app, http.MethodPut, Path+"/99/permissoes", token, fiber.Map{"ids": []uint{1001}})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDelete_RequiresSuperuser(t *testing.T) {
	app, db := setupTestApp(t)

	user := models.Usuario{
		Username:       "comum",
		Nome:           "comum",
		HashedPassword: models.HashPassword("x"),
		NivelAcesso:    "visualizacao",
		Ativo:          true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.IssueToken(testSecret, "comum", 0)
	require.NoError(t, err)

	resp := perform(t, app, http.MethodDelete, Path+"/1", token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
