package fornecedor

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

const testSecret = "fornecedor-test-secret"

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.AutoMigrate(
		&models.Usuario{},
		&models.GrupoUsuario{},
		&models.PermissaoSistema{},
		&models.PermissaoGrupo{},
		&models.ClienteGrupo{},
		&models.Fornecedor{},
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

// seedUser creates a user whose group carries exactly the given grants and
// returns a bearer token for it.
func seedUser(t *testing.T, db *gorm.DB, username string, permIDs ...uint) string {
	t.Helper()

	grupo := models.GrupoUsuario{Nome: "grupo-" + username, Status: models.GrupoStatusAprovado}
	require.NoError(t, db.Create(&grupo).Error)

	for _, id := range permIDs {
		require.NoError(t, db.Create(&models.PermissaoGrupo{
			GrupoID:     grupo.ID,
			PermissaoID: id,
			Ativo:       true,
		}).Error)
	}

	user := models.Usuario{
		Username:       username,
		Nome:           username,
		HashedPassword: models.HashPassword("x"),
		NivelAcesso:    "visualizacao",
		Ativo:          true,
		GrupoID:        &grupo.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.IssueToken(testSecret, username, 0)
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

func TestCRUDRoundTrip(t *testing.T) {
	app, db := setupTestApp(t)

	token := seedUser(t, db, "compras",
		auth.BaseFornecedores,
		auth.BaseFornecedores+1,
		auth.BaseFornecedores+2,
		auth.BaseFornecedores+3,
	)

	resp := perform(t, app, http.MethodPost, Path, token, fiber.Map{
		"nome":    "Casa do Cimento",
		"cnpj":    "12.345.678/0001-90",
		"contato": "vendas@casadocimento.com.br",
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Fornecedor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotZero(t, created.ID)

	target := Path + "/" + strconv.FormatUint(uint64(created.ID), 10)

	resp = perform(t, app, http.MethodPut, target, token, fiber.Map{"nome": "Casa do Cimento Ltda"})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.Fornecedor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Casa do Cimento Ltda", listed[0].Nome)

	resp = perform(t, app, http.MethodDelete, target, token, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Fornecedor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestActionsGuardedIndependently(t *testing.T) {
	app, db := setupTestApp(t)

	// read-only grant: every mutation must be denied
	token := seedUser(t, db, "leitor", auth.BaseFornecedores)

	resp := perform(t, app, http.MethodGet, Path, token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = perform(t, app, http.MethodPost, Path, token, fiber.Map{"nome": "Novo"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, http.MethodPut, Path+"/1", token, fiber.Map{"nome": "Novo"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, http.MethodDelete, Path+"/1", token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDelete_NotFound(t *testing.T) {
	app, db := setupTestApp(t)
	token := seedUser(t, db, "compras", auth.BaseFornecedores+2)

	resp := perform(t, app, http.MethodDelete, Path+"/99", token, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPost_InvalidBody(t *testing.T) {
	app, db := setupTestApp(t)
	token := seedUser(t, db, "compras", auth.BaseFornecedores+3)

	resp := perform(t, app, http.MethodPost, Path, token, fiber.Map{"cnpj": "só cnpj"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
