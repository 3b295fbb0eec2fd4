package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

func newGuardedApp(t *testing.T, db *gorm.DB, guards ...fiber.Handler) *fiber.App {
	t.Helper()

	svc := NewService(db)
	app := fiber.New()

	handlers := append([]fiber.Handler{Middleware(svc, testSecret)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		ident := CurrentIdentity(c)
		require.NotNil(t, ident)

		return c.JSON(fiber.Map{"username": ident.User.Username})
	})

	app.Get("/protegido", handlers...)

	return app
}

func performGet(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func seedUser(t *testing.T, db *gorm.DB, username, nivel string, grupoID *uint) {
	t.Helper()

	user := models.Usuario{
		Username:       username,
		Nome:           username,
		NivelAcesso:    nivel,
		Ativo:          true,
		HashedPassword: models.HashPassword("x"),
		GrupoID:        grupoID,
	}
	require.NoError(t, db.Create(&user).Error)
}

func TestMiddleware_NoToken(t *testing.T) {
	db := setupTestDB(t)
	app := newGuardedApp(t, db)

	resp := performGet(t, app, "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"detail":"not authenticated"}`, string(body))
}

func TestMiddleware_BadToken(t *testing.T) {
	db := setupTestDB(t)
	app := newGuardedApp(t, db)

	resp := performGet(t, app, "invalid")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_UnknownOrInactiveSubject(t *testing.T) {
	db := setupTestDB(t)
	app := newGuardedApp(t, db)

	// Valid token, no matching user row.
	token, err := IssueToken(testSecret, "fantasma", 0)
	require.NoError(t, err)

	resp := performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Deactivated accounts fail even with a fresh token.
	seedUser(t, db, "parado", "edicao", nil)
	require.NoError(t, db.Model(&models.Usuario{}).
		Where("username = ?", "parado").Update("ativo", false).Error)

	token, err = IssueToken(testSecret, "parado", 0)
	require.NoError(t, err)

	resp = performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_ValidToken(t *testing.T) {
	db := setupTestDB(t)
	app := newGuardedApp(t, db)

	seedUser(t, db, "joao", "edicao", nil)

	token, err := IssueToken(testSecret, "joao", 0)
	require.NoError(t, err)

	resp := performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"username":"joao"}`, string(body))
}

func TestRequirePermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := newGuardedApp(t, db, RequirePermission(svc, BaseClientes, ActionRead))

	grupoID := seedGroup(t, db, "leitura-clientes")
	seedGrants(t, db, grupoID, BaseClientes)

	seedUser(t, db, "com-acesso", "visualizacao", &grupoID)
	seedUser(t, db, "sem-acesso", "visualizacao", nil)

	token, err := IssueToken(testSecret, "com-acesso", 0)
	require.NoError(t, err)

	resp := performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, err = IssueToken(testSecret, "sem-acesso", 0)
	require.NoError(t, err)

	resp = performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireSuperuser(t *testing.T) {
	db := setupTestDB(t)
	app := newGuardedApp(t, db, RequireSuperuser())

	seedUser(t, db, "root", models.NivelAdmin, nil)
	seedUser(t, db, "comum", "edicao", nil)

	token, err := IssueToken(testSecret, "root", 0)
	require.NoError(t, err)

	resp := performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, err = IssueToken(testSecret, "comum", 0)
	require.NoError(t, err)

	resp = performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAnyPermissionID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := newGuardedApp(t, db, RequireAnyPermissionID(svc, PermLojasTodas, PermLojaIndividual))

	grupoID := seedGroup(t, db, "loja-individual")
	seedGrants(t, db, grupoID, PermLojaIndividual)

	seedUser(t, db, "lojista", "visualizacao", &grupoID)
	seedUser(t, db, "fora", "visualizacao", nil)

	token, err := IssueToken(testSecret, "lojista", 0)
	require.NoError(t, err)

	resp := performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, err = IssueToken(testSecret, "fora", 0)
	require.NoError(t, err)

	resp = performGet(t, app, token)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
