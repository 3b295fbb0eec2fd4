package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.NotEmpty(t, cfg.DB.Host)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.NotEmpty(t, cfg.Backup.Dir)
}

func TestReadConfigEnvOverride(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	t.Setenv(EnvConfigJSON, `{"Webserver":{"Port":9999,"URL":"http://override"},"Auth":{"JWTSecret":"env-secret"}}`)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Webserver.Port)
	assert.Equal(t, "http://override", cfg.Webserver.URL)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestReadConfigMissingFile(t *testing.T) {
	dir := t.TempDir() + string(os.PathSeparator)

	_, err := ReadConfig(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{JWTSecret: "secret"},
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "empty url",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "empty jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: ErrEmptyJWTSecret,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)

			err := validate(c)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	c := Config{Title: "gestao-obras"}

	out, err := DumpConfig(c)
	require.NoError(t, err)
	assert.Contains(t, out, "gestao-obras")

	jsonOut, err := DumpConfigJSON(c)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"Title": "gestao-obras"`)
}
