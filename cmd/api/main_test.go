package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.AppConfig{
		Port:      "0",
		BodyLimit: 1 << 20,
		Storage: config.StorageConfig{
			Backend:     config.BackendLocal,
			Root:        filepath.Join(dir, "files"),
			TempRoot:    filepath.Join(dir, "temp"),
			MaxFileSize: 1 << 20,
			UserQuota:   1 << 22,
		},
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "docvault dev")
}

func TestNewServer(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, err := newServer(testConfig(t), zerolog.Nop(), db, prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("liveness", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("metrics exposes storage collectors", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "docvault_bytes_stored_total")
	})

	t.Run("api requires identity", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestNewServer_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "tape"

	_, err := newServer(cfg, zerolog.Nop(), nil, prometheus.NewRegistry())
	assert.ErrorContains(t, err, `unknown storage backend "tape"`)
}
