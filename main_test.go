package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vitrine/internal/config"
	"vitrine/internal/database"
	"vitrine/pkg/cache"
	"vitrine/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (Dependencies, *Services) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	deps := Dependencies{
		Config: &config.Config{
			AppEnv:             "test",
			JWTSecret:          "test_jwt_secret",
			JWTClientExpiresIn: 15 * time.Minute,
			JWTTeamExpiresIn:   time.Hour,
		},
		DB:     db,
		Cache:  cache.NewMemoryStore(),
		Files:  storage.NewLocalStorage(t.TempDir()),
		Logger: logger,
	}
	return deps, newServices(deps)
}

func TestHealth(t *testing.T) {
	deps, svc := setupServer(t)
	app := newApp(deps, svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
}

func TestMetricsEndpoint(t *testing.T) {
	deps, svc := setupServer(t)
	app := newApp(deps, svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/product/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",path="/api/v1/product/:id",status="404"}`)
}

func TestUploadsAreServed(t *testing.T) {
	deps, svc := setupServer(t)
	app := newApp(deps, svc)

	dir := filepath.Join(deps.Files.Root(), "products")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.txt"), []byte("widget"), 0o644))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/products/widget.txt", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "widget", string(raw))
}

func TestRoutesRequireAuth(t *testing.T) {
	deps, svc := setupServer(t)
	app := newApp(deps, svc)

	protected := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/product"},
		{http.MethodGet, "/api/v1/client"},
		{http.MethodGet, "/api/v1/team-members"},
		{http.MethodGet, "/api/v1/category"},
		{http.MethodGet, "/api/v1/brand"},
		{http.MethodGet, "/api/v1/banner/admin"},
		{http.MethodGet, "/api/v1/newsletter"},
		{http.MethodPatch, "/api/v1/store-configuration/admin"},
		{http.MethodGet, "/api/v1/auth/me"},
	}
	for _, r := range protected {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	public := []string{
		"/api/v1/product/public",
		"/api/v1/category/public",
		"/api/v1/brand/public",
		"/api/v1/banner/public",
		"/api/v1/social",
	}
	for _, path := range public {
		t.Run("GET "+path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestEnsureAdminThenLogin(t *testing.T) {
	deps, svc := setupServer(t)
	app := newApp(deps, svc)

	_, err := svc.TeamMembers.EnsureAdmin(context.Background(), "Admin", "Vitrine", "admin@example.com", "secret123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/team/login",
		strings.NewReader(`{"email":"admin@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			assert.False(t, c.Secure)
			return
		}
	}
	t.Fatal("access_token cookie not set")
}
