package lifeflow

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/lib/jwt"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/lib/xlsx"
	accountservice "github.com/magabrotheeeer/lifeflow/internal/services/account"
	donorservice "github.com/magabrotheeeer/lifeflow/internal/services/donor"
	"github.com/magabrotheeeer/lifeflow/internal/services/session"
	"github.com/magabrotheeeer/lifeflow/internal/storage/memory"
	"github.com/magabrotheeeer/lifeflow/internal/telemetry"
)

type testServer struct {
	srv    *httptest.Server
	tokens jwt.Maker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := sl.NewDiscardLogger()
	store := memory.New()
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	creds, err := session.NewHashedCredentials([]config.Credential{
		{Email: accountservice.SeedAdminEmail, Password: "admin123"},
	})
	require.NoError(t, err)

	donors := donorservice.New(logger, store, nil, donorservice.Options{})
	accounts := accountservice.New(logger, store, nil)
	tokens := jwt.NewJWTMaker("test-secret", time.Hour)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Store:    store,
		Donors:   donors,
		Accounts: accounts,
		Gate:     session.NewGate(logger, accounts, creds, store),
		Tokens:   tokens,
		Metrics:  metrics,
		Gatherer: registry,
		// Одна регистрация, дальше 429.
		Limiter: rate.NewLimiter(0, 1),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data: %v", body)
	return d
}

func TestRoutes_DonorLifecycle(t *testing.T) {
	s := newTestServer(t)

	donor := map[string]any{
		"name":          "Jane Doe",
		"phone":         "01711-000001",
		"blood_type":    "o+",
		"address":       "Dhaka",
		"never_donated": true,
	}

	resp, body := s.do(t, http.MethodPost, "/api/v1/donors", "", donor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := data(t, body)["donor"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "O+", created["blood_type"])

	resp, _ = s.do(t, http.MethodPost, "/api/v1/donors", "", donor)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/v1/donors?blood_type=O%2B", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, data(t, body)["count"])

	resp, body = s.do(t, http.MethodGet, "/api/v1/donors/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, data(t, body)["total"])
	assert.EqualValues(t, 30, data(t, body)["recent_window_days"])

	resp, _ = s.do(t, http.MethodGet, "/api/v1/donors/"+id, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/donors/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid credentials", body["error"])

	resp, body = s.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email": "admin@example.com", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := data(t, body)["token"].(string)

	resp, body = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, data(t, body)["is_admin"])

	resp, _ = s.do(t, http.MethodGet, "/api/v1/donors/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsx.ContentType, resp.Header.Get("Content-Type"))

	resp, body = s.do(t, http.MethodDelete, "/api/v1/donors", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, data(t, body)["removed"])

	resp, _ = s.do(t, http.MethodGet, "/api/v1/donors/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_AdminOnly(t *testing.T) {
	s := newTestServer(t)

	adminToken, err := s.tokens.GenerateToken(accountservice.SeedAdminID, "admin")
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodPost, "/api/v1/accounts", adminToken, map[string]string{
		"name": "Operator", "email": "op@example.com", "role": "user", "status": "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID := data(t, body)["account"].(map[string]any)["id"].(string)

	userToken, err := s.tokens.GenerateToken(userID, "user")
	require.NoError(t, err)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/accounts", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/donors", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/v1/accounts?q=operator", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, data(t, body)["count"])

	resp, _ = s.do(t, http.MethodPut, "/api/v1/accounts/"+userID, adminToken, map[string]string{
		"name": "Operator", "email": "op@example.com", "role": "user", "status": "inactive",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Деактивированная учётная запись теряет доступ сразу, несмотря на действующий токен.
	resp, _ = s.do(t, http.MethodGet, "/api/v1/me", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/accounts/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/me", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", data(t, body)["status"])

	resp, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `lifeflow_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
