package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopcatalog/internal/config"
	"shopcatalog/internal/database"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/server"
)

func newTestServer(t *testing.T) server.Deps {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	return server.Wire(db, cfg, nil, metrics.New())
}

func TestHealthCheck(t *testing.T) {
	app := server.New(newTestServer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "disabled", body["rabbitmq"])
}

func TestHealthCheck_Broker(t *testing.T) {
	deps := newTestServer(t)
	deps.BrokerConnected = func() bool { return false }
	app := server.New(deps)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "disconnected", body["rabbitmq"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := server.New(newTestServer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "shopcatalog_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	app := server.New(newTestServer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRequestLogGoesThroughLogrus(t *testing.T) {
	std := log.StandardLogger()
	out, formatter, level := std.Out, std.Formatter, std.GetLevel()
	t.Cleanup(func() {
		std.SetOutput(out)
		std.SetFormatter(formatter)
		std.SetLevel(level)
	})
	var buf bytes.Buffer
	std.SetOutput(&buf)
	std.SetFormatter(&log.JSONFormatter{})
	std.SetLevel(log.InfoLevel)

	app := server.New(newTestServer(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	var entry map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		require.NoError(t, json.Unmarshal(line, &entry), string(line))
		if entry["component"] == "http" {
			break
		}
	}
	assert.Equal(t, "http", entry["component"])
	assert.Contains(t, entry["msg"], "req-42 200")
	assert.Contains(t, entry["msg"], "GET /health")
}
