package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/BudgetTracker/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 3000, ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Path: t.TempDir()},
		Session: config.SessionConfig{
			Secret:          strings.Repeat("s", config.MinSessionSecretLength),
			Expiry:          time.Hour,
			CleanupSchedule: "@every 1h",
		},
		CORS: config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowedHeaders: "Content-Type"},
		Log:  config.LogConfig{Level: "error", Format: "json"},
	}
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := testConfig(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server, err := NewServer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return server, ts
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	if len(raw) == 0 {
		return res.StatusCode, nil
	}
	var decoded map[string]interface{}
	require.NoError(c.t, json.Unmarshal(raw, &decoded), string(raw))
	return res.StatusCode, decoded
}

func (c *client) login(username, password string) {
	c.t.Helper()
	status, _ := c.do(http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusCreated, status)
	status, _ = c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, status)
}

func TestExampleScenario(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts)

	status, body := c.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusCreated, status)
	userID := body["id"].(string)
	assert.Equal(t, "alice", body["username"])

	status, body = c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, body["id"])

	status, body = c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	status, body = c.do(http.MethodPost, "/api/categories", map[string]string{"name": "Food"})
	require.Equal(t, http.StatusCreated, status)
	foodID := body["id"].(string)
	assert.NotEmpty(t, foodID)
	assert.Equal(t, "Food", body["name"])

	status, body = c.do(http.MethodPost, "/api/records", map[string]interface{}{"name": "Lunch", "amount": 12.5, "category_id": foodID})
	require.Equal(t, http.StatusCreated, status)
	lunchID := body["id"].(string)
	assert.Equal(t, 12.5, body["amount"])
	assert.NotZero(t, body["timestamp"])

	status, body = c.do(http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total_count"])
	records := body["records"].([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, lunchID, records[0].(map[string]interface{})["id"])

	status, body = c.do(http.MethodPost, "/api/categories", map[string]string{"name": "food"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Category name already exists (case-insensitive)", body["message"])

	status, _ = c.do(http.MethodDelete, "/api/categories/"+foodID, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.do(http.MethodDelete, "/api/records/"+lunchID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = c.do(http.MethodDelete, "/api/categories/"+foodID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = c.do(http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not logged in", body["message"])
}

func TestStoresAreIsolatedPerUser(t *testing.T) {
	server, ts := newTestServer(t)

	alice := newClient(t, ts)
	alice.login("alice", "password123")
	bob := newClient(t, ts)
	bob.login("bob_b", "password123")

	status, body := alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "Rent"})
	require.Equal(t, http.StatusCreated, status)
	rentID := body["id"].(string)

	status, body = bob.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["total_count"])

	status, _ = bob.do(http.MethodGet, "/api/categories/"+rentID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = bob.do(http.MethodPost, "/api/categories", map[string]string{"name": "Rent"})
	assert.Equal(t, http.StatusCreated, status)

	matches, err := filepath.Glob(filepath.Join(server.cfg.Database.Path, "user_*.db"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	_, err = os.Stat(filepath.Join(server.cfg.Database.Path, "users.db"))
	assert.NoError(t, err)
}

func TestConcurrentCategoryCreation(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts)
	c.login("alice", "password123")

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Groceries"
			if i%2 == 1 {
				name = "GROCERIES"
			}
			statuses[i], _ = c.do(http.MethodPost, "/api/categories", map[string]string{"name": name})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}
	assert.Equal(t, 1, created)
}

func TestRoutes_ErrorsAndReadiness(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts)

	status, body := c.do(http.MethodGet, "/api/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = c.do(http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Path not found", body["message"])

	status, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "al", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, status)

	c.login("alice", "password123")

	status, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "alice", "password": "password123"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.do(http.MethodGet, "/api/records?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "limit", body["field"])

	status, body = c.do(http.MethodGet, "/api/categories?limit=1001", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Limit cannot exceed 1000", body["message"])

	status, body = c.do(http.MethodPost, "/api/records", map[string]interface{}{"name": "x", "amount": 0, "category_id": "c"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Record amount cannot be zero", body["message"])

	status, body = c.do(http.MethodPut, "/api/records/missing", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "At least one field must be provided for update", body["message"])

	status, body = c.do(http.MethodDelete, "/api/records/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Record not found", body["message"])
}

func TestRecordUnicodeRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts)
	c.login("alice", "password123")

	status, body := c.do(http.MethodPost, "/api/categories", map[string]string{"name": "Café ☕"})
	require.Equal(t, http.StatusCreated, status)
	categoryID := body["id"].(string)

	name := "Crème brûlée 🍮 für Zoë"
	status, body = c.do(http.MethodPost, "/api/records", map[string]interface{}{"name": name, "amount": -4.75, "category_id": categoryID})
	require.Equal(t, http.StatusCreated, status)
	recordID := body["id"].(string)

	status, body = c.do(http.MethodGet, fmt.Sprintf("/api/records/%s", recordID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, name, body["name"])
	assert.Equal(t, categoryID, body["category_id"])
	assert.Equal(t, -4.75, body["amount"])
}

func TestRootCommand_Version(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}
