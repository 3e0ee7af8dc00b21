package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/config"
	"github.com/goliatone/go-campus-auth/records"
)

func newTestApp(t *testing.T, opts ...func(*config.Config)) *App {
	t.Helper()

	cfg := &config.Config{
		Port:            "0",
		SigningKey:      "test-secret",
		TokenTTL:        time.Hour,
		ShutdownTimeout: time.Second,
		HashConcurrency: 2,
		ExportTables:    []string{"schedule"},
		DB: config.Database{
			Driver:   "sqlite",
			DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			Name:     "campus",
			MaxConns: 1,
			Migrate:  true,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := NewApp(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

func tokenSubject(app *App, token string) (string, error) {
	claims, err := auth.NewTokenService([]byte(app.cfg.SigningKey), app.cfg.TokenTTL).Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

func call(t *testing.T, app *App, method, path, token string, body any) (int, map[string]any, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Fiber().Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, raw
}

func TestServerFlow(t *testing.T) {
	app := newTestApp(t)

	code, body, _ := call(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.io", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["message"])

	code, body, _ = call(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.io", "password": "pw1",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already in use", body["message"])

	code, body, _ = call(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@x.io", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, _, _ = call(t, app, http.MethodGet, "/api/schedule", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _, _ = call(t, app, http.MethodGet, "/api/schedule", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body, _ = call(t, app, http.MethodGet, "/api/schedule", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no schedule found", body["message"])

	studentID, err := tokenSubject(app, token)
	require.NoError(t, err)

	require.NoError(t, records.NewStore(app.db).AddScheduleEntry(context.Background(), &records.ScheduleEntry{
		ID: uuid.NewString(), StudentID: studentID, CourseName: "Algebra", CourseTime: "Mon 09:00",
	}))

	code, _, raw := call(t, app, http.MethodGet, "/api/schedule", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"course_name":"Algebra","course_time":"Mon 09:00"}]`, string(raw))

	code, body, _ = call(t, app, http.MethodGet, "/api/student/"+studentID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ana@x.io", body["email"])
	assert.NotContains(t, body, "password_hash")

	code, body, _ = call(t, app, http.MethodGet, "/api/export", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "header", body["type"])
	assert.Equal(t, "5.2.1", body["version"])

	code, _, _ = call(t, app, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _, raw = call(t, app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `campus_auth_events_total{event="auth.login.success"} 1`)
	assert.Contains(t, string(raw), `campus_auth_events_total{event="auth.register.duplicate"} 1`)
}

func TestServerLoginFailuresLookAlike(t *testing.T) {
	app := newTestApp(t)

	code, _, _ := call(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.io", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)

	wrongCode, _, wrongRaw := call(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@x.io", "password": "bad",
	})
	unknownCode, _, unknownRaw := call(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "nobody@x.io", "password": "pw1",
	})

	assert.Equal(t, http.StatusBadRequest, wrongCode)
	assert.Equal(t, wrongCode, unknownCode)
	assert.Equal(t, string(wrongRaw), string(unknownRaw))
}

func TestServerUnknownStudent(t *testing.T) {
	app := newTestApp(t)

	code, _, _ := call(t, app, http.MethodGet, "/api/student/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = call(t, app, http.MethodGet, "/api/student/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServerExportDefaultTables(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.ExportTables = nil })

	code, body, _ := call(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.io", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)

	_, body, _ = call(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@x.io", "password": "pw1",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, body, _ = call(t, app, http.MethodGet, "/api/export", token, nil)
	require.Equal(t, http.StatusOK, code)

	dumps, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, dumps, len(records.DefaultExportTables))
	for i, table := range records.DefaultExportTables {
		dump, ok := dumps[i].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, table, dump["name"])
		assert.Equal(t, "campus", dump["database"])
	}
}
