package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smakrik.se/web/internal/config"
	"smakrik.se/web/internal/status"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Addr:            ":0",
		Environment:     "development",
		BaseURL:         "http://localhost:8080",
		WebhookTimeout:  time.Second,
		DBPath:          filepath.Join(t.TempDir(), "smakrik.db"),
		LogLevel:        "info",
		ShutdownTimeout: time.Second,
	}
}

func TestBuildServerReportsHealth(t *testing.T) {
	srv, cleanup, err := buildServer(context.Background(), testConfig(t), "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary status.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, status.StateOK, summary.State)

	byName := map[string]status.Component{}
	for _, c := range summary.Components {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "catalog")
	require.Contains(t, byName, "journal")
	require.Equal(t, "dry run", byName["webhook"].Detail)
}

func TestBuildServerWithoutJournal(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = ""
	srv, cleanup, err := buildServer(context.Background(), cfg, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Smakrik")
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	err := run(context.Background(), []string{"-nope"})
	require.Error(t, err)
}
