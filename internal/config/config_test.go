package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(Options{Environment: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, 8*time.Second, cfg.WebhookTimeout)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "smakrik.db", cfg.DBPath)
	require.False(t, cfg.Production())
}

func TestLoadPrefixedValues(t *testing.T) {
	t.Parallel()

	cfg, err := Load(Options{Environment: map[string]string{
		"SMAKRIK_PORT":              "9090",
		"SMAKRIK_BASE_URL":          "https://smakrik.se/",
		"SMAKRIK_WEBHOOK_URL":       "https://hooks.example.com/forms",
		"SMAKRIK_WEBHOOK_TIMEOUT":   "3s",
		"SMAKRIK_DEV":               "true",
		"SMAKRIK_GA_MEASUREMENT_ID": "G-TEST",
	}})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "https://smakrik.se", cfg.BaseURL)
	require.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	require.True(t, cfg.Dev)
	require.Equal(t, "G-TEST", cfg.GAMeasurementID)
}

func TestLoadFallsBackToPlatformPort(t *testing.T) {
	t.Parallel()

	cfg, err := Load(Options{Environment: map[string]string{"PORT": "7070"}})
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)

	cfg, err = Load(Options{Environment: map[string]string{"PORT": "7070", "SMAKRIK_ADDR": "127.0.0.1:1234"}})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:1234", cfg.Addr)
}

func TestValidateReportsFields(t *testing.T) {
	t.Parallel()

	_, err := Load(Options{Environment: map[string]string{
		"SMAKRIK_ENV":         "production",
		"SMAKRIK_BASE_URL":    "smakrik.se",
		"SMAKRIK_WEBHOOK_URL": "ftp://x",
		"SMAKRIK_LOG_LEVEL":   "chatty",
	}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.ElementsMatch(t, []string{
		"SMAKRIK_BASE_URL",
		"SMAKRIK_WEBHOOK_URL",
		"SMAKRIK_LOG_LEVEL",
		"SMAKRIK_SESSION_SIGNING_KEY",
	}, verr.Fields())

	_, err = Load(Options{Environment: map[string]string{
		"SMAKRIK_ENV":                 "production",
		"SMAKRIK_SESSION_SIGNING_KEY": strings.Repeat("k", 32),
	}})
	require.NoError(t, err)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Parallel()

	_, err := Load(Options{Environment: map[string]string{"SMAKRIK_WEBHOOK_TIMEOUT": "soon"}})
	require.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("SMAKRIK_CONTENT_DIR=/srv/content\n"), 0o600))
	t.Setenv("SMAKRIK_CONTENT_DIR", "")
	require.NoError(t, os.Unsetenv("SMAKRIK_CONTENT_DIR"))

	cfg, err := Load(Options{DotEnvFiles: []string{file, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	require.Equal(t, "/srv/content", cfg.ContentDir)
}
