package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Terminal.Host)
	assert.Equal(t, 8194, cfg.Terminal.Port)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 0.02, cfg.Analysis.MinSettlement)
	assert.Equal(t, 500, cfg.Analysis.GridPoints)
	assert.Equal(t, 0.5, cfg.Analysis.Beta)
	assert.Equal(t, 2020, cfg.Analysis.DecadeBase)
	assert.Equal(t, "csv", cfg.Meetings.Source)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	require.Contains(t, cfg.Curves, "USD")
	require.Len(t, cfg.Curves["USD"], 18)
	assert.Equal(t, "USOSFR1Z BGN CURNCY", cfg.Curves["USD"][0])
	assert.Equal(t, "USOSFR3 BGN CURNCY", cfg.Curves["USD"][17])
	assert.Contains(t, cfg.Curves, "EUR")
	assert.Contains(t, cfg.Curves, "GBP")

	require.Contains(t, cfg.PolicyRates, "USD")
	assert.Equal(t, "FDTR Index", cfg.PolicyRates["USD"].Ticker)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
terminal:
  host: gateway.internal
  port: 9000
  timeout_seconds: 5
analysis:
  min_settlement: 0.01
  beta: 0.7
meetings:
  source: sqlite
  dsn: meetings.db
log:
  level: debug
curves:
  USD:
    - USOSFRA BGN CURNCY
    - USOSFR1 BGN CURNCY
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gateway.internal", cfg.Terminal.Host)
	assert.Equal(t, 9000, cfg.Terminal.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 0.01, cfg.Analysis.MinSettlement)
	assert.Equal(t, 0.7, cfg.Analysis.Beta)
	assert.Equal(t, "sqlite", cfg.Meetings.Source)
	assert.Equal(t, "meetings.db", cfg.Meetings.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset fields fall back to defaults.
	assert.Equal(t, 500, cfg.Analysis.GridPoints)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Len(t, cfg.Curves["USD"], 2)
	// Curves given only for USD leave the other defaults out entirely;
	// the map is taken as a whole.
	assert.NotContains(t, cfg.Curves, "EUR")
	assert.Contains(t, cfg.PolicyRates, "USD")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terminal: [not a mapping"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TERMINAL_HOST", "envhost")
	t.Setenv("TERMINAL_PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Default()
	assert.Equal(t, "envhost", cfg.Terminal.Host)
	assert.Equal(t, 7070, cfg.Terminal.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// Malformed port is ignored and the default stands.
	t.Setenv("TERMINAL_PORT", "not-a-port")
	cfg = Default()
	assert.Equal(t, 8194, cfg.Terminal.Port)
}
