package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.StorePath)
	assert.Equal(t, "local", cfg.PlannerBackend)
	assert.Equal(t, 3, cfg.Thresholds.ExpiringSoonDays)
	assert.Equal(t, 1.0, cfg.Thresholds.LowStockQuantity)
	assert.Equal(t, 30*time.Second, cfg.PlannerTimeout)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("STORE_PATH", "/custom/inventory.json")
	t.Setenv("PLANNER_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("EXPIRING_SOON_DAYS", "5")
	t.Setenv("LOW_STOCK_QUANTITY", "2.5")
	t.Setenv("PLANNER_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/inventory.json", cfg.StorePath)
	assert.Equal(t, "claude", cfg.PlannerBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, 5, cfg.Thresholds.ExpiringSoonDays)
	assert.Equal(t, 2.5, cfg.Thresholds.LowStockQuantity)
	assert.Equal(t, 10*time.Second, cfg.PlannerTimeout)
}

func TestLoadInvalidLowStock(t *testing.T) {
	t.Setenv("LOW_STOCK_QUANTITY", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadThresholdsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
expiring_soon_days: 7
low_stock_quantity: 2
low_stock_by_category:
  dairy: 1.5
  staples: 3
`), 0600))
	t.Setenv("THRESHOLDS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Thresholds.ExpiringSoonDays)
	assert.Equal(t, 2.0, cfg.Thresholds.LowStockQuantity)
	assert.Equal(t, 1.5, cfg.Thresholds.LowStockByCategory["dairy"])
	assert.Equal(t, 3.0, cfg.Thresholds.LowStockByCategory["staples"])
}

func TestLoadThresholdsFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))
	t.Setenv("THRESHOLDS_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadThresholdsFileMissing(t *testing.T) {
	t.Setenv("THRESHOLDS_FILE", "/nonexistent/thresholds.yaml")

	_, err := Load()
	assert.Error(t, err)
}
