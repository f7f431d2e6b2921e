package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FillsMissingFieldsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
balance:
  tick_interval_seconds: 30
  points_per_level: 1000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, 30, cfg.Balance.TickIntervalSeconds)
	assert.Equal(t, 1000, cfg.Balance.PointsPerLevel)
	// Everything the file left out falls back to the canonical numbers.
	assert.Equal(t, 1.0, cfg.Balance.BaseSpeed)
	assert.Equal(t, 0.5, cfg.Balance.OfflineRateMultiplier)
	assert.Equal(t, 1.5, cfg.Balance.FusionDivisor)
	assert.Equal(t, 3, cfg.Balance.DailyBonusMaxMultiplier)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("balance: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyDefaults_EmptyConfigEqualsDefault(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, Default(), cfg.Balance)
}

func TestRuntime_BalanceFor(t *testing.T) {
	file := Default()
	file.PointsPerLevel = 999

	assert.Equal(t, file, Runtime{}.BalanceFor(file))
	assert.Equal(t, Generous(), Runtime{BalancePreset: "generous"}.BalanceFor(file))
	assert.Equal(t, Grind(), Runtime{BalancePreset: "grind"}.BalanceFor(file))
	// Unknown presets fall back to the file.
	assert.Equal(t, file, Runtime{BalancePreset: "casual"}.BalanceFor(file))
}

func TestLoadRuntime_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DATA_DIR", "/tmp/coinverse")
	t.Setenv("BALANCE_PRESET", "grind")

	rt, err := LoadRuntime()
	require.NoError(t, err)
	assert.Equal(t, ":9090", rt.Addr)
	assert.Equal(t, "/tmp/coinverse", rt.DataDir)
	assert.Equal(t, "grind", rt.BalancePreset)
	assert.Equal(t, "coinverse_config.yml", rt.ConfigPath)
}
