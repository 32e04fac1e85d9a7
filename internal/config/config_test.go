package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendify/spendify/internal/forecast"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spendify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Normalize.BalanceTolerance)
	assert.Equal(t, forecast.DefaultMaxHorizonDays, cfg.Forecast.MaxHorizonDays)
	assert.Equal(t, forecast.DefaultMinHistoryDays, cfg.Forecast.MinHistoryDays)
	assert.Equal(t, string(forecast.HorizonReject), cfg.Forecast.HorizonPolicy)
	assert.Equal(t, int64(forecast.DefaultSeed), cfg.Forecast.Seed)
	assert.Empty(t, cfg.Classify.RulesFile)
}

func TestBuildFromFile(t *testing.T) {
	path := writeConfig(t, `
normalize:
  balance_tolerance: 0.05
forecast:
  max_horizon_days: 60
  horizon_policy: clamp
  seed: 7
classify:
  rules_file: /etc/spendify/rules.yaml
`)

	cfg, err := Build(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Normalize.BalanceTolerance)
	assert.Equal(t, 60, cfg.Forecast.MaxHorizonDays)
	assert.Equal(t, forecast.DefaultMinHistoryDays, cfg.Forecast.MinHistoryDays)
	assert.Equal(t, "/etc/spendify/rules.yaml", cfg.Classify.RulesFile)

	opts := cfg.ForecastOptions()
	assert.Equal(t, forecast.HorizonClamp, opts.Policy)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, 60, opts.MaxHorizonDays)
}

func overrideFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("balance-tolerance", 0.01, "")
	fs.String("horizon-policy", "reject", "")
	fs.Int64("seed", 42, "")
	fs.String("rules", "", "")
	return fs
}

func TestBuildFlagOverrides(t *testing.T) {
	path := writeConfig(t, "forecast:\n  seed: 7\n  horizon_policy: clamp\n")

	fs := overrideFlags(t)
	require.NoError(t, fs.Set("seed", "99"))

	cfg, err := Build(path, fs)
	require.NoError(t, err)

	// A set flag beats the config file; an untouched flag does not.
	assert.Equal(t, int64(99), cfg.Forecast.Seed)
	assert.Equal(t, string(forecast.HorizonClamp), cfg.Forecast.HorizonPolicy)
}

func TestBuildRejectsBadPolicy(t *testing.T) {
	path := writeConfig(t, "forecast:\n  horizon_policy: truncate\n")

	_, err := Build(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horizon policy")
}

func TestBuildMissingExplicitFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestNormalizeOptions(t *testing.T) {
	cfg, err := Build(writeConfig(t, "normalize:\n  balance_tolerance: 0.5\n"), nil)
	require.NoError(t, err)

	tol := cfg.NormalizeOptions().BalanceTolerance
	assert.InDelta(t, 0.5, tol.InexactFloat64(), 1e-9)
}
