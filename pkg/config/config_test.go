package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DefaultOpenDataBaseURL, cfg.OpenData.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.OpenData.Timeout)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, int64(SapphireTestnetChainID), cfg.Chain.ChainID)
	assert.Equal(t, 0.6, cfg.Loan.MaxLTV)
	assert.Equal(t, []int{30, 90, 180, 365}, cfg.Loan.TermDays)
	assert.Equal(t, 18, cfg.KYC.MinimumAge)
	assert.Equal(t, int64(10<<20), cfg.KYC.MaxUploadBytes)
}

func TestLoadConfig_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
opendata:
  base_url: http://127.0.0.1:9999/json
  timeout: 5s
loan:
  max_ltv: 0.5
  term_days: [60, 120]
session:
  ttl: 2h
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999/json", cfg.OpenData.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.OpenData.Timeout)
	assert.Equal(t, 0.5, cfg.Loan.MaxLTV)
	assert.Equal(t, []int{60, 120}, cfg.Loan.TermDays)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SELF_MINIMUM_AGE", "20")
	t.Setenv("KYC_ALLOW_SKIP", "true")
	t.Setenv("PINATA_API_KEY", "key")

	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 20, cfg.KYC.MinimumAge)
	assert.True(t, cfg.KYC.AllowSkip)
	assert.Equal(t, "key", cfg.Pinata.APIKey)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")

	_, err := LoadConfig(writeConfig(t, "{}\n"))
	assert.Error(t, err)
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ltv above one", "loan:\n  max_ltv: 1.5\n"},
		{"bad contract address", "chain:\n  contract_address: not-an-address\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"negative term", "loan:\n  term_days: [30, -1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := Default()
	cfg.Server.Env = "production"
	assert.Error(t, Validate(cfg))

	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, Validate(cfg))
}
