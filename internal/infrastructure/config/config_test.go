package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/piprapay/ppgateway/internal/shared/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  base_url: https://billing.example.com
database:
  driver: sqlite
  database: ":memory:"
gateway:
  api_key: secret
  api_url: https://api.piprapay.test
  cancel_url: https://billing.example.com/cancel
  auto_redirect: true
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "secret", cfg.Gateway.APIKey)
	assert.Equal(t, "BDT", cfg.Gateway.Currency)
	assert.True(t, cfg.Gateway.AutoRedirect)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 0.6, cfg.Gateway.Breaker.FailureRatio)
	assert.Equal(t, 2*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "gateway:\n  api_key: from-file\n")
	t.Setenv("PPGATEWAY_GATEWAY_API_KEY", "from-env")
	t.Setenv("PPGATEWAY_GATEWAY_TIMEOUT", "5s")

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Gateway.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_NamesMissingSetting(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{
			name:    "api key",
			mutate:  func(c *Config) { c.Gateway.APIKey = "" },
			wantKey: "gateway.api_key",
		},
		{
			name:    "api url",
			mutate:  func(c *Config) { c.Gateway.APIURL = "" },
			wantKey: "gateway.api_url",
		},
		{
			name:    "cancel url",
			mutate:  func(c *Config) { c.Gateway.CancelURL = "not a url" },
			wantKey: `gateway.cancel_url fails "url"`,
		},
		{
			name:    "database name",
			mutate:  func(c *Config) { c.Database.Database = "" },
			wantKey: "database.database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "database:\n  driver: sqlite\n  database: \":memory:\"\ngateway:\n  api_key: k\n  api_url: https://api.piprapay.test\n")
			cfg, err := Load("", path)
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, appErrors.IsConfigurationError(err))
			assert.Equal(t, tt.wantKey, appErrors.GetAppError(err).Details)
		})
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  database: x.db\ngateway:\n  api_key: k\n  api_url: https://api.piprapay.test\n  currency: TAKA\n")
	cfg, err := Load("", path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, appErrors.IsConfigurationError(err))
	assert.Contains(t, appErrors.GetAppError(err).Details, "gateway.currency")
}

func TestValidate_APIURLHasNoDefault(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  database: x.db\ngateway:\n  api_key: k\n")
	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Gateway.APIURL)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, appErrors.IsConfigurationError(err))
	assert.Equal(t, "missing required setting", appErrors.GetAppError(err).Message)
	assert.Equal(t, "gateway.api_url", appErrors.GetAppError(err).Details)

	t.Setenv("PPGATEWAY_GATEWAY_API_URL", "https://api.piprapay.test")
	cfg, err = Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.piprapay.test", cfg.Gateway.APIURL)
	require.NoError(t, cfg.Validate())
}
