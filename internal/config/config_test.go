package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test_config.yaml")

	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "Failed to write temporary config file")

	return configPath
}

func TestMustLoad(t *testing.T) {
	validYAML := `
env: "test"
api:
  base_url: "http://shop.test:8000"
  timeout: "10s"
catalog:
  page_size: 12
  search_debounce: "250ms"
session:
  dir: "/tmp/kubukshop-test"
notify:
  success_ttl: "2s"
  failure_ttl: "6s"
ops:
  address: ":9090"
`

	t.Run("Success - Full Config File", func(t *testing.T) {
		configPath := createTempConfigFile(t, validYAML)
		t.Setenv("CONFIG_PATH", configPath)

		cfg := MustLoad()

		require.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "http://shop.test:8000", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, 12, cfg.Catalog.PageSize)
		assert.Equal(t, 250*time.Millisecond, cfg.Catalog.SearchDebounce)
		assert.Equal(t, "/tmp/kubukshop-test", cfg.Session.Dir)
		assert.Equal(t, 2*time.Second, cfg.Notify.SuccessTTL)
		assert.Equal(t, 6*time.Second, cfg.Notify.FailureTTL)
		assert.Equal(t, ":9090", cfg.Ops.Addr)
		assert.Empty(t, cfg.Ops.OTLPEndpoint)
	})

	t.Run("Success - Defaults Fill The Gaps", func(t *testing.T) {
		configPath := createTempConfigFile(t, `env: "local"`)
		t.Setenv("CONFIG_PATH", configPath)

		cfg := MustLoad()

		require.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, 10, cfg.Catalog.PageSize)
		assert.Equal(t, 300*time.Millisecond, cfg.Catalog.SearchDebounce)
		assert.Equal(t, 3*time.Second, cfg.Notify.SuccessTTL)
		assert.Equal(t, 5*time.Second, cfg.Notify.FailureTTL)
		assert.Empty(t, cfg.Session.Dir)
		assert.Empty(t, cfg.Ops.Addr)
	})

	t.Run("Success - Environment Overrides The File", func(t *testing.T) {
		configPath := createTempConfigFile(t, validYAML)
		t.Setenv("CONFIG_PATH", configPath)
		t.Setenv("API_BASE_URL", "http://override:9000")

		cfg := MustLoad()

		require.NotNil(t, cfg)
		assert.Equal(t, "http://override:9000", cfg.API.BaseURL)
	})
}
