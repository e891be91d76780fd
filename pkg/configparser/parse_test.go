package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port string `env:"TESTCFG_SERVER_PORT" default:"3004"`
	}
	Backend struct {
		BaseURL string        `env:"TESTCFG_BACKEND_BASE_URL" default:"http://localhost:9090"`
		Timeout time.Duration `env:"TESTCFG_BACKEND_TIMEOUT" default:"10s"`
	}
	Concurrency int      `env:"TESTCFG_CONCURRENCY" default:"8"`
	Enabled     bool     `env:"TESTCFG_ENABLED" default:"false"`
	Tags        []string `env:"TESTCFG_TAGS"`
	untagged    string
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "3004", cfg.Server.Port)
	assert.Equal(t, "http://localhost:9090", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.False(t, cfg.Enabled)
	assert.Nil(t, cfg.Tags)
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TESTCFG_SERVER_PORT", "8081")
	t.Setenv("TESTCFG_BACKEND_TIMEOUT", "2s")
	t.Setenv("TESTCFG_ENABLED", "true")
	t.Setenv("TESTCFG_TAGS", "a, b ,c")

	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TESTCFG_CONCURRENCY", "many")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTCFG_CONCURRENCY")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadAndParseYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "testcfg:\n  server:\n    port: \"9999\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() { os.Unsetenv("TESTCFG_SERVER_PORT") })

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestLoadAndParseYaml_MissingFileUsesDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))
	assert.Equal(t, "3004", cfg.Server.Port)
}
