package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lrukv/internal/logging"
)

// isolate уводит поиск файла в пустые каталоги.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	chdir(t, dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, &want, cfg)
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LRUKV_ADDR", "127.0.0.1:7000")
	t.Setenv("LRUKV_MAX_SIZE", "5")
	t.Setenv("LRUKV_IDLE_TIMEOUT", "10s")
	t.Setenv("LRUKV_STATS_INTERVAL", "1m")
	t.Setenv("LRUKV_LOG_LEVEL", "debug")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxSize)
	assert.Equal(t, 10*time.Second, cfg.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.StatsInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":7777"
max_size = 3
max_clients = 8
idle_timeout = "2m"

[log]
format = "json"
`), 0o644))

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxSize)
	assert.Equal(t, 8, cfg.MaxClients)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, path, l.FileUsed())
}

func TestLoadFileFromSearchPath(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lrukv.yaml"), []byte("max_size: 42\n"), 0o644))

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxSize)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lrukv.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_size = 3\n"), 0o644))
	t.Setenv("LRUKV_MAX_SIZE", "9")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxSize)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := NewLoader().Load(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("LRUKV_MAX_SIZE", "0")

	_, err := NewLoader().Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_size")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"zero max size", func(c *Config) { c.MaxSize = 0 }, "max_size"},
		{"zero read buffer", func(c *Config) { c.ReadBuffer = 0 }, "read_buffer"},
		{"negative idle", func(c *Config) { c.IdleTimeout = -time.Second }, "idle_timeout"},
		{"negative clients", func(c *Config) { c.MaxClients = -1 }, "max_clients"},
		{"negative stats", func(c *Config) { c.StatsInterval = -time.Second }, "stats_interval"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	lc := cfg.Logging()
	assert.Equal(t, zerolog.WarnLevel, lc.Level)
	assert.Equal(t, logging.FormatJSON, lc.Format)
}

// chdir повторяет testing.T.Chdir (Go 1.24) для текущего тулчейна.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("chdir %s: %v", wd, err)
		}
	})
}
