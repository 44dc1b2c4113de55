package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a fresh temp dir and clears MYTASKS_*.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"MYTASKS_DATA_DIR", "MYTASKS_BACKEND", "MYTASKS_REDIS_ADDR", "MYTASKS_LOG_LEVEL", "MYTASKS_SAVE_DEBOUNCE"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Flags{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "mytasks"), cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, DefaultRedisAddr, cfg.RedisAddr)
	assert.Equal(t, DefaultRedisPrefix, cfg.RedisPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.SaveDebounce.Duration)
	assert.Equal(t, DefaultThemeDark, cfg.ThemeDark)
	assert.Equal(t, DefaultThemeLight, cfg.ThemeLight)
	assert.Empty(t, cfg.File)
}

func TestUserConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "mytasks", "config.toml")
	writeFile(t, path, `
data_dir = "/srv/tasks"
backend = "file"
log_level = "DEBUG"
save_debounce = "250ms"
theme_dark = "dracula"
`)

	cfg, err := Load(Flags{})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/srv/tasks", cfg.DataDir)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.SaveDebounce.Duration)
	assert.Equal(t, "dracula", cfg.ThemeDark)
	assert.Equal(t, DefaultThemeLight, cfg.ThemeLight)
}

func TestPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `
data_dir = "/from/file"
backend = "file"
log_level = "warn"
`)
	t.Setenv("MYTASKS_BACKEND", "redis")
	t.Setenv("MYTASKS_LOG_LEVEL", "error")
	t.Setenv("MYTASKS_REDIS_ADDR", "cache:6379")
	t.Setenv("MYTASKS_SAVE_DEBOUNCE", "1s")

	cfg, err := Load(Flags{ConfigFile: path, LogLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.DataDir, "file beats default")
	assert.Equal(t, BackendRedis, cfg.Backend, "env beats file")
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, time.Second, cfg.SaveDebounce.Duration)
	assert.Equal(t, "debug", cfg.LogLevel, "flag beats env")
}

func TestDataDirExpandsHome(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Flags{DataDir: "~/tasks"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasks"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "tasks", "mytasks.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(dir, "tasks", "state.json"), cfg.StatePath())
	assert.Equal(t, filepath.Join(dir, "tasks", "mytasks.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "tasks", "mytasks.lock"), cfg.LockPath())
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		dir := isolate(t)
		_, err := Load(Flags{ConfigFile: filepath.Join(dir, "nope.toml")})
		assert.Error(t, err)
	})

	t.Run("bad toml", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "bad.toml")
		writeFile(t, path, `backend = `)
		_, err := Load(Flags{ConfigFile: path})
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "typo.toml")
		writeFile(t, path, `bakend = "file"`)
		_, err := Load(Flags{ConfigFile: path})
		assert.ErrorContains(t, err, "bakend")
	})

	t.Run("bad debounce in file", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "slow.toml")
		writeFile(t, path, `save_debounce = "soon"`)
		_, err := Load(Flags{ConfigFile: path})
		assert.Error(t, err)
	})

	t.Run("bad debounce in env", func(t *testing.T) {
		isolate(t)
		t.Setenv("MYTASKS_SAVE_DEBOUNCE", "fast")
		_, err := Load(Flags{})
		assert.ErrorContains(t, err, "MYTASKS_SAVE_DEBOUNCE")
	})

	t.Run("unknown backend flag", func(t *testing.T) {
		isolate(t)
		_, err := Load(Flags{Backend: "postgres"})
		assert.ErrorContains(t, err, "postgres")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.DataDir = "/tmp/x"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "mongo" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"redis without addr", func(c *Config) { c.Backend = BackendRedis; c.RedisAddr = "" }},
		{"negative debounce", func(c *Config) { c.SaveDebounce.Duration = -time.Second }},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
