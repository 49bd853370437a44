package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Defaults(t *testing.T) {
	s, err := Config{}.Resolve(Environment{WorkingDir: "/srv/app"})
	require.NoError(t, err)

	assert.Equal(t, LevelDebug, s.Console)
	assert.Equal(t, LevelInfo, s.File)
	assert.Equal(t, LevelDebug, s.Level)
	assert.True(t, s.FileEnabled)
	assert.Equal(t, filepath.Join("/srv/app", "config", "logs"), s.Dir)
	assert.Equal(t, FileOptions{Prefix: "app", MaxSizeMB: 5, Format: "text"}, s.Rotation)
}

func TestResolve_LevelSeedsSinks(t *testing.T) {
	s, err := Config{Level: "warn"}.Resolve(Environment{})
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, s.Console)
	assert.Equal(t, LevelWarn, s.File)
	assert.Equal(t, LevelWarn, s.Level)

	s, err = Config{Level: "info", Console: "debug", File: "error"}.Resolve(Environment{})
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, s.Console)
	assert.Equal(t, LevelError, s.File)
	assert.Equal(t, LevelDebug, s.Level)
}

func TestResolve_Environment(t *testing.T) {
	s, err := Config{}.Resolve(Environment{ConfigDir: "/etc/station", LogLevel: "WARN"})
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, s.File)
	assert.Equal(t, LevelDebug, s.Console)
	assert.Equal(t, filepath.Join("/etc/station", "logs"), s.Dir)

	s, err = Config{}.Resolve(Environment{LogLevel: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgEnvLevelInvalid)
	assert.Equal(t, LevelInfo, s.File)
}

func TestResolve_InvalidConfigUsesDefaults(t *testing.T) {
	s, err := Config{Level: "loud", File: FileDisabled, Rotation: FileOptions{Prefix: "x"}}.Resolve(Environment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgConfigInvalid)

	assert.Equal(t, LevelDebug, s.Console)
	assert.Equal(t, LevelInfo, s.File)
	assert.True(t, s.FileEnabled)
	assert.Equal(t, "app", s.Rotation.Prefix)
}

func TestResolve_FileDisabled(t *testing.T) {
	s, err := Config{Level: "error", File: FileDisabled}.Resolve(Environment{})
	require.NoError(t, err)
	assert.False(t, s.FileEnabled)
	assert.Equal(t, LevelError, s.Level)
}

func TestValidateConfig(t *testing.T) {
	for _, name := range []string{"error", "warn", "info", "verbose", "debug", "silent"} {
		assert.NoError(t, validateConfig(&Config{Level: name, Console: name, File: name}), name)
	}
	assert.NoError(t, validateConfig(&Config{File: FileDisabled}))

	assert.Error(t, validateConfig(&Config{Console: "false"}))
	assert.Error(t, validateConfig(&Config{File: "http"}))
	assert.Error(t, validateConfig(&Config{Rotation: FileOptions{Format: "xml"}}))
	assert.Error(t, validateConfig(&Config{Rotation: FileOptions{Prefix: "../up"}}))
	assert.Error(t, validateConfig(nil))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("logging section", func(t *testing.T) {
		path := filepath.Join(dir, "section.yaml")
		data := "logging:\n  level: warn\n  file: false\n  rotation:\n    max_size_mb: 10\n    compress: true\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, FileDisabled, cfg.File)
		assert.Equal(t, 10, cfg.Rotation.MaxSizeMB)
		assert.True(t, cfg.Rotation.Compress)
	})

	t.Run("top level keys", func(t *testing.T) {
		path := filepath.Join(dir, "flat.yaml")
		require.NoError(t, os.WriteFile(path, []byte("console: debug\nfile: true\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Console)
		assert.Empty(t, cfg.File)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgConfigRead)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("level: [unterminated\n"), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgConfigParse)
	})
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("CONFIG_DIR", "/etc/station")
	t.Setenv("LOG_LEVEL", "verbose")

	e, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "/etc/station", e.ConfigDir)
	assert.Equal(t, "verbose", e.LogLevel)
	assert.NotEmpty(t, e.WorkingDir)
}
