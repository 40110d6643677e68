package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "robots", cfg.RobotsDir)
	assert.Equal(t, DefaultMateValuesFile, cfg.Documents.MateValues)
	assert.Equal(t, DefaultURDFFile, cfg.Documents.URDF)
	assert.Equal(t, ".backup", cfg.Backup.Suffix)
	assert.Equal(t, "onshape-to-robot", cfg.Convert.Command)
	assert.True(t, cfg.Audit.Enabled)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialYAMLFillsDefaults(t *testing.T) {
	workspace := t.TempDir()
	dir := filepath.Join(workspace, ".robomend")
	require.NoError(t, os.MkdirAll(dir, 0755))
	yaml := `robots_dir: /data/robots
backup:
  suffix: .orig
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(workspace)
	require.NoError(t, err)

	assert.Equal(t, "/data/robots", cfg.RobotsDir)
	assert.Equal(t, ".orig", cfg.Backup.Suffix)
	// Everything the file left out keeps its default.
	assert.Equal(t, DefaultFeaturesFile, cfg.Documents.Features)
	assert.Equal(t, "2m", cfg.Convert.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	workspace := t.TempDir()
	dir := filepath.Join(workspace, ".robomend")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("robots_dir: [broken"), 0644))

	_, err := Load(workspace)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("ROBOMEND_ROBOTS_DIR wins over file", func(t *testing.T) {
		t.Setenv("ROBOMEND_ROBOTS_DIR", "/env/robots")

		workspace := t.TempDir()
		dir := filepath.Join(workspace, ".robomend")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("robots_dir: /file/robots\n"), 0644))

		cfg, err := Load(workspace)
		require.NoError(t, err)
		assert.Equal(t, "/env/robots", cfg.RobotsDir)
	})

	t.Run("ROBOMEND_BACKUP_SUFFIX", func(t *testing.T) {
		t.Setenv("ROBOMEND_BACKUP_SUFFIX", ".pre")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, ".pre", cfg.Backup.Suffix)
	})

	t.Run("ROBOMEND_DEBUG parses booleans", func(t *testing.T) {
		t.Setenv("ROBOMEND_DEBUG", "true")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("ROBOMEND_DEBUG ignores garbage", func(t *testing.T) {
		t.Setenv("ROBOMEND_DEBUG", "maybe")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("ROBOMEND_LOG_LEVEL", func(t *testing.T) {
		t.Setenv("ROBOMEND_LOG_LEVEL", "debug")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestDotEnvLoaded(t *testing.T) {
	// godotenv does not override variables already set, so clear it first.
	t.Setenv("ROBOMEND_CONVERT_COMMAND", "")
	os.Unsetenv("ROBOMEND_CONVERT_COMMAND")

	workspace := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workspace, ".env"),
		[]byte("ROBOMEND_CONVERT_COMMAND=my-converter\n"), 0644))

	cfg, err := Load(workspace)
	require.NoError(t, err)
	assert.Equal(t, "my-converter", cfg.Convert.Command)
}

func TestSaveRoundTrip(t *testing.T) {
	workspace := t.TempDir()

	cfg := Default()
	cfg.RobotsDir = "/custom/robots"
	cfg.Audit.Enabled = false
	require.NoError(t, cfg.Save(workspace))

	loaded, err := Load(workspace)
	require.NoError(t, err)
	assert.Equal(t, "/custom/robots", loaded.RobotsDir)
	assert.False(t, loaded.Audit.Enabled)
}
