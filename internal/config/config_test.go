package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"declutter/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const validYAML = `
rules:
  file: /etc/declutter/rules.yaml
settings:
  dry_run: false
  workers: 4
directories:
  default: /srv/inbox
log:
  debug: true
`

func TestLoadConfigFile(t *testing.T) {
	path := createTestYAML(t, validYAML)

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/declutter/rules.yaml", cfg.Rules.File)
	assert.False(t, cfg.Settings.DryRun)
	assert.Equal(t, 4, cfg.Settings.Workers)
	assert.Equal(t, "/srv/inbox", cfg.Directories.Default)
	assert.True(t, cfg.Log.Debug)
}

func TestLoadConfigFileMissing(t *testing.T) {
	// A missing file yields defaults, not an error
	cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Settings.DryRun, "dry run should default to true")
	assert.Equal(t, ".", cfg.Directories.Default)
	assert.NotEmpty(t, cfg.Rules.File)
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	path := createTestYAML(t, "settings: [not a mapping")
	_, err := config.LoadConfigFile(path)
	assert.Error(t, err)
}

func TestLoadConfigFilePartial(t *testing.T) {
	// Unset fields keep their defaults
	path := createTestYAML(t, "settings:\n  workers: 8\n")

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Settings.Workers)
	assert.Equal(t, ".", cfg.Directories.Default)
	assert.NotEmpty(t, cfg.Rules.File)
}

func TestValidate(t *testing.T) {
	cfg := config.New()
	assert.NoError(t, cfg.Validate())

	cfg.Rules.File = ""
	assert.Error(t, cfg.Validate())

	cfg = config.New()
	cfg.Settings.Workers = -1
	assert.Error(t, cfg.Validate())
}

func TestWorkerCount(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, runtime.NumCPU(), cfg.WorkerCount())

	cfg.Settings.Workers = 3
	assert.Equal(t, 3, cfg.WorkerCount())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Directories.Default = "/srv/inbox"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rules.File, loaded.Rules.File)
	assert.Equal(t, "/srv/inbox", loaded.Directories.Default)
	assert.Equal(t, 2, loaded.Settings.Workers)
}
