package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsAndParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
keyboards:
  - name: main
    keys:
      KEY_CAPSLOCK: KEY_ESC
`)

	file, err := Load(path)
	require.NoError(t, err)
	require.Len(t, file.Keyboards, 1)
	assert.Equal(t, "main", file.Keyboards[0].Name)
}

func TestLoadMissingFileReturnsFriendlyError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfigDirPathFallsBackToUserHomeWhenUnprivileged(t *testing.T) {
	dir, err := ConfigDirPath()
	require.NoError(t, err)
	if dir != "/etc/remapd" {
		assert.Contains(t, dir, ".config/remapd")
	}
}

func TestDefaultConfigPathJoinsConfigYaml(t *testing.T) {
	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
