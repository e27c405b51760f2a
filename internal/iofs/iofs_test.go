package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	// repeated calls are fine
	for range 3 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "geopephub"),
		filepath.Join(tmpDir, ".local", "share", "geopephub", "logs"),
	}
	for _, v := range dirs {
		info, err := os.Stat(v)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}

func TestTouchDir(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "test", "subdir")

	require.NoError(t, touchDir(newDir))
	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// a file in the way cannot become a directory
	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	err = touchDir(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "geopephub", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// existing file is not overwritten
	custom := "database:\n  host: myhost\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))
	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content))
}

func TestConfigYAML(t *testing.T) {
	var data map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &data))

	for _, v := range []string{"database", "geo", "fetch", "catalog", "metrics", "log"} {
		assert.Contains(t, data, v)
	}
	fetch, ok := data["fetch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3m", fetch["timeout"])
}
