// Test Type: Unit Test
// Description: Tests for settings layering across defaults, file and environment

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/config"
)

// isolateConfigHome points the XDG config home at a temp dir so tests
// never touch the real user configuration.
func isolateConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestPath(t *testing.T) {
	isolateConfigHome(t)
	assert.Equal(t, filepath.Join(xdg.ConfigHome, "meshbridge", "meshbridge.toml"), config.Path())
}

func TestLoadDefaults(t *testing.T) {
	isolateConfigHome(t)

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Empty(t, settings.BridgeRoot)
	assert.Empty(t, settings.ContentDir)
	assert.False(t, settings.DeleteGeneratedAssets)
}

func TestLoadUserFile(t *testing.T) {
	isolateConfigHome(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(config.Path()), 0755))
	require.NoError(t, os.WriteFile(config.Path(), []byte(
		"bridge_root = \"/shared/bridge\"\ndelete_generated_assets = true\n"), 0644))

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/shared/bridge", settings.BridgeRoot)
	assert.True(t, settings.DeleteGeneratedAssets)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	isolateConfigHome(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(config.Path()), 0755))
	require.NoError(t, os.WriteFile(config.Path(), []byte("bridge_root = \"/from/file\"\n"), 0644))

	t.Setenv("MESHBRIDGE_BRIDGE_ROOT", "/from/env")
	t.Setenv("MESHBRIDGE_CONTENT_DIR", "/env/content")

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/from/env", settings.BridgeRoot)
	assert.Equal(t, "/env/content", settings.ContentDir)
}

func TestLoadMalformedUserFile(t *testing.T) {
	isolateConfigHome(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(config.Path()), 0755))
	require.NoError(t, os.WriteFile(config.Path(), []byte("bridge_root = [broken"), 0644))

	_, err := config.Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	isolateConfigHome(t)

	saved := &config.Settings{
		BridgeRoot:            "/shared/bridge",
		ContentDir:            "/shared/content",
		DeleteGeneratedAssets: true,
	}
	require.NoError(t, config.Save(saved))

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}
