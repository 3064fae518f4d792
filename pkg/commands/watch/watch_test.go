// Test Type: Integration Test
// Description: Tests for the bridge directory manifest watcher

package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/commands/watch"
	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/manifest"
)

func TestNewRequiresBridgeRoot(t *testing.T) {
	_, err := watch.New(watch.Options{OnManifest: func(string) {}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewRequiresCallback(t *testing.T) {
	_, err := watch.New(watch.Options{BridgeRoot: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewMissingBridgeRoot(t *testing.T) {
	_, err := watch.New(watch.Options{
		BridgeRoot: filepath.Join(t.TempDir(), "does-not-exist"),
		OnManifest: func(string) {},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestWatcherFiresAfterManifestSettles(t *testing.T) {
	root := t.TempDir()
	fired := make(chan string, 1)

	w, err := watch.New(watch.Options{
		BridgeRoot: root,
		Debounce:   50 * time.Millisecond,
		OnManifest: func(path string) {
			select {
			case fired <- path:
			default:
			}
		},
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run() }()

	// An unrelated file never rings the doorbell
	require.NoError(t, os.WriteFile(filepath.Join(root, "Crate.glb"), []byte("glTF"), 0644))

	manifestPath := filepath.Join(root, manifest.FileFromDCC)
	require.NoError(t, os.WriteFile(manifestPath, []byte("{}"), 0644))

	select {
	case path := <-fired:
		assert.Equal(t, manifestPath, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired for the inbound manifest")
	}

	require.NoError(t, w.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after Close")
	}
}

func TestWatcherDebouncesChunkedWrites(t *testing.T) {
	root := t.TempDir()
	fired := make(chan string, 8)

	w, err := watch.New(watch.Options{
		BridgeRoot: root,
		Debounce:   150 * time.Millisecond,
		OnManifest: func(path string) { fired <- path },
	})
	require.NoError(t, err)
	defer w.Close()

	go func() { _ = w.Run() }()

	// Producers write the manifest in several chunks in quick succession
	manifestPath := filepath.Join(root, manifest.FileLegacy)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(manifestPath, []byte("{}"), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case path := <-fired:
		assert.Equal(t, manifestPath, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}

	// The burst settles into exactly one notification
	select {
	case <-fired:
		t.Fatal("watcher fired more than once for one settled burst")
	case <-time.After(400 * time.Millisecond):
	}
}
