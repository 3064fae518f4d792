// Test Type: Unit Test
// Description: Tests for relocating imported assets and folder cleanup

package relocate_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/relocate"
	"github.com/meshbridge/meshbridge/pkg/testutil"
)

func TestRelocateAlreadyInPlace(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Props/Crate"})

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)
	assert.Same(t, asset, moved)

	for _, call := range host.Calls {
		assert.NotContains(t, call, "Move")
	}
}

func TestRelocateMovesAndPreservesIdentity(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crates/Crate"})

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)

	// The handle survives the move
	assert.Same(t, asset, moved)
	assert.Equal(t, "/Game/Props/Crate", moved.AssetPath())
	assert.True(t, host.Exists("/Game/Props/Crate"))
	assert.False(t, host.Exists("/Game/Imported/Crates/Crate"))
}

func TestRelocateReplacesExisting(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Props/Crate"})
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crate"})

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)
	assert.Same(t, asset, moved)

	// Editors on the old asset were closed before it was deleted
	assert.Contains(t, host.ClosedEditors, "/Game/Props/Crate")
}

func TestRelocateReplaceFailureAborts(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Props/Crate"})
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crate"})
	host.WithError("Delete", stderrors.New("asset in use"))

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRelocateConflict))

	// The original handle comes back untouched
	assert.Same(t, asset, moved)
	assert.Equal(t, "/Game/Imported/Crate", asset.AssetPath())
}

func TestRelocateMoveFailure(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crate"})
	host.WithError("Move", stderrors.New("move failed"))

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMoveFailed))
	assert.Same(t, asset, moved)
}

func TestRelocateCleansEmptyFolders(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crates/Crate"})

	_, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)

	// Both scaffolding folders emptied out and were removed, bottom up
	assert.Equal(t, []string{"/Game/Imported/Crates", "/Game/Imported"}, host.RemovedFolders)
}

func TestRelocateCleanupStopsAtOccupiedFolder(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crates/Crate"})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Other"})

	_, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)

	// /Game/Imported still holds an asset, so the walk stops there
	assert.Equal(t, []string{"/Game/Imported/Crates"}, host.RemovedFolders)
}

func TestRelocateCleanupFailureIsNotFatal(t *testing.T) {
	host := testutil.NewFakeHost()
	asset := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Imported/Crate"})
	host.WithError("RemoveFolder", stderrors.New("folder locked"))

	moved, err := relocate.New(host).Relocate(asset, "/Game/Props/Crate")
	require.NoError(t, err)
	assert.Equal(t, "/Game/Props/Crate", moved.AssetPath())
	assert.Empty(t, host.RemovedFolders)
}
