// Test Type: Unit Test
// Description: Tests for bridge directory status inspection

package status_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/commands/status"
	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/manifest"
	"github.com/meshbridge/meshbridge/pkg/spatial"
	"github.com/meshbridge/meshbridge/pkg/testutil"
	"github.com/meshbridge/meshbridge/pkg/types"
)

func writeManifest(t *testing.T, fs *testutil.MemoryFS, name string, m *types.Manifest) {
	t.Helper()
	data, err := manifest.Encode(m)
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(filepath.Join("/bridge", name), data, 0644))
}

func TestRunRequiresBridgeRoot(t *testing.T) {
	_, err := status.Run(status.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRunEmptyBridge(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/bridge", 0755))

	result, err := status.Run(status.Options{BridgeRoot: "/bridge", FileSystem: fs})
	require.NoError(t, err)

	assert.False(t, result.Inbound.Present)
	assert.False(t, result.Outbound.Present)
}

func TestRunInboundManifest(t *testing.T) {
	fs := testutil.NewMemoryFS()
	writeManifest(t, fs, manifest.FileFromDCC, &types.Manifest{
		Operation: manifest.OpEditorExport,
		Objects: []types.ExportRecord{
			{
				Id:   "Crate_1",
				Name: "Crate",
				Kind: types.KindStaticMesh,
				File: "/bridge/Props/Crate.glb",
				WorldTransform: &types.WorldTransform{
					Scale: spatial.One(),
				},
			},
			{
				Id:   "/Game/Props/Barrel",
				Name: "Barrel",
				Kind: types.KindStaticMesh,
				File: "/bridge/Props/Barrel.glb",
			},
		},
	})
	require.NoError(t, fs.WriteFile("/bridge/Props/Crate.glb", []byte("glTF"), 0644))

	result, err := status.Run(status.Options{BridgeRoot: "/bridge", FileSystem: fs})
	require.NoError(t, err)

	inbound := result.Inbound
	assert.True(t, inbound.Present)
	assert.False(t, inbound.Legacy)
	assert.Equal(t, manifest.OpEditorExport, inbound.Operation)
	require.Len(t, inbound.Objects, 2)

	assert.True(t, inbound.Objects[0].FileExists)
	assert.True(t, inbound.Objects[0].Placed)

	// Barrel's geometry was never written
	assert.False(t, inbound.Objects[1].FileExists)
	assert.False(t, inbound.Objects[1].Placed)
}

func TestRunLegacyManifestFlagged(t *testing.T) {
	fs := testutil.NewMemoryFS()
	writeManifest(t, fs, manifest.FileLegacy, &types.Manifest{Operation: manifest.OpEditorExport})

	result, err := status.Run(status.Options{BridgeRoot: "/bridge", FileSystem: fs})
	require.NoError(t, err)

	assert.True(t, result.Inbound.Present)
	assert.True(t, result.Inbound.Legacy)
}

func TestRunOutboundManifest(t *testing.T) {
	fs := testutil.NewMemoryFS()
	writeManifest(t, fs, manifest.FileFromEditor, &types.Manifest{
		Operation: manifest.OpEditorExport,
		Objects: []types.ExportRecord{
			{Id: "/Game/Props/Crate", Name: "Crate", Kind: types.KindStaticMesh, File: "/bridge/Props/Crate.glb"},
		},
	})

	result, err := status.Run(status.Options{BridgeRoot: "/bridge", FileSystem: fs})
	require.NoError(t, err)

	assert.False(t, result.Inbound.Present)
	assert.True(t, result.Outbound.Present)
	require.Len(t, result.Outbound.Objects, 1)
}

func TestRunMalformedManifestIsReportedNotFatal(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile(filepath.Join("/bridge", manifest.FileFromDCC), []byte("{broken"), 0644))

	result, err := status.Run(status.Options{BridgeRoot: "/bridge", FileSystem: fs})
	require.NoError(t, err)

	assert.True(t, result.Inbound.Present)
	assert.NotEmpty(t, result.Inbound.Error)
	assert.Empty(t, result.Inbound.Objects)
}
