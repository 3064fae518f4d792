// Test Type: Unit Test
// Description: Tests for manifest encoding, decoding, discovery and IO

package manifest_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/manifest"
	"github.com/meshbridge/meshbridge/pkg/testutil"
	"github.com/meshbridge/meshbridge/pkg/types"
)

func sampleManifest() *types.Manifest {
	return &types.Manifest{
		Operation: manifest.OpEditorExport,
		Objects: []types.ExportRecord{
			{
				Id:           "/Game/Props/Crate",
				Name:         "Crate",
				Kind:         types.KindStaticMesh,
				SourceAsset:  "/Game/Props/Crate.Crate",
				InternalPath: "/Props",
				File:         "/tmp/bridge/Props/Crate.glb",
				Materials: []types.MaterialSlot{
					{Index: 0, Name: "Wood", Path: "/Game/Materials/Wood"},
				},
			},
			{
				Id:           "Hero_1",
				Name:         "Hero",
				Kind:         types.KindSkeletalMesh,
				SourceAsset:  "/Game/Chars/Hero.Hero",
				InternalPath: "/Chars",
				File:         "/tmp/bridge/Chars/Hero.glb",
				Skeleton:     "/Game/Chars/Hero_Skeleton",
				MorphTargets: []string{"smile", "frown"},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleManifest()

	data, err := manifest.Encode(m)
	require.NoError(t, err)

	decoded, err := manifest.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, m.Operation, decoded.Operation)
	require.Len(t, decoded.Objects, 2)
	assert.Equal(t, m.Objects[0], decoded.Objects[0])
	assert.Equal(t, m.Objects[1], decoded.Objects[1])
}

func TestDecodeMalformed(t *testing.T) {
	_, err := manifest.Decode([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMalformed))
}

func TestDecodeUnknownKind(t *testing.T) {
	data := []byte(`{"Operation":"EditorExport","Objects":[{"Id":"x","Name":"x","Kind":"HologramMesh","InternalPath":"/","File":"/tmp/x.glb"}]}`)

	m, err := manifest.Decode(data)
	require.NoError(t, err)
	require.Len(t, m.Objects, 1)
	assert.Equal(t, types.KindUnknown, m.Objects[0].Kind)
}

func TestDecodeMissingObjects(t *testing.T) {
	m, err := manifest.Decode([]byte(`{"Operation":"EditorExport"}`))
	require.NoError(t, err)
	assert.NotNil(t, m.Objects)
	assert.Empty(t, m.Objects)
}

func TestDiscover(t *testing.T) {
	t.Run("primary_preferred", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile("/bridge/from-dcc.json", []byte("{}"), 0644))
		require.NoError(t, fs.WriteFile("/bridge/AssetBridge.json", []byte("{}"), 0644))

		path, err := manifest.Discover(fs, "/bridge")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/bridge", manifest.FileFromDCC), path)
	})

	t.Run("legacy_fallback", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile("/bridge/AssetBridge.json", []byte("{}"), 0644))

		path, err := manifest.Discover(fs, "/bridge")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/bridge", manifest.FileLegacy), path)
	})

	t.Run("missing_manifest", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.MkdirAll("/bridge", 0755))

		_, err := manifest.Discover(fs, "/bridge")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMissing))
	})
}

func TestSaveAndLoad(t *testing.T) {
	fs := testutil.NewMemoryFS()
	m := sampleManifest()

	path, err := manifest.Save(fs, "/bridge", m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/bridge", manifest.FileFromEditor), path)

	// The outbound file is not an inbound manifest; Load must not pick it up
	_, _, err = manifest.Load(fs, "/bridge")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMissing))

	// Written as the inbound file, it round-trips through Load
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(filepath.Join("/bridge", manifest.FileFromDCC), data, 0644))

	loaded, loadedPath, err := manifest.Load(fs, "/bridge")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/bridge", manifest.FileFromDCC), loadedPath)
	assert.Equal(t, m.Objects, loaded.Objects)
}
