// Package manifest implements the codec and discovery rules for the
// bridge's exchange manifests: one JSON document per direction, dropped
// into the shared bridge directory next to the geometry files it
// references.
package manifest

import (
	"encoding/json"
	"path/filepath"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Manifest file names. Each direction owns its file so concurrent
// round-trips never collide on a name.
const (
	// FileFromDCC is written by the DCC side and read by the import pass.
	FileFromDCC = "from-dcc.json"

	// FileFromEditor is written by the export pass for the DCC side.
	FileFromEditor = "from-editor.json"

	// FileLegacy is the single-file name older producers used for both
	// directions. Accepted as a read fallback only; the schema is
	// identical.
	FileLegacy = "AssetBridge.json"
)

// OpEditorExport tags manifests produced by the export pass.
const OpEditorExport = "EditorExport"

// Encode serializes a manifest. It never fails for a well-formed
// in-memory manifest; the data model has no non-serializable fields.
func Encode(m *types.Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "manifest not serializable")
	}
	return data, nil
}

// Decode parses and validates a manifest document. A structurally invalid
// document fails with ErrManifestMalformed; unknown kind tags decode as
// KindUnknown and a missing object list defaults to empty.
func Decode(data []byte) (*types.Manifest, error) {
	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestMalformed, "invalid manifest document")
	}
	if m.Objects == nil {
		m.Objects = []types.ExportRecord{}
	}
	return &m, nil
}

// Discover returns the path of the inbound manifest inside the bridge
// root, falling back to the legacy single-file name when the primary file
// is absent. This is a discovery-order rule, not a format difference.
func Discover(fs types.FS, bridgeRoot string) (string, error) {
	logger := logging.GetLogger("manifest")

	primary := filepath.Join(bridgeRoot, FileFromDCC)
	if _, err := fs.Stat(primary); err == nil {
		return primary, nil
	}

	legacy := filepath.Join(bridgeRoot, FileLegacy)
	if _, err := fs.Stat(legacy); err == nil {
		logger.Warn().
			Str("path", legacy).
			Msg("Using legacy manifest file, update the producer to write from-dcc.json")
		return legacy, nil
	}

	return "", errors.Newf(errors.ErrManifestMissing,
		"no manifest found in %s (looked for %s, %s)", bridgeRoot, FileFromDCC, FileLegacy)
}

// Load discovers, reads and decodes the inbound manifest. It returns the
// manifest together with the path it was read from.
func Load(fs types.FS, bridgeRoot string) (*types.Manifest, string, error) {
	path, err := Discover(fs, bridgeRoot)
	if err != nil {
		return nil, "", err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrFileAccess, "unable to read manifest %s", path)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrManifestMalformed, "manifest %s", path)
	}
	return m, path, nil
}

// Save encodes the outbound manifest and writes it into the bridge root,
// creating the directory when needed. Returns the written path.
func Save(fs types.FS, bridgeRoot string, m *types.Manifest) (string, error) {
	data, err := Encode(m)
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(bridgeRoot, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create bridge root %s", bridgeRoot)
	}

	path := filepath.Join(bridgeRoot, FileFromEditor)
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrManifestWrite, "cannot write manifest %s", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Info().
		Str("path", path).
		Int("objects", len(m.Objects)).
		Msg("Manifest written")
	return path, nil
}
