// Package export implements the outbound half of the bridge: collect the
// selection, capture material changesets against the previous round trip,
// write the geometry files and drop the manifest for the other side.
package export

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/meshbridge/meshbridge/pkg/collector"
	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/filesystem"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/manifest"
	"github.com/meshbridge/meshbridge/pkg/materials"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Options holds options for an export pass.
type Options struct {
	BridgeRoot string
	Host       types.Host

	// Operation tags the manifest; defaults to manifest.OpEditorExport.
	Operation string

	// FileSystem allows injecting a filesystem for testing.
	FileSystem types.FS
}

// ExportedObject summarizes one written record.
type ExportedObject struct {
	Id   string
	Name string
	Kind types.MeshKind
	File string
}

// Result is the outcome of an export pass.
type Result struct {
	RunID        string
	ManifestPath string
	Objects      []ExportedObject
}

// Run executes a full export pass. The whole pass is synchronous and
// fail-fast: the first record that cannot be exported aborts it.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.export")
	runID := uuid.NewString()

	if opts.BridgeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"bridge root is not configured, set it before exporting")
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	operation := opts.Operation
	if operation == "" {
		operation = manifest.OpEditorExport
	}

	logger.Info().
		Str("run", runID).
		Str("bridgeRoot", opts.BridgeRoot).
		Msg("Starting export")

	records, err := collector.Collect(collector.Options{
		Selection:  opts.Host.Selection,
		Inspector:  opts.Host.Inspector,
		BridgeRoot: opts.BridgeRoot,
	})
	if err != nil {
		return nil, err
	}

	captureChangesets(fs, opts.BridgeRoot, records)

	result := &Result{RunID: runID}
	for i := range records {
		record := &records[i]

		dir := filepath.Dir(record.File)
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"destination directory %s could not be created", dir)
		}

		ref, ok := opts.Host.Assets.Resolve(paths.WithoutObjectSuffix(record.SourceAsset))
		if !ok {
			return nil, errors.Newf(errors.ErrNotFound,
				"selected asset %s vanished before export", record.SourceAsset)
		}
		if err := opts.Host.Exporter.ExportMesh(ref, record.File); err != nil {
			return nil, errors.Wrapf(err, errors.ErrExportFailed,
				"cannot export %s to %s", record.Name, record.File)
		}
		logger.Debug().
			Str("object", record.Name).
			Str("file", record.File).
			Msg("Exported geometry")

		result.Objects = append(result.Objects, ExportedObject{
			Id:   record.Id,
			Name: record.Name,
			Kind: record.Kind,
			File: record.File,
		})
	}

	path, err := manifest.Save(fs, opts.BridgeRoot, &types.Manifest{
		Operation: operation,
		Objects:   records,
	})
	if err != nil {
		return nil, err
	}

	result.ManifestPath = path
	logger.Info().
		Str("run", runID).
		Int("objects", len(result.Objects)).
		Str("manifest", path).
		Msg("Export finished")
	return result, nil
}

// captureChangesets diffs each record's slots against the record of the
// same identity in the previous outbound manifest. First-time exports
// carry no changeset.
func captureChangesets(fs types.FS, bridgeRoot string, records []types.ExportRecord) {
	previousPath := filepath.Join(bridgeRoot, manifest.FileFromEditor)
	data, err := fs.ReadFile(previousPath)
	if err != nil {
		return
	}
	previous, err := manifest.Decode(data)
	if err != nil {
		logger := logging.GetLogger("commands.export")
		logger.Warn().
			Str("path", previousPath).
			Msg("Previous manifest is malformed, skipping changeset capture")
		return
	}

	byIdentity := make(map[string]types.ExportRecord, len(previous.Objects))
	for _, record := range previous.Objects {
		byIdentity[record.Id] = record
	}
	for i := range records {
		if prior, ok := byIdentity[records[i].Id]; ok {
			cs := materials.Diff(prior.Materials, records[i].Materials)
			records[i].MaterialChangeset = &cs
		}
	}
}
