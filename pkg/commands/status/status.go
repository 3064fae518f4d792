// Package status inspects the bridge directory without touching it:
// which manifests are present, what they carry and whether the geometry
// files they reference actually exist.
package status

import (
	"path/filepath"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/filesystem"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/manifest"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Options holds options for a status pass.
type Options struct {
	BridgeRoot string

	// FileSystem allows injecting a filesystem for testing.
	FileSystem types.FS
}

// ObjectStatus summarizes one manifest record.
type ObjectStatus struct {
	Id         string
	Name       string
	Kind       types.MeshKind
	File       string
	FileExists bool
	Placed     bool
}

// ManifestStatus describes one direction's manifest file.
type ManifestStatus struct {
	Present   bool
	Path      string
	Legacy    bool
	Operation string
	Objects   []ObjectStatus

	// Error carries a decode problem; a malformed manifest is reported,
	// not fatal to the status pass.
	Error string
}

// Result is the outcome of a status pass.
type Result struct {
	BridgeRoot string
	Inbound    ManifestStatus
	Outbound   ManifestStatus
}

// Run inspects both directions of the bridge directory.
func Run(opts Options) (*Result, error) {
	if opts.BridgeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "bridge root is not configured")
	}
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	result := &Result{BridgeRoot: opts.BridgeRoot}

	if path, err := manifest.Discover(fs, opts.BridgeRoot); err == nil {
		result.Inbound = describe(fs, path)
		result.Inbound.Legacy = filepath.Base(path) == manifest.FileLegacy
	}

	outPath := filepath.Join(opts.BridgeRoot, manifest.FileFromEditor)
	if _, err := fs.Stat(outPath); err == nil {
		result.Outbound = describe(fs, outPath)
	}

	logger := logging.GetLogger("commands.status")
	logger.Debug().
		Bool("inbound", result.Inbound.Present).
		Bool("outbound", result.Outbound.Present).
		Msg("Inspected bridge directory")
	return result, nil
}

func describe(fs types.FS, path string) ManifestStatus {
	status := ManifestStatus{Present: true, Path: path}

	data, err := fs.ReadFile(path)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	m, err := manifest.Decode(data)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Operation = m.Operation
	for _, record := range m.Objects {
		_, statErr := fs.Stat(record.File)
		status.Objects = append(status.Objects, ObjectStatus{
			Id:         record.Id,
			Name:       record.Name,
			Kind:       record.Kind,
			File:       record.File,
			FileExists: statErr == nil,
			Placed:     record.WorldTransform != nil,
		})
	}
	return status
}
