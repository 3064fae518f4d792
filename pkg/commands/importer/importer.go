// Package importer implements the inbound half of the bridge: read the
// manifest the other side dropped, import each geometry file, relocate
// the result to its canonical path and reconcile skeletons, morph target
// names and material slots against what was recorded.
package importer

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/filesystem"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/manifest"
	"github.com/meshbridge/meshbridge/pkg/materials"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/relocate"
	"github.com/meshbridge/meshbridge/pkg/skeleton"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Options holds options for an import pass.
type Options struct {
	BridgeRoot string
	Host       types.Host

	// DeleteGeneratedAssets opts retargeting into deleting auto-generated
	// skeletons and physics assets.
	DeleteGeneratedAssets bool

	// DryRun stops after validating each record and reports the plan
	// without touching the host.
	DryRun bool

	// FileSystem allows injecting a filesystem for testing.
	FileSystem types.FS
}

// ObjectReport describes what happened to one manifest record.
type ObjectReport struct {
	Id          string
	Name        string
	Kind        types.MeshKind
	PackagePath string
	SourceFile  string

	// Replaced is set when an asset already existed at the destination.
	Replaced bool

	// Planned is set in dry-run mode instead of performing the import.
	Planned bool

	MorphTargetsRestored int
	SkeletonConflict     bool
	Retarget             *skeleton.RetargetResult
	Materials            *materials.RestoreReport
}

// Result is the outcome of an import pass.
type Result struct {
	RunID        string
	ManifestPath string
	Operation    string
	Objects      []ObjectReport
}

// Run executes a full import pass over the inbound manifest. Processing
// is fail-fast at record granularity: one bad record stops the pass.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.importer")
	runID := uuid.NewString()

	if opts.BridgeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"bridge root is not configured, set it before importing")
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	m, manifestPath, err := manifest.Load(fs, opts.BridgeRoot)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("run", runID).
		Str("manifest", manifestPath).
		Str("operation", m.Operation).
		Int("objects", len(m.Objects)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting import")

	result := &Result{
		RunID:        runID,
		ManifestPath: manifestPath,
		Operation:    m.Operation,
	}

	relocator := relocate.New(opts.Host.Assets)
	resolver := skeleton.NewResolver(opts.Host.Assets, opts.Host.Skeletons)

	for _, item := range m.Objects {
		report, err := importOne(opts, fs, logger, relocator, resolver, item)
		if err != nil {
			return nil, err
		}
		result.Objects = append(result.Objects, *report)
	}

	logger.Info().
		Str("run", runID).
		Int("objects", len(result.Objects)).
		Msg("Import finished")
	return result, nil
}

// importOne processes a single manifest record through the pipeline:
// normalize, import, relocate, reconcile.
func importOne(opts Options, fs types.FS, logger zerolog.Logger, relocator *relocate.Relocator, resolver *skeleton.Resolver, item types.ExportRecord) (*ObjectReport, error) {
	name := paths.SanitizeName(paths.OriginalAssetName(item.SourceAsset, item.Name))
	if name == "" {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"record %q carries no usable object name", item.Id)
	}
	packagePath := paths.PackagePath(item.InternalPath, name)

	report := &ObjectReport{
		Id:          item.Id,
		Name:        name,
		Kind:        item.Kind,
		PackagePath: packagePath,
		SourceFile:  item.File,
	}

	if _, err := fs.Stat(item.File); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMissingFile,
			"geometry file %s referenced by %q is missing", item.File, item.Id)
	}

	if opts.DryRun {
		report.Planned = true
		report.Replaced = opts.Host.Assets.Exists(packagePath)
		return report, nil
	}

	if opts.Host.Assets.Exists(packagePath) {
		// The importer will replace the asset in place; close anything
		// holding it open first.
		opts.Host.Assets.CloseEditors(packagePath)
		report.Replaced = true
	}

	handles, err := opts.Host.Importer.ImportMesh(item.File, packagePath, item.Kind, item.Skeleton)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImportFailed,
			"import of %s failed", item.File)
	}
	primary := selectPrimary(opts.Host.Inspector, handles, item.Kind)
	if primary == nil {
		return nil, errors.Newf(errors.ErrImportNoObject,
			"import of %s produced no usable mesh object", item.File)
	}

	mesh, err := relocator.Relocate(primary, packagePath)
	if err != nil {
		return nil, err
	}

	if item.Kind == types.KindSkeletalMesh {
		report.MorphTargetsRestored = restoreMorphTargets(opts.Host.Meshes, logger, mesh, item.MorphTargets)

		if item.Skeleton == "" {
			logger.Warn().
				Str("mesh", mesh.AssetPath()).
				Msg("Record carries no skeleton reference, leaving imported skeleton in place")
		} else {
			analysis, err := resolver.Analyze(mesh, item.Skeleton)
			if err != nil {
				return nil, err
			}
			if analysis.Conflict() {
				report.SkeletonConflict = true
				retargeted, err := resolver.Retarget(analysis, opts.DeleteGeneratedAssets)
				if err != nil {
					if errors.IsErrorCode(err, errors.ErrSkeletonUnresolvable) {
						// Nothing to retarget onto; the generated
						// skeleton stays and the mesh remains usable.
						logger.Warn().Err(err).
							Str("mesh", mesh.AssetPath()).
							Msg("Intended skeleton unresolvable, keeping generated skeleton")
					} else {
						return nil, err
					}
				} else {
					report.Retarget = retargeted
				}
			}
		}
	}

	restored, err := materials.Restore(opts.Host.Meshes, mesh, item.MaterialChangeset)
	if err != nil {
		return nil, err
	}
	report.Materials = restored

	logger.Info().
		Str("object", name).
		Str("package", packagePath).
		Bool("replaced", report.Replaced).
		Msg("Imported object")
	return report, nil
}

// selectPrimary picks the mesh handle out of everything an import
// produced, preferring a handle of the record's kind over any other mesh
// and ignoring auxiliary skeleton/physics handles.
func selectPrimary(inspector types.Introspector, handles []types.AssetRef, wanted types.MeshKind) types.AssetRef {
	var fallback types.AssetRef
	for _, handle := range handles {
		desc, err := inspector.Describe(handle)
		if err != nil {
			continue
		}
		if desc.Kind == wanted {
			return handle
		}
		if fallback == nil && (desc.Kind == types.KindStaticMesh || desc.Kind == types.KindSkeletalMesh) {
			fallback = handle
		}
	}
	return fallback
}

// restoreMorphTargets renames re-imported, renumbered morph channels back
// to their recorded names by position. Failures are recoverable; the
// remaining channels still restore.
func restoreMorphTargets(editor types.MeshEditor, logger zerolog.Logger, mesh types.AssetRef, recorded []string) int {
	if len(recorded) == 0 {
		return 0
	}
	current, err := editor.MorphTargetNames(mesh)
	if err != nil {
		logger.Warn().Err(err).
			Str("mesh", mesh.AssetPath()).
			Msg("Cannot read morph targets, skipping restore")
		return 0
	}

	restored := 0
	count := min(len(recorded), len(current))
	for i := 0; i < count; i++ {
		if current[i] == recorded[i] {
			restored++
			continue
		}
		if err := editor.RenameMorphTarget(mesh, i, recorded[i]); err != nil {
			logger.Warn().Err(err).
				Int("channel", i).
				Str("name", recorded[i]).
				Msg("Cannot rename morph target, skipping")
			continue
		}
		restored++
	}
	if count < len(recorded) {
		logger.Warn().
			Int("recorded", len(recorded)).
			Int("imported", len(current)).
			Str("mesh", mesh.AssetPath()).
			Msg("Imported mesh has fewer morph channels than recorded")
	}
	return restored
}
