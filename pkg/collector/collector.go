// Package collector turns the host's current selection into the
// deduplicated list of export records an outbound manifest carries.
package collector

import (
	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/spatial"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Options holds the collaborators and settings for a collection pass.
type Options struct {
	Selection  types.SelectionSource
	Inspector  types.Introspector
	BridgeRoot string
}

// Collect builds one export record per selected object. World-selected
// instances come first, carrying their placement; library-selected
// objects follow unless a world record already resolves to the exact same
// library object. Dedup compares asset identities, never path strings.
func Collect(opts Options) ([]types.ExportRecord, error) {
	logger := logging.GetLogger("collector")

	world, err := opts.Selection.WorldSelection()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot enumerate world selection")
	}
	library, err := opts.Selection.LibrarySelection()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot enumerate library selection")
	}

	if len(world) == 0 && len(library) == 0 {
		return nil, errors.New(errors.ErrEmptySelection,
			"select at least one item in the world or the content library to export")
	}

	records := make([]types.ExportRecord, 0, len(world)+len(library))
	represented := make(map[types.AssetRef]struct{}, len(world))

	for _, instance := range world {
		record, err := buildRecord(opts, instance.Asset)
		if err != nil {
			return nil, err
		}

		// The instance name keeps multiple placements of the same
		// library object distinguishable within one manifest.
		record.Id = instance.Name
		if instance.Placement != nil {
			record.WorldTransform = &types.WorldTransform{
				Location: instance.Placement.Location,
				Rotation: spatial.EulerDegrees(instance.Placement.Rotation),
				Scale:    instance.Placement.Scale,
			}
		}

		represented[instance.Asset] = struct{}{}
		records = append(records, *record)
	}

	for _, ref := range library {
		if _, ok := represented[ref]; ok {
			logger.Debug().
				Str("asset", ref.AssetPath()).
				Msg("Library selection already represented by a world instance")
			continue
		}
		record, err := buildRecord(opts, ref)
		if err != nil {
			return nil, err
		}
		record.Id = ref.AssetPath()
		records = append(records, *record)
	}

	logger.Info().
		Int("world", len(world)).
		Int("library", len(library)).
		Int("records", len(records)).
		Msg("Collected export records")
	return records, nil
}

// buildRecord inspects one library object and fills in everything but the
// identity and world transform.
func buildRecord(opts Options, ref types.AssetRef) (*types.ExportRecord, error) {
	desc, err := opts.Inspector.Describe(ref)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExportFailed,
			"cannot inspect %s", ref.AssetPath())
	}

	name := ref.AssetName()
	internal := paths.InternalPathOf(desc.ObjectPath)

	record := &types.ExportRecord{
		Name:         name,
		Kind:         desc.Kind,
		SourceAsset:  desc.ObjectPath,
		InternalPath: internal,
		File:         paths.ExportFilePath(opts.BridgeRoot, internal, name),
		Materials:    desc.Materials,
	}

	if desc.Kind == types.KindSkeletalMesh {
		record.Skeleton = desc.Skeleton
		record.MorphTargets = desc.MorphTargets
	}
	return record, nil
}
