// Package relocate moves freshly imported objects from the transient
// location an import pipeline materialized them in to their canonical
// destination path, then reclaims the empty scaffolding folders the
// pipeline left behind.
package relocate

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Relocator moves assets through a host's asset store.
type Relocator struct {
	assets types.AssetStore
	logger zerolog.Logger
}

// New creates a relocator bound to the given asset store.
func New(assets types.AssetStore) *Relocator {
	return &Relocator{
		assets: assets,
		logger: logging.GetLogger("relocate"),
	}
}

// Relocate moves an imported object to its intended package path.
//
// Already being at the destination is a no-op success. An existing asset
// at the destination is deleted first, after closing any editors on it;
// when that delete fails the relocation aborts and the original handle is
// returned untouched. After a successful move, folders left empty at the
// original location are removed walking upward, stopping at the first
// non-empty folder or the content root.
func (r *Relocator) Relocate(ref types.AssetRef, intendedPath string) (types.AssetRef, error) {
	if ref.AssetPath() == intendedPath {
		r.logger.Debug().Str("path", intendedPath).Msg("Asset already at intended location")
		return ref, nil
	}

	originalFolder := paths.ParentFolder(ref.AssetPath())

	if r.assets.Exists(intendedPath) {
		r.assets.CloseEditors(intendedPath)
		if err := r.assets.Delete(intendedPath); err != nil {
			return ref, errors.Wrapf(err, errors.ErrRelocateConflict,
				"existing asset at %s could not be replaced", intendedPath)
		}
		r.logger.Info().Str("path", intendedPath).Msg("Replaced existing asset at destination")
	}

	moved, err := r.assets.Move(ref, intendedPath)
	if err != nil {
		return ref, errors.Wrapf(err, errors.ErrMoveFailed,
			"cannot move %s to %s", ref.AssetPath(), intendedPath)
	}
	r.logger.Info().
		Str("from", ref.AssetPath()).
		Str("to", intendedPath).
		Msg("Relocated imported asset")

	r.cleanupEmptyFolders(originalFolder)
	return moved, nil
}

// cleanupEmptyFolders walks upward from folder, deleting each folder now
// empty of assets. Failures here are recoverable: they stop the walk but
// never fail the relocation.
func (r *Relocator) cleanupEmptyFolders(folder string) {
	for isBelowContentRoot(folder) {
		empty, err := r.assets.FolderEmpty(folder)
		if err != nil {
			r.logger.Warn().Err(err).Str("folder", folder).Msg("Cannot inspect folder, stopping cleanup")
			return
		}
		if !empty {
			return
		}
		if err := r.assets.RemoveFolder(folder); err != nil {
			r.logger.Warn().Err(err).Str("folder", folder).Msg("Cannot remove empty folder, stopping cleanup")
			return
		}
		r.logger.Debug().Str("folder", folder).Msg("Removed empty folder")
		folder = paths.ParentFolder(folder)
	}
}

func isBelowContentRoot(folder string) bool {
	return strings.HasPrefix(folder, paths.ContentRoot+paths.Separator)
}
