// Package skeleton detects and resolves skeleton conflicts after a
// skeletal mesh import. Interchange importers tend to fabricate a fresh
// skeleton (and physics asset) next to the mesh instead of binding the
// one the manifest intended; this package finds that out, retargets the
// mesh onto the intended skeleton and cleans up the generated assets
// without ever touching a pre-existing one.
//
// The flow per imported mesh is Analyze followed by an optional Retarget:
//
//	Imported -> Analyzed -> {NoConflict | ConflictDetected}
//	ConflictDetected -> Retarget -> {AssetsPreserved | AssetsDeleted}
//
// Bone compatibility is deliberately permissive: bones missing from the
// intended skeleton are merged into it by name, and parent relationships
// are not validated after the merge. Rejecting on hierarchy mismatches
// would refuse meshes the round trip has always accepted.
package skeleton

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// Resolver runs skeleton conflict analysis and retargeting against a
// host's asset store and skeleton operations.
type Resolver struct {
	assets    types.AssetStore
	skeletons types.SkeletonOps
	logger    zerolog.Logger
}

// NewResolver creates a resolver bound to the given host collaborators.
func NewResolver(assets types.AssetStore, skeletons types.SkeletonOps) *Resolver {
	return &Resolver{
		assets:    assets,
		skeletons: skeletons,
		logger:    logging.GetLogger("skeleton"),
	}
}

// Analyze inspects a freshly imported skeletal mesh and decides whether
// the import auto-generated a skeleton or physics asset distinct from the
// intended one. An unresolvable intended skeleton counts as a generated
// skeleton rather than a guess at compatibility.
func (r *Resolver) Analyze(mesh types.AssetRef, intendedSkeletonPath string) (*types.SkeletonAnalysis, error) {
	if intendedSkeletonPath == "" {
		return nil, errors.Newf(errors.ErrSkeletonMissing,
			"no intended skeleton recorded for %s", mesh.AssetPath())
	}

	analysis := &types.SkeletonAnalysis{
		IntendedSkeletonPath: intendedSkeletonPath,
		ImportedMesh:         mesh,
	}

	current, err := r.skeletons.MeshSkeleton(mesh)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal,
			"cannot read skeleton of %s", mesh.AssetPath())
	}

	_, intendedResolvable := r.assets.Resolve(intendedSkeletonPath)
	if intendedResolvable && current == intendedSkeletonPath {
		// The import bound the mesh to the intended skeleton.
		r.logger.Debug().
			Str("mesh", mesh.AssetPath()).
			Str("skeleton", current).
			Msg("No skeleton conflict")
		return analysis, nil
	}

	if current != "" {
		analysis.NewSkeletonGenerated = true
		analysis.GeneratedSkeletonPath = current
	}

	// A physics asset counts as auto-generated only when it lives at or
	// below the mesh's own folder; shared assets live elsewhere.
	physics, err := r.skeletons.MeshPhysicsAsset(mesh)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal,
			"cannot read physics asset of %s", mesh.AssetPath())
	}
	if physics != "" && colocated(physics, paths.ParentFolder(mesh.AssetPath())) {
		analysis.NewPhysicsAssetGenerated = true
		analysis.GeneratedPhysicsAssetPath = physics
	}

	r.logger.Info().
		Str("mesh", mesh.AssetPath()).
		Str("generatedSkeleton", analysis.GeneratedSkeletonPath).
		Str("generatedPhysics", analysis.GeneratedPhysicsAssetPath).
		Bool("intendedResolvable", intendedResolvable).
		Msg("Skeleton conflict detected")
	return analysis, nil
}

// RetargetResult reports what a retarget changed.
type RetargetResult struct {
	Mesh types.AssetRef

	// MergedBones are mesh bones that were absent from the intended
	// skeleton and merged into it.
	MergedBones []string

	SkeletonDeleted     bool
	PhysicsAssetDeleted bool

	// FailedDeletes lists generated asset paths whose deletion failed.
	// Deletion failures never roll back the rebinding.
	FailedDeletes []string
}

// Retarget rebinds the analyzed mesh onto the intended skeleton, merging
// any bones the target is missing, and clears the physics-asset reference
// so physics setup stays a manual step. When deleteGenerated is set, the
// recorded auto-generated assets are deleted afterwards; an asset is only
// ever deleted when its resolved path equals the exact recorded path.
func (r *Resolver) Retarget(analysis *types.SkeletonAnalysis, deleteGenerated bool) (*RetargetResult, error) {
	result := &RetargetResult{Mesh: analysis.ImportedMesh}
	if !analysis.Conflict() {
		return result, nil
	}

	intended := analysis.IntendedSkeletonPath
	if intended == "" {
		return nil, errors.New(errors.ErrSkeletonMissing, "no intended skeleton to retarget to")
	}
	if _, ok := r.assets.Resolve(intended); !ok {
		return nil, errors.Newf(errors.ErrSkeletonUnresolvable,
			"intended skeleton %s cannot be resolved", intended)
	}

	mesh := analysis.ImportedMesh
	meshBones, err := r.skeletons.MeshBones(mesh)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRetargetFailed,
			"cannot read bones of %s", mesh.AssetPath())
	}
	targetBones, err := r.skeletons.SkeletonBones(intended)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRetargetFailed,
			"cannot read bones of %s", intended)
	}

	// Compatibility is "mesh bones are a subset of target bones after
	// merge", not strict equality.
	known := make(map[string]struct{}, len(targetBones))
	for _, bone := range targetBones {
		known[bone] = struct{}{}
	}
	var missing []string
	for _, bone := range meshBones {
		if _, ok := known[bone]; !ok {
			missing = append(missing, bone)
		}
	}
	if len(missing) > 0 {
		if err := r.skeletons.MergeBones(intended, missing); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRetargetFailed,
				"cannot merge %d bones into %s", len(missing), intended)
		}
		result.MergedBones = missing
		r.logger.Info().
			Strs("bones", missing).
			Str("skeleton", intended).
			Msg("Merged missing bones into intended skeleton")
	}

	if err := r.skeletons.BindSkeleton(mesh, intended); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRetargetFailed,
			"cannot bind %s to %s", mesh.AssetPath(), intended)
	}
	if err := r.skeletons.ClearPhysicsAsset(mesh); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRetargetFailed,
			"cannot clear physics asset of %s", mesh.AssetPath())
	}
	r.logger.Info().
		Str("mesh", mesh.AssetPath()).
		Str("skeleton", intended).
		Msg("Mesh rebound to intended skeleton")

	if !deleteGenerated {
		return result, nil
	}

	// Reassignment and deletion are independent, sequential steps; a
	// deletion failure is reported, never rolled back into the rebinding.
	if analysis.NewSkeletonGenerated {
		result.SkeletonDeleted = r.deleteGenerated(analysis.GeneratedSkeletonPath, result)
	}
	if analysis.NewPhysicsAssetGenerated {
		result.PhysicsAssetDeleted = r.deleteGenerated(analysis.GeneratedPhysicsAssetPath, result)
	}
	return result, nil
}

// deleteGenerated removes a generated asset, guarding against deleting
// anything whose resolved path differs from the recorded one (a
// pre-existing asset that coincidentally shares a name).
func (r *Resolver) deleteGenerated(recordedPath string, result *RetargetResult) bool {
	if recordedPath == "" {
		return false
	}
	ref, ok := r.assets.Resolve(recordedPath)
	if !ok {
		r.logger.Debug().Str("path", recordedPath).Msg("Generated asset already gone")
		return false
	}
	if ref.AssetPath() != recordedPath {
		r.logger.Warn().
			Str("recorded", recordedPath).
			Str("resolved", ref.AssetPath()).
			Msg("Resolved asset does not match recorded generated path, refusing to delete")
		return false
	}

	r.assets.CloseEditors(recordedPath)
	if err := r.assets.Delete(recordedPath); err != nil {
		r.logger.Warn().Err(err).Str("path", recordedPath).Msg("Could not delete generated asset")
		result.FailedDeletes = append(result.FailedDeletes, recordedPath)
		return false
	}
	r.logger.Info().Str("path", recordedPath).Msg("Deleted generated asset")
	return true
}

// colocated reports whether an asset path lies at or below a folder.
func colocated(assetPath, folder string) bool {
	if folder == paths.Separator {
		return true
	}
	return assetPath == folder || strings.HasPrefix(assetPath, folder+paths.Separator)
}
