package types

// SkeletonAnalysis is the derived result of inspecting a skeletal mesh
// right after import. It is produced by the conflict resolver, consumed
// immediately by the retarget step or discarded, and never persisted to
// the manifest.
type SkeletonAnalysis struct {
	NewSkeletonGenerated     bool
	NewPhysicsAssetGenerated bool

	IntendedSkeletonPath      string
	GeneratedSkeletonPath     string
	GeneratedPhysicsAssetPath string

	// ImportedMesh is the mesh the analysis was run on.
	ImportedMesh AssetRef
}

// Conflict reports whether the import bound the mesh to something other
// than the intended skeleton.
func (a *SkeletonAnalysis) Conflict() bool {
	return a.NewSkeletonGenerated || a.NewPhysicsAssetGenerated
}
