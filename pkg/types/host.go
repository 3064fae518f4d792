package types

import "github.com/meshbridge/meshbridge/pkg/spatial"

// AssetRef is an opaque handle to an object inside the host application.
// Hosts must return the same ref value for the same underlying object so
// that refs compare with == (collector dedup relies on identity, not on
// path strings).
type AssetRef interface {
	// AssetPath returns the resolved content path of the object, without
	// any extension suffix (e.g. "/Game/Props/Crate").
	AssetPath() string

	// AssetName returns the object's short name.
	AssetName() string
}

// AssetDescription is what asset introspection reveals about an object.
type AssetDescription struct {
	Kind         MeshKind
	ObjectPath   string
	Materials    []MaterialSlot
	Skeleton     string
	MorphTargets []string
}

// Placement is a world instance's transform in the host's native rotation
// representation. The collector decomposes Rotation to Euler degrees.
type Placement struct {
	Location spatial.Vec3
	Rotation spatial.Quaternion
	Scale    spatial.Vec3
}

// WorldInstance is one selected placement in the host's world, already
// resolved to its underlying library asset.
type WorldInstance struct {
	// Name is the instance's own name, stable within a scene.
	Name      string
	Asset     AssetRef
	Placement *Placement
}

// SelectionSource supplies the current world and library selections.
type SelectionSource interface {
	WorldSelection() ([]WorldInstance, error)
	LibrarySelection() ([]AssetRef, error)
}

// Introspector inspects a host object's metadata.
type Introspector interface {
	Describe(ref AssetRef) (*AssetDescription, error)
}

// MeshImporter performs the actual geometry import. It returns every
// object the import produced; the caller selects the primary mesh handle.
type MeshImporter interface {
	ImportMesh(sourceFile, destPath string, kind MeshKind, skeletonPath string) ([]AssetRef, error)
}

// MeshExporter writes an object's geometry to a file on disk.
type MeshExporter interface {
	ExportMesh(ref AssetRef, destFile string) error
}

// AssetStore exposes the host's asset registry operations the bridge
// needs: resolution, deletion, moves and folder cleanup.
type AssetStore interface {
	Resolve(assetPath string) (AssetRef, bool)
	Exists(assetPath string) bool

	// Delete removes the asset at the given path. Callers close editors
	// on the asset first.
	Delete(assetPath string) error

	// Move relocates an asset to a new content path and returns the
	// handle at its new location.
	Move(ref AssetRef, destPath string) (AssetRef, error)

	// CloseEditors closes any open editors or handles on the asset so a
	// following delete or replace leaves no dangling references.
	CloseEditors(assetPath string)

	FolderEmpty(folderPath string) (bool, error)
	RemoveFolder(folderPath string) error
}

// MeshEditor mutates mesh-level metadata after an import.
type MeshEditor interface {
	MaterialCount(ref AssetRef) (int, error)
	SetMaterial(ref AssetRef, index int, materialPath string) error
	MorphTargetNames(ref AssetRef) ([]string, error)
	RenameMorphTarget(ref AssetRef, index int, name string) error
}

// SkeletonOps exposes skeleton and physics-asset operations on meshes.
type SkeletonOps interface {
	// MeshSkeleton returns the content path of the skeleton the mesh is
	// currently bound to, or "" when unbound.
	MeshSkeleton(ref AssetRef) (string, error)

	// MeshPhysicsAsset returns the content path of the mesh's physics
	// asset, or "" when it has none.
	MeshPhysicsAsset(ref AssetRef) (string, error)

	MeshBones(ref AssetRef) ([]string, error)
	SkeletonBones(skeletonPath string) ([]string, error)

	// MergeBones adds the named bones to an existing skeleton.
	MergeBones(skeletonPath string, bones []string) error

	BindSkeleton(ref AssetRef, skeletonPath string) error

	// ClearPhysicsAsset drops the mesh's physics-asset reference without
	// assigning a replacement.
	ClearPhysicsAsset(ref AssetRef) error
}

// Host bundles the collaborator interfaces for injection into the
// pipelines. Every field must be non-nil for the operations that use it.
type Host struct {
	Selection SelectionSource
	Inspector Introspector
	Importer  MeshImporter
	Exporter  MeshExporter
	Assets    AssetStore
	Meshes    MeshEditor
	Skeletons SkeletonOps
}
