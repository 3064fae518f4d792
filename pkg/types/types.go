package types

import (
	"encoding/json"

	"github.com/meshbridge/meshbridge/pkg/spatial"
)

// MeshKind tags the variant of an exchanged object.
type MeshKind string

const (
	KindStaticMesh   MeshKind = "StaticMesh"
	KindSkeletalMesh MeshKind = "SkeletalMesh"
	KindUnknown      MeshKind = "Unknown"
)

// ParseMeshKind maps a wire tag to a MeshKind. Unknown tags map to
// KindUnknown so newer producers do not break older consumers.
func ParseMeshKind(s string) MeshKind {
	switch MeshKind(s) {
	case KindStaticMesh:
		return KindStaticMesh
	case KindSkeletalMesh:
		return KindSkeletalMesh
	default:
		return KindUnknown
	}
}

// UnmarshalJSON coerces unrecognized kind tags to KindUnknown.
func (k *MeshKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseMeshKind(s)
	return nil
}

// MaterialSlot is a named, indexed material assignment on a mesh.
// Index is the authoritative slot identity; Name is a human label only.
type MaterialSlot struct {
	Index int    `json:"Index"`
	Name  string `json:"Name"`
	Path  string `json:"Path"`

	// OriginalIndex records the slot position a removed slot used to
	// occupy. Only populated on entries of MaterialChangeset.Removed.
	OriginalIndex int `json:"OriginalIndex,omitempty"`
}

// MaterialChangeset classifies material slots between two points in time.
type MaterialChangeset struct {
	Added     []MaterialSlot `json:"Added"`
	Removed   []MaterialSlot `json:"Removed"`
	Unchanged []MaterialSlot `json:"Unchanged"`
}

// Empty reports whether the changeset carries no slots at all.
func (c *MaterialChangeset) Empty() bool {
	return c == nil || (len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Unchanged) == 0)
}

// WorldTransform captures the placement of a world instance. Rotation is
// Euler angles in degrees (roll, pitch, yaw).
type WorldTransform struct {
	Location spatial.Vec3 `json:"Location"`
	Rotation spatial.Vec3 `json:"Rotation"`
	Scale    spatial.Vec3 `json:"Scale"`
}

// ExportRecord is one exchanged object's metadata entry within a manifest.
type ExportRecord struct {
	// Id is a stable object identifier, unique within one manifest. For
	// world-derived records this is the instance name so multiple
	// placements of the same library object stay distinguishable.
	Id string `json:"Id"`

	// Name is the short human name; the geometry file name derives from it.
	Name string `json:"Name"`

	Kind MeshKind `json:"Kind"`

	// SourceAsset is the full object path of the original in the producing
	// application. Consumers only mine it for the original asset name and
	// never dereference it.
	SourceAsset string `json:"SourceAsset,omitempty"`

	// InternalPath is the logical folder path within the content
	// hierarchy, producer-relative. Not a filesystem path.
	InternalPath string `json:"InternalPath"`

	// File is the absolute path of the exchanged geometry file.
	File string `json:"File"`

	// Skeleton references an existing skeleton asset. SkeletalMesh only.
	Skeleton string `json:"Skeleton,omitempty"`

	// MorphTargets preserves morph channel names in order; it is the only
	// linkage between re-imported, renumbered channels and their names.
	MorphTargets []string `json:"MorphTargets,omitempty"`

	Materials []MaterialSlot `json:"Materials,omitempty"`

	// MaterialChangeset is populated on the importing side's view; absent
	// when exporting from scratch.
	MaterialChangeset *MaterialChangeset `json:"MaterialChangeset,omitempty"`

	// WorldTransform is present only when the record originated from a
	// placed world instance.
	WorldTransform *WorldTransform `json:"WorldTransform,omitempty"`
}

// Manifest lists all objects transferred in one direction of the bridge.
// A manifest is immutable once written; each direction owns its own file
// name so the two directions never collide.
type Manifest struct {
	Operation string         `json:"Operation"`
	Objects   []ExportRecord `json:"Objects"`
}
