// Package testutil provides testing utilities
package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/meshbridge/meshbridge/pkg/types"
)

// FakeAsset is an in-memory asset; it doubles as its own handle so
// identity comparisons work the way real host handles do.
type FakeAsset struct {
	Path         string
	Name         string
	Kind         types.MeshKind
	Materials    []types.MaterialSlot
	Skeleton     string
	PhysicsAsset string
	MorphTargets []string
	Bones        []string
	Geometry     []byte
}

func (a *FakeAsset) AssetPath() string { return a.Path }
func (a *FakeAsset) AssetName() string { return a.Name }

// ImportMeta scripts the metadata the next ImportMesh call stamps onto
// the mesh it produces.
type ImportMeta struct {
	Materials    []types.MaterialSlot
	MorphTargets []string
	Bones        []string
}

// FakeHost is a mock implementation of the host collaborator interfaces
// for testing. It records every call and supports per-method error
// injection.
type FakeHost struct {
	mu      sync.Mutex
	assets  map[string]*FakeAsset
	folders map[string]bool

	World   []types.WorldInstance
	Library []types.AssetRef

	// NextImport scripts metadata for meshes produced by ImportMesh.
	NextImport ImportMeta

	// FS, when set, receives geometry written by ExportMesh.
	FS types.FS

	Calls          []string
	ClosedEditors  []string
	RemovedFolders []string
	Exported       map[string]string // asset path -> dest file

	errorOn       string
	errorToReturn error
}

// NewFakeHost creates a new fake host
func NewFakeHost() *FakeHost {
	return &FakeHost{
		assets:   make(map[string]*FakeAsset),
		folders:  make(map[string]bool),
		Exported: make(map[string]string),
	}
}

// WithError configures the host to fail the named method
func (h *FakeHost) WithError(method string, err error) *FakeHost {
	h.errorOn = method
	h.errorToReturn = err
	return h
}

// Bundle returns the fake wired into a types.Host
func (h *FakeHost) Bundle() types.Host {
	return types.Host{
		Selection: h,
		Inspector: h,
		Importer:  h,
		Exporter:  h,
		Assets:    h,
		Meshes:    h,
		Skeletons: h,
	}
}

// AddAsset registers an asset and the folder chain above it
func (h *FakeHost) AddAsset(a *FakeAsset) *FakeAsset {
	h.mu.Lock()
	defer h.mu.Unlock()

	if a.Name == "" {
		a.Name = a.Path[strings.LastIndex(a.Path, "/")+1:]
	}
	h.assets[a.Path] = a
	h.addFolders(a.Path)
	return a
}

func (h *FakeHost) addFolders(assetPath string) {
	dir := assetPath
	for {
		slash := strings.LastIndex(dir, "/")
		if slash <= 0 {
			return
		}
		dir = dir[:slash]
		if dir == "/Game" || h.folders[dir] {
			return
		}
		h.folders[dir] = true
	}
}

func (h *FakeHost) record(format string, args ...interface{}) {
	h.Calls = append(h.Calls, fmt.Sprintf(format, args...))
}

func (h *FakeHost) failing(method string) error {
	if h.errorOn == method {
		return h.errorToReturn
	}
	return nil
}

// WorldSelection implements types.SelectionSource
func (h *FakeHost) WorldSelection() ([]types.WorldInstance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("WorldSelection()")
	if err := h.failing("WorldSelection"); err != nil {
		return nil, err
	}
	return h.World, nil
}

// LibrarySelection implements types.SelectionSource
func (h *FakeHost) LibrarySelection() ([]types.AssetRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("LibrarySelection()")
	if err := h.failing("LibrarySelection"); err != nil {
		return nil, err
	}
	return h.Library, nil
}

// Describe implements types.Introspector
func (h *FakeHost) Describe(ref types.AssetRef) (*types.AssetDescription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("Describe(%s)", ref.AssetPath())
	if err := h.failing("Describe"); err != nil {
		return nil, err
	}

	a, ok := h.assets[ref.AssetPath()]
	if !ok {
		return nil, fmt.Errorf("no asset at %s", ref.AssetPath())
	}
	return &types.AssetDescription{
		Kind:         a.Kind,
		ObjectPath:   a.Path + "." + a.Name,
		Materials:    a.Materials,
		Skeleton:     a.Skeleton,
		MorphTargets: a.MorphTargets,
	}, nil
}

// ImportMesh implements types.MeshImporter. Produces a mesh stamped with
// NextImport metadata; skeletal imports without a resolvable skeleton
// get a generated skeleton and physics asset next to the mesh.
func (h *FakeHost) ImportMesh(sourceFile, destPath string, kind types.MeshKind, skeletonPath string) ([]types.AssetRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("ImportMesh(%s,%s,%s,%s)", sourceFile, destPath, kind, skeletonPath)
	if err := h.failing("ImportMesh"); err != nil {
		return nil, err
	}

	mesh := &FakeAsset{
		Path:         destPath,
		Name:         destPath[strings.LastIndex(destPath, "/")+1:],
		Kind:         kind,
		Materials:    h.NextImport.Materials,
		MorphTargets: h.NextImport.MorphTargets,
		Bones:        h.NextImport.Bones,
	}
	h.assets[destPath] = mesh
	h.addFolders(destPath)

	handles := []types.AssetRef{mesh}
	if kind == types.KindSkeletalMesh {
		if _, ok := h.assets[skeletonPath]; skeletonPath != "" && ok {
			mesh.Skeleton = skeletonPath
		} else {
			skel := &FakeAsset{Path: destPath + "_Skeleton", Kind: types.KindUnknown, Bones: mesh.Bones}
			skel.Name = skel.Path[strings.LastIndex(skel.Path, "/")+1:]
			phys := &FakeAsset{Path: destPath + "_PhysicsAsset", Kind: types.KindUnknown}
			phys.Name = phys.Path[strings.LastIndex(phys.Path, "/")+1:]
			h.assets[skel.Path] = skel
			h.assets[phys.Path] = phys
			mesh.Skeleton = skel.Path
			mesh.PhysicsAsset = phys.Path
			handles = append(handles, skel, phys)
		}
	}
	return handles, nil
}

// ExportMesh implements types.MeshExporter
func (h *FakeHost) ExportMesh(ref types.AssetRef, destFile string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("ExportMesh(%s,%s)", ref.AssetPath(), destFile)
	if err := h.failing("ExportMesh"); err != nil {
		return err
	}

	a, ok := h.assets[ref.AssetPath()]
	if !ok {
		return fmt.Errorf("no asset at %s", ref.AssetPath())
	}
	h.Exported[a.Path] = destFile
	if h.FS != nil {
		geometry := a.Geometry
		if geometry == nil {
			geometry = []byte("glTF")
		}
		return h.FS.WriteFile(destFile, geometry, 0644)
	}
	return nil
}

// Resolve implements types.AssetStore
func (h *FakeHost) Resolve(assetPath string) (types.AssetRef, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("Resolve(%s)", assetPath)
	a, ok := h.assets[assetPath]
	if !ok {
		return nil, false
	}
	return a, true
}

// Exists implements types.AssetStore
func (h *FakeHost) Exists(assetPath string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("Exists(%s)", assetPath)
	_, ok := h.assets[assetPath]
	return ok
}

// Delete implements types.AssetStore
func (h *FakeHost) Delete(assetPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("Delete(%s)", assetPath)
	if err := h.failing("Delete"); err != nil {
		return err
	}
	if _, ok := h.assets[assetPath]; !ok {
		return fmt.Errorf("no asset at %s", assetPath)
	}
	delete(h.assets, assetPath)
	return nil
}

// Move implements types.AssetStore
func (h *FakeHost) Move(ref types.AssetRef, destPath string) (types.AssetRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("Move(%s,%s)", ref.AssetPath(), destPath)
	if err := h.failing("Move"); err != nil {
		return nil, err
	}

	a, ok := h.assets[ref.AssetPath()]
	if !ok {
		return nil, fmt.Errorf("no asset at %s", ref.AssetPath())
	}
	delete(h.assets, a.Path)
	a.Path = destPath
	a.Name = destPath[strings.LastIndex(destPath, "/")+1:]
	h.assets[destPath] = a
	h.addFolders(destPath)
	return a, nil
}

// CloseEditors implements types.AssetStore
func (h *FakeHost) CloseEditors(assetPath string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("CloseEditors(%s)", assetPath)
	h.ClosedEditors = append(h.ClosedEditors, assetPath)
}

// FolderEmpty implements types.AssetStore
func (h *FakeHost) FolderEmpty(folderPath string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("FolderEmpty(%s)", folderPath)
	if err := h.failing("FolderEmpty"); err != nil {
		return false, err
	}

	for p := range h.assets {
		if strings.HasPrefix(p, folderPath+"/") {
			return false, nil
		}
	}
	for f := range h.folders {
		if strings.HasPrefix(f, folderPath+"/") {
			return false, nil
		}
	}
	return true, nil
}

// RemoveFolder implements types.AssetStore
func (h *FakeHost) RemoveFolder(folderPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("RemoveFolder(%s)", folderPath)
	if err := h.failing("RemoveFolder"); err != nil {
		return err
	}
	delete(h.folders, folderPath)
	h.RemovedFolders = append(h.RemovedFolders, folderPath)
	return nil
}

func (h *FakeHost) lookup(ref types.AssetRef) (*FakeAsset, error) {
	a, ok := h.assets[ref.AssetPath()]
	if !ok {
		return nil, fmt.Errorf("no asset at %s", ref.AssetPath())
	}
	return a, nil
}

// MaterialCount implements types.MeshEditor
func (h *FakeHost) MaterialCount(ref types.AssetRef) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MaterialCount(%s)", ref.AssetPath())
	if err := h.failing("MaterialCount"); err != nil {
		return 0, err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return 0, err
	}
	return len(a.Materials), nil
}

// SetMaterial implements types.MeshEditor
func (h *FakeHost) SetMaterial(ref types.AssetRef, index int, materialPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("SetMaterial(%s,%d,%s)", ref.AssetPath(), index, materialPath)
	if err := h.failing("SetMaterial"); err != nil {
		return err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(a.Materials) {
		return fmt.Errorf("mesh %s has no material slot %d", a.Path, index)
	}
	a.Materials[index].Path = materialPath
	return nil
}

// MorphTargetNames implements types.MeshEditor
func (h *FakeHost) MorphTargetNames(ref types.AssetRef) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MorphTargetNames(%s)", ref.AssetPath())
	if err := h.failing("MorphTargetNames"); err != nil {
		return nil, err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return nil, err
	}
	return a.MorphTargets, nil
}

// RenameMorphTarget implements types.MeshEditor
func (h *FakeHost) RenameMorphTarget(ref types.AssetRef, index int, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("RenameMorphTarget(%s,%d,%s)", ref.AssetPath(), index, name)
	if err := h.failing("RenameMorphTarget"); err != nil {
		return err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(a.MorphTargets) {
		return fmt.Errorf("mesh %s has no morph channel %d", a.Path, index)
	}
	a.MorphTargets[index] = name
	return nil
}

// MeshSkeleton implements types.SkeletonOps
func (h *FakeHost) MeshSkeleton(ref types.AssetRef) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MeshSkeleton(%s)", ref.AssetPath())
	if err := h.failing("MeshSkeleton"); err != nil {
		return "", err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return "", err
	}
	return a.Skeleton, nil
}

// MeshPhysicsAsset implements types.SkeletonOps
func (h *FakeHost) MeshPhysicsAsset(ref types.AssetRef) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MeshPhysicsAsset(%s)", ref.AssetPath())
	if err := h.failing("MeshPhysicsAsset"); err != nil {
		return "", err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return "", err
	}
	return a.PhysicsAsset, nil
}

// MeshBones implements types.SkeletonOps
func (h *FakeHost) MeshBones(ref types.AssetRef) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MeshBones(%s)", ref.AssetPath())
	if err := h.failing("MeshBones"); err != nil {
		return nil, err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return nil, err
	}
	return a.Bones, nil
}

// SkeletonBones implements types.SkeletonOps
func (h *FakeHost) SkeletonBones(skeletonPath string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("SkeletonBones(%s)", skeletonPath)
	if err := h.failing("SkeletonBones"); err != nil {
		return nil, err
	}
	a, ok := h.assets[skeletonPath]
	if !ok {
		return nil, fmt.Errorf("no skeleton at %s", skeletonPath)
	}
	return a.Bones, nil
}

// MergeBones implements types.SkeletonOps
func (h *FakeHost) MergeBones(skeletonPath string, bones []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("MergeBones(%s,%s)", skeletonPath, strings.Join(bones, "+"))
	if err := h.failing("MergeBones"); err != nil {
		return err
	}
	a, ok := h.assets[skeletonPath]
	if !ok {
		return fmt.Errorf("no skeleton at %s", skeletonPath)
	}
	known := make(map[string]bool, len(a.Bones))
	for _, b := range a.Bones {
		known[b] = true
	}
	for _, b := range bones {
		if !known[b] {
			a.Bones = append(a.Bones, b)
		}
	}
	return nil
}

// BindSkeleton implements types.SkeletonOps
func (h *FakeHost) BindSkeleton(ref types.AssetRef, skeletonPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("BindSkeleton(%s,%s)", ref.AssetPath(), skeletonPath)
	if err := h.failing("BindSkeleton"); err != nil {
		return err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return err
	}
	a.Skeleton = skeletonPath
	return nil
}

// ClearPhysicsAsset implements types.SkeletonOps
func (h *FakeHost) ClearPhysicsAsset(ref types.AssetRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record("ClearPhysicsAsset(%s)", ref.AssetPath())
	if err := h.failing("ClearPhysicsAsset"); err != nil {
		return err
	}
	a, err := h.lookup(ref)
	if err != nil {
		return err
	}
	a.PhysicsAsset = ""
	return nil
}
