// Package dirhost is a reference host backed by a plain directory. Each
// asset lives as a geometry file plus a JSON sidecar carrying the
// metadata a real authoring application would hold in memory: kind,
// material slots, skeleton binding, morph channels and bones.
//
// It exists so the pipelines can run end to end from the command line
// and in tests without either authoring application installed.
package dirhost

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/filesystem"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// sidecarExt is appended to an asset's disk path to form its metadata file.
const sidecarExt = ".meta.json"

// sidecar is the on-disk metadata record for one asset.
type sidecar struct {
	Kind         types.MeshKind       `json:"Kind"`
	Materials    []types.MaterialSlot `json:"Materials,omitempty"`
	Skeleton     string               `json:"Skeleton,omitempty"`
	PhysicsAsset string               `json:"PhysicsAsset,omitempty"`
	MorphTargets []string             `json:"MorphTargets,omitempty"`
	Bones        []string             `json:"Bones,omitempty"`
}

// ref is the host's asset handle. The registry hands out one ref per
// content path so handles compare with ==.
type ref struct {
	path string
	name string
}

func (r *ref) AssetPath() string { return r.path }
func (r *ref) AssetName() string { return r.name }

// Host is a directory-backed implementation of every collaborator
// interface the pipelines need.
type Host struct {
	root   string
	fs     types.FS
	refs   map[string]*ref
	logger zerolog.Logger

	librarySelection []types.AssetRef
	worldSelection   []types.WorldInstance
}

// New creates a host whose content root maps to the given directory.
func New(root string, fs types.FS) *Host {
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &Host{
		root:   root,
		fs:     fs,
		refs:   make(map[string]*ref),
		logger: logging.GetLogger("dirhost"),
	}
}

// Bundle returns the host wired into a types.Host for the pipelines.
func (h *Host) Bundle() types.Host {
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

// diskPath maps a content path under /Game to a path under the root
// directory, without any extension.
func (h *Host) diskPath(contentPath string) string {
	rel := strings.TrimPrefix(contentPath, paths.ContentRoot)
	return filepath.Join(h.root, filepath.FromSlash(rel))
}

func (h *Host) geometryFile(contentPath string) string {
	return h.diskPath(contentPath) + paths.MeshFileExt
}

func (h *Host) sidecarFile(contentPath string) string {
	return h.diskPath(contentPath) + sidecarExt
}

func (h *Host) readSidecar(contentPath string) (*sidecar, error) {
	data, err := h.fs.ReadFile(h.sidecarFile(contentPath))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound,
			"no asset at %s", contentPath)
	}
	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal,
			"metadata for %s is corrupt", contentPath)
	}
	return &sc, nil
}

func (h *Host) writeSidecar(contentPath string, sc *sidecar) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode asset metadata")
	}
	if err := h.fs.MkdirAll(filepath.Dir(h.sidecarFile(contentPath)), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create folder for %s", contentPath)
	}
	if err := h.fs.WriteFile(h.sidecarFile(contentPath), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write metadata for %s", contentPath)
	}
	return nil
}

// handle returns the registry ref for a content path, creating it on
// first sight.
func (h *Host) handle(contentPath string) *ref {
	if existing, ok := h.refs[contentPath]; ok {
		return existing
	}
	r := &ref{path: contentPath, name: contentPath[strings.LastIndex(contentPath, paths.Separator)+1:]}
	h.refs[contentPath] = r
	return r
}

// CreateAsset seeds an asset directly, bypassing the import pipeline.
// Used to stock a content directory for tests and demos.
func (h *Host) CreateAsset(contentPath string, kind types.MeshKind, geometry []byte, meta AssetMeta) (types.AssetRef, error) {
	sc := &sidecar{
		Kind:         kind,
		Materials:    meta.Materials,
		Skeleton:     meta.Skeleton,
		PhysicsAsset: meta.PhysicsAsset,
		MorphTargets: meta.MorphTargets,
		Bones:        meta.Bones,
	}
	if err := h.writeSidecar(contentPath, sc); err != nil {
		return nil, err
	}
	if geometry != nil {
		if err := h.fs.WriteFile(h.geometryFile(contentPath), geometry, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"cannot write geometry for %s", contentPath)
		}
	}
	return h.handle(contentPath), nil
}

// AssetMeta is the optional metadata for CreateAsset.
type AssetMeta struct {
	Materials    []types.MaterialSlot
	Skeleton     string
	PhysicsAsset string
	MorphTargets []string
	Bones        []string
}

// SetLibrarySelection selects library assets by content path for the
// next export pass.
func (h *Host) SetLibrarySelection(contentPaths []string) error {
	selection := make([]types.AssetRef, 0, len(contentPaths))
	for _, p := range contentPaths {
		r, ok := h.Resolve(p)
		if !ok {
			return errors.Newf(errors.ErrNotFound, "no asset at %s", p)
		}
		selection = append(selection, r)
	}
	h.librarySelection = selection
	return nil
}

// SetWorldSelection selects placed instances for the next export pass.
func (h *Host) SetWorldSelection(instances []types.WorldInstance) {
	h.worldSelection = instances
}

func (h *Host) WorldSelection() ([]types.WorldInstance, error) {
	return h.worldSelection, nil
}

func (h *Host) LibrarySelection() ([]types.AssetRef, error) {
	return h.librarySelection, nil
}

// Describe implements types.Introspector.
func (h *Host) Describe(r types.AssetRef) (*types.AssetDescription, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return nil, err
	}
	return &types.AssetDescription{
		Kind:         sc.Kind,
		ObjectPath:   r.AssetPath() + "." + r.AssetName(),
		Materials:    sc.Materials,
		Skeleton:     sc.Skeleton,
		MorphTargets: sc.MorphTargets,
	}, nil
}

// ImportMesh implements types.MeshImporter. When a skeletal mesh arrives
// without a resolvable skeleton the host does what real editors do:
// generates a fresh skeleton and physics asset next to the mesh.
func (h *Host) ImportMesh(sourceFile, destPath string, kind types.MeshKind, skeletonPath string) ([]types.AssetRef, error) {
	geometry, err := h.fs.ReadFile(sourceFile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMissingFile,
			"cannot read geometry file %s", sourceFile)
	}

	sc := &sidecar{Kind: kind}
	if source := h.readSourceSidecar(sourceFile); source != nil {
		sc.Materials = source.Materials
		sc.MorphTargets = source.MorphTargets
		sc.Bones = source.Bones
	}
	if len(sc.Materials) == 0 {
		sc.Materials = []types.MaterialSlot{{Index: 0, Name: "Default", Path: "/Engine/BasicShapes/BasicShapeMaterial"}}
	}

	handles := []types.AssetRef{}
	if kind == types.KindSkeletalMesh {
		if skeletonPath != "" && h.Exists(skeletonPath) {
			sc.Skeleton = skeletonPath
		} else {
			// No usable skeleton to bind to; generate one from the mesh
			// bones, plus the physics asset that comes with it.
			generated := destPath + "_Skeleton"
			physics := destPath + "_PhysicsAsset"
			if err := h.writeSidecar(generated, &sidecar{Kind: types.KindUnknown, Bones: sc.Bones}); err != nil {
				return nil, err
			}
			if err := h.writeSidecar(physics, &sidecar{Kind: types.KindUnknown}); err != nil {
				return nil, err
			}
			sc.Skeleton = generated
			sc.PhysicsAsset = physics
			handles = append(handles, h.handle(generated), h.handle(physics))
			h.logger.Debug().
				Str("mesh", destPath).
				Str("skeleton", generated).
				Msg("Generated skeleton for import")
		}
	}

	if err := h.writeSidecar(destPath, sc); err != nil {
		return nil, err
	}
	if err := h.fs.WriteFile(h.geometryFile(destPath), geometry, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write geometry for %s", destPath)
	}

	return append([]types.AssetRef{h.handle(destPath)}, handles...), nil
}

// readSourceSidecar picks up metadata a producer left next to the
// geometry file. Absence is fine; the import falls back to defaults.
func (h *Host) readSourceSidecar(sourceFile string) *sidecar {
	metaFile := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile)) + sidecarExt
	data, err := h.fs.ReadFile(metaFile)
	if err != nil {
		return nil
	}
	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		h.logger.Warn().Str("path", metaFile).Msg("Ignoring corrupt geometry sidecar")
		return nil
	}
	return &sc
}

// ExportMesh implements types.MeshExporter. The sidecar travels with the
// geometry so metadata survives the round trip.
func (h *Host) ExportMesh(r types.AssetRef, destFile string) error {
	geometry, err := h.fs.ReadFile(h.geometryFile(r.AssetPath()))
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound,
			"asset %s has no geometry", r.AssetPath())
	}
	if err := h.fs.WriteFile(destFile, geometry, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write %s", destFile)
	}

	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode asset metadata")
	}
	metaFile := strings.TrimSuffix(destFile, filepath.Ext(destFile)) + sidecarExt
	if err := h.fs.WriteFile(metaFile, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", metaFile)
	}
	return nil
}

// Resolve implements types.AssetStore.
func (h *Host) Resolve(assetPath string) (types.AssetRef, bool) {
	if !h.Exists(assetPath) {
		return nil, false
	}
	return h.handle(assetPath), true
}

func (h *Host) Exists(assetPath string) bool {
	_, err := h.fs.Stat(h.sidecarFile(assetPath))
	return err == nil
}

func (h *Host) Delete(assetPath string) error {
	if err := h.fs.Remove(h.sidecarFile(assetPath)); err != nil {
		return errors.Wrapf(err, errors.ErrDeleteFailed,
			"cannot delete %s", assetPath)
	}
	// Geometry is optional; skeletons and physics assets have none.
	_ = h.fs.Remove(h.geometryFile(assetPath))
	delete(h.refs, assetPath)
	return nil
}

// Move implements types.AssetStore. The handle keeps its identity across
// the move.
func (h *Host) Move(r types.AssetRef, destPath string) (types.AssetRef, error) {
	moved, ok := r.(*ref)
	if !ok || h.refs[moved.path] != moved {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"foreign asset handle %s", r.AssetPath())
	}
	if err := h.fs.MkdirAll(filepath.Dir(h.sidecarFile(destPath)), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create folder for %s", destPath)
	}
	if err := h.fs.Rename(h.sidecarFile(moved.path), h.sidecarFile(destPath)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMoveFailed,
			"cannot move %s to %s", moved.path, destPath)
	}
	_ = h.fs.Rename(h.geometryFile(moved.path), h.geometryFile(destPath))

	delete(h.refs, moved.path)
	moved.path = destPath
	moved.name = destPath[strings.LastIndex(destPath, paths.Separator)+1:]
	h.refs[destPath] = moved
	return moved, nil
}

// CloseEditors is a no-op; the directory host holds nothing open.
func (h *Host) CloseEditors(assetPath string) {}

func (h *Host) FolderEmpty(folderPath string) (bool, error) {
	entries, err := h.fs.ReadDir(h.diskPath(folderPath))
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot inspect folder %s", folderPath)
	}
	return len(entries) == 0, nil
}

func (h *Host) RemoveFolder(folderPath string) error {
	if err := h.fs.Remove(h.diskPath(folderPath)); err != nil {
		return errors.Wrapf(err, errors.ErrDeleteFailed,
			"cannot remove folder %s", folderPath)
	}
	return nil
}

// MaterialCount implements types.MeshEditor.
func (h *Host) MaterialCount(r types.AssetRef) (int, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return 0, err
	}
	return len(sc.Materials), nil
}

func (h *Host) SetMaterial(r types.AssetRef, index int, materialPath string) error {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sc.Materials) {
		return errors.Newf(errors.ErrInvalidInput,
			"mesh %s has no material slot %d", r.AssetPath(), index)
	}
	sc.Materials[index].Path = materialPath
	return h.writeSidecar(r.AssetPath(), sc)
}

func (h *Host) MorphTargetNames(r types.AssetRef) ([]string, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return nil, err
	}
	return sc.MorphTargets, nil
}

func (h *Host) RenameMorphTarget(r types.AssetRef, index int, name string) error {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sc.MorphTargets) {
		return errors.Newf(errors.ErrInvalidInput,
			"mesh %s has no morph channel %d", r.AssetPath(), index)
	}
	sc.MorphTargets[index] = name
	return h.writeSidecar(r.AssetPath(), sc)
}

// MeshSkeleton implements types.SkeletonOps.
func (h *Host) MeshSkeleton(r types.AssetRef) (string, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return "", err
	}
	return sc.Skeleton, nil
}

func (h *Host) MeshPhysicsAsset(r types.AssetRef) (string, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return "", err
	}
	return sc.PhysicsAsset, nil
}

func (h *Host) MeshBones(r types.AssetRef) ([]string, error) {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return nil, err
	}
	return sc.Bones, nil
}

func (h *Host) SkeletonBones(skeletonPath string) ([]string, error) {
	sc, err := h.readSidecar(skeletonPath)
	if err != nil {
		return nil, err
	}
	return sc.Bones, nil
}

func (h *Host) MergeBones(skeletonPath string, bones []string) error {
	sc, err := h.readSidecar(skeletonPath)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(sc.Bones))
	for _, b := range sc.Bones {
		known[b] = struct{}{}
	}
	for _, b := range bones {
		if _, ok := known[b]; !ok {
			sc.Bones = append(sc.Bones, b)
		}
	}
	return h.writeSidecar(skeletonPath, sc)
}

func (h *Host) BindSkeleton(r types.AssetRef, skeletonPath string) error {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return err
	}
	sc.Skeleton = skeletonPath
	return h.writeSidecar(r.AssetPath(), sc)
}

func (h *Host) ClearPhysicsAsset(r types.AssetRef) error {
	sc, err := h.readSidecar(r.AssetPath())
	if err != nil {
		return err
	}
	sc.PhysicsAsset = ""
	return h.writeSidecar(r.AssetPath(), sc)
}
