package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Well-known prefixes and names in content hierarchies
const (
	// VirtualRoot is the browsing aggregation prefix some hosts prepend
	// to content paths ("show all" views). It never corresponds to a
	// real folder.
	VirtualRoot = "/All"

	// ContentRoot is the destination content mount point for imported
	// packages.
	ContentRoot = "/Game"

	// legacyContentRoot shows up in manifests written by producers that
	// address content by its on-disk folder name.
	legacyContentRoot = "/Content"

	// Separator is the logical path separator.
	Separator = "/"

	// MeshFileExt is the interchange geometry file extension.
	MeshFileExt = ".glb"
)

// strippablePrefixes are leading segments that do not belong to the
// canonical internal path.
var strippablePrefixes = []string{"All", "Game", "Content"}

// Normalize canonicalizes a producer-relative content path:
//
//   - strips virtual-root and content-root prefixes ("/All", "/Game",
//     "/Content", with or without the leading separator),
//   - guarantees exactly one leading separator,
//   - collapses an exactly-doubled leading segment once ("/X/X/..."
//     becomes "/X/..."), guarding against manifests written by
//     double-normalizing producers; triples and repeats deeper in the
//     tree are left alone.
//
// Normalize never fails; empty input yields the bare separator. It is
// idempotent.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return Separator
	}

	segments := splitSegments(p)

	// Strip browsing-root / content-root prefixes.
	for len(segments) > 0 && isStrippable(segments[0]) {
		segments = segments[1:]
	}

	// Collapse the leading doubled segment, once. A double-normalizing
	// producer duplicates the head exactly one time, so a triple is a
	// real folder layout and stays untouched. That also keeps
	// normalization idempotent.
	if len(segments) >= 2 && segments[0] == segments[1] &&
		(len(segments) == 2 || segments[1] != segments[2]) {
		segments = segments[1:]
	}

	if len(segments) == 0 {
		return Separator
	}
	return Separator + strings.Join(segments, Separator)
}

// PackagePath builds the canonical destination package path for an
// object: the content root, the normalized internal path and the object
// name.
func PackagePath(internalPath, name string) string {
	normalized := Normalize(internalPath)
	if normalized == Separator {
		return ContentRoot + Separator + name
	}
	return ContentRoot + normalized + Separator + name
}

// ExportFilePath returns the on-disk location of an object's geometry
// file inside the bridge directory.
func ExportFilePath(bridgeRoot, internalPath, name string) string {
	normalized := strings.TrimPrefix(Normalize(internalPath), Separator)
	rel := filepath.FromSlash(normalized)
	return filepath.Join(bridgeRoot, rel, name+MeshFileExt)
}

// InternalPathOf derives the producer-relative internal path from a
// resolved object path by dropping the object name and the content-root
// prefix.
func InternalPathOf(objectPath string) string {
	return Normalize(ParentFolder(objectPath))
}

// ParentFolder returns the logical folder containing the given content
// path, or the bare separator at the root.
func ParentFolder(p string) string {
	dir := path.Dir(strings.TrimSuffix(p, Separator))
	if dir == "." || dir == "" {
		return Separator
	}
	return dir
}

// WithoutObjectSuffix strips the ".ObjectName" suffix from a full object
// path, leaving the bare content path ("/Game/Props/Crate.Crate" becomes
// "/Game/Props/Crate").
func WithoutObjectSuffix(objectPath string) string {
	lastSlash := strings.LastIndex(objectPath, Separator)
	rest := objectPath[lastSlash+1:]
	if dot := strings.Index(rest, "."); dot >= 0 {
		return objectPath[:lastSlash+1+dot]
	}
	return objectPath
}

// OriginalAssetName recovers the original object name from a full source
// reference such as "/Game/Props/Crate.Crate" or a decorated
// "Engine.StaticMesh'/Game/Props/Crate.Crate'". Returns fallback when
// the reference carries no recoverable name.
func OriginalAssetName(sourceRef, fallback string) string {
	if sourceRef == "" {
		return fallback
	}
	lastSlash := strings.LastIndex(sourceRef, Separator)
	if lastSlash < 0 {
		return fallback
	}
	rest := sourceRef[lastSlash+1:]
	dot := strings.Index(rest, ".")
	if dot <= 0 {
		return fallback
	}
	return rest[:dot]
}

// SanitizeName makes an object name safe for use as a package and file
// name segment.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// splitSegments breaks a logical path into its non-empty segments,
// accepting backslashes from producers on other platforms.
func splitSegments(p string) []string {
	p = strings.ReplaceAll(p, "\\", Separator)
	parts := strings.Split(p, Separator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func isStrippable(segment string) bool {
	for _, s := range strippablePrefixes {
		if segment == s {
			return true
		}
	}
	return false
}
