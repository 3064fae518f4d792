// Test Type: Unit Test
// Description: Tests for content path normalization and derivation rules

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meshbridge/meshbridge/pkg/paths"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty_input_yields_root",
			input: "",
			want:  "/",
		},
		{
			name:  "whitespace_only_yields_root",
			input: "   ",
			want:  "/",
		},
		{
			name:  "virtual_root_stripped",
			input: "/All/Assets/Props",
			want:  "/Assets/Props",
		},
		{
			name:  "content_root_stripped",
			input: "/Game/Assets/Props",
			want:  "/Assets/Props",
		},
		{
			name:  "legacy_content_root_stripped",
			input: "/Content/Assets/Props",
			want:  "/Assets/Props",
		},
		{
			name:  "stacked_prefixes_stripped",
			input: "/All/Game/Assets/Props",
			want:  "/Assets/Props",
		},
		{
			name:  "missing_leading_separator_added",
			input: "Assets/Props",
			want:  "/Assets/Props",
		},
		{
			name:  "backslashes_accepted",
			input: "\\Assets\\Props",
			want:  "/Assets/Props",
		},
		{
			name:  "doubled_leading_segment_collapsed",
			input: "/Assets/Assets/Hero",
			want:  "/Assets/Hero",
		},
		{
			name:  "bare_doubled_segment_collapsed",
			input: "/Assets/Assets",
			want:  "/Assets",
		},
		{
			name:  "tripled_leading_segment_left_alone",
			input: "/Assets/Assets/Assets/Hero",
			want:  "/Assets/Assets/Assets/Hero",
		},
		{
			name:  "deep_repeat_left_alone",
			input: "/Foo/Bar/Foo",
			want:  "/Foo/Bar/Foo",
		},
		{
			name:  "trailing_separator_dropped",
			input: "/Assets/Props/",
			want:  "/Assets/Props",
		},
		{
			name:  "prefix_only_yields_root",
			input: "/Game",
			want:  "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths.Normalize(tt.input)
			assert.Equal(t, tt.want, got)

			// Normalization must be idempotent
			assert.Equal(t, got, paths.Normalize(got), "Normalize should be idempotent")
		})
	}
}

func TestPackagePath(t *testing.T) {
	assert.Equal(t, "/Game/Props/Crate", paths.PackagePath("/Props", "Crate"))
	assert.Equal(t, "/Game/Props/Crate", paths.PackagePath("/All/Props", "Crate"))
	assert.Equal(t, "/Game/Crate", paths.PackagePath("", "Crate"))
	assert.Equal(t, "/Game/Crate", paths.PackagePath("/Game", "Crate"))
}

func TestExportFilePath(t *testing.T) {
	got := paths.ExportFilePath("/tmp/bridge", "/Props/Crates", "Crate")
	want := filepath.Join("/tmp/bridge", "Props", "Crates", "Crate.glb")
	assert.Equal(t, want, got)

	// Root-level internal path lands directly in the bridge root
	got = paths.ExportFilePath("/tmp/bridge", "", "Crate")
	assert.Equal(t, filepath.Join("/tmp/bridge", "Crate.glb"), got)
}

func TestInternalPathOf(t *testing.T) {
	assert.Equal(t, "/Props", paths.InternalPathOf("/Game/Props/Crate.Crate"))
	assert.Equal(t, "/", paths.InternalPathOf("/Game/Crate.Crate"))
}

func TestParentFolder(t *testing.T) {
	assert.Equal(t, "/Game/Props", paths.ParentFolder("/Game/Props/Crate"))
	assert.Equal(t, "/Game", paths.ParentFolder("/Game/Props"))
	assert.Equal(t, "/", paths.ParentFolder("/Game"))
	assert.Equal(t, "/", paths.ParentFolder("/"))
}

func TestWithoutObjectSuffix(t *testing.T) {
	assert.Equal(t, "/Game/Props/Crate", paths.WithoutObjectSuffix("/Game/Props/Crate.Crate"))
	assert.Equal(t, "/Game/Props/Crate", paths.WithoutObjectSuffix("/Game/Props/Crate"))
}

func TestOriginalAssetName(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		fallback string
		want     string
	}{
		{
			name:     "plain_object_path",
			ref:      "/Game/Props/Crate.Crate",
			fallback: "fallback",
			want:     "Crate",
		},
		{
			name:     "empty_ref_uses_fallback",
			ref:      "",
			fallback: "fallback",
			want:     "fallback",
		},
		{
			name:     "no_object_suffix_uses_fallback",
			ref:      "/Game/Props/Crate",
			fallback: "fallback",
			want:     "fallback",
		},
		{
			name:     "no_separator_uses_fallback",
			ref:      "Crate.Crate",
			fallback: "fallback",
			want:     "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.OriginalAssetName(tt.ref, tt.fallback))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Crate_01", paths.SanitizeName("Crate 01"))
	assert.Equal(t, "Hero-Mesh", paths.SanitizeName("Hero-Mesh"))
	assert.Equal(t, "Crate", paths.SanitizeName("Cr/a:te"))
	assert.Equal(t, "", paths.SanitizeName("!!!"))
}
