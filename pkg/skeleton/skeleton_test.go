// Test Type: Unit Test
// Description: Tests for skeleton conflict analysis and retargeting

package skeleton_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/skeleton"
	"github.com/meshbridge/meshbridge/pkg/testutil"
	"github.com/meshbridge/meshbridge/pkg/types"
)

func TestAnalyzeNoConflict(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton", Bones: []string{"root"}})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:     "/Game/Chars/Hero",
		Kind:     types.KindSkeletalMesh,
		Skeleton: "/Game/Chars/Hero_Skeleton",
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Chars/Hero_Skeleton")
	require.NoError(t, err)
	assert.False(t, analysis.Conflict())
}

func TestAnalyzeMissingIntended(t *testing.T) {
	host := testutil.NewFakeHost()
	mesh := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero", Kind: types.KindSkeletalMesh})

	resolver := skeleton.NewResolver(host, host)
	_, err := resolver.Analyze(mesh, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSkeletonMissing))
}

func TestAnalyzeGeneratedSkeleton(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Shared/Biped_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_PhysicsAsset"})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:         "/Game/Chars/Hero",
		Kind:         types.KindSkeletalMesh,
		Skeleton:     "/Game/Chars/Hero_Skeleton",
		PhysicsAsset: "/Game/Chars/Hero_PhysicsAsset",
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)

	assert.True(t, analysis.Conflict())
	assert.True(t, analysis.NewSkeletonGenerated)
	assert.Equal(t, "/Game/Chars/Hero_Skeleton", analysis.GeneratedSkeletonPath)

	// The physics asset sits next to the mesh, so it counts as generated
	assert.True(t, analysis.NewPhysicsAssetGenerated)
	assert.Equal(t, "/Game/Chars/Hero_PhysicsAsset", analysis.GeneratedPhysicsAssetPath)
}

func TestAnalyzeSharedPhysicsAssetNotGenerated(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Shared/Biped_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton"})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Physics/Shared_PhysicsAsset"})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:         "/Game/Chars/Hero",
		Kind:         types.KindSkeletalMesh,
		Skeleton:     "/Game/Chars/Hero_Skeleton",
		PhysicsAsset: "/Game/Physics/Shared_PhysicsAsset",
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)

	assert.True(t, analysis.NewSkeletonGenerated)
	// A physics asset outside the mesh folder is never flagged
	assert.False(t, analysis.NewPhysicsAssetGenerated)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Shared/Biped_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton"})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:     "/Game/Chars/Hero",
		Kind:     types.KindSkeletalMesh,
		Skeleton: "/Game/Chars/Hero_Skeleton",
	})

	resolver := skeleton.NewResolver(host, host)

	first, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)
	second, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRetargetMergesAndRebinds(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{
		Path:  "/Game/Shared/Biped_Skeleton",
		Bones: []string{"root", "spine"},
	})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton", Bones: []string{"root", "spine", "tail"}})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:     "/Game/Chars/Hero",
		Kind:     types.KindSkeletalMesh,
		Skeleton: "/Game/Chars/Hero_Skeleton",
		Bones:    []string{"root", "spine", "tail"},
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)
	require.True(t, analysis.Conflict())

	result, err := resolver.Retarget(analysis, false)
	require.NoError(t, err)

	// The tail bone was missing from the target and got merged in
	assert.Equal(t, []string{"tail"}, result.MergedBones)
	assert.Equal(t, "/Game/Shared/Biped_Skeleton", mesh.Skeleton)
	assert.Empty(t, mesh.PhysicsAsset)

	// Without deleteGenerated the generated skeleton survives
	assert.False(t, result.SkeletonDeleted)
	assert.True(t, host.Exists("/Game/Chars/Hero_Skeleton"))
}

func TestRetargetDeletesGenerated(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Shared/Biped_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_PhysicsAsset"})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:         "/Game/Chars/Hero",
		Kind:         types.KindSkeletalMesh,
		Skeleton:     "/Game/Chars/Hero_Skeleton",
		PhysicsAsset: "/Game/Chars/Hero_PhysicsAsset",
		Bones:        []string{"root"},
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)

	result, err := resolver.Retarget(analysis, true)
	require.NoError(t, err)

	assert.True(t, result.SkeletonDeleted)
	assert.True(t, result.PhysicsAssetDeleted)
	assert.False(t, host.Exists("/Game/Chars/Hero_Skeleton"))
	assert.False(t, host.Exists("/Game/Chars/Hero_PhysicsAsset"))

	// Editors were closed before each delete
	assert.Contains(t, host.ClosedEditors, "/Game/Chars/Hero_Skeleton")
	assert.Contains(t, host.ClosedEditors, "/Game/Chars/Hero_PhysicsAsset")
}

func TestRetargetDeleteFailureIsNotFatal(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Shared/Biped_Skeleton", Bones: []string{"root"}})
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton", Bones: []string{"root"}})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:     "/Game/Chars/Hero",
		Kind:     types.KindSkeletalMesh,
		Skeleton: "/Game/Chars/Hero_Skeleton",
		Bones:    []string{"root"},
	})
	host.WithError("Delete", stderrors.New("asset locked"))

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Shared/Biped_Skeleton")
	require.NoError(t, err)

	result, err := resolver.Retarget(analysis, true)
	require.NoError(t, err)

	// Rebinding stands even though the cleanup failed
	assert.Equal(t, "/Game/Shared/Biped_Skeleton", mesh.Skeleton)
	assert.False(t, result.SkeletonDeleted)
	assert.Equal(t, []string{"/Game/Chars/Hero_Skeleton"}, result.FailedDeletes)
}

func TestRetargetUnresolvableIntended(t *testing.T) {
	host := testutil.NewFakeHost()
	host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero_Skeleton"})
	mesh := host.AddAsset(&testutil.FakeAsset{
		Path:     "/Game/Chars/Hero",
		Kind:     types.KindSkeletalMesh,
		Skeleton: "/Game/Chars/Hero_Skeleton",
	})

	resolver := skeleton.NewResolver(host, host)
	analysis, err := resolver.Analyze(mesh, "/Game/Missing/Skeleton")
	require.NoError(t, err)
	require.True(t, analysis.Conflict())

	_, err = resolver.Retarget(analysis, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSkeletonUnresolvable))
}

func TestRetargetNoConflictIsNoOp(t *testing.T) {
	host := testutil.NewFakeHost()
	mesh := host.AddAsset(&testutil.FakeAsset{Path: "/Game/Chars/Hero", Kind: types.KindSkeletalMesh})

	resolver := skeleton.NewResolver(host, host)
	result, err := resolver.Retarget(&types.SkeletonAnalysis{ImportedMesh: mesh}, true)
	require.NoError(t, err)
	assert.Empty(t, result.MergedBones)
	assert.False(t, result.SkeletonDeleted)
}
