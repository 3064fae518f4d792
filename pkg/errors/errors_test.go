// Test Type: Unit Test
// Description: Tests for structured error creation, wrapping and code checks

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshbridge/meshbridge/pkg/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrManifestMissing, "no manifest found")

	assert.Equal(t, errors.ErrManifestMissing, err.Code)
	assert.Equal(t, "[MANIFEST_MISSING] no manifest found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrNotFound, "no asset at %s", "/Game/Props/Crate")
	assert.Equal(t, "[NOT_FOUND] no asset at /Game/Props/Crate", err.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := errors.Wrap(cause, errors.ErrFileWrite, "cannot write manifest")

	assert.Equal(t, "[FILE_WRITE] cannot write manifest: permission denied", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing happened"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "nothing %s", "happened"))
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrEmptySelection, "nothing selected")

	assert.True(t, errors.IsErrorCode(err, errors.ErrEmptySelection))
	assert.False(t, errors.IsErrorCode(err, errors.ErrExportFailed))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrEmptySelection))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrEmptySelection))
}

func TestIsErrorCodeThroughWrapping(t *testing.T) {
	inner := errors.New(errors.ErrSkeletonUnresolvable, "skeleton gone")
	outer := fmt.Errorf("import step: %w", inner)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrSkeletonUnresolvable))
}

func TestGetErrorCode(t *testing.T) {
	err := errors.New(errors.ErrRetargetFailed, "bind failed")

	assert.Equal(t, errors.ErrRetargetFailed, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	a := errors.New(errors.ErrImportFailed, "first")
	b := errors.New(errors.ErrImportFailed, "second")

	require.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, errors.New(errors.ErrExportFailed, "other")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrImportFailed, "import failed").
		WithDetail("file", "/bridge/Crate.glb").
		WithDetail("attempt", 2)

	assert.Equal(t, "/bridge/Crate.glb", err.Details["file"])
	assert.Equal(t, 2, err.Details["attempt"])
}
