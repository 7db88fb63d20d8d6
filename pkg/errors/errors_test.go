package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "conflict",
			code:    errors.ErrConflict,
			message: "foreign symlink",
			wantStr: "[CONFLICT] foreign symlink",
		},
		{
			name:    "unresolved_path",
			code:    errors.ErrUnresolvedPath,
			message: "APPDATA is not set",
			wantStr: "[UNRESOLVED_PATH] APPDATA is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_stays_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrIO, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrIO, "ignored %d", 1))
	})

	t.Run("wrapped_error_is_reachable", func(t *testing.T) {
		err := errors.Wrapf(fs.ErrPermission, errors.ErrIO, "lstat %s", "/x")
		require.NotNil(t, err)
		assert.Equal(t, "[IO] lstat /x: permission denied", err.Error())
		assert.True(t, stderrors.Is(err, fs.ErrPermission))
	})
}

func TestIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("link step: %w", errors.New(errors.ErrPrivilege, "symlinks need developer mode"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrPrivilege, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrConflict, "")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrivilege))
	assert.Equal(t, errors.ErrPrivilege, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrConflict, "existing file").
		WithDetail("target", "/home/u/.bashrc")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "/home/u/.bashrc", details["target"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
