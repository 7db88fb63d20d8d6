//go:build !windows

package executor

import (
	"context"

	"github.com/dottor/dottor/pkg/types"
)

// createJunction degrades to a symlink where junctions do not exist
func createJunction(_ context.Context, fsys types.FS, source, target string) error {
	return fsys.Symlink(source, target)
}
