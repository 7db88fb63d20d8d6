//go:build windows

package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/types"
)

// createJunction shells out to mklink /J on the real filesystem
func createJunction(ctx context.Context, fsys types.FS, source, target string) error {
	if !filesystem.IsOS(fsys) {
		return fsys.Symlink(source, target)
	}

	cmd := exec.CommandContext(ctx, "cmd", "/c", "mklink", "/J", target, source)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J %s: %w: %s", target, err, strings.TrimSpace(string(out)))
	}
	return nil
}
