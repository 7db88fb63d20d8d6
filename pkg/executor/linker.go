package executor

import (
	"context"

	"github.com/dottor/dottor/pkg/types"
)

// Linker creates the link for a target. One Linker is chosen per run.
type Linker interface {
	Link(ctx context.Context, target types.TargetDescriptor) error
	Name() string
}

// NewLinker picks the link strategy for the platform
func NewLinker(platform types.PlatformInfo, fsys types.FS) Linker {
	if platform.IsWindows() {
		return &windowsLinker{fs: fsys}
	}
	return &posixLinker{fs: fsys}
}

// posixLinker creates symlinks. Hard link targets still get hard links so a
// forced fallback behaves the same everywhere.
type posixLinker struct {
	fs types.FS
}

func (l *posixLinker) Name() string { return "posix" }

func (l *posixLinker) Link(_ context.Context, target types.TargetDescriptor) error {
	if target.Kind == types.LinkHardlink {
		return l.fs.Link(target.Source, target.Path)
	}
	return l.fs.Symlink(target.Source, target.Path)
}

// windowsLinker creates symbolic links for files, junctions for directories
// and hard links when the run fell back to them
type windowsLinker struct {
	fs types.FS
}

func (l *windowsLinker) Name() string { return "windows" }

func (l *windowsLinker) Link(ctx context.Context, target types.TargetDescriptor) error {
	switch target.Kind {
	case types.LinkJunction:
		return createJunction(ctx, l.fs, target.Source, target.Path)
	case types.LinkHardlink:
		return l.fs.Link(target.Source, target.Path)
	default:
		return l.fs.Symlink(target.Source, target.Path)
	}
}
