package filesystem

import (
	"path/filepath"

	"github.com/dottor/dottor/pkg/types"
)

// linkEvaluator is implemented by filesystems that can resolve symlinks
type linkEvaluator interface {
	EvalSymlinks(path string) (string, error)
}

// RealPath resolves symlinks in the longest existing prefix of path and
// appends the missing remainder unchanged. On a filesystem that cannot
// resolve links the cleaned path is returned.
func RealPath(fsys types.FS, path string) string {
	path = filepath.Clean(path)
	ev, ok := fsys.(linkEvaluator)
	if !ok {
		return path
	}

	rest := ""
	for dir := path; ; {
		if resolved, err := ev.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}
