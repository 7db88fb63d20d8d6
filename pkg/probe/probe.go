// Package probe inspects target paths without following links.
package probe

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/types"
)

// Prober observes the host filesystem. It holds no state between calls.
type Prober struct {
	fs types.FS
}

// New creates a prober over fs
func New(fsys types.FS) *Prober {
	return &Prober{fs: fsys}
}

// Probe classifies the path with a link-aware stat
func (p *Prober) Probe(path string) types.ProbeResult {
	info, err := p.fs.Lstat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return types.Absent()
		}
		return types.ProbeFailed(errors.Wrapf(err, errors.ErrIO, "lstat %s", path))
	}

	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		return p.readLink(path)
	case mode.IsDir():
		if isReparsePoint(info) {
			return p.readLink(path)
		}
		return types.ProbeResult{Kind: types.ProbeDirectory}
	case mode.IsRegular():
		return types.ProbeResult{Kind: types.ProbeFile}
	case mode&fs.ModeIrregular != 0 && isReparsePoint(info):
		return p.readLink(path)
	default:
		return types.ProbeResult{Kind: types.ProbeOther}
	}
}

// ProbeTarget probes a resolved target and records where its parent
// directory really is. Directories are checked for emptiness; for hard link
// targets it also reports whether the existing file already is the source.
func (p *Prober) ProbeTarget(target types.TargetDescriptor) types.ProbeResult {
	res := p.Probe(target.Path)
	if res.Err != nil {
		return res
	}
	res.RealParent = filesystem.RealPath(p.fs, filepath.Dir(target.Path))

	if res.Kind == types.ProbeDirectory {
		children, err := p.fs.ReadDir(target.Path)
		if err != nil {
			return types.ProbeFailed(errors.Wrapf(err, errors.ErrIO, "read %s", target.Path))
		}
		res.Empty = len(children) == 0
		return res
	}
	if res.Kind != types.ProbeFile || target.Kind != types.LinkHardlink {
		return res
	}

	targetInfo, err := p.fs.Lstat(target.Path)
	if err != nil {
		return types.ProbeFailed(errors.Wrapf(err, errors.ErrIO, "lstat %s", target.Path))
	}
	sourceInfo, err := p.fs.Lstat(target.Source)
	if err != nil {
		// a missing source cannot share an inode with anything
		return res
	}
	res.SameFile = os.SameFile(targetInfo, sourceInfo)
	return res
}

func (p *Prober) readLink(path string) types.ProbeResult {
	dest, err := p.fs.Readlink(path)
	if err != nil {
		return types.ProbeFailed(errors.Wrapf(err, errors.ErrIO, "readlink %s", path))
	}
	return types.SymlinkTo(Normalize(path, dest))
}

// Normalize makes a raw link value absolute relative to the link's parent
// directory and cleans it
func Normalize(linkPath, dest string) string {
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(linkPath), dest)
	}
	return filepath.Clean(dest)
}
