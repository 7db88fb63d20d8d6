package paths

import (
	"path"
	"regexp"
	"strings"

	"github.com/dottor/dottor/pkg/types"
)

// pathStyle joins and checks paths in the target platform's syntax, which
// may differ from the host running the resolver (tests resolve Windows
// targets on Linux).
type pathStyle struct {
	sep byte
}

var (
	posixStyle   = pathStyle{sep: '/'}
	windowsStyle = pathStyle{sep: '\\'}

	windowsAbs = regexp.MustCompile(`^([A-Za-z]:[\\/]|\\\\)`)
)

func styleFor(goos string) pathStyle {
	if goos == types.PlatformWindows {
		return windowsStyle
	}
	return posixStyle
}

func (s pathStyle) toSlash(p string) string {
	if s.sep == '\\' {
		return strings.ReplaceAll(p, "\\", "/")
	}
	return p
}

func (s pathStyle) fromSlash(p string) string {
	if s.sep == '\\' {
		return strings.ReplaceAll(p, "/", "\\")
	}
	return p
}

func (s pathStyle) clean(p string) string {
	if s.sep == '\\' && strings.HasPrefix(p, `\\`) {
		// keep the UNC prefix intact
		return `\\` + s.fromSlash(path.Clean(s.toSlash(p[2:])))
	}
	return s.fromSlash(path.Clean(s.toSlash(p)))
}

func (s pathStyle) join(base string, rel ...string) string {
	parts := append([]string{s.toSlash(base)}, rel...)
	if s.sep == '\\' && strings.HasPrefix(base, `\\`) {
		return `\\` + s.fromSlash(path.Join(append([]string{s.toSlash(base[2:])}, rel...)...))
	}
	return s.fromSlash(path.Join(parts...))
}

func (s pathStyle) isAbs(p string) bool {
	if s.sep == '\\' {
		return windowsAbs.MatchString(p)
	}
	return strings.HasPrefix(p, "/")
}
