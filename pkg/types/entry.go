package types

import (
	"path"
	"strings"
)

// Platform tags understood by RepositoryEntry.Platform
const (
	PlatformAny     = ""
	PlatformLinux   = "linux"
	PlatformDarwin  = "darwin"
	PlatformWindows = "windows"
	PlatformUnix    = "unix"
)

// RepositoryEntry is one tracked configuration unit in the dotfiles repository
type RepositoryEntry struct {
	// Path is repository-relative and slash separated, e.g. "nvim/init.lua"
	Path string

	// Name is the logical name of the config the entry belongs to
	Name string

	// Platform optionally restricts the entry to OS families. It holds one
	// tag or a comma separated list, e.g. "linux,darwin".
	Platform string

	// IsDir marks a directory-mode entry linked as a whole
	IsDir bool

	// Index is the position of the entry in repository scan order
	Index int
}

// NewRepositoryEntry builds an entry and derives its logical name from the
// first path segment
func NewRepositoryEntry(relPath string, index int) RepositoryEntry {
	clean := path.Clean(strings.TrimPrefix(relPath, "./"))
	name := clean
	if i := strings.Index(clean, "/"); i >= 0 {
		name = clean[:i]
	}
	return RepositoryEntry{
		Path:  clean,
		Name:  name,
		Index: index,
	}
}

// ConfigRelPath returns the entry path relative to its config directory.
// A top-level entry is relative to itself and yields its base name.
func (e RepositoryEntry) ConfigRelPath() string {
	if rest, ok := strings.CutPrefix(e.Path, e.Name+"/"); ok {
		return rest
	}
	return path.Base(e.Path)
}

// AppliesTo reports whether the entry should be reconciled on the given OS
func (e RepositoryEntry) AppliesTo(goos string) bool {
	if strings.TrimSpace(e.Platform) == PlatformAny {
		return true
	}
	for _, tag := range strings.Split(e.Platform, ",") {
		switch tag = strings.TrimSpace(tag); tag {
		case PlatformUnix:
			if goos != PlatformWindows {
				return true
			}
		case goos:
			return true
		}
	}
	return false
}
