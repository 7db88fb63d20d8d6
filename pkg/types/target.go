package types

// LinkKind is the link primitive used to materialize an entry
type LinkKind string

const (
	// LinkSymlink is a POSIX symlink, or a Windows symbolic link
	LinkSymlink LinkKind = "symlink"

	// LinkJunction is a Windows directory junction
	LinkJunction LinkKind = "junction"

	// LinkHardlink is the file fallback for hosts without symlink rights
	LinkHardlink LinkKind = "hardlink"
)

// TargetDescriptor is where an entry should live on the host and how it is
// linked there
type TargetDescriptor struct {
	// Path is the absolute target path
	Path string

	// Source is the absolute path of the entry inside the repository
	Source string

	// Kind is the link primitive for the current platform
	Kind LinkKind

	// IsDir mirrors RepositoryEntry.IsDir
	IsDir bool

	// RequireEmpty refuses to displace a non-empty directory at Path.
	// Only meaningful for directory entries.
	RequireEmpty bool
}
