package types

// ProbeKind tags the observed state of a target path
type ProbeKind string

const (
	ProbeAbsent    ProbeKind = "absent"
	ProbeFile      ProbeKind = "file"
	ProbeDirectory ProbeKind = "directory"
	ProbeSymlinkTo ProbeKind = "symlink"
	ProbeOther     ProbeKind = "other"
)

// ProbeResult is a fresh observation of a target path. It is never cached.
type ProbeResult struct {
	Kind ProbeKind

	// LinkDest is the absolute, cleaned destination for ProbeSymlinkTo
	LinkDest string

	// SameFile is set for ProbeFile when the target already shares its
	// inode with the source (hard link)
	SameFile bool

	// Empty is set for ProbeDirectory when the directory has no entries
	Empty bool

	// RealParent is the target's parent directory with symlinks resolved.
	// Only ProbeTarget sets it.
	RealParent string

	// Err is the probe failure, if any. Kind is meaningless when set.
	Err error
}

// Absent returns a result for a path that does not exist
func Absent() ProbeResult { return ProbeResult{Kind: ProbeAbsent} }

// SymlinkTo returns a result for a link pointing at dest
func SymlinkTo(dest string) ProbeResult {
	return ProbeResult{Kind: ProbeSymlinkTo, LinkDest: dest}
}

// ProbeFailed returns a result carrying a probe error
func ProbeFailed(err error) ProbeResult {
	return ProbeResult{Err: err}
}
