package types

// PlatformInfo is the host environment captured once per run. It is passed
// by value so resolution never reads process state on its own.
type PlatformInfo struct {
	// OS is the GOOS family: "linux", "darwin", "windows", ...
	OS string

	// Home is the user's home directory, empty when unavailable
	Home string

	// XDGConfigHome is $XDG_CONFIG_HOME or its default under Home
	XDGConfigHome string

	// KnownFolders holds Windows known folders keyed by their environment
	// name: APPDATA, LOCALAPPDATA, USERPROFILE
	KnownFolders map[string]string

	// Env is the environment snapshot used for target expansion
	Env map[string]string

	// SymlinkCapable reports whether unprivileged symlink creation works
	SymlinkCapable bool

	// CaseInsensitive reports whether path comparison folds case
	CaseInsensitive bool
}

// Getenv looks a variable up in the captured environment, then in the known
// folders
func (p PlatformInfo) Getenv(key string) (string, bool) {
	if v, ok := p.Env[key]; ok && v != "" {
		return v, true
	}
	if v, ok := p.KnownFolders[key]; ok && v != "" {
		return v, true
	}
	return "", false
}

// IsWindows reports whether the platform follows Windows link semantics
func (p PlatformInfo) IsWindows() bool {
	return p.OS == PlatformWindows
}
