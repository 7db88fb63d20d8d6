// Package platform captures the host environment into a types.PlatformInfo
// once per run.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/types"
)

// Windows known folders resolved from the environment
var knownFolderVars = []string{"APPDATA", "LOCALAPPDATA", "USERPROFILE"}

// Capture snapshots the current process environment
func Capture() types.PlatformInfo {
	info := CaptureFrom(runtime.GOOS, os.Environ(), probeSymlinkCapability)
	if info.Home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			info.Home = home
		}
	}
	if info.XDGConfigHome == "" && !info.IsWindows() {
		info.XDGConfigHome = xdg.ConfigHome
	}
	return info
}

// CaptureFrom builds a PlatformInfo from an explicit OS and environment.
// capable is consulted only on Windows; other platforms always allow
// unprivileged symlinks.
func CaptureFrom(goos string, environ []string, capable func() bool) types.PlatformInfo {
	logger := logging.GetLogger("platform")

	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}

	info := types.PlatformInfo{
		OS:              goos,
		Env:             env,
		KnownFolders:    map[string]string{},
		SymlinkCapable:  true,
		CaseInsensitive: goos == types.PlatformWindows || goos == types.PlatformDarwin,
	}

	info.Home = env["HOME"]
	if goos == types.PlatformWindows {
		if profile := env["USERPROFILE"]; profile != "" {
			info.Home = profile
		}
		for _, name := range knownFolderVars {
			if v := env[name]; v != "" {
				info.KnownFolders[name] = v
			}
		}
		if capable != nil {
			info.SymlinkCapable = capable()
		}
	}

	info.XDGConfigHome = env["XDG_CONFIG_HOME"]
	if info.XDGConfigHome == "" && info.Home != "" {
		info.XDGConfigHome = filepath.Join(info.Home, ".config")
	}

	logger.Debug().
		Str("os", info.OS).
		Str("home", info.Home).
		Str("xdgConfig", info.XDGConfigHome).
		Bool("symlinkCapable", info.SymlinkCapable).
		Msg("captured platform")

	return info
}

// probeSymlinkCapability creates and removes a throwaway symlink in a
// temporary directory
func probeSymlinkCapability() bool {
	dir, err := os.MkdirTemp("", "dottor-cap-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, nil, 0600); err != nil {
		return false
	}
	return os.Symlink(target, filepath.Join(dir, "link")) == nil
}
