package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero memory filesystem, no symlinks
	EnvIsolated                  // real filesystem in a temp directory
)

// TestEnvironment is a dotfiles root and a home directory on one filesystem
type TestEnvironment struct {
	DotfilesRoot string
	HomeDir      string
	XDGConfig    string

	FS       types.FS
	Platform types.PlatformInfo
	Type     EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. Isolated environments
// also point HOME, XDG_CONFIG_HOME and XDG_STATE_HOME into the temp dir so
// code that captures the process environment sees the same layout.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.setupMemoryEnvironment()
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	default:
		t.Fatalf("unknown environment type %d", envType)
	}

	env.Platform = types.PlatformInfo{
		OS:            types.PlatformLinux,
		Home:          env.HomeDir,
		XDGConfigHome: env.XDGConfig,
		KnownFolders:  map[string]string{},
		Env: map[string]string{
			"HOME":            env.HomeDir,
			"XDG_CONFIG_HOME": env.XDGConfig,
		},
		SymlinkCapable: envType == EnvIsolated,
	}

	return env
}

func (env *TestEnvironment) setupMemoryEnvironment() {
	env.DotfilesRoot = "/virtual/dotfiles"
	env.HomeDir = "/virtual/home"
	env.XDGConfig = "/virtual/home/.config"
	env.FS = filesystem.NewMemory()

	env.mkdirs()
}

func (env *TestEnvironment) setupIsolatedEnvironment() {
	if runtime.GOOS == "windows" {
		env.t.Skip("isolated environments create symlinks")
	}

	tempDir := env.t.TempDir()
	env.DotfilesRoot = filepath.Join(tempDir, "dotfiles")
	env.HomeDir = filepath.Join(tempDir, "home")
	env.XDGConfig = filepath.Join(tempDir, "home", ".config")
	env.FS = filesystem.NewOS()

	env.mkdirs()

	env.t.Setenv("HOME", env.HomeDir)
	env.t.Setenv("XDG_CONFIG_HOME", env.XDGConfig)
	env.t.Setenv("XDG_STATE_HOME", filepath.Join(tempDir, "state"))
	env.t.Setenv("DOTFILES_ROOT", "")
}

func (env *TestEnvironment) mkdirs() {
	for _, dir := range []string{env.DotfilesRoot, env.HomeDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			env.t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
}

// FileTree represents a directory structure: a string value is a file's
// content, a nested FileTree is a directory
type FileTree map[string]interface{}

// WithFileTree creates tree under the dotfiles root
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.DotfilesRoot, tree)
}

// WithHomeTree creates tree under the home directory
func (env *TestEnvironment) WithHomeTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.HomeDir, tree)
}

// AddFile writes one repository file and returns its entry. rel uses
// forward slashes.
func (env *TestEnvironment) AddFile(rel, content string) types.RepositoryEntry {
	env.t.Helper()
	writeFile(env.t, env.FS, filepath.Join(env.DotfilesRoot, filepath.FromSlash(rel)), content)
	return types.NewRepositoryEntry(rel, 0)
}

// HomePath joins rel onto the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, filepath.FromSlash(rel))
}

// RootPath joins rel onto the dotfiles root
func (env *TestEnvironment) RootPath(rel string) string {
	return filepath.Join(env.DotfilesRoot, filepath.FromSlash(rel))
}

// Index renumbers entries in argument order
func Index(entries ...types.RepositoryEntry) []types.RepositoryEntry {
	for i := range entries {
		entries[i].Index = i
	}
	return entries
}

func createFileTree(t *testing.T, fsys types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			writeFile(t, fsys, fullPath, v)
		case FileTree:
			if err := fsys.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fsys, fullPath, v)
		default:
			t.Fatalf("invalid file tree content type for %s: %T", name, content)
		}
	}
}

func writeFile(t *testing.T, fsys types.FS, path, content string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}
