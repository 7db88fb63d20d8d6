package testutil

import (
	"io/fs"
	"testing"

	"github.com/dottor/dottor/pkg/types"
)

// AssertSymlink checks that link is a symlink whose destination is dest
func AssertSymlink(t *testing.T, fsys types.FS, link, dest string) {
	t.Helper()

	info, err := fsys.Lstat(link)
	if err != nil {
		t.Errorf("expected symlink at %s: %v", link, err)
		return
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("%s is not a symlink (mode %s)", link, info.Mode())
		return
	}
	got, err := fsys.Readlink(link)
	if err != nil {
		t.Errorf("failed to read link %s: %v", link, err)
		return
	}
	if got != dest {
		t.Errorf("%s points to %s, expected %s", link, got, dest)
	}
}

// AssertAbsent checks that nothing exists at path, not even a dangling link
func AssertAbsent(t *testing.T, fsys types.FS, path string) {
	t.Helper()

	if info, err := fsys.Lstat(path); err == nil {
		t.Errorf("expected nothing at %s, found %s", path, info.Mode())
	}
}

// AssertFileContent checks that path is a regular file holding content
func AssertFileContent(t *testing.T, fsys types.FS, path, content string) {
	t.Helper()

	info, err := fsys.Lstat(path)
	if err != nil {
		t.Errorf("expected file at %s: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("%s is not a regular file (mode %s)", path, info.Mode())
		return
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("%s content: expected %q, got %q", path, content, string(data))
	}
}
