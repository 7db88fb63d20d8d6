package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fsys := NewOS()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	require.NoError(t, fsys.WriteFile(testFile, []byte("hello"), 0644))

	content, err := fsys.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	require.NoError(t, fsys.Mkdir(filepath.Join(tmpDir, "sub"), 0755))
	entries, err := fsys.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	link := filepath.Join(tmpDir, "link")
	require.NoError(t, fsys.Symlink(testFile, link))

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink, "Lstat must not follow the link")

	dest, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, testFile, dest)

	renamed := filepath.Join(tmpDir, "renamed.txt")
	require.NoError(t, fsys.Rename(testFile, renamed))
	require.NoError(t, fsys.Remove(link))
	_, err = fsys.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

func TestAferoMemoryHasNoLinks(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/repo/nvim", 0755))
	require.NoError(t, fsys.WriteFile("/repo/nvim/init.lua", []byte("-- lua"), 0644))

	err := fsys.Symlink("/repo/nvim/init.lua", "/home/u/.config/nvim/init.lua")
	require.Error(t, err)
	assert.True(t, IsPrivilegeError(err))

	err = fsys.Link("/repo/nvim/init.lua", "/home/u/init.lua")
	require.Error(t, err)
	assert.True(t, IsPrivilegeError(err))

	_, err = fsys.Readlink("/repo/nvim/init.lua")
	assert.Error(t, err)

	info, err := fsys.Lstat("/repo/nvim/init.lua")
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestAferoOsFsSupportsLinks(t *testing.T) {
	fsys := NewAferoFS(afero.NewOsFs())
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	require.NoError(t, fsys.WriteFile(src, []byte("x"), 0644))

	link := filepath.Join(tmpDir, "link")
	require.NoError(t, fsys.Symlink(src, link))

	dest, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, src, dest)

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)
}

func TestIsPrivilegeError(t *testing.T) {
	assert.False(t, IsPrivilegeError(nil))
	assert.False(t, IsPrivilegeError(fs.ErrPermission))
	assert.True(t, IsPrivilegeError(&os.LinkError{Op: "symlink", Err: afero.ErrNoSymlink}))
}

func TestRealPath(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0755))

	fsys := NewOS()
	assert.Equal(t, real, RealPath(fsys, real))
	assert.Equal(t, filepath.Join(real, "a", "b"), RealPath(fsys, filepath.Join(real, "a", "b")))

	if runtime.GOOS != "windows" {
		alias := filepath.Join(dir, "alias")
		require.NoError(t, os.Symlink(real, alias))
		assert.Equal(t, filepath.Join(real, "x"), RealPath(fsys, filepath.Join(alias, "x")))
	}

	mem := NewMemory()
	assert.Equal(t, filepath.Clean("/virtual/home"), RealPath(mem, "/virtual/home/"))
}
