package executor

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

var fixedNow = func() time.Time {
	return time.Date(2026, 10, 17, 10, 15, 0, 0, time.UTC)
}

type fixture struct {
	repo string
	home string
	exec *Executor
}

func newFixture(t *testing.T, dryRun bool) fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs developer mode on windows")
	}

	dir := t.TempDir()
	f := fixture{
		repo: filepath.Join(dir, "repo"),
		home: filepath.Join(dir, "home"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(f.repo, "nvim"), 0755))
	require.NoError(t, os.MkdirAll(f.home, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.repo, "nvim", "init.lua"), []byte("-- repo"), 0644))

	f.exec = New(Options{
		DryRun:   dryRun,
		Logger:   nopLogger(),
		FS:       filesystem.NewOS(),
		Platform: types.PlatformInfo{OS: runtime.GOOS, SymlinkCapable: true},
		Now:      fixedNow,
	})
	return f
}

func (f fixture) target() types.TargetDescriptor {
	return types.TargetDescriptor{
		Path:   filepath.Join(f.home, ".config", "nvim", "init.lua"),
		Source: filepath.Join(f.repo, "nvim", "init.lua"),
		Kind:   types.LinkSymlink,
	}
}

func TestExecuteCreateLink(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()

	out := f.exec.Execute(context.Background(), types.CreateLink(), target)
	require.NoError(t, out.Err)
	assert.Equal(t, types.OutcomeLinked, out.State)
	assert.True(t, out.Mutated)

	dest, err := os.Readlink(target.Path)
	require.NoError(t, err)
	assert.Equal(t, target.Source, dest)
}

func TestExecuteAlreadyLinkedSkips(t *testing.T) {
	f := newFixture(t, false)
	out := f.exec.Execute(context.Background(), types.AlreadyLinked(), f.target())
	assert.Equal(t, types.OutcomeSkipped, out.State)
	assert.False(t, out.Mutated)
	assert.NoError(t, out.Err)
}

func TestExecuteConflictLeavesTargetAlone(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	require.NoError(t, os.MkdirAll(filepath.Dir(target.Path), 0755))
	require.NoError(t, os.Symlink("/elsewhere/init.lua", target.Path))

	out := f.exec.Execute(context.Background(), types.Conflict(types.ReasonForeignSymlink), target)
	assert.Equal(t, types.OutcomeConflicted, out.State)
	assert.False(t, out.Mutated)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrConflict))
	assert.Equal(t, types.ReasonForeignSymlink, errors.GetErrorDetails(out.Err)["reason"])

	dest, err := os.Readlink(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/init.lua", dest)
}

func TestExecuteBackupAndLinkKeepsContent(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	require.NoError(t, os.MkdirAll(filepath.Dir(target.Path), 0755))
	require.NoError(t, os.WriteFile(target.Path, []byte("-- handwritten"), 0600))

	out := f.exec.Execute(context.Background(), types.BackupAndLink(), target)
	require.NoError(t, out.Err)
	assert.Equal(t, types.OutcomeLinked, out.State)
	assert.Equal(t, target.Path+".dottor-backup-20261017T101500", out.BackupPath)

	data, err := os.ReadFile(out.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "-- handwritten", string(data))

	dest, err := os.Readlink(target.Path)
	require.NoError(t, err)
	assert.Equal(t, target.Source, dest)
}

func TestExecuteBackupNameCollision(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	require.NoError(t, os.MkdirAll(filepath.Dir(target.Path), 0755))
	require.NoError(t, os.WriteFile(target.Path, []byte("new"), 0644))
	taken := target.Path + ".dottor-backup-20261017T101500"
	require.NoError(t, os.WriteFile(taken, []byte("older"), 0644))

	out := f.exec.Execute(context.Background(), types.BackupAndLink(), target)
	require.NoError(t, out.Err)
	assert.Equal(t, taken+"-1", out.BackupPath)

	data, err := os.ReadFile(taken)
	require.NoError(t, err)
	assert.Equal(t, "older", string(data), "existing backups are never overwritten")
}

func TestExecuteDryRun(t *testing.T) {
	f := newFixture(t, true)
	target := f.target()

	out := f.exec.Execute(context.Background(), types.CreateLink(), target)
	assert.Equal(t, types.OutcomePending, out.State)
	assert.False(t, out.Mutated)

	_, err := os.Lstat(filepath.Join(f.home, ".config"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecuteCancelled(t *testing.T) {
	f := newFixture(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := f.exec.Execute(ctx, types.CreateLink(), f.target())
	assert.Equal(t, types.OutcomeFailed, out.State)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrCancelled))

	_, err := os.Lstat(filepath.Join(f.home, ".config"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecuteHardlinkFallback(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	target.Kind = types.LinkHardlink

	out := f.exec.Execute(context.Background(), types.CreateLink(), target)
	require.NoError(t, out.Err)
	assert.Equal(t, types.OutcomeLinked, out.State)

	a, err := os.Lstat(target.Path)
	require.NoError(t, err)
	b, err := os.Lstat(target.Source)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))
}

func newMemoryExecutor(t *testing.T) (*Executor, types.FS) {
	t.Helper()
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/repo/nvim", 0755))
	require.NoError(t, fsys.WriteFile("/repo/nvim/init.lua", []byte("-- repo"), 0644))
	require.NoError(t, fsys.MkdirAll("/home/u", 0755))

	return New(Options{
		Logger:   nopLogger(),
		FS:       fsys,
		Platform: types.PlatformInfo{OS: types.PlatformWindows},
		Now:      fixedNow,
	}), fsys
}

func TestExecutePrivilegeFailureLeavesNoPartialState(t *testing.T) {
	exec, fsys := newMemoryExecutor(t)
	target := types.TargetDescriptor{
		Path:   "/home/u/.config/nvim/init.lua",
		Source: "/repo/nvim/init.lua",
		Kind:   types.LinkSymlink,
	}

	out := exec.Execute(context.Background(), types.CreateLink(), target)
	assert.Equal(t, types.OutcomeFailed, out.State)
	assert.False(t, out.Mutated)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrPrivilege), "got %v", out.Err)

	_, err := fsys.Lstat("/home/u/.config")
	assert.True(t, os.IsNotExist(err), "created parents must be removed")
	_, err = fsys.Lstat("/home/u")
	assert.NoError(t, err, "pre-existing directories stay")
}

// racingFS hides one directory from Lstat, as if another worker created it
// between the existence check and Mkdir
type racingFS struct {
	types.FS
	hidden string
}

func (r racingFS) Lstat(name string) (fs.FileInfo, error) {
	if name == r.hidden {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: fs.ErrNotExist}
	}
	return r.FS.Lstat(name)
}

func TestExecuteFailureKeepsParentsItDidNotCreate(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/home/u/.config", 0755))
	exec := New(Options{
		Logger:   nopLogger(),
		FS:       racingFS{FS: fsys, hidden: "/home/u/.config"},
		Platform: types.PlatformInfo{OS: types.PlatformWindows},
		Now:      fixedNow,
	})
	target := types.TargetDescriptor{
		Path:   "/home/u/.config/nvim/init.lua",
		Source: "/repo/nvim/init.lua",
		Kind:   types.LinkSymlink,
	}

	out := exec.Execute(context.Background(), types.CreateLink(), target)
	require.Equal(t, types.OutcomeFailed, out.State)

	_, err := fsys.Lstat("/home/u/.config/nvim")
	assert.True(t, os.IsNotExist(err), "directory created by this call is removed")
	_, err = fsys.Lstat("/home/u/.config")
	assert.NoError(t, err, "directory that already existed at Mkdir time stays")
}

func TestExplicitLoggerIsHonored(t *testing.T) {
	var global bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&global)
	t.Cleanup(func() { log.Logger = prev })

	conflict := types.Conflict(types.ReasonExistingFile)
	target := types.TargetDescriptor{Path: "/home/u/.bashrc", Source: "/repo/_home/bashrc"}

	exec := New(Options{Logger: nopLogger(), FS: filesystem.NewMemory()})
	exec.Execute(context.Background(), conflict, target)
	assert.Empty(t, global.String(), "a disabled logger must not fall back to the global one")

	exec = New(Options{FS: filesystem.NewMemory()})
	exec.Execute(context.Background(), conflict, target)
	assert.Contains(t, global.String(), `"component":"executor"`)
}

func TestExecuteBackupKeptWhenLinkFails(t *testing.T) {
	exec, fsys := newMemoryExecutor(t)
	require.NoError(t, fsys.WriteFile("/home/u/.bashrc", []byte("mine"), 0644))
	target := types.TargetDescriptor{Path: "/home/u/.bashrc", Source: "/repo/_home/bashrc", Kind: types.LinkHardlink}

	out := exec.Execute(context.Background(), types.BackupAndLink(), target)
	assert.Equal(t, types.OutcomeFailed, out.State)
	assert.True(t, out.Mutated)
	assert.Equal(t, "/home/u/.bashrc.dottor-backup-20261017T101500", out.BackupPath)

	data, err := fsys.ReadFile(out.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestUnlink(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	ctx := context.Background()

	out := f.exec.Unlink(ctx, target)
	assert.Equal(t, types.OutcomeSkipped, out.State, "nothing to unlink")

	require.Equal(t, types.OutcomeLinked, f.exec.Execute(ctx, types.CreateLink(), target).State)
	out = f.exec.Unlink(ctx, target)
	require.NoError(t, out.Err)
	assert.Equal(t, types.OutcomeRemoved, out.State)
	_, err := os.Lstat(target.Path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(target.Path, []byte("real"), 0644))
	out = f.exec.Unlink(ctx, target)
	assert.Equal(t, types.OutcomeConflicted, out.State)
	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "real", string(data))
}

func TestRestoreBackup(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Dir(target.Path), 0755))
	require.NoError(t, os.WriteFile(target.Path, []byte("original"), 0644))

	linked := f.exec.Execute(ctx, types.BackupAndLink(), target)
	require.Equal(t, types.OutcomeLinked, linked.State)

	out := f.exec.RestoreBackup(ctx, linked.BackupPath, target)
	require.NoError(t, out.Err)
	assert.Equal(t, types.OutcomeRestored, out.State)

	info, err := os.Lstat(target.Path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	out = f.exec.RestoreBackup(ctx, linked.BackupPath, target)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrNotFound))
}

func TestRestoreBackupRefusesRealFile(t *testing.T) {
	f := newFixture(t, false)
	target := f.target()
	require.NoError(t, os.MkdirAll(filepath.Dir(target.Path), 0755))
	require.NoError(t, os.WriteFile(target.Path, []byte("current"), 0644))
	backup := target.Path + ".dottor-backup-20260101T000000"
	require.NoError(t, os.WriteFile(backup, []byte("old"), 0644))

	out := f.exec.RestoreBackup(context.Background(), backup, target)
	assert.Equal(t, types.OutcomeConflicted, out.State)
	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "current", string(data))
}

func TestOriginalPath(t *testing.T) {
	got, ok := OriginalPath("/home/u/.bashrc.dottor-backup-20261017T101500-2")
	assert.True(t, ok)
	assert.Equal(t, "/home/u/.bashrc", got)

	_, ok = OriginalPath("/home/u/.bashrc")
	assert.False(t, ok)
}

func TestNewLinker(t *testing.T) {
	fsys := filesystem.NewMemory()
	assert.Equal(t, "windows", NewLinker(types.PlatformInfo{OS: types.PlatformWindows}, fsys).Name())
	assert.Equal(t, "posix", NewLinker(types.PlatformInfo{OS: types.PlatformLinux}, fsys).Name())
	assert.Equal(t, "posix", NewLinker(types.PlatformInfo{OS: types.PlatformDarwin}, fsys).Name())
}
