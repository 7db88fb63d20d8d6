package executor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/planner"
	"github.com/dottor/dottor/pkg/probe"
	"github.com/dottor/dottor/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// BackupInfix separates the original name from the backup timestamp
	BackupInfix = ".dottor-backup-"

	// BackupTimeFormat is the timestamp layout of backup names
	BackupTimeFormat = "20060102T150405"

	dirPerm = 0755
)

// Options contains configuration for the executor
type Options struct {
	DryRun bool

	// Logger defaults to the "executor" component logger when nil
	Logger *zerolog.Logger

	// FS defaults to the OS filesystem
	FS types.FS

	// Linker defaults to NewLinker(Platform, FS)
	Linker   Linker
	Platform types.PlatformInfo

	// Now is the clock used for backup names
	Now func() time.Time
}

// Executor applies actions. It is safe for concurrent use on distinct
// targets.
type Executor struct {
	dryRun   bool
	logger   zerolog.Logger
	fs       types.FS
	linker   Linker
	prober   *probe.Prober
	platform types.PlatformInfo
	now      func() time.Time
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	linker := opts.Linker
	if linker == nil {
		linker = NewLinker(opts.Platform, fsys)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Executor{
		dryRun:   opts.DryRun,
		logger:   logger,
		fs:       fsys,
		linker:   linker,
		prober:   probe.New(fsys),
		platform: opts.Platform,
		now:      now,
	}
}

// DryRun reports whether the executor skips mutations
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Execute applies one action to its target and returns a terminal outcome,
// or Pending in dry-run mode for mutating actions
func (e *Executor) Execute(ctx context.Context, action types.Action, target types.TargetDescriptor) types.Outcome {
	logger := e.logger.With().
		Str("target", target.Path).
		Str("action", action.String()).
		Logger()

	switch action.Kind {
	case types.ActionAlreadyLinked:
		logger.Debug().Msg("Already linked")
		return types.Outcome{State: types.OutcomeSkipped}

	case types.ActionConflict:
		logger.Warn().Str("reason", action.Reason).Msg("Conflict")
		return types.Outcome{
			State: types.OutcomeConflicted,
			Err: errors.Newf(errors.ErrConflict, "%s: %s", target.Path, action.Reason).
				WithDetail("target", target.Path).
				WithDetail("reason", action.Reason),
		}

	case types.ActionCreateLink, types.ActionBackupAndLink:
		if err := ctx.Err(); err != nil {
			return types.Outcome{
				State: types.OutcomeFailed,
				Err:   errors.Wrap(err, errors.ErrCancelled, "run cancelled before linking"),
			}
		}
		if e.dryRun {
			logger.Info().Bool("dry_run", true).Msg("Would link")
			return types.Outcome{State: types.OutcomePending}
		}
		if action.Kind == types.ActionCreateLink {
			return e.createLink(ctx, logger, target)
		}
		return e.backupAndLink(ctx, logger, target)

	default:
		return types.Outcome{
			State: types.OutcomeFailed,
			Err:   errors.Newf(errors.ErrInternal, "unknown action %q", action.Kind),
		}
	}
}

func (e *Executor) createLink(ctx context.Context, logger zerolog.Logger, target types.TargetDescriptor) types.Outcome {
	created, err := e.ensureParents(filepath.Dir(target.Path))
	if err != nil {
		e.removeCreated(logger, created)
		return types.Outcome{
			State: types.OutcomeFailed,
			Err:   errors.Wrapf(err, errors.ErrIO, "create parent of %s", target.Path),
		}
	}

	if err := e.linker.Link(ctx, target); err != nil {
		e.removeCreated(logger, created)
		logger.Error().Err(err).Str("linker", e.linker.Name()).Msg("Link failed")
		return types.Outcome{State: types.OutcomeFailed, Err: linkError(err, target)}
	}

	logger.Info().Str("source", target.Source).Str("kind", string(target.Kind)).Msg("Linked")
	return types.Outcome{State: types.OutcomeLinked, Mutated: true}
}

func (e *Executor) backupAndLink(ctx context.Context, logger zerolog.Logger, target types.TargetDescriptor) types.Outcome {
	backup, err := e.backupPath(target.Path)
	if err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: err}
	}

	if err := e.fs.Rename(target.Path, backup); err != nil {
		return types.Outcome{
			State: types.OutcomeFailed,
			Err: errors.Wrapf(err, errors.ErrIO, "back up %s", target.Path).
				WithDetail("backup", backup),
		}
	}
	logger.Info().Str("backup", backup).Msg("Backed up existing target")

	if err := e.linker.Link(ctx, target); err != nil {
		logger.Error().Err(err).Str("backup", backup).Msg("Link failed after backup; backup kept")
		return types.Outcome{
			State:      types.OutcomeFailed,
			BackupPath: backup,
			Mutated:    true,
			Err:        linkError(err, target),
		}
	}

	logger.Info().Str("source", target.Source).Msg("Linked")
	return types.Outcome{State: types.OutcomeLinked, BackupPath: backup, Mutated: true}
}

// ensureParents creates dir and any missing ancestors. It returns the
// directories it created, shallowest first.
func (e *Executor) ensureParents(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		_, err := e.fs.Lstat(d)
		if err == nil {
			break
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}

	var created []string
	for i := len(missing) - 1; i >= 0; i-- {
		err := e.fs.Mkdir(missing[i], dirPerm)
		switch {
		case err == nil:
			created = append(created, missing[i])
		case stderrors.Is(err, fs.ErrExist):
			// a concurrent entry created it and owns its cleanup
		default:
			return created, err
		}
	}
	return created, nil
}

// removeCreated removes directories deepest first
func (e *Executor) removeCreated(logger zerolog.Logger, created []string) {
	for i := len(created) - 1; i >= 0; i-- {
		if err := e.fs.Remove(created[i]); err != nil {
			logger.Warn().Err(err).Str("dir", created[i]).Msg("Could not remove created directory")
		}
	}
}

// backupPath returns a free <path>.dottor-backup-<timestamp>[-n] name
func (e *Executor) backupPath(path string) (string, error) {
	base := path + BackupInfix + e.now().Format(BackupTimeFormat)
	candidate := base
	for n := 1; ; n++ {
		_, err := e.fs.Lstat(candidate)
		if stderrors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrIO, "check backup name %s", candidate)
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func linkError(err error, target types.TargetDescriptor) error {
	code := errors.ErrIO
	if filesystem.IsPrivilegeError(err) {
		code = errors.ErrPrivilege
	}
	return errors.Wrapf(err, code, "create %s %s", target.Kind, target.Path).
		WithDetail("target", target.Path).
		WithDetail("source", target.Source)
}

// Unlink removes the link at target when it points at the target's source.
// Anything else at the path is left alone.
func (e *Executor) Unlink(ctx context.Context, target types.TargetDescriptor) types.Outcome {
	if err := ctx.Err(); err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: errors.Wrap(err, errors.ErrCancelled, "run cancelled")}
	}

	res := e.prober.ProbeTarget(target)
	if res.Err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: res.Err}
	}
	if res.Kind == types.ProbeAbsent {
		return types.Outcome{State: types.OutcomeSkipped}
	}

	plan := planner.Planner{FoldCase: e.platform.CaseInsensitive}.Plan(target, res)
	if plan.Kind != types.ActionAlreadyLinked {
		return types.Outcome{
			State: types.OutcomeConflicted,
			Err: errors.Newf(errors.ErrConflict, "%s is not linked to %s", target.Path, target.Source).
				WithDetail("target", target.Path),
		}
	}

	if e.dryRun {
		return types.Outcome{State: types.OutcomePending}
	}
	if err := e.fs.Remove(target.Path); err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: errors.Wrapf(err, errors.ErrIO, "remove %s", target.Path)}
	}

	e.logger.Info().Str("target", target.Path).Msg("Unlinked")
	return types.Outcome{State: types.OutcomeRemoved, Mutated: true}
}

// RestoreBackup moves a backup artifact back to target. The target must be
// absent or a link to the source, which is removed first.
func (e *Executor) RestoreBackup(ctx context.Context, backup string, target types.TargetDescriptor) types.Outcome {
	if err := ctx.Err(); err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: errors.Wrap(err, errors.ErrCancelled, "run cancelled")}
	}

	if _, err := e.fs.Lstat(backup); err != nil {
		code := errors.ErrIO
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrNotFound
		}
		return types.Outcome{State: types.OutcomeFailed, Err: errors.Wrapf(err, code, "backup %s", backup)}
	}

	res := e.prober.ProbeTarget(target)
	if res.Err != nil {
		return types.Outcome{State: types.OutcomeFailed, Err: res.Err}
	}

	removeLink := false
	switch res.Kind {
	case types.ProbeAbsent:
	case types.ProbeSymlinkTo, types.ProbeFile:
		plan := planner.Planner{FoldCase: e.platform.CaseInsensitive}.Plan(target, res)
		if plan.Kind != types.ActionAlreadyLinked {
			return e.restoreConflict(target)
		}
		removeLink = true
	default:
		return e.restoreConflict(target)
	}

	if e.dryRun {
		return types.Outcome{State: types.OutcomePending, BackupPath: backup}
	}

	if removeLink {
		if err := e.fs.Remove(target.Path); err != nil {
			return types.Outcome{State: types.OutcomeFailed, Err: errors.Wrapf(err, errors.ErrIO, "remove %s", target.Path)}
		}
	}
	if err := e.fs.Rename(backup, target.Path); err != nil {
		return types.Outcome{
			State:   types.OutcomeFailed,
			Mutated: removeLink,
			Err:     errors.Wrapf(err, errors.ErrIO, "restore %s", backup),
		}
	}

	e.logger.Info().Str("target", target.Path).Str("backup", backup).Msg("Restored backup")
	return types.Outcome{State: types.OutcomeRestored, BackupPath: backup, Mutated: true}
}

func (e *Executor) restoreConflict(target types.TargetDescriptor) types.Outcome {
	return types.Outcome{
		State: types.OutcomeConflicted,
		Err: errors.Newf(errors.ErrConflict, "%s exists and is not a dottor link", target.Path).
			WithDetail("target", target.Path),
	}
}

// OriginalPath strips the backup suffix from a backup artifact path
func OriginalPath(backup string) (string, bool) {
	dir, name := filepath.Split(backup)
	for i := len(name) - len(BackupInfix); i > 0; i-- {
		if name[i:i+len(BackupInfix)] == BackupInfix {
			return dir + name[:i], true
		}
	}
	return "", false
}
