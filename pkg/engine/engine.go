// Package engine runs the reconciliation pipeline over a batch of entries:
// exclude filter, platform filter, then resolve, probe, plan and execute for
// each entry in a bounded worker group.
package engine

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/exclude"
	"github.com/dottor/dottor/pkg/executor"
	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/paths"
	"github.com/dottor/dottor/pkg/planner"
	"github.com/dottor/dottor/pkg/probe"
	"github.com/dottor/dottor/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine
type Options struct {
	// Root is the absolute dotfiles root
	Root     string
	Platform types.PlatformInfo

	// Filter is applied before anything else; nil excludes nothing
	Filter *exclude.Filter

	// Targets are per-config target overrides for the current OS
	Targets map[string]string

	// RequireEmpty names directory-mode configs whose target must be
	// absent or an empty directory
	RequireEmpty map[string]bool

	Backup   bool
	Fallback string
	DryRun   bool

	// Concurrency bounds the worker group; 0 means runtime.NumCPU()
	Concurrency int

	FS     types.FS
	Linker executor.Linker

	// Logger defaults to the "engine" component logger when nil
	Logger *zerolog.Logger
	Now    func() time.Time
}

// Engine owns one run's collaborators
type Engine struct {
	filter   *exclude.Filter
	platform types.PlatformInfo
	resolver *paths.Resolver
	prober   *probe.Prober
	planner  planner.Planner
	executor *executor.Executor
	limit    int
	dryRun   bool
	logger   zerolog.Logger
}

// New wires an engine
func New(opts Options) *Engine {
	logger := logging.GetLogger("engine")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	execLogger := logger.With().Str("component", "executor").Logger()

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var realRoot string
	if opts.Root != "" {
		realRoot = filesystem.RealPath(fsys, opts.Root)
	}

	return &Engine{
		filter:   opts.Filter,
		platform: opts.Platform,
		resolver: paths.NewResolver(opts.Root, opts.Platform, paths.Options{
			Targets:      opts.Targets,
			Fallback:     opts.Fallback,
			RequireEmpty: opts.RequireEmpty,
		}),
		prober:  probe.New(fsys),
		planner: planner.New(opts.Platform, realRoot, opts.Backup),
		executor: executor.New(executor.Options{
			DryRun:   opts.DryRun,
			Logger:   &execLogger,
			FS:       fsys,
			Linker:   opts.Linker,
			Platform: opts.Platform,
			Now:      opts.Now,
		}),
		limit:  limit,
		dryRun: opts.DryRun,
		logger: logger,
	}
}

// step handles one resolved entry
type step func(ctx context.Context, entry types.RepositoryEntry, target types.TargetDescriptor) (types.Action, types.Outcome)

// Reconcile brings every applicable entry to its linked state
func (e *Engine) Reconcile(ctx context.Context, entries []types.RepositoryEntry) types.RunReport {
	done := logging.LogOperationStart(e.logger, "reconcile")
	defer done()

	return e.run(ctx, entries, func(ctx context.Context, _ types.RepositoryEntry, target types.TargetDescriptor) (types.Action, types.Outcome) {
		action := e.planner.Plan(target, e.prober.ProbeTarget(target))
		return action, e.executor.Execute(ctx, action, target)
	})
}

// Unlink removes links that point into the repository
func (e *Engine) Unlink(ctx context.Context, entries []types.RepositoryEntry) types.RunReport {
	done := logging.LogOperationStart(e.logger, "unlink")
	defer done()

	return e.run(ctx, entries, func(ctx context.Context, _ types.RepositoryEntry, target types.TargetDescriptor) (types.Action, types.Outcome) {
		// the planned action records what the probe saw
		action := e.planner.Plan(target, e.prober.ProbeTarget(target))
		return action, e.executor.Unlink(ctx, target)
	})
}

// Restore moves a backup artifact back to the target of the entry it was
// displaced from
func (e *Engine) Restore(ctx context.Context, backup string, entries []types.RepositoryEntry) (types.EntryResult, error) {
	original, ok := executor.OriginalPath(backup)
	if !ok {
		return types.EntryResult{}, errors.Newf(errors.ErrInvalidInput, "%s is not a dottor backup", backup)
	}

	kept, _ := e.filter.Apply(entries)
	for _, entry := range kept {
		target, err := e.resolver.Resolve(entry)
		if err != nil || !samePath(target.Path, original, e.platform.CaseInsensitive) {
			continue
		}
		// the action records what the target looked like before the restore
		action := e.planner.Plan(target, e.prober.ProbeTarget(target))
		outcome := e.executor.RestoreBackup(ctx, backup, target)
		return types.EntryResult{Entry: entry, Target: target, Action: action, Outcome: outcome}, nil
	}

	return types.EntryResult{}, errors.Newf(errors.ErrNotFound, "no entry links to %s", original).
		WithDetail("backup", backup)
}

func (e *Engine) run(ctx context.Context, entries []types.RepositoryEntry, fn step) types.RunReport {
	kept, excluded := e.filter.Apply(entries)

	applicable := make([]types.RepositoryEntry, 0, len(kept))
	for _, entry := range kept {
		if entry.AppliesTo(e.platform.OS) {
			applicable = append(applicable, entry)
		}
	}

	report := types.RunReport{
		Results:       make([]types.EntryResult, len(applicable)),
		Excluded:      excluded,
		NotApplicable: len(kept) - len(applicable),
		DryRun:        e.dryRun,
	}

	e.logger.Debug().
		Int("entries", len(entries)).
		Int("excluded", report.Excluded).
		Int("not_applicable", report.NotApplicable).
		Int("workers", e.limit).
		Bool("dry_run", e.dryRun).
		Msg("Starting run")

	var g errgroup.Group
	g.SetLimit(e.limit)

	for i, entry := range applicable {
		if ctx.Err() != nil {
			report.Results[i] = e.cancelled(ctx, entry)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				report.Results[i] = e.cancelled(ctx, entry)
				return nil
			}
			report.Results[i] = e.one(ctx, entry, fn)
			return nil
		})
	}
	_ = g.Wait()

	s := report.Summary()
	e.logger.Info().
		Int("linked", s.Linked).
		Int("skipped", s.Skipped).
		Int("conflicted", s.Conflicted).
		Int("failed", s.Failed).
		Int("mutations", s.Mutations).
		Msg("Run finished")
	return report
}

func (e *Engine) one(ctx context.Context, entry types.RepositoryEntry, fn step) types.EntryResult {
	target, err := e.resolver.Resolve(entry)
	if err != nil {
		e.logger.Warn().Err(err).Str("entry", entry.Path).Msg("Unresolved target")
		return types.EntryResult{
			Entry:   entry,
			Target:  target,
			Action:  types.Conflict(types.ReasonUnresolvedPath),
			Outcome: types.Outcome{State: types.OutcomeFailed, Err: err},
		}
	}

	action, outcome := fn(ctx, entry, target)
	return types.EntryResult{Entry: entry, Target: target, Action: action, Outcome: outcome}
}

func (e *Engine) cancelled(ctx context.Context, entry types.RepositoryEntry) types.EntryResult {
	target, _ := e.resolver.Resolve(entry)
	return types.EntryResult{
		Entry:  entry,
		Target: target,
		Action: types.Conflict(types.ReasonCancelled),
		Outcome: types.Outcome{
			State: types.OutcomeFailed,
			Err:   errors.Wrap(context.Cause(ctx), errors.ErrCancelled, "run cancelled before entry started"),
		},
	}
}

func samePath(a, b string, fold bool) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}
