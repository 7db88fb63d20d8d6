// Package scanner enumerates the repository entries of a dotfiles root.
//
// A top-level directory is a config when it holds a dotconfig.toml; _home is
// a config without one. Other directories and top-level files are ignored. In
// "files" mode each file below the config becomes an entry; in "directory"
// mode the config directory itself is one entry. Directories matched by an
// exclude rule are not descended into: they are emitted as a single entry so
// the exclude filter accounts for them.
package scanner

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/dottor/dottor/pkg/config"
	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/exclude"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/paths"
	"github.com/dottor/dottor/pkg/types"
)

// Config is one loaded config directory
type Config struct {
	// Dir is the top-level directory name, which is also the entry Name
	Dir    string
	Deploy config.DeployConfig
}

// SkippedConfig is a config directory that could not be loaded
type SkippedConfig struct {
	Dir string
	Err error
}

// Result is the outcome of a scan
type Result struct {
	// Entries are in scan order, with Index set accordingly
	Entries []types.RepositoryEntry

	Configs []Config
	Skipped []SkippedConfig

	// Ignored are top-level directories that are not configs
	Ignored []string

	// Filter holds the root rules plus every config's scoped rules
	Filter *exclude.Filter
}

// Targets returns the per-config target overrides for an OS, keyed by
// config directory
func (r *Result) Targets(goos string) map[string]string {
	targets := make(map[string]string, len(r.Configs))
	for _, c := range r.Configs {
		if t := c.Deploy.Deploy.TargetFor(goos); t != "" {
			targets[c.Dir] = t
		}
	}
	return targets
}

// RequireEmpty reports, by config directory, which directory-mode configs
// refuse to displace a non-empty target directory
func (r *Result) RequireEmpty() map[string]bool {
	out := make(map[string]bool, len(r.Configs))
	for _, c := range r.Configs {
		if c.Deploy.Deploy.Mode == config.ModeDirectory && c.Deploy.Deploy.TargetRequireEmpty {
			out[c.Dir] = true
		}
	}
	return out
}

// Dependencies lists every declared dependency in config order. A local
// dependency is found when the repository has a config of that name; a
// system dependency when lookPath finds the program.
func (r *Result) Dependencies(lookPath func(string) (string, error)) []types.Dependency {
	configs := make(map[string]bool, len(r.Configs))
	for _, c := range r.Configs {
		configs[c.Dir] = true
		configs[c.Deploy.Config.Name] = true
	}

	var out []types.Dependency
	for _, c := range r.Configs {
		for _, d := range c.Deploy.Dependencies.All() {
			dep := types.Dependency{
				Config:   c.Dir,
				Kind:     d.Kind,
				Name:     d.Name,
				Version:  d.Version,
				Optional: d.Optional,
			}
			if d.Kind == config.DependencyLocal {
				dep.Found = configs[d.Name]
			} else if lookPath != nil {
				_, err := lookPath(d.Name)
				dep.Found = err == nil
			}
			out = append(out, dep)
		}
	}
	return out
}

// Scan walks root. Config files are read from disk; the walk itself goes
// through fsys.
func Scan(fsys types.FS, root string, rootCfg *config.RootConfig) (*Result, error) {
	logger := logging.GetLogger("scanner")

	rootFilter, err := exclude.New(rootCfg.Exclude)
	if err != nil {
		return nil, err
	}

	top, err := fsys.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "cannot read dotfiles root").
			WithDetail("path", root)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Name() < top[j].Name() })

	res := &Result{}
	filters := []*exclude.Filter{rootFilter}
	s := &walker{fsys: fsys, root: root}

	for _, d := range top {
		name := d.Name()
		if !d.IsDir() {
			logger.Trace().Str("name", name).Msg("Skipping top-level file")
			continue
		}
		if rootFilter.Excluded(name) {
			s.emit(name, true, "")
			continue
		}
		if !isConfig(fsys, root, name) {
			logger.Debug().Str("dir", name).Msg("No " + config.DeployConfigFile + ", not a config")
			res.Ignored = append(res.Ignored, name)
			continue
		}

		deploy, err := config.LoadDeploy(filepath.Join(root, name))
		if err != nil {
			logger.Warn().Err(err).Str("config", name).Msg("Failed to load config, skipping")
			res.Skipped = append(res.Skipped, SkippedConfig{Dir: name, Err: err})
			continue
		}
		scoped, err := exclude.Scoped(name, deploy.Deploy.Exclude)
		if err != nil {
			logger.Warn().Err(err).Str("config", name).Msg("Invalid exclude rules, skipping")
			res.Skipped = append(res.Skipped, SkippedConfig{Dir: name, Err: err})
			continue
		}
		filters = append(filters, scoped)
		res.Configs = append(res.Configs, Config{Dir: name, Deploy: *deploy})

		tag := deploy.PlatformTag()
		if deploy.Deploy.Mode == config.ModeDirectory && name != paths.HomeOverrideDir {
			s.emit(name, true, tag)
			continue
		}

		s.filter = exclude.Merge(rootFilter, scoped)
		if err := s.walkFiles(name, tag); err != nil {
			return nil, err
		}
	}

	res.Entries = s.entries
	res.Filter = exclude.Merge(filters...)

	logger.Debug().
		Int("entries", len(res.Entries)).
		Int("configs", len(res.Configs)).
		Int("skipped", len(res.Skipped)).
		Int("ignored", len(res.Ignored)).
		Msg("Scan complete")
	return res, nil
}

func isConfig(fsys types.FS, root, name string) bool {
	if name == paths.HomeOverrideDir {
		return true
	}
	info, err := fsys.Stat(filepath.Join(root, name, config.DeployConfigFile))
	return err == nil && info.Mode().IsRegular()
}

type walker struct {
	fsys    types.FS
	root    string
	filter  *exclude.Filter
	entries []types.RepositoryEntry
}

func (w *walker) emit(rel string, isDir bool, tag string) {
	e := types.NewRepositoryEntry(rel, len(w.entries))
	e.IsDir = isDir
	e.Platform = tag
	w.entries = append(w.entries, e)
}

func (w *walker) walkFiles(rel, tag string) error {
	children, err := w.fsys.ReadDir(filepath.Join(w.root, filepath.FromSlash(rel)))
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", rel)
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

	isConfigDir := path.Dir(rel) == "."
	for _, c := range children {
		child := path.Join(rel, c.Name())
		if isConfigDir && c.Name() == config.DeployConfigFile {
			continue
		}
		if c.IsDir() {
			if w.filter.Excluded(child) {
				w.emit(child, true, tag)
				continue
			}
			if err := w.walkFiles(child, tag); err != nil {
				return err
			}
			continue
		}
		w.emit(child, false, tag)
	}
	return nil
}
