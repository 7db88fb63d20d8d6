// Package exclude implements the exclude filter applied before planning.
//
// A rule is either a path prefix or a doublestar glob, both relative to the
// repository root and slash separated:
//
//	".git/"          the .git directory and everything below it
//	"nvim/lazy.json" that file, or that directory and everything below it
//	"**/*.swp"       any path matching the glob
//	"*.bak"          a glob without a slash also matches base names
//
// A path is excluded when it, or any of its parent directories, matches.
package exclude

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/types"
)

type rule struct {
	pattern string
	glob    bool
}

// Filter is immutable after construction and safe for concurrent use
type Filter struct {
	rules []rule
}

// New compiles exclude rules. Invalid globs are rejected.
func New(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
		p = strings.TrimPrefix(p, "./")
		if p == "" || p == "/" {
			continue
		}
		if strings.ContainsAny(p, "*?[{") {
			if !doublestar.ValidatePattern(p) {
				return nil, errors.Newf(errors.ErrConfigValid, "invalid exclude pattern %q", p)
			}
			f.rules = append(f.rules, rule{pattern: strings.TrimSuffix(p, "/"), glob: true})
			continue
		}
		f.rules = append(f.rules, rule{pattern: strings.Trim(p, "/")})
	}
	return f, nil
}

// MustNew is New for patterns known to be valid
func MustNew(patterns []string) *Filter {
	f, err := New(patterns)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of compiled rules
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.rules)
}

// Excluded reports whether a repository-relative path is excluded
func (f *Filter) Excluded(relPath string) bool {
	if f == nil || len(f.rules) == 0 {
		return false
	}
	p := path.Clean(strings.TrimPrefix(strings.ReplaceAll(relPath, "\\", "/"), "./"))
	for candidate := p; candidate != "." && candidate != "/"; candidate = path.Dir(candidate) {
		for _, r := range f.rules {
			if r.matches(candidate) {
				return true
			}
		}
	}
	return false
}

func (r rule) matches(p string) bool {
	if !r.glob {
		return p == r.pattern
	}
	if ok, _ := doublestar.Match(r.pattern, p); ok {
		return true
	}
	if !strings.Contains(r.pattern, "/") {
		ok, _ := doublestar.Match(r.pattern, path.Base(p))
		return ok
	}
	return false
}

// Apply removes excluded entries, keeping the order of the rest. It returns
// the kept entries and the number removed.
func (f *Filter) Apply(entries []types.RepositoryEntry) ([]types.RepositoryEntry, int) {
	kept := make([]types.RepositoryEntry, 0, len(entries))
	for _, e := range entries {
		if f.Excluded(e.Path) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(entries) - len(kept)
}

// Scoped returns a filter whose rules are relative to a subdirectory of the
// repository, used for a config's own exclude list
func Scoped(dir string, patterns []string) (*Filter, error) {
	scoped := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(p, "./")
		if strings.ContainsAny(p, "*?[{") && !strings.Contains(strings.TrimSuffix(p, "/"), "/") {
			// bare globs keep matching at any depth below dir
			scoped = append(scoped, dir+"/**/"+p)
			continue
		}
		scoped = append(scoped, path.Join(dir, p))
	}
	return New(scoped)
}

// Merge returns a filter that excludes whatever any of filters excludes
func Merge(filters ...*Filter) *Filter {
	merged := &Filter{}
	for _, f := range filters {
		if f != nil {
			merged.rules = append(merged.rules, f.rules...)
		}
	}
	return merged
}
