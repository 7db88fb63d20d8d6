// Package paths maps repository entries to their target locations on the
// host. Resolution is pure: it reads only the captured PlatformInfo and the
// per-config targets handed to the Resolver, never the process environment.
package paths

import (
	"path"
	"regexp"
	"strings"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/types"
)

const (
	// HomeOverrideDir is the top-level directory whose contents always go to
	// the home directory with a dot prefix on the first segment
	HomeOverrideDir = "_home"

	// FallbackHardlink enables hard links for files on hosts without
	// unprivileged symlinks
	FallbackHardlink = "hardlink"
)

// Options tune a Resolver
type Options struct {
	// Targets maps a config name to its raw target for the current OS,
	// as written in dotconfig.toml (may contain ~, $VAR or %VAR%)
	Targets map[string]string

	// Fallback is "" or "hardlink"
	Fallback string

	// RequireEmpty lists, by config name, the directory-mode configs that
	// must not displace a non-empty directory
	RequireEmpty map[string]bool
}

// baseRule is one row of the default base directory table
type baseRule struct {
	describe string
	base     func(p types.PlatformInfo) (string, error)
}

// defaultBases is the per-OS default base table. Unknown OS families use
// the "unix" row.
var defaultBases = map[string]baseRule{
	types.PlatformWindows: {
		describe: "%APPDATA%",
		base: func(p types.PlatformInfo) (string, error) {
			return lookupRequired(p, "APPDATA")
		},
	},
	types.PlatformUnix: {
		describe: "$XDG_CONFIG_HOME",
		base: func(p types.PlatformInfo) (string, error) {
			if p.XDGConfigHome != "" {
				return p.XDGConfigHome, nil
			}
			return "", errors.New(errors.ErrUnresolvedPath, "neither XDG_CONFIG_HOME nor HOME is set")
		},
	},
}

// Resolver computes TargetDescriptors for one run
type Resolver struct {
	root     string
	platform types.PlatformInfo
	opts     Options
}

// NewResolver creates a resolver for the repository at root
func NewResolver(root string, platform types.PlatformInfo, opts Options) *Resolver {
	return &Resolver{root: root, platform: platform, opts: opts}
}

// Platform returns the captured platform
func (r *Resolver) Platform() types.PlatformInfo {
	return r.platform
}

// Resolve maps an entry to its target. Priority (highest first):
//  1. entries under _home/ go to the home directory
//  2. a per-config target from dotconfig.toml
//  3. the default base for the OS family
func (r *Resolver) Resolve(entry types.RepositoryEntry) (types.TargetDescriptor, error) {
	style := styleFor(r.platform.OS)

	desc := types.TargetDescriptor{
		Source: style.join(r.root, entry.Path),
		Kind:   r.linkKind(entry),
		IsDir:  entry.IsDir,

		RequireEmpty: entry.IsDir && r.opts.RequireEmpty[entry.Name],
	}

	target, err := r.targetPath(entry, style)
	if err != nil {
		return desc, errors.Wrapf(err, errors.ErrUnresolvedPath, "cannot resolve %s", entry.Path).
			WithDetail("entry", entry.Path)
	}
	if !style.isAbs(target) {
		return desc, errors.Newf(errors.ErrUnresolvedPath, "target %q for %s is not absolute", target, entry.Path).
			WithDetail("entry", entry.Path)
	}

	desc.Path = target
	return desc, nil
}

func (r *Resolver) targetPath(entry types.RepositoryEntry, style pathStyle) (string, error) {
	if entry.Name == HomeOverrideDir {
		if entry.Path == HomeOverrideDir {
			return "", errors.New(errors.ErrInvalidInput, "the _home directory itself cannot be linked")
		}
		home, err := lookupRequired(r.platform, "HOME")
		if err != nil {
			return "", err
		}
		parts := strings.Split(entry.ConfigRelPath(), "/")
		if !strings.HasPrefix(parts[0], ".") {
			parts[0] = "." + parts[0]
		}
		return style.join(home, path.Join(parts...)), nil
	}

	if raw := r.opts.Targets[entry.Name]; raw != "" {
		base, err := Expand(raw, r.platform)
		if err != nil {
			return "", err
		}
		if entry.Path == entry.Name {
			if entry.IsDir {
				return style.clean(base), nil
			}
			return style.join(base, path.Base(entry.Path)), nil
		}
		return style.join(base, entry.ConfigRelPath()), nil
	}

	rule, ok := defaultBases[r.platform.OS]
	if !ok {
		rule = defaultBases[types.PlatformUnix]
	}
	base, err := rule.base(r.platform)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrUnresolvedPath, "default base %s unavailable", rule.describe)
	}
	return style.join(base, entry.Path), nil
}

func (r *Resolver) linkKind(entry types.RepositoryEntry) types.LinkKind {
	switch {
	case entry.IsDir && r.platform.IsWindows():
		return types.LinkJunction
	case !entry.IsDir && !r.platform.SymlinkCapable && r.opts.Fallback == FallbackHardlink:
		return types.LinkHardlink
	default:
		return types.LinkSymlink
	}
}

// lookupRequired looks up a variable that resolution cannot do without. HOME is
// answered from PlatformInfo.Home.
func lookupRequired(p types.PlatformInfo, key string) (string, error) {
	if key == "HOME" && p.Home != "" {
		return p.Home, nil
	}
	if v, ok := p.Getenv(key); ok {
		return v, nil
	}
	return "", errors.Newf(errors.ErrUnresolvedPath, "%s is not set", key).WithDetail("variable", key)
}

var (
	percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)
	dollarVar  = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Expand substitutes ~, $VAR, ${VAR} and %VAR% against the captured
// platform. A missing variable is an UNRESOLVED_PATH error.
func Expand(raw string, p types.PlatformInfo) (string, error) {
	var missing string
	lookup := func(key string) string {
		v, err := lookupRequired(p, key)
		if err != nil && missing == "" {
			missing = key
		}
		return v
	}

	out := percentVar.ReplaceAllStringFunc(raw, func(m string) string {
		return lookup(percentVar.FindStringSubmatch(m)[1])
	})
	out = dollarVar.ReplaceAllStringFunc(out, func(m string) string {
		sub := dollarVar.FindStringSubmatch(m)
		if sub[1] != "" {
			return lookup(sub[1])
		}
		return lookup(sub[2])
	})

	if out == "~" || strings.HasPrefix(out, "~/") || strings.HasPrefix(out, `~\`) {
		out = lookup("HOME") + out[1:]
	}

	if missing != "" {
		return "", errors.Newf(errors.ErrUnresolvedPath, "%s is not set", missing).
			WithDetail("variable", missing)
	}
	return out, nil
}
