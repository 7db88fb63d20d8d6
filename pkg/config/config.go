// Package config loads dottor's TOML configuration: the repository-wide
// dottor.toml and the per-config dotconfig.toml files. Sources are layered
// with koanf: embedded defaults, the file on disk, DOTTOR_* environment
// variables and finally explicit overrides from the command line.
package config

const (
	// RootConfigFile is the repository-wide configuration file
	RootConfigFile = "dottor.toml"

	// DeployConfigFile is the per-config configuration file
	DeployConfigFile = "dotconfig.toml"

	// EnvPrefix prefixes environment overrides of the root configuration
	EnvPrefix = "DOTTOR_"
)

// Deploy modes
const (
	ModeFiles     = "files"
	ModeDirectory = "directory"
)

// Link fallbacks for hosts without unprivileged symlinks
const (
	FallbackNone     = ""
	FallbackHardlink = "hardlink"
)

// RootConfig is the repository-wide configuration
type RootConfig struct {
	Exclude         []string        `koanf:"exclude" toml:"exclude"`
	Backup          bool            `koanf:"backup" toml:"backup"`
	Concurrency     int             `koanf:"concurrency" toml:"concurrency"`
	Fallback        string          `koanf:"fallback" toml:"fallback"`
	Synchronization Synchronization `koanf:"synchronization" toml:"synchronization"`
}

// Synchronization records the remote of the dotfiles repository. dottor
// does not synchronize; the section is kept so existing files round-trip.
type Synchronization struct {
	Repository string `koanf:"repository" toml:"repository"`
	Remote     string `koanf:"remote" toml:"remote"`
	Branch     string `koanf:"branch" toml:"branch"`
}

// DeployConfig is the content of a config directory's dotconfig.toml
type DeployConfig struct {
	Config       ConfigSection `koanf:"config" toml:"config"`
	Deploy       DeploySection `koanf:"deploy" toml:"deploy"`
	Dependencies Dependencies  `koanf:"dependencies" toml:"dependencies"`
}

// ConfigSection names a config
type ConfigSection struct {
	Name string `koanf:"name" toml:"name"`
}

// DeploySection controls how a config's entries are placed on the host
type DeploySection struct {
	// Exclude holds prefixes or globs relative to the config directory
	Exclude []string `koanf:"exclude" toml:"exclude"`

	// Mode is "files" (one entry per file) or "directory" (the whole
	// config directory is one entry)
	Mode string `koanf:"mode" toml:"mode"`

	// Platforms restricts the config to the listed OS families
	Platforms []string `koanf:"platforms" toml:"platforms"`

	// TargetRequireEmpty refuses, in directory mode, to displace a target
	// directory that has content
	TargetRequireEmpty bool `koanf:"target_require_empty" toml:"target_require_empty"`

	Linux   DeployTarget `koanf:"linux" toml:"linux"`
	Darwin  DeployTarget `koanf:"darwin" toml:"darwin"`
	Windows DeployTarget `koanf:"windows" toml:"windows"`
}

// DeployTarget is the per-OS target directory of a config
type DeployTarget struct {
	Target string `koanf:"target" toml:"target"`
}

// TargetFor returns the configured target for an OS family. Darwin falls
// back to the linux target.
func (d DeploySection) TargetFor(goos string) string {
	switch goos {
	case "windows":
		return d.Windows.Target
	case "darwin":
		if d.Darwin.Target != "" {
			return d.Darwin.Target
		}
		return d.Linux.Target
	default:
		return d.Linux.Target
	}
}

// Dependencies lists what a config expects to find on the host. dottor
// reports them; it does not install or version-check anything.
type Dependencies struct {
	Simple SimpleDependencies `koanf:"simple" toml:"simple"`
	Local  []Dependency       `koanf:"local" toml:"local,omitempty"`
	System []Dependency       `koanf:"system" toml:"system,omitempty"`
}

// SimpleDependencies is the shorthand form: bare names, all required
type SimpleDependencies struct {
	Local  []string `koanf:"local" toml:"local"`
	System []string `koanf:"system" toml:"system"`
}

// Dependency is the long form of a dependency. Local dependencies name other
// configs of the repository, system dependencies name programs.
type Dependency struct {
	Name string `koanf:"name" toml:"name"`

	// Optional marks a dependency the config can do without
	Optional bool `koanf:"optional" toml:"optional,omitempty"`

	// Version is recorded verbatim, e.g. ">=0.9"
	Version string `koanf:"version" toml:"version,omitempty"`
}

// Dependency kinds
const (
	DependencyLocal  = "local"
	DependencySystem = "system"
)

// All flattens both forms into one list, simple entries first
func (d Dependencies) All() []NamedDependency {
	var out []NamedDependency
	for _, name := range d.Simple.Local {
		out = append(out, NamedDependency{Kind: DependencyLocal, Dependency: Dependency{Name: name}})
	}
	for _, name := range d.Simple.System {
		out = append(out, NamedDependency{Kind: DependencySystem, Dependency: Dependency{Name: name}})
	}
	for _, dep := range d.Local {
		out = append(out, NamedDependency{Kind: DependencyLocal, Dependency: dep})
	}
	for _, dep := range d.System {
		out = append(out, NamedDependency{Kind: DependencySystem, Dependency: dep})
	}
	return out
}

// NamedDependency is a Dependency tagged with its kind
type NamedDependency struct {
	Kind string
	Dependency
}
