package config

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

//go:embed embedded/deploy-defaults.toml
var deployDefaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadRoot loads dottor.toml from the dotfiles root. A missing file yields
// the defaults. overrides (flat koanf keys such as "backup") win over every
// other source; nil means none.
func LoadRoot(dotfilesRoot string, overrides map[string]interface{}) (*RootConfig, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Root config if it exists
	path := filepath.Join(dotfilesRoot, RootConfigFile)
	if err := loadFileIfExists(k, path); err != nil {
		return nil, err
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg RootConfig
	if err := unmarshal(k, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", path)
	}

	cfg.Exclude = normalizeList(cfg.Exclude)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("exclude", cfg.Exclude).
		Bool("backup", cfg.Backup).
		Int("concurrency", cfg.Concurrency).
		Str("fallback", cfg.Fallback).
		Msg("loaded root configuration")

	return &cfg, nil
}

// RequireRoot fails with NOT_FOUND unless dotfilesRoot holds dottor.toml
func RequireRoot(dotfilesRoot string) error {
	path := filepath.Join(dotfilesRoot, RootConfigFile)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotFound, "%s contains no %s", dotfilesRoot, RootConfigFile).
				WithDetail("path", path).
				WithDetail("hint", "run 'dottor genconfig -w' or pass --root")
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return errors.Newf(errors.ErrConfigLoad, "%s is not a file", path)
	}
	return nil
}

// LoadDeploy loads the dotconfig.toml of a config directory. A missing file
// yields the defaults with the name set to the directory name.
func LoadDeploy(configDir string) (*DeployConfig, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: deployDefaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load deploy defaults")
	}

	path := filepath.Join(configDir, DeployConfigFile)
	if err := loadFileIfExists(k, path); err != nil {
		return nil, err
	}

	var cfg DeployConfig
	if err := unmarshal(k, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", path)
	}

	if cfg.Config.Name == "" {
		cfg.Config.Name = filepath.Base(configDir)
	}
	cfg.Deploy.Exclude = normalizeList(cfg.Deploy.Exclude)
	cfg.Deploy.Platforms = normalizeList(cfg.Deploy.Platforms)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid %s", path)
	}

	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
	}
	return nil
}

func unmarshal(k *koanf.Koanf, out interface{}) error {
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", out, conf); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}

// normalizeList trims entries and drops empty ones
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks value ranges of the root configuration
func (c *RootConfig) Validate() error {
	if c.Concurrency < 0 {
		return errors.Newf(errors.ErrConfigValid, "concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.Fallback != FallbackNone && c.Fallback != FallbackHardlink {
		return errors.Newf(errors.ErrConfigValid, "unknown fallback %q", c.Fallback).
			WithDetail("allowed", []string{FallbackNone, FallbackHardlink})
	}
	return nil
}

var knownPlatforms = []string{"linux", "darwin", "windows", "unix"}

// Validate checks the deploy mode and platform tags
func (c *DeployConfig) Validate() error {
	if c.Deploy.Mode != ModeFiles && c.Deploy.Mode != ModeDirectory {
		return fmt.Errorf("unknown deploy mode %q", c.Deploy.Mode)
	}
	for _, p := range c.Deploy.Platforms {
		if !slices.Contains(knownPlatforms, p) {
			return fmt.Errorf("unknown platform %q", p)
		}
	}
	for _, dep := range c.Dependencies.All() {
		if strings.TrimSpace(dep.Name) == "" {
			return fmt.Errorf("%s dependency without a name", dep.Kind)
		}
	}
	return nil
}

// PlatformTag folds the platforms list into a RepositoryEntry tag
func (c *DeployConfig) PlatformTag() string {
	return strings.Join(c.Deploy.Platforms, ",")
}
