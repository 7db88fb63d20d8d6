package config

import (
	"os"
	"path/filepath"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

// DefaultRootConfig returns the root configuration written for a fresh
// repository
func DefaultRootConfig() RootConfig {
	return RootConfig{
		Exclude: []string{".git/"},
		Synchronization: Synchronization{
			Remote: "origin",
			Branch: "main",
		},
	}
}

// DefaultDeployConfig returns the dotconfig.toml content for a new config
func DefaultDeployConfig(name string) DeployConfig {
	return DeployConfig{
		Config: ConfigSection{Name: name},
		Deploy: DeploySection{
			Exclude:   []string{},
			Mode:      ModeFiles,
			Platforms: []string{},

			TargetRequireEmpty: true,
		},
		Dependencies: Dependencies{
			Simple: SimpleDependencies{Local: []string{}, System: []string{}},
		},
	}
}

// Render encodes a configuration value as TOML
func Render(v interface{}) ([]byte, error) {
	out, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return out, nil
}

// CreateConfig creates <root>/<name>/ with a default dotconfig.toml. It
// refuses to touch a directory that already has content.
func CreateConfig(dotfilesRoot, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	dir := filepath.Join(dotfilesRoot, name)
	entries, err := os.ReadDir(dir)
	switch {
	case err == nil && len(entries) > 0:
		return "", errors.Newf(errors.ErrAlreadyExists, "directory %s is not empty", dir)
	case err != nil && !os.IsNotExist(err):
		return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to create %s", dir)
	}

	content, err := Render(DefaultDeployConfig(name))
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, DeployConfigFile)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to write %s", path)
	}
	return path, nil
}

// DeleteConfig removes <root>/<name>/ and everything in it. The directory
// must be a config: it holds a dotconfig.toml or is the _home directory.
func DeleteConfig(dotfilesRoot, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	dir := filepath.Join(dotfilesRoot, name)
	info, err := os.Lstat(dir)
	switch {
	case os.IsNotExist(err):
		return "", errors.Newf(errors.ErrNotFound, "config %s does not exist", name).WithDetail("path", dir)
	case err != nil:
		return "", errors.Wrapf(err, errors.ErrIO, "failed to stat %s", dir)
	case !info.IsDir():
		return "", errors.Newf(errors.ErrInvalidInput, "%s is not a directory", dir)
	}

	if !IsConfigDir(dotfilesRoot, name) {
		return "", errors.Newf(errors.ErrNotFound, "%s has no %s", dir, DeployConfigFile).WithDetail("path", dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to remove %s", dir)
	}
	return dir, nil
}

// IsConfigDir reports whether the top-level directory name counts as a
// config
func IsConfigDir(dotfilesRoot, name string) bool {
	if name == paths.HomeOverrideDir {
		return true
	}
	info, err := os.Stat(filepath.Join(dotfilesRoot, name, DeployConfigFile))
	return err == nil && info.Mode().IsRegular()
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "invalid config name %q", name)
	}
	return nil
}
