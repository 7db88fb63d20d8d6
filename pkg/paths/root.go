package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/logging"
	gogit "github.com/go-git/go-git/v5"
)

// EnvDotfilesRoot is the environment variable naming the dotfiles root
const EnvDotfilesRoot = "DOTFILES_ROOT"

// Root is a located dotfiles repository
type Root struct {
	Path string

	// UsedFallback is set when neither an explicit root nor a git worktree
	// was found and the working directory was used instead
	UsedFallback bool
}

// FindDotfilesRoot determines the dotfiles root using the following priority:
//  1. explicit (from a flag), if non-empty
//  2. DOTFILES_ROOT environment variable
//  3. the enclosing git worktree of cwd
//  4. cwd itself
func FindDotfilesRoot(explicit, cwd string) (Root, error) {
	logger := logging.GetLogger("paths.root")

	if explicit == "" {
		explicit = os.Getenv(EnvDotfilesRoot)
	}
	if explicit != "" {
		abs, err := filepath.Abs(expandHome(explicit))
		if err != nil {
			return Root{}, errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for %s", explicit)
		}
		return Root{Path: abs}, nil
	}

	gitRoot, err := findGitRoot(cwd)
	if err == nil {
		logger.Debug().Str("root", gitRoot).Msg("using git worktree as dotfiles root")
		return Root{Path: gitRoot}, nil
	}
	logger.Debug().Err(err).Str("cwd", cwd).Msg("no git worktree found")

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return Root{}, errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for %s", cwd)
	}
	return Root{Path: abs, UsedFallback: true}, nil
}

// findGitRoot returns the worktree root of the repository containing dir
func findGitRoot(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "not a git repository: %s", dir)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "repository has no worktree")
	}

	return worktree.Filesystem.Root(), nil
}

// expandHome expands a leading ~ using the process home directory. Only
// used for locating the repository, never for target resolution.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
