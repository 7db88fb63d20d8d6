package dottor

import (
	"fmt"
	"os"

	"github.com/dottor/dottor/pkg/config"
	"github.com/dottor/dottor/pkg/engine"
	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/filesystem"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/paths"
	"github.com/dottor/dottor/pkg/platform"
	"github.com/dottor/dottor/pkg/scanner"
	"github.com/dottor/dottor/pkg/types"
	"github.com/dottor/dottor/pkg/ui"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every command
type globalFlags struct {
	verbosity int
	root      string
	format    string
}

// session is everything a run needs, loaded once per command
type session struct {
	root     paths.Root
	config   *config.RootConfig
	platform types.PlatformInfo
	scan     *scanner.Result
}

func findRoot(cmd *cobra.Command, flags *globalFlags) (paths.Root, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return paths.Root{}, fmt.Errorf(MsgErrFindRoot, err)
	}
	root, err := paths.FindDotfilesRoot(flags.root, cwd)
	if err != nil {
		return paths.Root{}, fmt.Errorf(MsgErrFindRoot, err)
	}
	if root.UsedFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, root.Path)
	}
	return root, nil
}

// requireRoot finds the root and insists on its dottor.toml
func requireRoot(cmd *cobra.Command, flags *globalFlags) (paths.Root, error) {
	root, err := findRoot(cmd, flags)
	if err != nil {
		return paths.Root{}, err
	}
	if err := config.RequireRoot(root.Path); err != nil {
		return paths.Root{}, err
	}
	return root, nil
}

// openSession finds the root, loads configuration and scans the repository.
// overrides are CLI values layered over dottor.toml and the environment.
func openSession(cmd *cobra.Command, flags *globalFlags, overrides map[string]interface{}) (*session, error) {
	logger := logging.GetLogger("cmd")

	root, err := requireRoot(cmd, flags)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadRoot(root.Path, overrides)
	if err != nil {
		return nil, err
	}

	plat := platform.Capture()

	res, err := scanner.Scan(filesystem.NewOS(), root.Path, cfg)
	if err != nil {
		return nil, err
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgSkippedConfig+"\n", skipped.Dir, skipped.Err)
	}

	logger.Debug().
		Str("root", root.Path).
		Str("os", plat.OS).
		Bool("symlinks", plat.SymlinkCapable).
		Int("entries", len(res.Entries)).
		Strs("ignored", res.Ignored).
		Msg("Session opened")

	return &session{root: root, config: cfg, platform: plat, scan: res}, nil
}

func (s *session) engine(dryRun bool) *engine.Engine {
	return engine.New(engine.Options{
		Root:         s.root.Path,
		Platform:     s.platform,
		Filter:       s.scan.Filter,
		Targets:      s.scan.Targets(s.platform.OS),
		RequireEmpty: s.scan.RequireEmpty(),
		Backup:       s.config.Backup,
		Fallback:     s.config.Fallback,
		Concurrency:  s.config.Concurrency,
		DryRun:       dryRun,
	})
}

func newRenderer(cmd *cobra.Command, flags *globalFlags) (ui.Renderer, error) {
	format, err := ui.ParseFormat(flags.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func renderMessage(cmd *cobra.Command, flags *globalFlags, msg string) error {
	renderer, err := newRenderer(cmd, flags)
	if err != nil {
		return err
	}
	return renderer.RenderMessage(msg)
}

// renderReport prints the report and turns entry failures into a command
// error so the process exits non-zero
func renderReport(cmd *cobra.Command, flags *globalFlags, command string, report types.RunReport, failOnConflict bool) error {
	renderer, err := newRenderer(cmd, flags)
	if err != nil {
		return err
	}
	if err := renderer.RenderReport(command, report); err != nil {
		return err
	}

	s := report.Summary()
	if s.Failed > 0 || (failOnConflict && s.Conflicted > 0) {
		return errors.Newf(errors.ErrConflict, MsgErrRunFailed, s.Conflicted, s.Failed)
	}
	return nil
}
