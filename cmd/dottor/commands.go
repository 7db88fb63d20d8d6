package dottor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dottor/dottor/internal/version"
	"github.com/dottor/dottor/pkg/config"
	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/dottor/dottor/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dottor",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newDeployCmd(flags))
	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newUnlinkCmd(flags))
	rootCmd.AddCommand(newRestoreCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newGenConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	installHelpTopics(rootCmd)
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newDeployCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun      bool
		backup      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:     "deploy",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("backup") {
				overrides["backup"] = backup
			}
			if cmd.Flags().Changed("concurrency") {
				overrides["concurrency"] = concurrency
			}

			s, err := openSession(cmd, flags, overrides)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.deploy")
			logger.Info().
				Str("root", s.root.Path).
				Bool("dryRun", dryRun).
				Bool("backup", s.config.Backup).
				Msg("Starting deploy")

			report := s.engine(dryRun).Reconcile(cmd.Context(), s.scan.Entries)
			return renderReport(cmd, flags, "deploy", report, true)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&backup, "backup", false, MsgFlagBackup)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, MsgFlagConcurrency)

	return cmd
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags, nil)
			if err != nil {
				return err
			}
			report := s.engine(true).Reconcile(cmd.Context(), s.scan.Entries)
			report.Dependencies = s.scan.Dependencies(exec.LookPath)
			return renderReport(cmd, flags, "status", report, false)
		},
	}
}

func newUnlinkCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "unlink",
		Short:   MsgUnlinkShort,
		Long:    MsgUnlinkLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags, nil)
			if err != nil {
				return err
			}
			report := s.engine(dryRun).Unlink(cmd.Context(), s.scan.Entries)
			// foreign files left in place are expected here
			return renderReport(cmd, flags, "unlink", report, false)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newRestoreCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "restore <backup>",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		Example: MsgRestoreExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid backup path")
			}

			s, err := openSession(cmd, flags, nil)
			if err != nil {
				return err
			}

			res, err := s.engine(dryRun).Restore(cmd.Context(), backup, s.scan.Entries)
			if err != nil {
				return err
			}
			report := types.RunReport{Results: []types.EntryResult{res}, DryRun: dryRun}
			return renderReport(cmd, flags, "restore", report, true)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: MsgConfigCreateShort,
		Long:  MsgConfigCreateLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := requireRoot(cmd, flags)
			if err != nil {
				return err
			}
			path, err := config.CreateConfig(root.Path, args[0])
			if err != nil {
				return err
			}
			return renderMessage(cmd, flags, fmt.Sprintf(MsgConfigCreated, path))
		},
	})
	cmd.AddCommand(newConfigDeleteCmd(flags))

	return cmd
}

func newConfigDeleteCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: MsgConfigDeleteShort,
		Long:  MsgConfigDeleteLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := requireRoot(cmd, flags)
			if err != nil {
				return err
			}
			if !yes {
				return errors.Newf(errors.ErrInvalidInput, MsgErrNeedsYes, args[0])
			}
			dir, err := config.DeleteConfig(root.Path, args[0])
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cmd.config")
			logger.Info().Str("dir", dir).Msg("Deleted config")
			return renderMessage(cmd, flags, fmt.Sprintf(MsgConfigDeleted, dir))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newGenConfigCmd(flags *globalFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.Render(config.DefaultRootConfig())
			if err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			root, err := findRoot(cmd, flags)
			if err != nil {
				return err
			}
			path := filepath.Join(root.Path, config.RootConfigFile)
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrAlreadyExists, "%s already exists", path)
			}
			if err := os.WriteFile(path, content, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to write %s", path)
			}
			return renderMessage(cmd, flags, fmt.Sprintf(MsgRootConfigWrote, path))
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dottor version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
