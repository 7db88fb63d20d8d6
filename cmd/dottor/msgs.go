package dottor

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort         = "A cross-platform dotfiles linker"
	MsgDeployShort       = "Link dotfiles into place"
	MsgStatusShort       = "Show what deploy would do"
	MsgUnlinkShort       = "Remove links that point into the repository"
	MsgRestoreShort      = "Move a backup back into place"
	MsgConfigShort       = "Manage configs in the dotfiles root"
	MsgConfigCreateShort = "Create a config directory with a default dotconfig.toml"
	MsgConfigDeleteShort = "Delete a config directory and its files"
	MsgGenConfigShort    = "Print the default dottor.toml"
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"

	// Status messages
	MsgConfigCreated   = "Created %s"
	MsgConfigDeleted   = "Deleted %s"
	MsgRootConfigWrote = "Wrote %s"
	MsgSkippedConfig   = "Skipped config %s: %v"

	// Error messages
	MsgErrFindRoot  = "failed to find dotfiles root: %w"
	MsgErrRunFailed = "%d entries conflicted, %d failed"
	MsgErrNeedsYes  = "refusing to delete %s without --yes"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Preview changes without executing them"
	MsgFlagRoot        = "Dotfiles root (defaults to $DOTFILES_ROOT, then the enclosing git repository)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagBackup      = "Back up existing files in the way instead of reporting a conflict"
	MsgFlagConcurrency = "Number of entries processed in parallel (0 = number of CPUs)"
	MsgFlagWrite       = "Write dottor.toml to the dotfiles root"
	MsgFlagYes         = "Confirm deletion"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/deploy-long.txt
	msgDeployLongRaw string
	MsgDeployLong    = strings.TrimSpace(msgDeployLongRaw)

	//go:embed msgs/deploy-example.txt
	msgDeployExampleRaw string
	MsgDeployExample    = strings.TrimRight(msgDeployExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/unlink-long.txt
	msgUnlinkLongRaw string
	MsgUnlinkLong    = strings.TrimSpace(msgUnlinkLongRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/restore-example.txt
	msgRestoreExampleRaw string
	MsgRestoreExample    = strings.TrimRight(msgRestoreExampleRaw, "\n")

	//go:embed msgs/config-create-long.txt
	msgConfigCreateLongRaw string
	MsgConfigCreateLong    = strings.TrimSpace(msgConfigCreateLongRaw)

	//go:embed msgs/config-delete-long.txt
	msgConfigDeleteLongRaw string
	MsgConfigDeleteLong    = strings.TrimSpace(msgConfigDeleteLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
