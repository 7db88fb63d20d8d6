package types

// ActionKind is the reconciliation decision for one entry
type ActionKind string

const (
	ActionCreateLink    ActionKind = "create_link"
	ActionAlreadyLinked ActionKind = "already_linked"
	ActionConflict      ActionKind = "conflict"
	ActionBackupAndLink ActionKind = "backup_and_link"
)

// Conflict reasons. Unresolved and cancelled entries are tagged by the engine.
const (
	ReasonForeignSymlink  = "foreign symlink"
	ReasonExistingFile    = "existing file"
	ReasonUnsupportedType = "unsupported type"
	ReasonProbeFailed     = "probe failed"
	ReasonUnresolvedPath  = "unresolved path"
	ReasonCancelled       = "cancelled"

	ReasonTargetIsSource   = "target is source"
	ReasonInsideRepository = "target inside repository"
	ReasonTargetNotEmpty   = "target not empty"
)

// Action is the sole output of the planner and the sole input of the
// executor
type Action struct {
	Kind ActionKind

	// Reason explains a conflict; empty for every other kind
	Reason string
}

// CreateLink returns a create-link action
func CreateLink() Action { return Action{Kind: ActionCreateLink} }

// AlreadyLinked returns a no-op action
func AlreadyLinked() Action { return Action{Kind: ActionAlreadyLinked} }

// BackupAndLink returns an action that displaces existing content first
func BackupAndLink() Action { return Action{Kind: ActionBackupAndLink} }

// Conflict returns a conflict action with the given reason
func Conflict(reason string) Action {
	return Action{Kind: ActionConflict, Reason: reason}
}

// Mutates reports whether executing the action changes the filesystem
func (a Action) Mutates() bool {
	return a.Kind == ActionCreateLink || a.Kind == ActionBackupAndLink
}

func (a Action) String() string {
	if a.Kind == ActionConflict && a.Reason != "" {
		return string(a.Kind) + "(" + a.Reason + ")"
	}
	return string(a.Kind)
}
