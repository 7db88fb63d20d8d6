package types

// OutcomeState is the per-entry state machine:
// Pending -> {Linked, Skipped, Conflicted, Failed}
type OutcomeState string

const (
	// OutcomePending is the only non-terminal state. Dry runs report it.
	OutcomePending    OutcomeState = "pending"
	OutcomeLinked     OutcomeState = "linked"
	OutcomeSkipped    OutcomeState = "skipped"
	OutcomeConflicted OutcomeState = "conflicted"
	OutcomeFailed     OutcomeState = "failed"

	// OutcomeRemoved and OutcomeRestored are reported by unlink and restore
	OutcomeRemoved  OutcomeState = "removed"
	OutcomeRestored OutcomeState = "restored"
)

// Terminal reports whether no further transition is allowed
func (s OutcomeState) Terminal() bool {
	return s != OutcomePending
}

// Outcome is what executing an action did to one entry
type Outcome struct {
	State OutcomeState

	// BackupPath is the displaced original, set whenever a backup was made
	// even if linking afterwards failed
	BackupPath string

	// Mutated reports whether the filesystem was changed for this entry
	Mutated bool

	Err error
}

// ErrorString returns the error message or an empty string
func (o Outcome) ErrorString() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
