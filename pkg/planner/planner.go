// Package planner decides what to do with a target given a fresh probe.
// Plan is a pure function of its inputs: the same descriptor and probe always
// yield the same action, and nothing here touches the filesystem.
package planner

import (
	"strings"

	"github.com/dottor/dottor/pkg/types"
)

// Planner holds the run-wide policies that influence decisions
type Planner struct {
	// Backup allows existing files and directories to be displaced
	Backup bool

	// FoldCase compares paths case-insensitively
	FoldCase bool

	// Root is the repository root with symlinks resolved. Targets whose
	// real parent lies under it are refused; empty disables the check.
	Root string
}

// New creates a planner for the given platform, repository root and backup
// policy
func New(platform types.PlatformInfo, root string, backup bool) Planner {
	return Planner{Backup: backup, FoldCase: platform.CaseInsensitive, Root: root}
}

// Plan maps (target, probe) to an action. First match wins.
func (p Planner) Plan(target types.TargetDescriptor, probe types.ProbeResult) types.Action {
	if p.samePath(target.Path, target.Source) {
		return types.Conflict(types.ReasonTargetIsSource)
	}
	if p.Root != "" && probe.RealParent != "" && p.within(probe.RealParent, p.Root) {
		return types.Conflict(types.ReasonInsideRepository)
	}
	if probe.Err != nil {
		return types.Conflict(types.ReasonProbeFailed + ": " + probe.Err.Error())
	}

	switch probe.Kind {
	case types.ProbeAbsent:
		return types.CreateLink()

	case types.ProbeSymlinkTo:
		if p.samePath(probe.LinkDest, target.Source) {
			return types.AlreadyLinked()
		}
		return types.Conflict(types.ReasonForeignSymlink)

	case types.ProbeFile, types.ProbeDirectory:
		if probe.Kind == types.ProbeFile && probe.SameFile && target.Kind == types.LinkHardlink {
			return types.AlreadyLinked()
		}
		if probe.Kind == types.ProbeDirectory && target.IsDir && target.RequireEmpty && !probe.Empty {
			return types.Conflict(types.ReasonTargetNotEmpty)
		}
		if p.Backup {
			return types.BackupAndLink()
		}
		return types.Conflict(types.ReasonExistingFile)

	case types.ProbeOther:
		return types.Conflict(types.ReasonUnsupportedType)

	default:
		return types.Conflict(types.ReasonUnsupportedType)
	}
}

func (p Planner) samePath(a, b string) bool {
	a, b = trimSep(a), trimSep(b)
	if p.FoldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// within reports whether path is root or lies below it
func (p Planner) within(path, root string) bool {
	path, root = trimSep(path), trimSep(root)
	if p.FoldCase {
		path, root = strings.ToLower(path), strings.ToLower(root)
	}
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, "/") && !strings.HasSuffix(root, `\`) {
		return strings.HasPrefix(path, root+"/") || strings.HasPrefix(path, root+`\`)
	}
	return strings.HasPrefix(path, root)
}

func trimSep(s string) string {
	if len(s) > 1 {
		return strings.TrimRight(s, `/\`)
	}
	return s
}
