package planner

import (
	stderrors "errors"
	"testing"

	"github.com/dottor/dottor/pkg/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var nvimTarget = types.TargetDescriptor{
	Path:   "/home/u/.config/nvim/init.lua",
	Source: "/repo/nvim/init.lua",
	Kind:   types.LinkSymlink,
}

func TestPlanDecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		planner Planner
		target  types.TargetDescriptor
		probe   types.ProbeResult
		want    types.Action
	}{
		{
			name:   "absent",
			target: nvimTarget,
			probe:  types.Absent(),
			want:   types.CreateLink(),
		},
		{
			name:   "own_symlink",
			target: nvimTarget,
			probe:  types.SymlinkTo("/repo/nvim/init.lua"),
			want:   types.AlreadyLinked(),
		},
		{
			name:   "foreign_symlink",
			target: nvimTarget,
			probe:  types.SymlinkTo("/elsewhere/init.lua"),
			want:   types.Conflict(types.ReasonForeignSymlink),
		},
		{
			name:   "foreign_symlink_wins_over_backup",
			target: nvimTarget,
			planner: Planner{
				Backup: true,
			},
			probe: types.SymlinkTo("/elsewhere/init.lua"),
			want:  types.Conflict(types.ReasonForeignSymlink),
		},
		{
			name:   "case_differs_on_case_sensitive_host",
			target: nvimTarget,
			probe:  types.SymlinkTo("/Repo/nvim/init.lua"),
			want:   types.Conflict(types.ReasonForeignSymlink),
		},
		{
			name:    "case_folded_on_case_insensitive_host",
			planner: Planner{FoldCase: true},
			target: types.TargetDescriptor{
				Path:   `C:\Users\u\AppData\Local\nvim`,
				Source: `C:\dotfiles\nvim`,
				Kind:   types.LinkJunction,
			},
			probe: types.SymlinkTo(`c:\DotFiles\nvim\`),
			want:  types.AlreadyLinked(),
		},
		{
			name:   "existing_file_without_backup",
			target: nvimTarget,
			probe:  types.ProbeResult{Kind: types.ProbeFile},
			want:   types.Conflict(types.ReasonExistingFile),
		},
		{
			name:    "existing_file_with_backup",
			planner: Planner{Backup: true},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeFile},
			want:    types.BackupAndLink(),
		},
		{
			name:    "existing_directory_with_backup",
			planner: Planner{Backup: true},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeDirectory},
			want:    types.BackupAndLink(),
		},
		{
			name: "hardlink_already_shared",
			target: types.TargetDescriptor{
				Path: "/t", Source: "/s", Kind: types.LinkHardlink,
			},
			probe: types.ProbeResult{Kind: types.ProbeFile, SameFile: true},
			want:  types.AlreadyLinked(),
		},
		{
			name:   "same_file_ignored_for_symlink_kind",
			target: nvimTarget,
			probe:  types.ProbeResult{Kind: types.ProbeFile, SameFile: true},
			want:   types.Conflict(types.ReasonExistingFile),
		},
		{
			name:    "other_type",
			planner: Planner{Backup: true},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeOther},
			want:    types.Conflict(types.ReasonUnsupportedType),
		},
		{
			name:    "target_is_source",
			planner: Planner{Backup: true},
			target: types.TargetDescriptor{
				Path:   "/home/u/.config/nvim/init.lua",
				Source: "/home/u/.config/nvim/init.lua",
				Kind:   types.LinkSymlink,
			},
			probe: types.ProbeResult{Kind: types.ProbeFile},
			want:  types.Conflict(types.ReasonTargetIsSource),
		},
		{
			name:    "target_is_source_case_folded",
			planner: Planner{Backup: true, FoldCase: true},
			target: types.TargetDescriptor{
				Path:   `C:\Users\u\AppData\Roaming\nvim`,
				Source: `c:\users\U\appdata\roaming\NVIM\`,
				Kind:   types.LinkJunction,
			},
			probe: types.ProbeResult{Kind: types.ProbeDirectory},
			want:  types.Conflict(types.ReasonTargetIsSource),
		},
		{
			name: "target_differs_from_source_by_case_only",
			target: types.TargetDescriptor{
				Path:   "/home/u/Notes",
				Source: "/home/u/notes",
				Kind:   types.LinkSymlink,
			},
			probe: types.Absent(),
			want:  types.CreateLink(),
		},
		{
			name:    "real_parent_inside_repository",
			planner: Planner{Backup: true, Root: "/repo"},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeFile, RealParent: "/repo/nvim"},
			want:    types.Conflict(types.ReasonInsideRepository),
		},
		{
			name:    "real_parent_is_repository",
			planner: Planner{Root: "/repo/"},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeAbsent, RealParent: "/repo"},
			want:    types.Conflict(types.ReasonInsideRepository),
		},
		{
			name:    "real_parent_inside_repository_case_folded",
			planner: Planner{FoldCase: true, Root: `C:\dotfiles`},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeAbsent, RealParent: `c:\DotFiles\nvim`},
			want:    types.Conflict(types.ReasonInsideRepository),
		},
		{
			name:    "sibling_with_common_prefix",
			planner: Planner{Root: "/repo"},
			target:  nvimTarget,
			probe:   types.ProbeResult{Kind: types.ProbeAbsent, RealParent: "/repository/nvim"},
			want:    types.CreateLink(),
		},
		{
			name:    "non_empty_directory_must_stay",
			planner: Planner{Backup: true},
			target: types.TargetDescriptor{
				Path: "/home/u/.config/alacritty", Source: "/repo/alacritty",
				Kind: types.LinkSymlink, IsDir: true, RequireEmpty: true,
			},
			probe: types.ProbeResult{Kind: types.ProbeDirectory},
			want:  types.Conflict(types.ReasonTargetNotEmpty),
		},
		{
			name:    "empty_directory_backed_up",
			planner: Planner{Backup: true},
			target: types.TargetDescriptor{
				Path: "/home/u/.config/alacritty", Source: "/repo/alacritty",
				Kind: types.LinkSymlink, IsDir: true, RequireEmpty: true,
			},
			probe: types.ProbeResult{Kind: types.ProbeDirectory, Empty: true},
			want:  types.BackupAndLink(),
		},
		{
			name:    "non_empty_directory_backed_up_when_allowed",
			planner: Planner{Backup: true},
			target: types.TargetDescriptor{
				Path: "/home/u/.config/alacritty", Source: "/repo/alacritty",
				Kind: types.LinkSymlink, IsDir: true,
			},
			probe: types.ProbeResult{Kind: types.ProbeDirectory},
			want:  types.BackupAndLink(),
		},
		{
			name:   "probe_error",
			target: nvimTarget,
			probe:  types.ProbeFailed(stderrors.New("permission denied")),
			want:   types.Conflict(types.ReasonProbeFailed + ": permission denied"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.planner.Plan(tt.target, tt.probe))
		})
	}
}

func TestNewTakesCaseFoldingFromPlatform(t *testing.T) {
	p := New(types.PlatformInfo{OS: types.PlatformDarwin, CaseInsensitive: true}, "/Users/u/dotfiles", true)
	assert.True(t, p.FoldCase)
	assert.True(t, p.Backup)
	assert.Equal(t, "/Users/u/dotfiles", p.Root)
}

func TestPlanIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	kinds := gen.OneConstOf(
		types.ProbeAbsent, types.ProbeFile, types.ProbeDirectory,
		types.ProbeSymlinkTo, types.ProbeOther,
	)
	linkKinds := gen.OneConstOf(types.LinkSymlink, types.LinkJunction, types.LinkHardlink)
	path := gen.RegexMatch(`/[a-zA-Z]{1,4}(/[a-zA-Z]{1,4}){0,2}`)

	properties.Property("Plan returns the same action for the same inputs", prop.ForAll(
		func(kind types.ProbeKind, link types.LinkKind, dest, source string, same, backup, fold bool) bool {
			p := Planner{Backup: backup, FoldCase: fold}
			target := types.TargetDescriptor{Path: "/t", Source: source, Kind: link}
			probe := types.ProbeResult{Kind: kind, LinkDest: dest, SameFile: same}

			first := p.Plan(target, probe)
			for i := 0; i < 3; i++ {
				if p.Plan(target, probe) != first {
					return false
				}
			}
			return true
		},
		kinds, linkKinds, path, path, gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("only absent targets or backups mutate", prop.ForAll(
		func(kind types.ProbeKind, backup bool) bool {
			action := Planner{Backup: backup}.Plan(nvimTarget, types.ProbeResult{Kind: kind, LinkDest: "/x"})
			if !action.Mutates() {
				return true
			}
			return kind == types.ProbeAbsent || (backup && (kind == types.ProbeFile || kind == types.ProbeDirectory))
		},
		kinds, gen.Bool(),
	))

	properties.Property("a target that is its own source is never touched", prop.ForAll(
		func(kind types.ProbeKind, location string, backup, fold bool) bool {
			target := types.TargetDescriptor{Path: location, Source: location, Kind: types.LinkSymlink}
			action := Planner{Backup: backup, FoldCase: fold}.Plan(target, types.ProbeResult{Kind: kind, LinkDest: location})
			return action == types.Conflict(types.ReasonTargetIsSource)
		},
		kinds, path, gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
