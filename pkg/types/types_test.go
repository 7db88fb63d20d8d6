package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositoryEntry(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantPath string
		wantName string
		wantRel  string
	}{
		{"nested", "nvim/init.lua", "nvim/init.lua", "nvim", "init.lua"},
		{"deep", "nvim/lua/plugins.lua", "nvim/lua/plugins.lua", "nvim", "lua/plugins.lua"},
		{"leading_dot_slash", "./git/config", "git/config", "git", "config"},
		{"top_level", "gitconfig", "gitconfig", "gitconfig", "gitconfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewRepositoryEntry(tt.path, 3)
			assert.Equal(t, tt.wantPath, e.Path)
			assert.Equal(t, tt.wantName, e.Name)
			assert.Equal(t, tt.wantRel, e.ConfigRelPath())
			assert.Equal(t, 3, e.Index)
		})
	}
}

func TestAppliesTo(t *testing.T) {
	tests := []struct {
		platform string
		goos     string
		want     bool
	}{
		{PlatformAny, "windows", true},
		{PlatformLinux, "linux", true},
		{PlatformLinux, "darwin", false},
		{PlatformUnix, "darwin", true},
		{PlatformUnix, "windows", false},
		{PlatformWindows, "windows", true},
		{"linux, darwin", "darwin", true},
		{"linux,darwin", "windows", false},
	}

	for _, tt := range tests {
		e := RepositoryEntry{Path: "x", Platform: tt.platform}
		assert.Equal(t, tt.want, e.AppliesTo(tt.goos), "%s on %s", tt.platform, tt.goos)
	}
}

func TestPlatformInfoGetenv(t *testing.T) {
	p := PlatformInfo{
		Env:          map[string]string{"HOME": "/home/u", "EMPTY": ""},
		KnownFolders: map[string]string{"APPDATA": `C:\Users\u\AppData\Roaming`},
	}

	v, ok := p.Getenv("HOME")
	assert.True(t, ok)
	assert.Equal(t, "/home/u", v)

	v, ok = p.Getenv("APPDATA")
	assert.True(t, ok)
	assert.Equal(t, `C:\Users\u\AppData\Roaming`, v)

	_, ok = p.Getenv("EMPTY")
	assert.False(t, ok)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "create_link", CreateLink().String())
	assert.Equal(t, "conflict(foreign symlink)", Conflict(ReasonForeignSymlink).String())
	assert.True(t, BackupAndLink().Mutates())
	assert.False(t, AlreadyLinked().Mutates())
	assert.False(t, Conflict(ReasonExistingFile).Mutates())
}

func TestRunReportSummaryAndOrder(t *testing.T) {
	r := RunReport{Results: []EntryResult{
		{Entry: RepositoryEntry{Index: 2}, Outcome: Outcome{State: OutcomeFailed}},
		{Entry: RepositoryEntry{Index: 0}, Outcome: Outcome{State: OutcomeLinked, Mutated: true}},
		{Entry: RepositoryEntry{Index: 1}, Outcome: Outcome{State: OutcomeSkipped}},
	}}

	r.SortByIndex()
	for i, res := range r.Results {
		assert.Equal(t, i, res.Entry.Index)
	}

	s := r.Summary()
	assert.Equal(t, Summary{Total: 3, Linked: 1, Skipped: 1, Failed: 1, Mutations: 1}, s)
	assert.True(t, r.HasFailures())
	assert.True(t, OutcomeLinked.Terminal())
	assert.False(t, OutcomePending.Terminal())
}

func TestMissingDependencies(t *testing.T) {
	report := RunReport{Dependencies: []Dependency{
		{Config: "nvim", Kind: "system", Name: "nvim", Found: true},
		{Config: "nvim", Kind: "system", Name: "ripgrep", Optional: true},
		{Config: "nvim", Kind: "local", Name: "lua"},
	}}
	assert.Equal(t, 1, report.MissingDependencies())
	assert.Zero(t, RunReport{}.MissingDependencies())
}
