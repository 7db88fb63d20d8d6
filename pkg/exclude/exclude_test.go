package exclude

import (
	"strings"
	"testing"

	"github.com/dottor/dottor/pkg/errors"
	"github.com/dottor/dottor/pkg/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcluded(t *testing.T) {
	f := MustNew([]string{".git/", "nvim/lazy-lock.json", "**/*.swp", "*.bak", "secrets"})

	tests := []struct {
		path string
		want bool
	}{
		{".git", true},
		{".git/config", true},
		{".github/workflows/ci.yml", false},
		{"nvim/lazy-lock.json", true},
		{"nvim/init.lua", false},
		{"nvim/.init.lua.swp", true},
		{"zsh/deep/dir/x.bak", true},
		{"secrets/token", true},
		{"secretsfile", false},
		{"./nvim/lazy-lock.json", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Excluded(tt.path), tt.path)
	}
}

func TestNilAndEmptyFilter(t *testing.T) {
	var f *Filter
	assert.False(t, f.Excluded("anything"))
	assert.Equal(t, 0, f.Len())

	empty := MustNew([]string{"", "  ", "/"})
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Excluded(".git"))
}

func TestInvalidGlob(t *testing.T) {
	_, err := New([]string{"[unclosed"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestApplyKeepsOrder(t *testing.T) {
	entries := []types.RepositoryEntry{
		types.NewRepositoryEntry("nvim/init.lua", 0),
		types.NewRepositoryEntry("nvim/lazy-lock.json", 1),
		types.NewRepositoryEntry("zsh/.zshrc", 2),
		types.NewRepositoryEntry(".git/HEAD", 3),
	}

	kept, removed := MustNew([]string{".git/", "nvim/lazy-lock.json"}).Apply(entries)
	assert.Equal(t, 2, removed)
	require.Len(t, kept, 2)
	assert.Equal(t, "nvim/init.lua", kept[0].Path)
	assert.Equal(t, "zsh/.zshrc", kept[1].Path)
}

func TestScoped(t *testing.T) {
	f, err := Scoped("nvim", []string{"lazy-lock.json", "*.log", "plugin/"})
	require.NoError(t, err)

	assert.True(t, f.Excluded("nvim/lazy-lock.json"))
	assert.True(t, f.Excluded("nvim/a/b/debug.log"))
	assert.True(t, f.Excluded("nvim/plugin/packer.lua"))
	assert.False(t, f.Excluded("zsh/lazy-lock.json"))
	assert.False(t, f.Excluded("nvim/init.lua"))
}

func TestExclusionCompletenessProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	segment := gen.RegexMatch(`[a-z]{1,6}`)

	properties.Property("every path below an excluded prefix is excluded", prop.ForAll(
		func(prefix, a, b string) bool {
			f := MustNew([]string{prefix + "/"})
			return f.Excluded(prefix) &&
				f.Excluded(prefix+"/"+a) &&
				f.Excluded(prefix+"/"+a+"/"+b)
		},
		segment, segment, segment,
	))

	properties.Property("Apply never returns an excluded entry", prop.ForAll(
		func(prefix string, names []string) bool {
			f := MustNew([]string{prefix + "/"})
			var entries []types.RepositoryEntry
			for i, n := range names {
				entries = append(entries, types.NewRepositoryEntry(n+"/"+prefix, i))
				entries = append(entries, types.NewRepositoryEntry(prefix+"/"+n, i))
			}
			kept, removed := f.Apply(entries)
			for _, e := range kept {
				if strings.HasPrefix(e.Path, prefix+"/") {
					return false
				}
			}
			return removed >= len(names) && len(kept)+removed == len(entries)
		},
		segment, gen.SliceOf(segment),
	))

	properties.TestingRun(t)
}

func TestMerge(t *testing.T) {
	root := MustNew([]string{".git/"})
	scoped, err := Scoped("nvim", []string{"lazy-lock.json"})
	require.NoError(t, err)

	f := Merge(root, nil, scoped)
	assert.Equal(t, 2, f.Len())
	assert.True(t, f.Excluded(".git/HEAD"))
	assert.True(t, f.Excluded("nvim/lazy-lock.json"))
	assert.False(t, f.Excluded("zsh/lazy-lock.json"))
}
