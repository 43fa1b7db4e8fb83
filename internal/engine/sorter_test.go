package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrange(t *testing.T) {
	root := t.TempDir()
	short := write(t, root, "a", "dup")
	long := write(t, root, "deep/er/b", "dup")
	mid := write(t, root, "mid/c", "dup")

	now := time.Now()
	require.NoError(t, os.Chtimes(short, now, now))
	require.NoError(t, os.Chtimes(long, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(mid, now.Add(-time.Hour), now.Add(-time.Hour)))

	tests := []struct {
		strategy KeepStrategy
		keeper   string
	}{
		{KeepShortestPath, short},
		{KeepLongestPath, long},
		{KeepOldest, long},
		{KeepNewest, short},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			groups, err := New(root, Options{Recursive: true}).GroupByDigest(context.Background())
			require.NoError(t, err)
			require.Len(t, groups, 1)

			Arrange(groups, tt.strategy)
			for _, g := range groups {
				assert.Equal(t, tt.keeper, g.Keeper().Path)
				assert.Len(t, g.Files, 3)
			}
		})
	}
}

func TestArrangeKeepFirstLeavesOrder(t *testing.T) {
	files := []*entities.FileEntry{
		entities.NewFileEntry("/z/long/path", nil, entities.KindFile, false),
		entities.NewFileEntry("/a", nil, entities.KindFile, false),
	}
	groups := map[string]*entities.DuplicateGroup{"k": {Files: append([]*entities.FileEntry(nil), files...)}}

	Arrange(groups, KeepFirst)
	assert.Equal(t, files, groups["k"].Files)
}

func TestArrangeNeverKeepsLinkOverRegular(t *testing.T) {
	for _, s := range []KeepStrategy{KeepFirst, KeepShortestPath} {
		t.Run(s.String(), func(t *testing.T) {
			link := entities.NewFileEntry("/a", nil, entities.KindFile, true)
			other := entities.NewFileEntry("/b/link", nil, entities.KindFile, true)
			real := entities.NewFileEntry("/z/real/file", nil, entities.KindFile, false)
			groups := map[string]*entities.DuplicateGroup{"k": {Files: []*entities.FileEntry{link, other, real}}}

			Arrange(groups, s)
			assert.Same(t, real, groups["k"].Keeper())
			assert.Len(t, groups["k"].Files, 3)
		})
	}

	links := []*entities.FileEntry{
		entities.NewFileEntry("/a", nil, entities.KindFile, true),
		entities.NewFileEntry("/b", nil, entities.KindFile, true),
	}
	groups := map[string]*entities.DuplicateGroup{"k": {Files: append([]*entities.FileEntry(nil), links...)}}
	Arrange(groups, KeepFirst)
	assert.Equal(t, links, groups["k"].Files)
}

func TestDetectKeepsLinkTarget(t *testing.T) {
	root := t.TempDir()
	real := write(t, root, "z_real.txt", "payload")
	link := filepath.Join(root, "a_link.txt")
	require.NoError(t, os.Symlink(real, link))

	res, err := New(root, Options{Recursive: true}).Detect(context.Background(), entities.KeyDigest, KeepFirst)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, real, res.Groups[0].Keeper().Path)
	assert.Equal(t, []string{link}, res.Redundant())
}

func TestParseKeepStrategy(t *testing.T) {
	for _, s := range []KeepStrategy{KeepFirst, KeepShortestPath, KeepLongestPath, KeepOldest, KeepNewest} {
		got, err := ParseKeepStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseKeepStrategy("biggest")
	assert.Error(t, err)
}

func TestRedundant(t *testing.T) {
	groups := map[string]*entities.DuplicateGroup{
		"bb": {Key: entities.NameKey("bb"), Files: []*entities.FileEntry{
			entities.NewFileEntry("/1/bb", nil, entities.KindFile, false),
			entities.NewFileEntry("/2/bb", nil, entities.KindFile, false),
		}},
		"aa": {Key: entities.NameKey("aa"), Files: []*entities.FileEntry{
			entities.NewFileEntry("/1/aa", nil, entities.KindFile, false),
			entities.NewFileEntry("/2/aa", nil, entities.KindFile, false),
			entities.NewFileEntry("/3/aa", nil, entities.KindFile, false),
		}},
	}

	assert.Equal(t, []string{"/2/aa", "/3/aa", "/2/bb"}, Redundant(groups))
}
