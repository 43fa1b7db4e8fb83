package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func names(g *entities.DuplicateGroup) []string {
	out := make([]string, len(g.Files))
	for i, f := range g.Files {
		out[i] = f.Name
	}
	return out
}

// membership flattens groups into sorted path sets for order-free comparison.
func membership[K comparable](groups map[K]*entities.DuplicateGroup) [][]string {
	var out [][]string
	for _, g := range groups {
		paths := g.Paths()
		sort.Strings(paths)
		out = append(out, paths)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func TestGroupByDigestScenario(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "hello")
	write(t, root, "b.txt", "hello")
	write(t, root, "c.txt", "world")

	groups, err := New(root, Options{}).GroupByDigest(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)

	sum := sha256.Sum256([]byte("hello"))
	key := hex.EncodeToString(sum[:])
	g, ok := groups[key]
	require.True(t, ok, "group keyed by sha256(hello)")
	assert.Equal(t, []string{"a.txt", "b.txt"}, names(g))
	assert.Equal(t, entities.KeyDigest, g.Key.Kind)
	assert.Equal(t, key, g.Key.String())
	assert.Equal(t, "a.txt", g.Keeper().Name)
}

func TestGroupByDigestContent(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "one.bin", "same bytes")
	b := write(t, root, "sub/two.dat", "same bytes")
	write(t, root, "three.bin", "diff bytes") // same size, different content
	write(t, root, "lonely.bin", "unique content here")

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(b, old, old))

	groups, err := New(root, Options{Recursive: true}).GroupByDigest(context.Background())
	require.NoError(t, err)

	want := []string{a, b}
	sort.Strings(want)
	assert.Equal(t, [][]string{want}, membership(groups))
	for _, g := range groups {
		assert.GreaterOrEqual(t, len(g.Files), 2)
	}
}

func TestGroupByDigestIdempotent(t *testing.T) {
	root := t.TempDir()
	for i, content := range []string{"x", "x", "y", "y", "y", "z", ""} {
		write(t, root, filepath.Join("d", string(rune('a'+i))), content)
	}

	d := New(root, Options{Recursive: true, Workers: 3})
	ctx := context.Background()

	first, err := d.GroupByDigest(ctx)
	require.NoError(t, err)
	second, err := d.GroupByDigest(ctx)
	require.NoError(t, err)

	assert.Equal(t, membership(first), membership(second))
	assert.Len(t, first, 2)
}

func TestGroupByDigestPrefilterSameMembership(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, hasher.PreHashSize+10)
	write(t, root, "big1", string(big))
	write(t, root, "big2", string(big))
	big[len(big)-1] = 1
	write(t, root, "big3", string(big)) // same size and prefix, different tail
	write(t, root, "s1", "short")
	write(t, root, "s2", "short")
	write(t, root, "s3", "other")

	ctx := context.Background()
	plain, err := New(root, Options{}).GroupByDigest(ctx)
	require.NoError(t, err)
	filtered, err := New(root, Options{Prefilter: true}).GroupByDigest(ctx)
	require.NoError(t, err)

	assert.Equal(t, membership(plain), membership(filtered))
	assert.Len(t, filtered, 2)
}

func TestGroupByDigestAlgorithms(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a", "hello")
	write(t, root, "b", "hello")
	write(t, root, "c", "world")

	ctx := context.Background()
	sha, err := New(root, Options{}).GroupByDigest(ctx)
	require.NoError(t, err)
	xx, err := New(root, Options{Algorithm: hasher.XXHash64}).GroupByDigest(ctx)
	require.NoError(t, err)

	assert.Equal(t, membership(sha), membership(xx))
	for k, g := range xx {
		assert.Len(t, k, 16)
		assert.Equal(t, string(hasher.XXHash64), g.Key.Algorithm)
	}

	_, err = New(root, Options{Algorithm: "nope"}).GroupByDigest(ctx)
	assert.ErrorIs(t, err, hasher.ErrUnknownAlgorithm)
}

type failingOpenFs struct {
	afero.Fs
	fail string
}

func (f failingOpenFs) Open(name string) (afero.File, error) {
	if name == f.fail {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func TestGroupByDigestSkipsUnreadable(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a", "dup")
	b := write(t, root, "b", "dup")
	c := write(t, root, "c", "dup")

	var skipped []string
	d := New(root, Options{
		FS:     failingOpenFs{Fs: afero.NewOsFs(), fail: b},
		OnSkip: func(path string, err error) { skipped = append(skipped, path) },
	})

	groups, err := d.GroupByDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{a, c}}, membership(groups))
	assert.Equal(t, []string{b}, skipped)
}

func TestGroupByDigestAllUnreadable(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a", "dup")
	write(t, root, "b", "other")

	d := New(root, Options{FS: failingOpenFs{Fs: afero.NewOsFs(), fail: a}})
	groups, err := d.GroupByDigest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupByName(t *testing.T) {
	root := t.TempDir()
	write(t, root, "report.txt", "1")
	write(t, root, "x/report.txt", "2")
	write(t, root, "x/y/report.txt", "3")
	write(t, root, "notes.txt", "4")

	groups, err := New(root, Options{Recursive: true}).GroupByName(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups["report.txt"].Files, 3)
	assert.Equal(t, "report.txt", groups["report.txt"].Key.String())

	flat, err := New(root, Options{}).GroupByName(context.Background())
	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestGroupBySize(t *testing.T) {
	root := t.TempDir()
	write(t, root, "empty1", "")
	write(t, root, "empty2", "")
	write(t, root, "abc", "abc")
	write(t, root, "xyz", "xyz")
	write(t, root, "four", "four")

	groups, err := New(root, Options{}).GroupBySize(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"empty1", "empty2"}, names(groups[0]))
	assert.Equal(t, []string{"abc", "xyz"}, names(groups[3]))
}

func TestGroupingRejectsMissingRoot(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), Options{})
	ctx := context.Background()

	_, err := d.GroupByDigest(ctx)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = d.GroupByName(ctx)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = d.GroupBySize(ctx)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a", "12345")
	write(t, root, "b", "12345")
	write(t, root, "c", "12345")

	groups, err := New(root, Options{}).GroupByDigest(context.Background())
	require.NoError(t, err)

	s := Summarize(groups)
	assert.Equal(t, Summary{Groups: 1, Files: 3, Redundant: 2, ReclaimableSize: 10}, s)
}
