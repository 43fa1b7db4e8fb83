package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func detect(t *testing.T) (string, engine.Result) {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{"a": "same", "b": "same", "c": "other", "d": "other", "e": "solo"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	res, err := engine.New(root, engine.Options{}).Detect(context.Background(), entities.KeyDigest, engine.KeepFirst)
	require.NoError(t, err)
	return root, res
}

func TestSaveGetRoundTrip(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()
	root, res := detect(t)

	run := NewRun(res)
	require.Len(t, run.Groups, 2)
	assert.Equal(t, engine.Summary{Groups: 2, Files: 4, Redundant: 2, ReclaimableSize: 9}, run.Summary)

	id, err := a.Save(ctx, run)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := a.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, root, got.Root)
	assert.Equal(t, "digest", got.Mode)
	assert.Equal(t, "sha256", got.Algorithm)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, run.Groups, got.Groups)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Second)
}

func TestList(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	runs, err := a.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	older := Run{CreatedAt: time.Now().Add(-time.Hour).UTC(), Root: "/old", Mode: "name"}
	newer := Run{CreatedAt: time.Now().UTC(), Root: "/new", Mode: "size"}
	_, err = a.Save(ctx, older)
	require.NoError(t, err)
	_, err = a.Save(ctx, newer)
	require.NoError(t, err)

	runs, err = a.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "/new", runs[0].Root)
	assert.Equal(t, "/old", runs[1].Root)
	assert.Empty(t, runs[0].Groups)
}

func TestGetAndDeleteUnknown(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	_, err := a.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, a.Delete(ctx, "missing"), ErrRunNotFound)

	id, err := a.Save(ctx, Run{Root: "/x", Mode: "name", Groups: []Group{{Key: "k", Members: []Member{{Path: "/x/k"}, {Path: "/x/y/k"}}}}})
	require.NoError(t, err)
	require.NoError(t, a.Delete(ctx, id))
	_, err = a.Get(ctx, id)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := Open(path)
	require.NoError(t, err)
	id, err := a.Save(context.Background(), Run{Root: "/r", Mode: "digest"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "/r", got.Root)
	assert.Equal(t, path, b.Path())
}
