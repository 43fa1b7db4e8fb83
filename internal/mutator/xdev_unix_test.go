//go:build unix

package mutator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// crossDeviceFs fails every rename the way rename(2) does across mounts.
type crossDeviceFs struct {
	afero.Fs
}

func (crossDeviceFs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: unix.EXDEV}
}

func TestMoveAcrossDevicesFallsBackToCopy(t *testing.T) {
	root := t.TempDir()
	file := write(t, root, "src/file", "file body")
	dir := filepath.Join(root, "src", "dir")
	write(t, dir, "nested/inner", "inner body")
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	m := New(Options{FS: crossDeviceFs{Fs: afero.NewOsFs()}})
	results := m.MoveMany(context.Background(), []string{file, dir}, dest, false)
	for _, r := range results {
		require.True(t, r.Succeeded, r.Reason())
	}

	assert.NoFileExists(t, file)
	assert.NoDirExists(t, dir)
	assert.Equal(t, "file body", read(t, filepath.Join(dest, "file")))
	assert.Equal(t, "inner body", read(t, filepath.Join(dest, "dir", "nested", "inner")))
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, isCrossDevice(&os.LinkError{Err: unix.EXDEV}))
	assert.False(t, isCrossDevice(&os.LinkError{Err: unix.EPERM}))
	assert.False(t, isCrossDevice(nil))
}
