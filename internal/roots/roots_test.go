package roots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDirs(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "Music"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(home, "Downloads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "Desktop"), nil, 0o644)) // a file, not a folder

	r := UserDirs(home)
	assert.Equal(t, []string{"Downloads", "Music"}, r.Names())
	assert.Equal(t, home, r.Home())

	p, ok := r.Lookup("downloads")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "Downloads"), p)

	_, ok = r.Lookup("Desktop")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	r := New(home, map[string]string{"Documents": filepath.Join(home, "Documents")})

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		arg, want string
	}{
		{"DOCUMENTS", filepath.Join(home, "Documents")},
		{"~", home},
		{"~/notes/a.txt", filepath.Join(home, "notes", "a.txt")},
		{"/abs/./path", "/abs/path"},
		{"rel/x", filepath.Join(cwd, "rel", "x")},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.arg))
		})
	}
}

func TestMatch(t *testing.T) {
	r := New("/home/u", map[string]string{
		"Projects":  "/home/u/Projects",
		"Downloads": "/home/u/Downloads",
	})
	assert.Equal(t, []string{"Downloads", "Projects"}, r.Names())

	name, path, ok := r.Match("list duplicates in my downloads please")
	require.True(t, ok)
	assert.Equal(t, "Downloads", name)
	assert.Equal(t, "/home/u/Downloads", path)

	_, _, ok = r.Match("list files in music")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"Projects": "/home/u/Projects", "Downloads": "/home/u/Downloads"}, r.Map())
}

func TestZeroValue(t *testing.T) {
	var r Roots
	assert.Zero(t, r.Len())
	_, ok := r.Lookup("Desktop")
	assert.False(t, ok)
	assert.Equal(t, "/x", r.Resolve("/x"))
}
