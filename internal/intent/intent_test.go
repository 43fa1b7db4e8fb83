package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/roots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoots() roots.Roots {
	return roots.New("/home/u", map[string]string{
		"Desktop":   "/home/u/Desktop",
		"Downloads": "/home/u/Downloads",
		"Documents": "/home/u/Documents",
	})
}

func TestParse(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		prompt string
		want   Command
	}{
		{"list duplicates in Downloads", ListDuplicates{Folder: "/home/u/Downloads"}},
		{"please delete duplicate files in my downloads", DeleteDuplicates{Folder: "/home/u/Downloads"}},
		{"list files in Documents", ListFiles{Folder: "/home/u/Documents"}},
		{"list all files in Documents", ListFiles{Folder: "/home/u/Documents", Recursive: true}},
		{"list folders in /srv/data", ListFolders{Folder: "/srv/data"}},
		{"list folders recursively in /srv/data", ListFolders{Folder: "/srv/data", Recursive: true}},
		{`list files in "/tmp/with space"`, ListFiles{Folder: "/tmp/with space"}},
		{"list files in ~/notes", ListFiles{Folder: "/home/u/notes"}},
		{`move "/tmp/report.pdf" to Desktop`, Move{Source: "/tmp/report.pdf", Destination: "/home/u/Desktop/report.pdf"}},
		{"copy /tmp/a.txt to /tmp/b.txt", Copy{Source: "/tmp/a.txt", Destination: "/tmp/b.txt"}},
		{`copy notes.md to "Documents"`, Copy{
			Source:      filepath.Join(cwd, "notes.md"),
			Destination: "/home/u/Documents/notes.md",
		}},
		{`delete "/tmp/old"`, Delete{Target: "/tmp/old"}},
		{"remove /tmp/old", Delete{Target: "/tmp/old"}},
		{"what time is it", Unknown{Prompt: "what time is it"}},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got, err := Parse(tt.prompt, testRoots())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Action(), got.Action())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		prompt string
		want   error
	}{
		{"list duplicates", ErrMissingFolder},
		{"list files", ErrMissingFolder},
		{`move "/tmp/a"`, ErrMissingPath},
		{`copy to "Desktop"`, ErrMissingPath},
		{"delete", ErrMissingPath},
		{`copy "/tmp/a" to "/tmp/./a"`, entities.ErrSamePath},
		{`move "/home/u/Desktop/x" to Desktop`, entities.ErrSamePath},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got, err := Parse(tt.prompt, testRoots())
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRemoveIsNotMove(t *testing.T) {
	got, err := Parse("remove /tmp/x", roots.Roots{})
	require.NoError(t, err)
	assert.IsType(t, Delete{}, got)
}

func TestCommandSwitchIsExhaustive(t *testing.T) {
	commands := []Command{
		ListFiles{}, ListFolders{}, ListDuplicates{}, DeleteDuplicates{},
		Move{}, Copy{}, Delete{}, Unknown{},
	}
	seen := map[string]bool{}
	for _, c := range commands {
		switch c.(type) {
		case ListFiles, ListFolders, ListDuplicates, DeleteDuplicates, Move, Copy, Delete, Unknown:
			seen[c.Action()] = true
		default:
			t.Fatalf("unhandled command %T", c)
		}
	}
	assert.Len(t, seen, len(commands))
}
