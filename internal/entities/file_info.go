package entities

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EntryKind tells what an enumerated path points at.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindSymlink
	KindOther
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// FileEntry represents a path produced by enumeration. Metadata is read
// lazily on first use and cached for the lifetime of the entry.
type FileEntry struct {
	Path      string
	Name      string
	Kind      EntryKind
	IsSymlink bool

	dirEntry fs.DirEntry
	once     sync.Once
	info     fs.FileInfo
	err      error
}

// NewFileEntry builds an entry from a walk callback. d may be nil, in which
// case metadata comes from os.Stat.
func NewFileEntry(path string, d fs.DirEntry, kind EntryKind, symlink bool) *FileEntry {
	return &FileEntry{
		Path:      path,
		Name:      filepath.Base(path),
		Kind:      kind,
		IsSymlink: symlink,
		dirEntry:  d,
	}
}

// Info returns the entry metadata. Symlinks report their target's metadata.
func (e *FileEntry) Info() (fs.FileInfo, error) {
	e.once.Do(func() {
		if e.dirEntry != nil && !e.IsSymlink {
			e.info, e.err = e.dirEntry.Info()
			return
		}
		e.info, e.err = os.Stat(e.Path)
	})
	return e.info, e.err
}

// Size returns the size in bytes, or 0 when the entry can no longer be stat'ed.
func (e *FileEntry) Size() int64 {
	info, err := e.Info()
	if err != nil {
		return 0
	}
	return info.Size()
}

// ModTime returns the modification time, or the zero time on error.
func (e *FileEntry) ModTime() time.Time {
	info, err := e.Info()
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (e *FileEntry) IsDir() bool { return e.Kind == KindDir }

func (e *FileEntry) String() string { return e.Path }
