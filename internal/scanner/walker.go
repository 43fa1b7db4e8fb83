package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/soyunomas/folderly/internal/entities"
)

// Config defines the enumeration rules.
type Config struct {
	Recursive bool     // descender a subdirectorios
	Suffix    string   // extensión exacta, sensible a mayúsculas, ej: ".txt"
	Excludes  []string // Lista de carpetas a ignorar
	Workers   int      // workers de fastwalk en recorridos recursivos
	Logger    *slog.Logger
}

// FileScanner enumerates the entries under a root directory.
type FileScanner struct {
	cfg        Config
	excludeMap map[string]struct{}
	logger     *slog.Logger
}

// New creates a scanner with the given configuration.
func New(cfg Config) *FileScanner {
	exMap := make(map[string]struct{}, len(cfg.Excludes))
	for _, e := range cfg.Excludes {
		exMap[e] = struct{}{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FileScanner{
		cfg:        cfg,
		excludeMap: exMap,
		logger:     logger,
	}
}

// Files lists regular files (and symlinks to them) under root.
func (s *FileScanner) Files(ctx context.Context, root string) ([]*entities.FileEntry, error) {
	return s.collect(ctx, root, func(e *entities.FileEntry) bool {
		return e.Kind == entities.KindFile && s.matchesSuffix(e.Name)
	})
}

// Directories lists directories (and symlinks to them) under root.
func (s *FileScanner) Directories(ctx context.Context, root string) ([]*entities.FileEntry, error) {
	return s.collect(ctx, root, func(e *entities.FileEntry) bool {
		return e.Kind == entities.KindDir
	})
}

// All lists files and directories under root. The suffix filter only
// applies to files.
func (s *FileScanner) All(ctx context.Context, root string) ([]*entities.FileEntry, error) {
	return s.collect(ctx, root, func(e *entities.FileEntry) bool {
		switch e.Kind {
		case entities.KindDir:
			return true
		case entities.KindFile:
			return s.matchesSuffix(e.Name)
		}
		return false
	})
}

// ModifiedBetween lists files whose modification time is strictly after
// `after` and strictly before `before`. Zero bounds are ignored.
func (s *FileScanner) ModifiedBetween(ctx context.Context, root string, after, before time.Time) ([]*entities.FileEntry, error) {
	files, err := s.Files(ctx, root)
	if err != nil {
		return nil, err
	}

	out := files[:0]
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		mt := info.ModTime()
		if !after.IsZero() && !mt.After(after) {
			continue
		}
		if !before.IsZero() && !mt.Before(before) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *FileScanner) matchesSuffix(name string) bool {
	return s.cfg.Suffix == "" || suffixOf(name) == s.cfg.Suffix
}

// suffixOf devuelve la última extensión de name. Los dotfiles (".bashrc")
// y los nombres que terminan en punto no tienen extensión.
func suffixOf(name string) string {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return ""
	}
	return ext
}

func (s *FileScanner) collect(ctx context.Context, root string, keep func(*entities.FileEntry) bool) ([]*entities.FileEntry, error) {
	absRoot, err := ValidateDirectory(root)
	if err != nil {
		return nil, err
	}

	if !s.cfg.Recursive {
		return s.listChildren(ctx, absRoot, keep)
	}
	return s.walk(ctx, absRoot, keep)
}

// listChildren lee solo los hijos directos de root.
func (s *FileScanner) listChildren(ctx context.Context, root string, keep func(*entities.FileEntry) bool) ([]*entities.FileEntry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil && len(dirEntries) == 0 {
		return nil, &entities.ValidationError{Path: root, Err: err}
	}

	var out []*entities.FileEntry
	for _, d := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, ok := classify(filepath.Join(root, d.Name()), d)
		if !ok {
			continue
		}
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// walk recorre root a cualquier profundidad. fastwalk invoca el callback
// desde varias goroutines, así que los appends van serializados.
func (s *FileScanner) walk(ctx context.Context, root string, keep func(*entities.FileEntry) bool) ([]*entities.FileEntry, error) {
	conf := fastwalk.Config{Follow: false, NumWorkers: s.cfg.Workers}

	var (
		mu  sync.Mutex
		out []*entities.FileEntry
	)

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		// 1. Manejo de errores de acceso (permisos, entradas desaparecidas)
		if err != nil {
			s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}

		// 2. Si es directorio, verificamos si debemos ignorarlo
		if d.IsDir() {
			if _, ok := s.excludeMap[d.Name()]; ok {
				return fastwalk.SkipDir
			}
		}

		entry, ok := classify(path, d)
		if !ok || !keep(entry) {
			return nil
		}

		mu.Lock()
		out = append(out, entry)
		mu.Unlock()
		return nil
	}

	err := fastwalk.Walk(&conf, root, walkFn)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// classify resuelve el tipo de la entrada. Los symlinks se clasifican según
// su destino; los rotos devuelven ok=false.
func classify(path string, d fs.DirEntry) (*entities.FileEntry, bool) {
	t := d.Type()
	switch {
	case t.IsDir():
		return entities.NewFileEntry(path, d, entities.KindDir, false), true
	case t.IsRegular():
		return entities.NewFileEntry(path, d, entities.KindFile, false), true
	case t&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return nil, false
		}
		switch {
		case info.IsDir():
			return entities.NewFileEntry(path, d, entities.KindDir, true), true
		case info.Mode().IsRegular():
			return entities.NewFileEntry(path, d, entities.KindFile, true), true
		}
		return entities.NewFileEntry(path, d, entities.KindSymlink, true), true
	default:
		return entities.NewFileEntry(path, d, entities.KindOther, false), true
	}
}
