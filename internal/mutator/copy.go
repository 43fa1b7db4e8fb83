package mutator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/utils"
	"github.com/spf13/afero"
)

func (m *Mutator) copy(ctx context.Context, req entities.MutationRequest) error {
	src, dest, err := transferPaths(req)
	if err != nil {
		return err
	}

	info, err := m.sourceInfo(src)
	if err != nil {
		return err
	}
	if info.IsDir() && utils.IsWithin(src, dest) {
		return fmt.Errorf("%s: %w", dest, entities.ErrDestinationInsideSource)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", src, entities.ErrUnsupportedSource)
	}
	if err := m.clearDestination(dest, req.Overwrite); err != nil {
		return err
	}

	if info.IsDir() {
		err = m.copyDir(ctx, src, dest, info.Mode())
	} else {
		err = m.copyFile(ctx, src, dest, info)
	}
	if err != nil {
		// dest did not exist before this call, so the partial copy is ours.
		_ = m.fs.RemoveAll(dest)
		return err
	}
	return nil
}

// sourceInfo stats src following symlinks. A link whose target is gone is
// an unsupported source, not a missing one.
func (m *Mutator) sourceInfo(src string) (os.FileInfo, error) {
	info, err := m.fs.Stat(src)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if _, lerr := m.lstat(src); lerr == nil {
		return nil, fmt.Errorf("%s: %w", src, entities.ErrUnsupportedSource)
	}
	return nil, notFound(src)
}

// copyFile copies content, permission bits and modification time.
func (m *Mutator) copyFile(ctx context.Context, src, dest string, info os.FileInfo) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := m.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if err := copyChunks(ctx, out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := m.fs.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return m.fs.Chtimes(dest, info.ModTime(), info.ModTime())
}

func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// copyDir recreates the tree under src at dest. Symlinks are followed.
func (m *Mutator) copyDir(ctx context.Context, src, dest string, mode fs.FileMode) error {
	if err := m.fs.MkdirAll(dest, mode.Perm()|0o700); err != nil {
		return err
	}
	entries, err := afero.ReadDir(m.fs, src)
	if err != nil {
		return err
	}
	for _, info := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		from, to := filepath.Join(src, info.Name()), filepath.Join(dest, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			if info, err = m.fs.Stat(from); err != nil {
				return fmt.Errorf("%s: %w", from, entities.ErrUnsupportedSource)
			}
		}
		switch {
		case info.IsDir():
			err = m.copyDir(ctx, from, to, info.Mode())
		case info.Mode().IsRegular():
			err = m.copyFile(ctx, from, to, info)
		default:
			err = fmt.Errorf("%s: %w", from, entities.ErrUnsupportedSource)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
