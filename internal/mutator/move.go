package mutator

import (
	"context"
	"fmt"
	"os"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/utils"
	"github.com/spf13/afero"
)

func (m *Mutator) move(ctx context.Context, req entities.MutationRequest) error {
	src, dest, err := transferPaths(req)
	if err != nil {
		return err
	}

	// A symlink is moved as a link, so the source is not followed here.
	info, err := m.lstat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return notFound(src)
		}
		return err
	}
	if info.IsDir() && utils.IsWithin(src, dest) {
		return fmt.Errorf("%s: %w", dest, entities.ErrDestinationInsideSource)
	}
	if err := m.clearDestination(dest, req.Overwrite); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = m.fs.Rename(src, dest)
	if err == nil || !isCrossDevice(err) {
		return err
	}
	m.logger.Debug("rename crossed devices, copying instead", "source", src, "destination", dest)
	return m.moveAcrossDevices(ctx, src, dest, info)
}

// moveAcrossDevices copies src to dest and removes src only once the copy
// is complete. On failure the partial dest is removed and src is untouched.
func (m *Mutator) moveAcrossDevices(ctx context.Context, src, dest string, info os.FileInfo) error {
	var err error
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		err = m.relink(src, dest)
	case info.IsDir():
		err = m.copyDir(ctx, src, dest, info.Mode())
	case info.Mode().IsRegular():
		err = m.copyFile(ctx, src, dest, info)
	default:
		err = fmt.Errorf("%s: %w", src, entities.ErrUnsupportedSource)
	}
	if err != nil {
		_ = m.fs.RemoveAll(dest)
		return err
	}
	return m.fs.RemoveAll(src)
}

// relink recreates the symlink src at dest with the same target.
func (m *Mutator) relink(src, dest string) error {
	reader, ok := m.fs.(afero.LinkReader)
	if !ok {
		return fmt.Errorf("%s: %w", src, entities.ErrUnsupportedSource)
	}
	linker, ok := m.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("%s: %w", dest, entities.ErrUnsupportedSource)
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return err
	}
	return linker.SymlinkIfPossible(target, dest)
}
