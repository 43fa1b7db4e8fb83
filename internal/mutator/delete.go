package mutator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/utils"
)

// delete reports declined=true when the confirmer said no; nothing is
// touched in that case.
func (m *Mutator) delete(ctx context.Context, req entities.MutationRequest) (bool, error) {
	target := utils.AbsClean(req.Source)

	info, err := m.lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, notFound(target)
	}
	if err != nil {
		return false, err
	}

	if req.Confirm && (m.confirm == nil || !m.confirm.Confirm(ctx, req)) {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	switch {
	case !info.IsDir():
		return false, m.fs.Remove(target)
	case req.Recursive:
		return false, m.fs.RemoveAll(target)
	}

	empty, err := m.isEmptyDir(target)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, fmt.Errorf("%s: %w", target, entities.ErrDirectoryNotEmpty)
	}
	return false, m.fs.Remove(target)
}

func (m *Mutator) isEmptyDir(path string) (bool, error) {
	dir, err := m.fs.Open(path)
	if err != nil {
		return false, err
	}
	defer dir.Close()

	_, err = dir.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
