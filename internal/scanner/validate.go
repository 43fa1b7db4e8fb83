package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soyunomas/folderly/internal/entities"
)

// ValidateDirectory checks that path exists and is a directory, and returns
// its absolute form. This is the only authoritative existence/type check;
// everything else assumes it already passed.
func ValidateDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &entities.ValidationError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &entities.ValidationError{Path: path, Err: entities.ErrNotFound}
		}
		return "", &entities.ValidationError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return "", &entities.ValidationError{Path: path, Err: entities.ErrNotADirectory}
	}
	return abs, nil
}
