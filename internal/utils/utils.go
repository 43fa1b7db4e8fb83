package utils

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ByteCountDecimal formats a byte count in SI units (kB, MB, ...).
func ByteCountDecimal(b int64) string {
	if b < 0 {
		return "-" + humanize.Bytes(uint64(-b))
	}
	return humanize.Bytes(uint64(b))
}

// AbsClean returns the cleaned absolute form of path, falling back to the
// cleaned input when the working directory is unavailable.
func AbsClean(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// SamePath reports whether two paths resolve to the same absolute path.
// It does not touch the filesystem.
func SamePath(a, b string) bool {
	return AbsClean(a) == AbsClean(b)
}

// IsWithin reports whether child lies strictly below parent.
func IsWithin(parent, child string) bool {
	rel, err := filepath.Rel(AbsClean(parent), AbsClean(child))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Overlaps reports whether two paths are equal or one contains the other.
func Overlaps(a, b string) bool {
	return SamePath(a, b) || IsWithin(a, b) || IsWithin(b, a)
}
