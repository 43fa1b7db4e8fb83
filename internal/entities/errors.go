package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the scanner, detector and mutator.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the root, source or target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates a path that must be a directory is not one.
	ErrNotADirectory = errors.New("not a directory")

	// ErrSamePath indicates source and destination resolve to the same path.
	ErrSamePath = errors.New("source and destination are the same")

	// ErrDestinationExists indicates the destination exists and overwrite is off.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrDirectoryNotEmpty indicates a non-recursive delete of a non-empty directory.
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrUnsupportedSource indicates a source that is neither a file nor a directory.
	ErrUnsupportedSource = errors.New("source is neither a file nor a directory")

	// ErrDestinationInsideSource indicates a directory copied or moved into itself.
	ErrDestinationInsideSource = errors.New("destination is inside source")

	// ErrSourceInsideDestination indicates a destination that contains the source.
	ErrSourceInsideDestination = errors.New("source is inside destination")
)

// ValidationError reports a root or target that does not exist or has the
// wrong type. It is raised before any enumeration or mutation starts.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Kind groups failures by how callers should treat them.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindPrecondition
	KindIO
	KindDeclined
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindIO:
		return "io"
	case KindDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Classify maps an error onto the failure taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrSamePath),
		errors.Is(err, ErrDestinationExists),
		errors.Is(err, ErrDirectoryNotEmpty),
		errors.Is(err, ErrDestinationInsideSource),
		errors.Is(err, ErrSourceInsideDestination):
		return KindPrecondition
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotADirectory):
		return KindValidation
	default:
		return KindIO
	}
}
