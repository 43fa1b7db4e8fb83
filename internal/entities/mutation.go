package entities

import "fmt"

// Op is the kind of filesystem mutation requested.
type Op int

const (
	OpCopy Op = iota
	OpMove
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseOp is the inverse of Op.String.
func ParseOp(s string) (Op, error) {
	switch s {
	case "copy":
		return OpCopy, nil
	case "move":
		return OpMove, nil
	case "delete":
		return OpDelete, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// MutationRequest describes one copy, move or delete. Destination is already
// resolved from any named root; it is empty for deletes.
type MutationRequest struct {
	Op          Op
	Source      string
	Destination string
	Overwrite   bool
	Recursive   bool
	Confirm     bool
}

// Paths returns every path the request touches.
func (r MutationRequest) Paths() []string {
	if r.Destination == "" {
		return []string{r.Source}
	}
	return []string{r.Source, r.Destination}
}

// MutationResult is the outcome of one request. A declined confirmation is
// a successful no-op.
type MutationResult struct {
	Request   MutationRequest
	Succeeded bool
	Declined  bool
	Err       error
}

// Reason is a one-line human readable outcome.
func (r MutationResult) Reason() string {
	switch {
	case r.Declined:
		return "declined"
	case r.Succeeded:
		return "ok"
	case r.Err != nil:
		return r.Err.Error()
	default:
		return "failed"
	}
}

// Kind classifies the result for rendering.
func (r MutationResult) Kind() Kind {
	if r.Declined {
		return KindDeclined
	}
	if r.Succeeded {
		return KindNone
	}
	return Classify(r.Err)
}

func Succeeded(req MutationRequest) MutationResult {
	return MutationResult{Request: req, Succeeded: true}
}

func Declined(req MutationRequest) MutationResult {
	return MutationResult{Request: req, Succeeded: true, Declined: true}
}

func Failed(req MutationRequest, err error) MutationResult {
	return MutationResult{Request: req, Err: err}
}
