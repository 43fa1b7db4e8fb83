package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyunomas/folderly/internal/entities"
)

// Result is one grouping flattened into presentation order.
type Result struct {
	Root      string
	Mode      entities.KeyKind
	Algorithm string // set for digest groupings only
	Groups    []*entities.DuplicateGroup
	Summary   Summary
}

// ParseMode maps "name", "size" or "digest" onto a key kind. Empty means
// digest.
func ParseMode(s string) (entities.KeyKind, error) {
	switch strings.ToLower(s) {
	case "name":
		return entities.KeyName, nil
	case "size":
		return entities.KeySize, nil
	case "", "digest", "hash", "content":
		return entities.KeyDigest, nil
	}
	return 0, fmt.Errorf("unknown grouping %q (want name, size or digest)", s)
}

// Detect runs the grouping for mode and arranges keepers with keep.
func (d *Detector) Detect(ctx context.Context, mode entities.KeyKind, keep KeepStrategy) (Result, error) {
	switch mode {
	case entities.KeyName:
		groups, err := d.GroupByName(ctx)
		if err != nil {
			return Result{}, err
		}
		return newResult(d.root, mode, "", groups, keep), nil
	case entities.KeySize:
		groups, err := d.GroupBySize(ctx)
		if err != nil {
			return Result{}, err
		}
		return newResult(d.root, mode, "", groups, keep), nil
	case entities.KeyDigest:
		groups, err := d.GroupByDigest(ctx)
		if err != nil {
			return Result{}, err
		}
		return newResult(d.root, mode, string(d.opts.Algorithm), groups, keep), nil
	}
	return Result{}, fmt.Errorf("unsupported grouping %v", mode)
}

func newResult[K comparable](root string, mode entities.KeyKind, alg string, groups map[K]*entities.DuplicateGroup, keep KeepStrategy) Result {
	Arrange(groups, keep)
	return Result{
		Root:      root,
		Mode:      mode,
		Algorithm: alg,
		Groups:    entities.SortedGroups(groups),
		Summary:   Summarize(groups),
	}
}

// Redundant lists every non-keeper path in presentation order.
func (r Result) Redundant() []string {
	var out []string
	for _, g := range r.Groups {
		for _, f := range g.Redundant() {
			out = append(out, f.Path)
		}
	}
	return out
}
