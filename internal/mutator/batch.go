package mutator

import (
	"context"
	"path/filepath"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/utils"
	"golang.org/x/sync/errgroup"
)

// CopyMany copies every source into destDir under its base name.
func (m *Mutator) CopyMany(ctx context.Context, sources []string, destDir string, overwrite bool) []entities.MutationResult {
	return m.transferMany(ctx, entities.OpCopy, sources, destDir, overwrite)
}

// MoveMany moves every source into destDir under its base name.
func (m *Mutator) MoveMany(ctx context.Context, sources []string, destDir string, overwrite bool) []entities.MutationResult {
	return m.transferMany(ctx, entities.OpMove, sources, destDir, overwrite)
}

// DeleteMany deletes every target. Declines and failures are per item.
func (m *Mutator) DeleteMany(ctx context.Context, targets []string, recursive, confirm bool) []entities.MutationResult {
	reqs := make([]entities.MutationRequest, len(targets))
	for i, target := range targets {
		reqs[i] = entities.MutationRequest{Op: entities.OpDelete, Source: target, Recursive: recursive, Confirm: confirm}
	}
	return m.ApplyAll(ctx, reqs)
}

func (m *Mutator) transferMany(ctx context.Context, op entities.Op, sources []string, destDir string, overwrite bool) []entities.MutationResult {
	reqs := make([]entities.MutationRequest, len(sources))
	for i, src := range sources {
		reqs[i] = entities.MutationRequest{
			Op:          op,
			Source:      src,
			Destination: filepath.Join(destDir, filepath.Base(filepath.Clean(src))),
			Overwrite:   overwrite,
		}
	}

	if err := m.validateDir(destDir); err != nil {
		results := make([]entities.MutationResult, len(reqs))
		for i, req := range reqs {
			results[i] = entities.Failed(req, err)
		}
		m.logger.Warn("batch rejected", "op", op.String(), "destination", destDir, "error", err)
		return results
	}
	return m.ApplyAll(ctx, reqs)
}

// ApplyAll runs every request and returns results in input order. Requests
// whose paths overlap share a lane and run serially in input order; distinct
// lanes run concurrently up to the worker limit. One failure never stops
// another request.
func (m *Mutator) ApplyAll(ctx context.Context, reqs []entities.MutationRequest) []entities.MutationResult {
	results := make([]entities.MutationResult, len(reqs))
	lanes := partition(reqs)

	if m.workers == 1 || len(lanes) < 2 {
		for i, req := range reqs {
			results[i] = m.Apply(ctx, req)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(m.workers)
	for _, lane := range lanes {
		lane := lane
		g.Go(func() error {
			for _, i := range lane {
				results[i] = m.Apply(ctx, reqs[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// partition groups request indexes into lanes of transitively overlapping
// paths. Lanes are ordered by their first index; indexes inside a lane are
// ascending.
func partition(reqs []entities.MutationRequest) [][]int {
	parent := make([]int, len(reqs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := range reqs {
		for j := i + 1; j < len(reqs); j++ {
			if overlapping(reqs[i], reqs[j]) {
				ri, rj := find(i), find(j)
				if ri != rj {
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	var lanes [][]int
	index := make(map[int]int)
	for i := range reqs {
		root := find(i)
		pos, ok := index[root]
		if !ok {
			pos = len(lanes)
			index[root] = pos
			lanes = append(lanes, nil)
		}
		lanes[pos] = append(lanes[pos], i)
	}
	return lanes
}

func overlapping(a, b entities.MutationRequest) bool {
	for _, p := range a.Paths() {
		for _, q := range b.Paths() {
			if utils.Overlaps(p, q) {
				return true
			}
		}
	}
	return false
}
