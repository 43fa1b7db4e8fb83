package engine

import "github.com/soyunomas/folderly/internal/entities"

// Summary aggregates a grouping result for reports.
type Summary struct {
	Groups          int   `json:"groups" yaml:"groups"`
	Files           int   `json:"files" yaml:"files"`
	Redundant       int   `json:"redundant" yaml:"redundant"`
	ReclaimableSize int64 `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
}

// Summarize counts members and the bytes that removing every non-keeper
// would free. The byte count is only meaningful for digest groups.
func Summarize[K comparable](groups map[K]*entities.DuplicateGroup) Summary {
	var s Summary
	for _, g := range groups {
		s.Groups++
		s.Files += len(g.Files)
		for _, f := range g.Redundant() {
			s.Redundant++
			s.ReclaimableSize += f.Size()
		}
	}
	return s
}
