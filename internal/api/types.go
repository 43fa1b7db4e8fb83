package api

import (
	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/entities"
)

// The response documents below are also what the CLI prints for
// --format json and --format yaml.

type RootEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

type FileEntry struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	Kind      string `json:"kind" yaml:"kind"`
	IsSymlink bool   `json:"is_symlink,omitempty" yaml:"is_symlink,omitempty"`
	Size      int64  `json:"size" yaml:"size"`
	Modified  int64  `json:"modified" yaml:"modified"`
}

type FilesResponse struct {
	Root    string      `json:"root" yaml:"root"`
	Entries []FileEntry `json:"entries" yaml:"entries"`
}

type DuplicateGroup struct {
	Key   string      `json:"key" yaml:"key"`
	Files []FileEntry `json:"files" yaml:"files"`
}

type DuplicatesResponse struct {
	Root      string           `json:"root" yaml:"root"`
	By        string           `json:"by" yaml:"by"`
	Algorithm string           `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Summary   engine.Summary   `json:"summary" yaml:"summary"`
	Groups    []DuplicateGroup `json:"groups" yaml:"groups"`
	RunID     string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

type MutationRequest struct {
	Op          string   `json:"op"`
	Sources     []string `json:"sources"`
	Destination string   `json:"destination,omitempty"`
	Overwrite   bool     `json:"overwrite"`
	Recursive   bool     `json:"recursive"`
	// Confirm is the caller's already-made decision for deletes.
	Confirm bool `json:"confirm"`
}

type MutationOutcome struct {
	Op          string `json:"op" yaml:"op"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Succeeded   bool   `json:"succeeded" yaml:"succeeded"`
	Declined    bool   `json:"declined,omitempty" yaml:"declined,omitempty"`
	Kind        string `json:"kind" yaml:"kind"`
	Reason      string `json:"reason" yaml:"reason"`
}

type MutationResponse struct {
	Results   []MutationOutcome `json:"results" yaml:"results"`
	Succeeded int               `json:"succeeded" yaml:"succeeded"`
	Failed    int               `json:"failed" yaml:"failed"`
	Declined  int               `json:"declined" yaml:"declined"`
}

// NewFilesResponse converts enumerated entries for output.
func NewFilesResponse(root string, entries []*entities.FileEntry) FilesResponse {
	resp := FilesResponse{Root: root, Entries: make([]FileEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = toFileEntry(e)
	}
	return resp
}

// NewDuplicatesResponse converts a detection result for output.
func NewDuplicatesResponse(res engine.Result) DuplicatesResponse {
	resp := DuplicatesResponse{
		Root:      res.Root,
		By:        res.Mode.String(),
		Algorithm: res.Algorithm,
		Summary:   res.Summary,
		Groups:    make([]DuplicateGroup, len(res.Groups)),
	}
	for i, g := range res.Groups {
		files := make([]FileEntry, len(g.Files))
		for j, f := range g.Files {
			files[j] = toFileEntry(f)
		}
		resp.Groups[i] = DuplicateGroup{Key: g.Key.String(), Files: files}
	}
	return resp
}

// NewMutationResponse converts batch results and tallies them. Declined
// items count as declined only, not as succeeded.
func NewMutationResponse(results []entities.MutationResult) MutationResponse {
	resp := MutationResponse{Results: make([]MutationOutcome, len(results))}
	for i, r := range results {
		resp.Results[i] = toOutcome(r)
		switch {
		case r.Declined:
			resp.Declined++
		case r.Succeeded:
			resp.Succeeded++
		default:
			resp.Failed++
		}
	}
	return resp
}

func toFileEntry(f *entities.FileEntry) FileEntry {
	e := FileEntry{
		Name:      f.Name,
		Path:      f.Path,
		Kind:      f.Kind.String(),
		IsSymlink: f.IsSymlink,
		Size:      f.Size(),
	}
	if mod := f.ModTime(); !mod.IsZero() {
		e.Modified = mod.Unix()
	}
	return e
}

func toOutcome(r entities.MutationResult) MutationOutcome {
	return MutationOutcome{
		Op:          r.Request.Op.String(),
		Source:      r.Request.Source,
		Destination: r.Request.Destination,
		Succeeded:   r.Succeeded,
		Declined:    r.Declined,
		Kind:        r.Kind().String(),
		Reason:      r.Reason(),
	}
}
