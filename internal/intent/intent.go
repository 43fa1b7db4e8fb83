// Package intent turns a short free-text request ("list duplicates in
// Downloads", `move "report.pdf" to Desktop`) into a Command.
package intent

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/soyunomas/folderly/internal/entities"
	"github.com/soyunomas/folderly/internal/roots"
	"github.com/soyunomas/folderly/internal/utils"
)

var (
	// ErrMissingFolder indicates a listing or duplicate request without a folder.
	ErrMissingFolder = errors.New("please name a folder (e.g. Desktop, Downloads, Documents)")

	// ErrMissingPath indicates a transfer or delete without enough paths.
	ErrMissingPath = errors.New("please name the source and the destination")
)

// Command is one of the request variants below.
type Command interface {
	// Action is a stable identifier for logs and JSON output.
	Action() string
	command()
}

type ListFiles struct {
	Folder    string
	Recursive bool
}

type ListFolders struct {
	Folder    string
	Recursive bool
}

type ListDuplicates struct{ Folder string }

type DeleteDuplicates struct{ Folder string }

type Move struct{ Source, Destination string }

type Copy struct{ Source, Destination string }

type Delete struct{ Target string }

// Unknown is returned for prompts that match no action.
type Unknown struct{ Prompt string }

func (ListFiles) Action() string        { return "list_files" }
func (ListFolders) Action() string      { return "list_folders" }
func (ListDuplicates) Action() string   { return "list_duplicates" }
func (DeleteDuplicates) Action() string { return "delete_duplicates" }
func (Move) Action() string             { return "move_file" }
func (Copy) Action() string             { return "copy_file" }
func (Delete) Action() string           { return "delete_file" }
func (Unknown) Action() string          { return "unknown" }

func (ListFiles) command()        {}
func (ListFolders) command()      {}
func (ListDuplicates) command()   {}
func (DeleteDuplicates) command() {}
func (Move) command()             {}
func (Copy) command()             {}
func (Delete) command()           {}
func (Unknown) command()          {}

// keywordRes match a keyword at the start of a word, so "duplicates"
// counts as "duplicate" but "remove" does not count as "move".
var keywordRes = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, w := range []string{"list", "duplicate", "delete", "remove", "move", "copy", "folder", "recursive", "all"} {
		out[w] = regexp.MustCompile(`\b` + w)
	}
	return out
}()

var (
	quotedRe       = regexp.MustCompile(`"([^"]+)"`)
	quotedFolderRe = regexp.MustCompile(`(?i)\bin\s+"([^"]+)"`)
	folderRe       = regexp.MustCompile(`(?i)\bin\s+([\w\-./~ ]+)`)
	quotedDestRe   = regexp.MustCompile(`(?i)\bto\s+"([^"]+)"`)
	destRe         = regexp.MustCompile(`(?i)\bto\s+([\w\-./~ ]+)`)
	sourceRes      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfrom\s+([^\s"]+)`),
		regexp.MustCompile(`(?i)\bmove\s+([^\s"]+)`),
		regexp.MustCompile(`(?i)\bcopy\s+([^\s"]+)`),
		regexp.MustCompile(`(?i)\b(?:delete|remove)\s+([^\s"]+)`),
	}
)

type action int

const (
	actUnknown action = iota
	actListDuplicates
	actDeleteDuplicates
	actMove
	actCopy
	actDelete
	actListFolders
	actListFiles
)

// classify picks the action by keyword. Earlier rules win, so "delete
// duplicates" is never read as a plain delete.
func classify(lower string) (action, bool) {
	has := func(word string) bool { return keywordRes[word].MatchString(lower) }
	recursive := has("recursive") || has("all")
	switch {
	case has("list") && has("duplicate"):
		return actListDuplicates, false
	case has("delete") && has("duplicate"):
		return actDeleteDuplicates, false
	case has("move"):
		return actMove, false
	case has("copy"):
		return actCopy, false
	case has("delete"), has("remove"):
		return actDelete, false
	case has("list") && has("folder"):
		return actListFolders, recursive
	case has("list"):
		return actListFiles, recursive
	}
	return actUnknown, false
}

// Parse resolves prompt against the named roots. Paths in the result are
// absolute. Parse does not check that any path exists.
func Parse(prompt string, r roots.Roots) (Command, error) {
	lower := strings.ToLower(prompt)
	act, recursive := classify(lower)

	source := extractSource(prompt)
	dest := extractDestination(prompt)
	if dest != "" {
		if root, ok := r.Lookup(dest); ok {
			if source != "" {
				dest = filepath.Join(root, filepath.Base(source))
			} else {
				dest = root
			}
		} else {
			dest = r.Resolve(dest)
		}
	}
	if source != "" {
		source = r.Resolve(source)
	}
	if source != "" && dest != "" && utils.SamePath(source, dest) {
		return nil, fmt.Errorf("%s: %w", source, entities.ErrSamePath)
	}

	switch act {
	case actListDuplicates, actDeleteDuplicates, actListFolders, actListFiles:
		folder := extractFolder(prompt, r)
		if folder == "" {
			return nil, ErrMissingFolder
		}
		switch act {
		case actListDuplicates:
			return ListDuplicates{Folder: folder}, nil
		case actDeleteDuplicates:
			return DeleteDuplicates{Folder: folder}, nil
		case actListFolders:
			return ListFolders{Folder: folder, Recursive: recursive}, nil
		default:
			return ListFiles{Folder: folder, Recursive: recursive}, nil
		}
	case actMove, actCopy:
		if source == "" || dest == "" {
			return nil, ErrMissingPath
		}
		if act == actMove {
			return Move{Source: source, Destination: dest}, nil
		}
		return Copy{Source: source, Destination: dest}, nil
	case actDelete:
		if source == "" {
			return nil, fmt.Errorf("please name the file or folder to delete: %w", ErrMissingPath)
		}
		return Delete{Target: source}, nil
	}
	return Unknown{Prompt: prompt}, nil
}

// extractSource prefers the first quoted string that is not the
// destination, then the word after one of the verbs.
func extractSource(prompt string) string {
	prompt = quotedDestRe.ReplaceAllString(prompt, "")
	if m := quotedRe.FindStringSubmatch(prompt); m != nil {
		return m[1]
	}
	for _, re := range sourceRes {
		if m := re.FindStringSubmatch(prompt); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractDestination(prompt string) string {
	if m := quotedDestRe.FindStringSubmatch(prompt); m != nil {
		return m[1]
	}
	if m := destRe.FindStringSubmatch(prompt); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractFolder prefers a named root mentioned anywhere in the prompt, then
// the words after "in".
func extractFolder(prompt string, r roots.Roots) string {
	if _, path, ok := r.Match(prompt); ok {
		return path
	}
	if m := quotedFolderRe.FindStringSubmatch(prompt); m != nil {
		return r.Resolve(m[1])
	}
	if m := folderRe.FindStringSubmatch(prompt); m != nil {
		folder := strings.TrimSpace(m[1])
		for _, suffix := range []string{" recursively", " recursive"} {
			folder = strings.TrimSuffix(folder, suffix)
		}
		if folder != "" {
			return r.Resolve(folder)
		}
	}
	return ""
}
