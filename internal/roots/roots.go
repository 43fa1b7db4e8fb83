// Package roots maps well-known user folder names such as "Downloads" to
// absolute paths.
package roots

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soyunomas/folderly/internal/utils"
)

// WellKnown lists the folder names UserDirs looks for under the home
// directory, in display order.
var WellKnown = []string{"Desktop", "Downloads", "Documents", "Pictures", "Music", "Videos"}

// Roots is an immutable set of named folders. The zero value has no names
// and resolves "~" against nothing.
type Roots struct {
	home  string
	names []string
	dirs  map[string]string // lowercased name -> absolute path
	canon map[string]string // lowercased name -> name as given
}

// New builds Roots from explicit name/path pairs.
func New(home string, dirs map[string]string) Roots {
	r := Roots{
		home:  home,
		dirs:  make(map[string]string, len(dirs)),
		canon: make(map[string]string, len(dirs)),
	}
	for name, path := range dirs {
		key := strings.ToLower(name)
		r.dirs[key] = utils.AbsClean(path)
		r.canon[key] = name
		r.names = append(r.names, name)
	}
	sort.SliceStable(r.names, func(i, j int) bool { return rank(r.names[i]) < rank(r.names[j]) })
	return r
}

// UserDirs returns the well-known folders that exist under home.
func UserDirs(home string) Roots {
	dirs := make(map[string]string)
	for _, name := range WellKnown {
		p := filepath.Join(home, name)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs[name] = p
		}
	}
	return New(home, dirs)
}

// rank orders well-known names first, then everything else alphabetically.
func rank(name string) string {
	for i, known := range WellKnown {
		if strings.EqualFold(known, name) {
			return string(rune('0' + i))
		}
	}
	return "~" + strings.ToLower(name)
}

func (r Roots) Home() string { return r.home }

// Names returns the root names in display order.
func (r Roots) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Roots) Len() int { return len(r.names) }

// Lookup finds a root by name, ignoring case.
func (r Roots) Lookup(name string) (string, bool) {
	p, ok := r.dirs[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Match returns the first root whose name occurs in text, ignoring case.
func (r Roots) Match(text string) (string, string, bool) {
	text = strings.ToLower(text)
	for _, name := range r.names {
		key := strings.ToLower(name)
		if strings.Contains(text, key) {
			return r.canon[key], r.dirs[key], true
		}
	}
	return "", "", false
}

// Resolve turns a user argument into an absolute path. A root name wins
// over a relative path of the same spelling; "~" expands to the home
// directory.
func (r Roots) Resolve(arg string) string {
	if p, ok := r.Lookup(arg); ok {
		return p
	}
	if r.home != "" {
		if arg == "~" {
			return utils.AbsClean(r.home)
		}
		if rest, ok := strings.CutPrefix(filepath.ToSlash(arg), "~/"); ok {
			return utils.AbsClean(filepath.Join(r.home, filepath.FromSlash(rest)))
		}
	}
	return utils.AbsClean(arg)
}

// Map returns a copy of the name to path pairs.
func (r Roots) Map() map[string]string {
	out := make(map[string]string, len(r.names))
	for key, name := range r.canon {
		out[name] = r.dirs[key]
	}
	return out
}
