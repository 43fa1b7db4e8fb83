package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soyunomas/folderly/internal/entities"
)

// KeepStrategy decides which member of a group is the keeper.
type KeepStrategy int

const (
	KeepFirst KeepStrategy = iota // Default: se respeta el orden de enumeración
	KeepShortestPath
	KeepLongestPath
	KeepOldest
	KeepNewest
)

func (s KeepStrategy) String() string {
	switch s {
	case KeepFirst:
		return "first"
	case KeepShortestPath:
		return "shortest"
	case KeepLongestPath:
		return "longest"
	case KeepOldest:
		return "oldest"
	case KeepNewest:
		return "newest"
	default:
		return "unknown"
	}
}

// ParseKeepStrategy maps a CLI/API name onto a strategy.
func ParseKeepStrategy(name string) (KeepStrategy, error) {
	switch strings.ToLower(name) {
	case "", "first":
		return KeepFirst, nil
	case "shortest":
		return KeepShortestPath, nil
	case "longest":
		return KeepLongestPath, nil
	case "oldest":
		return KeepOldest, nil
	case "newest":
		return KeepNewest, nil
	}
	return KeepFirst, fmt.Errorf("unknown keep strategy %q", name)
}

// Arrange reorders every group so that Files[0] is the keeper under the
// strategy. KeepFirst leaves enumeration order untouched. In either case a
// symlink is never the keeper while the group has a regular member.
func Arrange[K comparable](groups map[K]*entities.DuplicateGroup, strategy KeepStrategy) {
	for _, group := range groups {
		if len(group.Files) < 2 {
			continue
		}
		if strategy != KeepFirst {
			sortGroup(group, strategy)
		}
		preferRegular(group)
	}
}

// preferRegular adelanta el primer miembro que no es symlink cuando el
// Keeper es un enlace. Un enlace conservado en lugar de su destino quedaría
// roto tras el borrado.
func preferRegular(group *entities.DuplicateGroup) {
	if !group.Files[0].IsSymlink {
		return
	}
	for i, f := range group.Files {
		if f.IsSymlink {
			continue
		}
		copy(group.Files[1:i+1], group.Files[:i])
		group.Files[0] = f
		return
	}
}

func sortGroup(group *entities.DuplicateGroup, strategy KeepStrategy) {
	// Si la función retorna TRUE, 'i' se coloca antes que 'j'.
	sort.SliceStable(group.Files, func(i, j int) bool {
		f1 := group.Files[i]
		f2 := group.Files[j]

		switch strategy {
		case KeepShortestPath:
			if len(f1.Path) != len(f2.Path) {
				return len(f1.Path) < len(f2.Path)
			}

		case KeepLongestPath:
			if len(f1.Path) != len(f2.Path) {
				return len(f1.Path) > len(f2.Path)
			}

		case KeepOldest:
			t1, t2 := f1.ModTime(), f2.ModTime()
			if !t1.Equal(t2) {
				return t1.Before(t2)
			}

		case KeepNewest:
			t1, t2 := f1.ModTime(), f2.ModTime()
			if !t1.Equal(t2) {
				return t1.After(t2)
			}
		}

		// --- CRITERIOS DE DESEMPATE (Tie-Breakers) ---
		// 1. Longitud de ruta (si no fue el criterio principal)
		if len(f1.Path) != len(f2.Path) {
			if strategy == KeepLongestPath {
				return len(f1.Path) > len(f2.Path)
			}
			return len(f1.Path) < len(f2.Path)
		}

		// 2. Alfabético (último recurso)
		return f1.Path < f2.Path
	})
}

// Redundant lists every non-keeper path, visiting groups in key order.
func Redundant[K comparable](groups map[K]*entities.DuplicateGroup) []string {
	var out []string
	for _, g := range entities.SortedGroups(groups) {
		for _, f := range g.Redundant() {
			out = append(out, f.Path)
		}
	}
	return out
}
