package entities

import (
	"encoding/hex"
	"sort"
	"strconv"
)

// KeyKind is the equivalence used to bucket files in one detection run.
type KeyKind int

const (
	KeyName KeyKind = iota
	KeySize
	KeyDigest
)

func (k KeyKind) String() string {
	switch k {
	case KeyName:
		return "name"
	case KeySize:
		return "size"
	case KeyDigest:
		return "digest"
	default:
		return "unknown"
	}
}

// Key is the value a DuplicateGroup shares. Only the field matching Kind is set.
type Key struct {
	Kind      KeyKind
	Name      string
	Size      uint64
	Digest    []byte
	Algorithm string
}

func NameKey(name string) Key { return Key{Kind: KeyName, Name: name} }

func SizeKey(size uint64) Key { return Key{Kind: KeySize, Size: size} }

func DigestKey(algorithm string, digest []byte) Key {
	return Key{Kind: KeyDigest, Digest: digest, Algorithm: algorithm}
}

// String renders the key for display; digests are lowercase hex.
func (k Key) String() string {
	switch k.Kind {
	case KeyName:
		return k.Name
	case KeySize:
		return strconv.FormatUint(k.Size, 10)
	default:
		return hex.EncodeToString(k.Digest)
	}
}

// DuplicateGroup is a set of files sharing a Key, in enumeration order.
// Files[0] is the one "keep one, delete the rest" keeps.
type DuplicateGroup struct {
	Key   Key
	Files []*FileEntry
}

// Add appends a file to the group.
func (g *DuplicateGroup) Add(f *FileEntry) {
	g.Files = append(g.Files, f)
}

func (g *DuplicateGroup) Count() int { return len(g.Files) }

// Keeper returns the member that survives a dedupe, nil for an empty group.
func (g *DuplicateGroup) Keeper() *FileEntry {
	if len(g.Files) == 0 {
		return nil
	}
	return g.Files[0]
}

// Redundant returns every member except the keeper.
func (g *DuplicateGroup) Redundant() []*FileEntry {
	if len(g.Files) < 2 {
		return nil
	}
	return g.Files[1:]
}

// Paths returns member paths in group order.
func (g *DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// PruneSingletons drops every group with fewer than two members.
func PruneSingletons[K comparable](groups map[K]*DuplicateGroup) map[K]*DuplicateGroup {
	for k, g := range groups {
		if len(g.Files) < 2 {
			delete(groups, k)
		}
	}
	return groups
}

// SortedGroups flattens a group map into a slice ordered by key, so output is
// stable across runs. Sizes sort numerically, the rest lexically.
func SortedGroups[K comparable](groups map[K]*DuplicateGroup) []*DuplicateGroup {
	out := make([]*DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Kind == KeySize && b.Kind == KeySize {
			return a.Size < b.Size
		}
		return a.String() < b.String()
	})
	return out
}
