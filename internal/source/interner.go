package source

import (
	"slices"
	"strings"

	"fortio.org/safecast"
)

// StringID names an interned identifier. Zero is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier and literal text of one tree.
// It is filled by a single goroutine (the parser) and read-only afterwards.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, adding it on first sight. The stored copy does
// not alias the caller's buffer.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	id := StringID(safecast.MustConv[uint32](len(i.byID)))
	s = strings.Clone(s)
	i.byID = append(i.byID, s)
	i.index[s] = id
	return id
}

// InternBytes is Intern for a source slice.
func (i *Interner) InternBytes(b []byte) StringID {
	if id, ok := i.index[string(b)]; ok {
		return id
	}
	return i.Intern(string(b))
}

// Lookup returns the text of id; false for ids this interner never issued.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: unknown string id")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts NoStringID too, so it is never below 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
