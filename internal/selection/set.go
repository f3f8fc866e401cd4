package selection

import (
	"slices"
	"strconv"
	"strings"
)

// Set is a set of recipe ids.
type Set map[int]struct{}

// NewSet returns a new Set, populated with ids.
func NewSet(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has returns true iff id is contained in the set.
func (s Set) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Insert adds id to the set.
func (s Set) Insert(id int) {
	s[id] = struct{}{}
}

// Delete removes id from the set.
func (s Set) Delete(id int) {
	delete(s, id)
}

// Len returns the number of ids in the set.
func (s Set) Len() int {
	return len(s)
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal reports whether s and other hold the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Join returns the ids, ascending, joined by sep. This is the recipe_ids form value.
func (s Set) Join(sep string) string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

func (s Set) String() string {
	return "{" + s.Join(",") + "}"
}
