package selection

// Mode is the selection-mode state derived from the store's size.
type Mode int

const (
	// Idle means nothing is selected; card activation navigates.
	Idle Mode = iota
	// Selecting means at least one recipe is selected; card activation toggles.
	Selecting
)

func (m Mode) String() string {
	if m == Selecting {
		return "selecting"
	}
	return "idle"
}

// Store owns the selected recipe ids. It is the only writer of its [Set].
type Store struct {
	set Set
}

// NewStore returns a store seeded with a copy of initial, which may be nil.
func NewStore(initial Set) *Store {
	if initial == nil {
		return &Store{set: NewSet()}
	}
	return &Store{set: initial.Clone()}
}

// Add inserts id. No-op if already present.
func (s *Store) Add(id int) {
	s.set.Insert(id)
}

// Remove deletes id. No-op if absent.
func (s *Store) Remove(id int) {
	s.set.Delete(id)
}

// Toggle removes id if present, adds it otherwise, and reports whether id is now selected.
func (s *Store) Toggle(id int) bool {
	if s.set.Has(id) {
		s.set.Delete(id)
		return false
	}
	s.set.Insert(id)
	return true
}

// Clear empties the store.
func (s *Store) Clear() {
	clear(s.set)
}

// ReplaceAll sets the membership of every id in visible to "present in ids".
//
// Ids outside visible are left untouched, so a selection accumulated on other pages survives.
func (s *Store) ReplaceAll(visible, ids []int) {
	want := NewSet(ids...)
	for _, id := range visible {
		if want.Has(id) {
			s.set.Insert(id)
		} else {
			s.set.Delete(id)
		}
	}
}

// Has reports whether id is selected.
func (s *Store) Has(id int) bool {
	return s.set.Has(id)
}

// Len returns the number of selected recipes.
func (s *Store) Len() int {
	return s.set.Len()
}

// IDs returns the selected ids in ascending order.
func (s *Store) IDs() []int {
	return s.set.IDs()
}

// Snapshot returns a copy of the current set.
func (s *Store) Snapshot() Set {
	return s.set.Clone()
}

// Mode returns [Selecting] when anything is selected, [Idle] otherwise.
func (s *Store) Mode() Mode {
	if s.set.Len() > 0 {
		return Selecting
	}
	return Idle
}
