package catalog

// Snapshot is an immutable indexed view over catalog items. It is safe to
// share across concurrent pricing calculations; lookups never mutate state and
// unknown ids resolve to a missing result rather than an error so a draft
// referencing a deactivated item degrades to a skipped line.
type Snapshot struct {
	items      []Item
	byID       map[string]int
	byCategory map[Category][]int
}

// NewSnapshot indexes the given items preserving their order. Later duplicates
// of an id shadow earlier ones.
func NewSnapshot(items []Item) *Snapshot {
	s := &Snapshot{
		items:      make([]Item, len(items)),
		byID:       make(map[string]int, len(items)),
		byCategory: make(map[Category][]int),
	}
	copy(s.items, items)
	for i, item := range s.items {
		s.byID[item.ID] = i
		s.byCategory[item.Category] = append(s.byCategory[item.Category], i)
	}
	return s
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// FindByID resolves an item by id. The boolean reports whether it exists.
func (s *Snapshot) FindByID(id string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	idx, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return s.items[idx], true
}

// FindByCategoryAndPark returns items in the category with the exact park
// scope: a nil parkID matches global items only.
func (s *Snapshot) FindByCategoryAndPark(category Category, parkID *string) []Item {
	if s == nil {
		return nil
	}
	var out []Item
	for _, idx := range s.byCategory[category] {
		item := s.items[idx]
		if parkID == nil {
			if item.Global() {
				out = append(out, item)
			}
			continue
		}
		if item.ScopedTo(*parkID) {
			out = append(out, item)
		}
	}
	return out
}

// ApplicableToPark returns global items plus items scoped to the given park,
// in snapshot order.
func (s *Snapshot) ApplicableToPark(category Category, parkID string) []Item {
	if s == nil {
		return nil
	}
	var out []Item
	for _, idx := range s.byCategory[category] {
		item := s.items[idx]
		if item.Global() || item.ScopedTo(parkID) {
			out = append(out, item)
		}
	}
	return out
}

// Items returns a copy of every item in snapshot order.
func (s *Snapshot) Items() []Item {
	if s == nil {
		return nil
	}
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
