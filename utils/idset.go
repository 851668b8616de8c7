package utils

// IDSet is an insertion-ordered set of identifiers
type IDSet struct {
	order []string
	seen  map[string]struct{}
}

// NewIDSet creates a set seeded with ids
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add returns true if the id is new (not seen before), false if duplicate
func (s *IDSet) Add(id string) bool {
	if _, exists := s.seen[id]; exists {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove drops id, keeping the order of the remaining ids. Returns false if absent.
func (s *IDSet) Remove(id string) bool {
	if _, exists := s.seen[id]; !exists {
		return false
	}
	delete(s.seen, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether id is in the set
func (s *IDSet) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Count returns the number of tracked ids
func (s *IDSet) Count() int {
	return len(s.order)
}

// IDs returns a copy of the ids in insertion order
func (s *IDSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
