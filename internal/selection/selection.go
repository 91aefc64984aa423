// Package selection tracks which members a screen has picked, outside the member
// entity itself.
package selection

import (
	"slices"
	"sync"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
)

type Set struct {
	mu  sync.RWMutex
	ids map[uint]struct{}
}

func New(ids ...uint) *Set {
	s := &Set{ids: make(map[uint]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// FromMembers preselects the given members, e.g. the current members of a project being edited.
func FromMembers(members []models.Member) *Set {
	s := New()
	for _, m := range members {
		s.ids[m.ID] = struct{}{}
	}
	return s
}

// Toggle flips the member and reports whether it is now selected.
func (s *Set) Toggle(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Set) Select(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *Set) Deselect(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *Set) Contains(id uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s *Set) IDs() []uint {
	s.mu.RLock()
	ids := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ids)
}

// Apply returns the selected members of all, keeping the order of all.
func (s *Set) Apply(all []models.Member) []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Member, 0, len(s.ids))
	for _, m := range all {
		if _, ok := s.ids[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}
