package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time view of the catalog. A snapshot is taken
// once per resolution or pricing pass so that every slot in the pass
// sees the same item set, even while the underlying catalog changes.
type Snapshot struct {
	takenAt      time.Time
	items        []Item
	byID         map[uuid.UUID]int
	variationsOf map[uuid.UUID][]int
}

// NewSnapshot builds a snapshot over the given items
func NewSnapshot(items []Item) *Snapshot {
	s := &Snapshot{
		takenAt:      time.Now(),
		items:        items,
		byID:         make(map[uuid.UUID]int, len(items)),
		variationsOf: make(map[uuid.UUID][]int),
	}
	for idx, item := range items {
		s.byID[item.ID] = idx
		if item.ParentID != nil {
			s.variationsOf[*item.ParentID] = append(s.variationsOf[*item.ParentID], idx)
		}
	}
	return s
}

// TakenAt returns the time the snapshot was taken
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Items returns all items in the snapshot
func (s *Snapshot) Items() []Item {
	return s.items
}

// Len returns the number of items in the snapshot
func (s *Snapshot) Len() int {
	return len(s.items)
}

// ItemByID looks up an item in the snapshot
func (s *Snapshot) ItemByID(id uuid.UUID) (*Item, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.items[idx], true
}

// VariationsOf returns the variations of the given parent product that
// are present in the snapshot
func (s *Snapshot) VariationsOf(parentID uuid.UUID) []*Item {
	idxs := s.variationsOf[parentID]
	out := make([]*Item, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, &s.items[idx])
	}
	return out
}
