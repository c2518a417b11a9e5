package tasks

import "github.com/desertthunder/ytlikes/internal/models"

// Duplicate records a repeat occurrence of an ItemID.
//
// Positions are 0-based indexes into the replay order.
type Duplicate struct {
	Position      int
	FirstPosition int
	Item          models.Item
}

// Sequence is the ordered, deduplicated view over the items to replay.
//
// The replay order is fixed at construction. The first occurrence of each ItemID
// is canonical; later occurrences are only ever mutated through it.
type Sequence struct {
	items      []models.Item
	first      map[string]int
	duplicates []Duplicate
	reversed   bool
}

// NewSequence builds the replay order (reversed when reverse is set) and indexes
// canonical occurrences in a single left-to-right scan.
func NewSequence(items []models.Item, reverse bool) *Sequence {
	ordered := make([]models.Item, len(items))
	for i, item := range items {
		if reverse {
			ordered[len(items)-1-i] = item
		} else {
			ordered[i] = item
		}
	}

	s := &Sequence{items: ordered, reversed: reverse}
	s.index(0)
	return s
}

// From returns a view over the same replay order whose canonical occurrences are
// chosen among positions >= start. A run resumed at start must not treat an
// occurrence as handled because an earlier, skipped position carries its ItemID.
func (s *Sequence) From(start int) *Sequence {
	view := &Sequence{items: s.items, reversed: s.reversed}
	view.index(start)
	return view
}

func (s *Sequence) index(start int) {
	s.first = make(map[string]int, len(s.items)-start)
	s.duplicates = nil
	for i := start; i < len(s.items); i++ {
		item := s.items[i]
		if !item.Mutable() {
			continue
		}
		if pos, seen := s.first[item.ItemID]; seen {
			s.duplicates = append(s.duplicates, Duplicate{Position: i, FirstPosition: pos, Item: item})
			continue
		}
		s.first[item.ItemID] = i
	}
}

func (s *Sequence) Len() int                { return len(s.items) }
func (s *Sequence) Item(i int) models.Item  { return s.items[i] }
func (s *Sequence) Reversed() bool          { return s.reversed }
func (s *Sequence) Duplicates() []Duplicate { return s.duplicates }

// Items returns a copy of the replay order.
func (s *Sequence) Items() []models.Item {
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// UniqueCount is the number of distinct ItemIDs.
func (s *Sequence) UniqueCount() int {
	return len(s.first)
}

// Canonical returns the position of the first occurrence of the item at i.
// Items without an ItemID are their own canonical occurrence.
func (s *Sequence) Canonical(i int) int {
	item := s.items[i]
	if !item.Mutable() {
		return i
	}
	if pos, ok := s.first[item.ItemID]; ok && pos <= i {
		return pos
	}
	return i
}

// IsDuplicate reports whether position i repeats an earlier ItemID.
func (s *Sequence) IsDuplicate(i int) bool {
	return s.Canonical(i) != i
}

// FirstPosition looks up the canonical position of an ItemID.
func (s *Sequence) FirstPosition(itemID string) (int, bool) {
	pos, ok := s.first[itemID]
	return pos, ok
}
