package cursor

import "sort"

// CursorSet manages multiple selections in editor order.
// Unlike a classic multi-cursor model, overlapping selections are not merged:
// each selection is an independent cursor. Exact duplicates are removed by
// Dedupe.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set holding copies of the given selections.
// An empty set holds a single cursor at the document start.
func NewCursorSet(sels ...Selection) *CursorSet {
	cs := &CursorSet{}
	cs.SetAll(sels)
	return cs
}

// All returns a copy of all selections.
// The returned slice is safe to modify without affecting the CursorSet.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.selections))
	copy(result, cs.selections)
	return result
}

// Count returns the number of selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// IsMulti returns true if there are multiple selections.
func (cs *CursorSet) IsMulti() bool {
	return len(cs.selections) > 1
}

// Get returns the selection at the given index.
// Returns an empty selection if index is out of range.
func (cs *CursorSet) Get(index int) Selection {
	if index < 0 || index >= len(cs.selections) {
		return Selection{}
	}
	return cs.selections[index]
}

// SetAll replaces all selections, keeping their order.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{{}}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
}

// Remove removes the selection at the given index.
// The last remaining selection is never removed.
func (cs *CursorSet) Remove(index int) bool {
	if index < 0 || index >= len(cs.selections) || len(cs.selections) == 1 {
		return false
	}
	cs.selections = append(cs.selections[:index], cs.selections[index+1:]...)
	return true
}

// Insert adds sel at its sorted position (by CompareSelections) and returns
// its index. If an equal selection already exists, its index is returned
// and the set is unchanged.
func (cs *CursorSet) Insert(sel Selection) int {
	i := sort.Search(len(cs.selections), func(i int) bool {
		return CompareSelections(cs.selections[i], sel) >= 0
	})
	if i < len(cs.selections) && cs.selections[i].Equals(sel) {
		return i
	}
	cs.selections = append(cs.selections, Selection{})
	copy(cs.selections[i+1:], cs.selections[i:])
	cs.selections[i] = sel
	return i
}

// Index returns the index of the first selection equal to sel, or -1.
func (cs *CursorSet) Index(sel Selection) int {
	for i, s := range cs.selections {
		if s.Equals(sel) {
			return i
		}
	}
	return -1
}

// Sort orders selections with CompareSelections.
func (cs *CursorSet) Sort() {
	sort.SliceStable(cs.selections, func(i, j int) bool {
		return CompareSelections(cs.selections[i], cs.selections[j]) < 0
	})
}

// Dedupe removes selections equal to an earlier one, keeping order.
func (cs *CursorSet) Dedupe() {
	kept := cs.selections[:0]
	seen := make(map[Selection]struct{}, len(cs.selections))
	for _, sel := range cs.selections {
		if _, ok := seen[sel]; ok {
			continue
		}
		seen[sel] = struct{}{}
		kept = append(kept, sel)
	}
	cs.selections = kept
}

// Map applies f to each selection and returns the results.
func (cs *CursorSet) Map(f func(sel Selection) Selection) []Selection {
	result := make([]Selection, len(cs.selections))
	for i, sel := range cs.selections {
		result[i] = f(sel)
	}
	return result
}

// MapInPlace applies f to each selection in place.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	for i, sel := range cs.selections {
		cs.selections[i] = f(sel)
	}
}

// HasSelection returns true if any selection is non-empty (has extent).
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	return NewCursorSet(cs.selections...)
}

// Ranges returns all selection ranges.
func (cs *CursorSet) Ranges() []Range {
	ranges := make([]Range, len(cs.selections))
	for i, sel := range cs.selections {
		ranges[i] = sel.Range()
	}
	return ranges
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil {
		return false
	}
	if cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}
