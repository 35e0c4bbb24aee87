package cursor

import (
	"fmt"

	"github.com/dshills/kakmotion/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Anchor is the fixed end when extending; Active is where the cursor is.
// When Anchor == Active, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Position // Fixed end
	Active Position // Current cursor position
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCursorSelection creates a selection representing just a cursor (no extent).
func NewCursorSelection(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Active: r.End}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if s.Anchor.BeforeOrEqual(s.Active) {
		return s.Anchor
	}
	return s.Active
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if s.Anchor.AfterOrEqual(s.Active) {
		return s.Anchor
	}
	return s.Active
}

// IsForward returns true if the selection extends forward (active >= anchor).
func (s Selection) IsForward() bool {
	return s.Active.AfterOrEqual(s.Anchor)
}

// IsBackward returns true if the selection extends backward (active < anchor).
func (s Selection) IsBackward() bool {
	return s.Active.Before(s.Anchor)
}

// Extend returns a new selection with the active end moved to p.
func (s Selection) Extend(p Position) Selection {
	return Selection{Anchor: s.Anchor, Active: p}
}

// MoveTo returns a new collapsed selection (cursor) at p.
func (s Selection) MoveTo(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// Collapse collapses the selection to a cursor at the active end.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Active, Active: s.Active}
}

// Flip returns a selection with anchor and active swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Active, Active: s.Anchor}
}

// Normalize returns a forward selection (active at the end).
func (s Selection) Normalize() Selection {
	return Selection{Anchor: s.Start(), Active: s.End()}
}

// Reverse returns a backward selection (active at the start).
func (s Selection) Reverse() Selection {
	return Selection{Anchor: s.End(), Active: s.Start()}
}

// WithBounds returns a selection covering [start, end] that keeps the
// orientation of s.
func (s Selection) WithBounds(start, end Position) Selection {
	if s.IsBackward() {
		return Selection{Anchor: end, Active: start}
	}
	return Selection{Anchor: start, Active: end}
}

// Contains returns true if p is within [start, end).
// For empty selections (cursors), this always returns false.
func (s Selection) Contains(p Position) bool {
	return p.AfterOrEqual(s.Start()) && p.Before(s.End())
}

// Overlaps returns true if this selection overlaps with another.
func (s Selection) Overlaps(other Selection) bool {
	return s.Start().Before(other.End()) && other.Start().Before(s.End())
}

// BoundsMatch returns true if two selections cover the same range,
// regardless of orientation.
func (s Selection) BoundsMatch(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}

// Equals returns true if two selections have the same anchor and active.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Active == other.Active
}

// Clamp returns a selection with both ends clamped into doc.
func (s Selection) Clamp(doc buffer.Document) Selection {
	return Selection{Anchor: clamp(doc, s.Anchor), Active: clamp(doc, s.Active)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Active)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%s%s%s)", s.Anchor, dir, s.Active)
}

// CompareSelections orders selections by active position, then by anchor.
func CompareSelections(a, b Selection) int {
	if c := a.Active.Compare(b.Active); c != 0 {
		return c
	}
	return a.Anchor.Compare(b.Anchor)
}

func clamp(doc buffer.Document, p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if last := doc.LineCount() - 1; p.Line > last {
		return buffer.LastPositionOf(doc)
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := buffer.UTF16Len(doc.LineText(p.Line)); p.Column > n {
		p.Column = n
	}
	return p
}
