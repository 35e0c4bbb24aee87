package cursor

import (
	"sort"

	"github.com/dshills/kakmotion/internal/engine/buffer"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformPosition updates a position after an edit.
//
// Transformation rules:
//   - If the edit ends at or before p: shift p by the edit's line/column delta
//   - If the edit starts at or after p: p is unchanged
//   - If the edit spans p: move p to the end of the new text
func TransformPosition(p Position, edit Edit) Position {
	if edit.Range.End.BeforeOrEqual(p) {
		return shiftAfter(p, edit)
	}
	if edit.Range.Start.AfterOrEqual(p) {
		return p
	}
	return edit.EndPosition()
}

// TransformPositionSticky is like TransformPosition but lets the caller
// choose how p behaves for an insertion exactly at p. A sticky position
// stays in front of the inserted text; a non-sticky one moves past it.
func TransformPositionSticky(p Position, edit Edit, sticky bool) Position {
	if edit.Range.Start == p && edit.Range.IsEmpty() {
		if sticky {
			return p
		}
		return edit.EndPosition()
	}
	return TransformPosition(p, edit)
}

// shiftAfter moves p, which lies at or after the end of edit's range.
func shiftAfter(p Position, edit Edit) Position {
	newEnd := edit.EndPosition()
	if p.Line == edit.Range.End.Line {
		return Position{Line: newEnd.Line, Column: newEnd.Column + p.Column - edit.Range.End.Column}
	}
	return Position{Line: p.Line + newEnd.Line - edit.Range.End.Line, Column: p.Column}
}

// TransformSelection updates a selection after an edit.
// Both anchor and active are transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformPosition(sel.Anchor, edit),
		Active: TransformPosition(sel.Active, edit),
	}
}

// TransformSelectionWithBias transforms a selection so that its start stays
// in front of text inserted at it and its end moves past such text. A
// replacement of exactly the selected range therefore yields a selection
// covering the new text. Empty selections move past inserted text.
func TransformSelectionWithBias(sel Selection, edit Edit) Selection {
	if sel.IsEmpty() {
		return sel.MoveTo(TransformPosition(sel.Active, edit))
	}
	start := TransformPositionSticky(sel.Start(), edit, true)
	end := TransformPositionSticky(sel.End(), edit, false)
	return sel.WithBounds(start, end)
}

// TransformSelections updates selections after a batch of edits whose
// ranges all refer to the document before the batch, as accepted by
// Buffer.ApplyEdits. The input slice is not modified.
func TransformSelections(sels []Selection, edits []Edit) []Selection {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	SortEditsReverse(sorted)

	result := make([]Selection, len(sels))
	for i, sel := range sels {
		for _, edit := range sorted {
			sel = TransformSelectionWithBias(sel, edit)
		}
		result[i] = sel
	}
	return result
}

// TransformRanges updates a slice of ranges after an edit.
func TransformRanges(ranges []Range, edit Edit) []Range {
	result := make([]Range, len(ranges))
	for i, r := range ranges {
		result[i] = buffer.NewRange(TransformPosition(r.Start, edit), TransformPosition(r.End, edit))
	}
	return result
}

// SortEditsReverse sorts edits in descending order by start position.
// This mutates the input slice.
func SortEditsReverse(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start.After(edits[j].Range.Start)
	})
}
