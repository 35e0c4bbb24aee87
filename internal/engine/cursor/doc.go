// Package cursor provides selections and multi-selection sets.
//
// Selection Model:
//
// Selections use an anchor/active model where:
//   - Anchor: the fixed end when the selection is extended
//   - Active: the cursor position, where motions start from
//
// When Anchor == Active, the selection represents just a cursor with no
// selected text. The selection can extend forward (active > anchor) or
// backward (active < anchor), and that orientation is preserved by
// every transform in this package.
//
// Multi-Selection Support:
//
// CursorSet keeps selections in editor order. Overlapping selections are
// independent cursors and are never merged. CompareSelections gives the
// canonical order (active first, then anchor) used after ad hoc insertions.
//
// Basic usage:
//
//	sel := cursor.NewCursorSelection(buffer.NewPosition(0, 4))
//	sel = sel.Extend(buffer.NewPosition(0, 7))
//
//	cs := cursor.NewCursorSet(sel)
//	idx := cs.Insert(cursor.NewCursorSelection(buffer.NewPosition(2, 0)))
//
//	// Transform after a batch of edits
//	sels := cursor.TransformSelections(cs.All(), edits)
//
// Thread Safety:
//
// Selection is an immutable value type. CursorSet is not thread-safe and
// should be protected by external synchronization if accessed concurrently.
package cursor
