package motion

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/scan"
	"github.com/dshills/kakmotion/internal/unit"
)

// NarrowTo shrinks sel so that its edges sit on unit boundaries of def
// inside the current bounds. The start snaps to the first boundary at or
// after sel.Start (unit starts for start and both, unit ends for end); the
// end snaps to the last boundary at or before sel.End (unit ends for end
// and both, unit starts for start). Orientation is preserved.
//
// ok is false when no tightening is possible, including an empty sel.
func NarrowTo(doc buffer.Document, sel cursor.Selection, def unit.Definition, boundary Boundary) (cursor.Selection, bool) {
	if sel.IsEmpty() {
		return sel, false
	}
	start, end := sel.Start(), sel.End()

	startEdge, endEdge := BoundaryStart, BoundaryEnd
	switch boundary {
	case BoundaryStart:
		endEdge = BoundaryStart
	case BoundaryEnd:
		startEdge = BoundaryEnd
	}

	newStart, ok := firstEdge(doc, start, def, startEdge, true, func(p buffer.Position) bool {
		return p.AfterOrEqual(start)
	})
	if !ok {
		return sel, false
	}
	newEnd, ok := firstEdge(doc, end, def, endEdge, false, func(p buffer.Position) bool {
		return p.BeforeOrEqual(end)
	})
	if !ok {
		return sel, false
	}

	if newStart.After(newEnd) || (newStart == start && newEnd == end) {
		return sel, false
	}
	return sel.WithBounds(newStart, newEnd), true
}

// firstEdge scans from `from` and returns the first known edge of kind b
// that satisfies accept. The sentinel is not a unit and is ignored.
func firstEdge(doc buffer.Document, from buffer.Position, def unit.Definition, b Boundary, forward bool, accept func(buffer.Position) bool) (buffer.Position, bool) {
	it := scan.Resolve(BoundaryBoth, scan.Units(doc, from, def, forward), doc, from, def, forward)
	for it.Next() {
		r := it.Range()
		if r.Sentinel {
			break
		}
		e := r.Edge(b)
		if e.Known && accept(e.Pos) {
			return e.Pos, true
		}
	}
	return buffer.Position{}, false
}
