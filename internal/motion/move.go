// Package motion compiles unit scans into cursor motion, selection
// extension and whole-unit selection.
package motion

import (
	"math"

	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/scan"
	"github.com/dshills/kakmotion/internal/unit"
)

// Move is a validated moveBy request.
type Move struct {
	Select        bool
	SelectWhole   bool
	SelectOneUnit bool
	Value         int
	Boundary      Boundary
}

// Repeat returns m with its value multiplied by count, saturating at
// ±math.MaxInt so a large product never changes direction.
func (m Move) Repeat(count int) Move {
	if count <= 1 || m.Value == 0 {
		return m
	}
	v := m.Value
	if v < 0 {
		v = -max(v, -math.MaxInt)
	}
	if v > math.MaxInt/count {
		v = math.MaxInt
	} else {
		v *= count
	}
	if m.Value < 0 {
		v = -v
	}
	m.Value = v
	return m
}

// MoveBy moves or extends sel by m.Value units of def. A value of zero
// returns sel unchanged. Motions that run off the document stop at the
// furthest reachable boundary.
func MoveBy(doc buffer.Document, sel cursor.Selection, def unit.Definition, m Move) cursor.Selection {
	if m.Value == 0 {
		return sel
	}
	forward := m.Value > 0
	steps := m.Value
	if steps < 0 {
		steps = -max(steps, -math.MaxInt)
	}
	if m.SelectWhole {
		return moveWhole(doc, sel, def, steps, forward, m)
	}
	return movePoint(doc, sel, def, steps, m.Boundary, forward, m.Select)
}

// movePoint walks boundary stops. A stop counts only when strictly ahead of
// the current position.
func movePoint(doc buffer.Document, sel cursor.Selection, def unit.Definition, steps int, boundary Boundary, forward, extend bool) cursor.Selection {
	it := scan.Units(doc, sel.Active, def, forward)
	cur := sel.Active
	count := 0

	for count < steps && it.Next() {
		for _, e := range stops(it.Range(), boundary, forward) {
			if !e.Known || !ahead(e.Pos, cur, forward) {
				continue
			}
			cur = e.Pos
			count++
			if count == steps {
				break
			}
		}
	}

	if count == 0 {
		return sel
	}
	if extend {
		return cursor.NewSelection(sel.Anchor, cur)
	}
	return cursor.NewCursorSelection(cur)
}

// stops returns the edges of r a motion may stop at, in scan order.
func stops(r scan.Range, boundary Boundary, forward bool) []scan.Edge {
	switch boundary {
	case BoundaryStart:
		return []scan.Edge{r.Start}
	case BoundaryEnd:
		return []scan.Edge{r.End}
	default:
		if forward {
			return []scan.Edge{r.Start, r.End}
		}
		return []scan.Edge{r.End, r.Start}
	}
}

func ahead(p, cur buffer.Position, forward bool) bool {
	if forward {
		return p.After(cur)
	}
	return p.Before(cur)
}

// moveWhole selects whole units. With boundary both each unit is a
// complete scanned range; with start or end a unit spans two consecutive
// boundaries of that edge.
func moveWhole(doc buffer.Document, sel cursor.Selection, def unit.Definition, steps int, forward bool, m Move) cursor.Selection {
	origin := sel.Active
	if !m.Select {
		if forward {
			origin = sel.End()
		} else {
			origin = sel.Start()
		}
	}

	it := scan.Resolve(BoundaryBoth, scan.Units(doc, origin, def, forward), doc, origin, def, forward)
	units := newUnitWalker(it, m.Boundary, forward)

	var firstNear, lastNear, lastFar buffer.Position
	count := 0
	for count < steps {
		u, ok := units.next()
		if !ok {
			break
		}
		if !counts(u, origin, forward) {
			continue
		}
		near, far := u.Start, u.End
		if !forward {
			near, far = u.End, u.Start
		}
		if count == 0 {
			firstNear = near
		}
		lastNear, lastFar = near, far
		count++
	}

	switch {
	case count == 0:
		return sel
	case m.SelectOneUnit:
		return cursor.NewSelection(lastNear, lastFar)
	case m.Select:
		return cursor.NewSelection(sel.Anchor, lastFar)
	default:
		return cursor.NewSelection(firstNear, lastFar)
	}
}

// counts reports whether unit u extends past origin in the scan direction.
func counts(u buffer.Range, origin buffer.Position, forward bool) bool {
	if forward {
		return u.End.After(origin)
	}
	return u.Start.Before(origin)
}

// unitWalker turns a resolved scan into whole units.
type unitWalker struct {
	it       scan.Iterator
	boundary Boundary
	forward  bool

	prev    buffer.Position
	started bool
	done    bool
}

func newUnitWalker(it scan.Iterator, boundary Boundary, forward bool) *unitWalker {
	return &unitWalker{it: it, boundary: boundary, forward: forward}
}

// next returns the next unit. The walk ends at the first range missing a
// needed edge, which includes the sentinel for the trailing edge.
func (w *unitWalker) next() (buffer.Range, bool) {
	for !w.done && w.it.Next() {
		r := w.it.Range()

		if w.boundary == BoundaryBoth {
			if r.Sentinel || !r.Complete() {
				w.done = true
				break
			}
			return r.Bounds(), true
		}

		if !w.started {
			w.started = true
			if seed, ok := w.seed(r); ok {
				w.prev = seed
			} else {
				w.prev, ok = edgeOf(r, w.boundary)
				if !ok {
					w.done = true
					break
				}
				continue
			}
		}

		p, ok := edgeOf(r, w.boundary)
		if !ok {
			w.done = true
			break
		}
		u := buffer.NewRange(w.prev, p)
		w.prev = p
		return u, true
	}
	w.done = true
	return buffer.Range{}, false
}

// seed returns the opposite edge of the first range when the wanted edge
// trails in the scan direction, so the first unit starts at that range.
func (w *unitWalker) seed(r scan.Range) (buffer.Position, bool) {
	switch {
	case w.forward && w.boundary == BoundaryEnd && r.Start.Known && !r.Sentinel:
		return r.Start.Pos, true
	case !w.forward && w.boundary == BoundaryStart && r.End.Known && !r.Sentinel:
		return r.End.Pos, true
	default:
		return buffer.Position{}, false
	}
}

func edgeOf(r scan.Range, b Boundary) (buffer.Position, bool) {
	e := r.Edge(b)
	return e.Pos, e.Known
}
