package scan

import (
	"fmt"

	"github.com/dshills/kakmotion/internal/engine/buffer"
)

// Edge is an optional unit boundary. An unknown edge lies outside the
// scanned region and must be resolved or treated as a document boundary,
// never read as a position.
type Edge struct {
	Pos   buffer.Position
	Known bool
}

// At returns a known edge at p.
func At(p buffer.Position) Edge {
	return Edge{Pos: p, Known: true}
}

// Unknown is an edge that has not been found.
var Unknown = Edge{}

// String returns the position or "?" when unknown.
func (e Edge) String() string {
	if !e.Known {
		return "?"
	}
	return e.Pos.String()
}

// Range is a partial unit boundary produced by a scan.
type Range struct {
	Start Edge
	End   Edge

	// Sentinel marks the document boundary range that ends every scan.
	Sentinel bool
}

// Complete reports whether both edges are known.
func (r Range) Complete() bool {
	return r.Start.Known && r.End.Known
}

// Bounds returns the concrete range of a complete Range.
func (r Range) Bounds() buffer.Range {
	return buffer.Range{Start: r.Start.Pos, End: r.End.Pos}
}

// BoundsMatch reports whether both edges are identical.
func (r Range) BoundsMatch(other Range) bool {
	return r.Start == other.Start && r.End == other.End
}

// Edge returns the start or end edge.
func (r Range) Edge(b Boundary) Edge {
	if b == End {
		return r.End
	}
	return r.Start
}

// String returns a human-readable representation.
func (r Range) String() string {
	if r.Sentinel {
		return fmt.Sprintf("[%s-%s sentinel]", r.Start, r.End)
	}
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// FuseRanges completes a by taking its missing edge from b when a has only
// one edge and b has only the other. Otherwise a is returned unchanged.
func FuseRanges(a, b Range) Range {
	switch {
	case !a.Start.Known && a.End.Known && b.Start.Known && !b.End.Known:
		return Range{Start: b.Start, End: a.End}
	case a.Start.Known && !a.End.Known && !b.Start.Known && b.End.Known:
		return Range{Start: a.Start, End: b.End}
	default:
		return a
	}
}

// Boundary selects which edge(s) of a unit a motion stops at.
type Boundary uint8

const (
	Start Boundary = iota
	End
	Both
)

// String returns the boundary name.
func (b Boundary) String() string {
	switch b {
	case Start:
		return "start"
	case End:
		return "end"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// Iterator is a lazy, pull-based sequence of ranges. Each scan returns a
// fresh iterator; it is not restartable.
type Iterator interface {
	// Next advances to the next range, returning false when exhausted.
	Next() bool
	// Range returns the current range.
	Range() Range
}

// sentinel returns the document boundary range for a scan direction.
func sentinel(doc buffer.Document, forward bool) Range {
	if forward {
		return Range{Start: At(buffer.LastPositionOf(doc)), Sentinel: true}
	}
	return Range{End: At(buffer.Position{}), Sentinel: true}
}

// lineEnd returns the position at the end of line.
func lineEnd(doc buffer.Document, line int) buffer.Position {
	return buffer.NewPosition(line, buffer.UTF16Len(doc.LineText(line)))
}

// Collect drains an iterator. Use only on bounded scans (tests, tooling).
func Collect(it Iterator) []Range {
	var out []Range
	for it.Next() {
		out = append(out, it.Range())
	}
	return out
}
