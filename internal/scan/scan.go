// Package scan produces the lazy sequence of unit boundaries from a
// position toward one edge of a document.
package scan

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/unit"
)

// Units starts a scan of doc from `from` for units of def. Every scan ends
// with the document boundary sentinel.
func Units(doc buffer.Document, from buffer.Position, def unit.Definition, forward bool) Iterator {
	switch d := def.(type) {
	case *unit.LinePattern:
		return newLineScan(doc, from, d, forward)
	case *unit.LineRun:
		return newRunScan(doc, from, d, forward)
	case *unit.LineWindow:
		return newWindowScan(doc, from, d, forward)
	default:
		return &sliceIter{ranges: []Range{sentinel(doc, forward)}}
	}
}

// sliceIter iterates over a fixed slice of ranges.
type sliceIter struct {
	ranges []Range
	pos    int
	cur    Range
}

func (it *sliceIter) Next() bool {
	if it.pos >= len(it.ranges) {
		return false
	}
	it.cur = it.ranges[it.pos]
	it.pos++
	return true
}

func (it *sliceIter) Range() Range {
	return it.cur
}

// queue is the emit side shared by the line-based scanners: ranges found
// while examining one line wait here until pulled.
type queue struct {
	pending []Range
	cur     Range
	done    bool
}

func (q *queue) push(r Range) {
	q.pending = append(q.pending, r)
}

// pop moves the next pending range to cur.
func (q *queue) pop() bool {
	if len(q.pending) == 0 {
		return false
	}
	q.cur = q.pending[0]
	q.pending = q.pending[1:]
	return true
}
