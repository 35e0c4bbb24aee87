package scan

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/unit"
)

// runScan yields maximal runs of consecutive lines matching one pattern.
// A run that already covers the origin line has an unknown trailing edge
// (start when scanning forward, end when scanning backward).
type runScan struct {
	queue
	doc     buffer.Document
	def     *unit.LineRun
	from    buffer.Position
	forward bool
	line    int

	inRun bool
	edge  Edge // start (forward) or end (backward) of the open run
}

func newRunScan(doc buffer.Document, from buffer.Position, def *unit.LineRun, forward bool) *runScan {
	return &runScan{doc: doc, def: def, from: from, forward: forward, line: from.Line}
}

func (s *runScan) Next() bool {
	for !s.pop() {
		if s.done {
			return false
		}
		if s.line < 0 || s.line >= s.doc.LineCount() {
			s.flush()
			s.push(sentinel(s.doc, s.forward))
			s.done = true
			continue
		}
		s.scanLine(s.line)
		if s.forward {
			s.line++
		} else {
			s.line--
		}
	}
	return true
}

func (s *runScan) Range() Range {
	return s.cur
}

func (s *runScan) scanLine(line int) {
	matched := unit.Matches(s.def.Pattern, s.doc.LineText(line))

	switch {
	case matched && !s.inRun:
		s.inRun = true
		switch {
		case line == s.from.Line:
			s.edge = Unknown
		case s.forward:
			s.edge = At(buffer.NewPosition(line, 0))
		default:
			s.edge = At(lineEnd(s.doc, line))
		}
	case !matched && s.inRun:
		s.closeRun(s.previous(line))
	}
}

// previous returns the line scanned before line.
func (s *runScan) previous(line int) int {
	if s.forward {
		return line - 1
	}
	return line + 1
}

// closeRun emits the open run, whose far edge is on line.
func (s *runScan) closeRun(line int) {
	if s.forward {
		s.push(Range{Start: s.edge, End: At(lineEnd(s.doc, line))})
	} else {
		s.push(Range{Start: At(buffer.NewPosition(line, 0)), End: s.edge})
	}
	s.inRun = false
}

// flush closes a run that reaches the document edge.
func (s *runScan) flush() {
	if !s.inRun {
		return
	}
	if s.forward {
		s.closeRun(s.doc.LineCount() - 1)
	} else {
		s.closeRun(0)
	}
}
