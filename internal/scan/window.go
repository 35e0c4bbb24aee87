package scan

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/unit"
)

// windowScan slides a window of N lines over the document and yields the
// full line range of every window whose line i matches pattern i. The
// window is pre-seeded N-1 lines behind the origin so that windows spanning
// the origin are found.
type windowScan struct {
	queue
	doc     buffer.Document
	def     *unit.LineWindow
	forward bool
	line    int
	window  []int // line numbers in scan order, at most N
}

func newWindowScan(doc buffer.Document, from buffer.Position, def *unit.LineWindow, forward bool) *windowScan {
	n := def.Size()
	start := from.Line - (n - 1)
	if !forward {
		start = from.Line + n - 1
	}
	if start < 0 {
		start = 0
	}
	if last := doc.LineCount() - 1; start > last {
		start = last
	}
	return &windowScan{doc: doc, def: def, forward: forward, line: start}
}

func (s *windowScan) Next() bool {
	for !s.pop() {
		if s.done {
			return false
		}
		if s.line < 0 || s.line >= s.doc.LineCount() {
			s.push(sentinel(s.doc, s.forward))
			s.done = true
			continue
		}
		s.slide(s.line)
		if s.forward {
			s.line++
		} else {
			s.line--
		}
	}
	return true
}

func (s *windowScan) Range() Range {
	return s.cur
}

func (s *windowScan) slide(line int) {
	n := s.def.Size()
	s.window = append(s.window, line)
	if len(s.window) > n {
		s.window = s.window[1:]
	}
	if len(s.window) < n || !s.matches() {
		return
	}

	first, last := s.window[0], s.window[n-1]
	if !s.forward {
		first, last = last, first
	}
	s.push(Range{
		Start: At(buffer.NewPosition(first, 0)),
		End:   At(lineEnd(s.doc, last)),
	})
}

// matches checks every slot against its pattern. Backward scans hold the
// window in reverse document order, so patterns are applied reversed.
func (s *windowScan) matches() bool {
	n := s.def.Size()
	for i, line := range s.window {
		p := i
		if !s.forward {
			p = n - 1 - i
		}
		if !unit.Matches(s.def.Patterns[p], s.doc.LineText(line)) {
			return false
		}
	}
	return true
}
