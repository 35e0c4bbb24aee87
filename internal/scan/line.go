package scan

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/unit"
)

// lineScan yields every match of a single-line pattern, one line at a time.
type lineScan struct {
	queue
	doc     buffer.Document
	def     *unit.LinePattern
	from    buffer.Position
	forward bool
	line    int
}

func newLineScan(doc buffer.Document, from buffer.Position, def *unit.LinePattern, forward bool) *lineScan {
	return &lineScan{doc: doc, def: def, from: from, forward: forward, line: from.Line}
}

func (s *lineScan) Next() bool {
	for !s.pop() {
		if s.done {
			return false
		}
		if s.line < 0 || s.line >= s.doc.LineCount() {
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

func (s *lineScan) Range() Range {
	return s.cur
}

// scanLine queues the matches of one line in scan order. On the origin
// line, forward scans drop matches ending before the origin column and
// backward scans drop matches starting after it.
func (s *lineScan) scanLine(line int) {
	spans := unit.FindAll(s.def.Pattern, s.doc.LineText(line))
	first := line == s.from.Line

	if s.forward {
		for _, sp := range spans {
			if first && sp.End < s.from.Column {
				continue
			}
			s.push(spanRange(line, sp))
		}
		return
	}

	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		if first && sp.Start > s.from.Column {
			continue
		}
		s.push(spanRange(line, sp))
	}
}

func spanRange(line int, sp unit.Span) Range {
	return Range{
		Start: At(buffer.NewPosition(line, sp.Start)),
		End:   At(buffer.NewPosition(line, sp.End)),
	}
}
