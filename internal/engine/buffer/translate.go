package buffer

// LastPositionOf returns the position just past the final character of doc.
func LastPositionOf(doc Document) Position {
	last := doc.LineCount() - 1
	if last < 0 {
		return Position{}
	}
	return Position{Line: last, Column: UTF16Len(doc.LineText(last))}
}

// WrappedTranslate moves pos by delta UTF-16 units. Moving past the end of a
// line continues at the start of the next one (the line break counts as one
// unit); moving before the start of a line continues at the end of the
// previous one. The result is clamped to the document.
func WrappedTranslate(doc Document, pos Position, delta int) Position {
	lineCount := doc.LineCount()
	if lineCount == 0 {
		return Position{}
	}

	result := pos
	if delta < 0 {
		for result.Column+delta < 0 {
			// Consume the rest of this line plus the line break
			delta += result.Column + 1
			if result.Line == 0 {
				return Position{}
			}
			result.Line--
			result.Column = UTF16Len(doc.LineText(result.Line))
		}
		result.Column += delta
		return result
	}

	for {
		lineLen := UTF16Len(doc.LineText(result.Line))
		if result.Column+delta <= lineLen {
			break
		}
		delta -= lineLen - result.Column + 1
		if result.Line+1 >= lineCount {
			return LastPositionOf(doc)
		}
		result.Line++
		result.Column = 0
	}
	result.Column += delta
	return result
}

// ClampedLineTranslate moves to column 0 of pos.Line+deltaLines, with the
// line clamped to the document.
func ClampedLineTranslate(doc Document, pos Position, deltaLines int) Position {
	line := pos.Line + deltaLines
	if line < 0 {
		line = 0
	}
	if last := doc.LineCount() - 1; line > last {
		line = last
	}
	if line < 0 {
		line = 0
	}
	return Position{Line: line}
}

// TextOf returns the text of r in doc with lines joined by "\n".
func TextOf(doc Document, r Range) string {
	if t, ok := doc.(interface{ TextRange(Range) string }); ok {
		return t.TextRange(r)
	}
	if doc.LineCount() == 0 {
		return ""
	}
	lines := make([]string, doc.LineCount())
	for i := range lines {
		lines[i] = doc.LineText(i)
	}
	return textRange(lines, r)
}
