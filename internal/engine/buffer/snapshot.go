package buffer

import "strings"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It will not change even if the original buffer is modified, so a motion
// computed against it is a pure function of the snapshot.
type Snapshot struct {
	lines      []string
	revisionID RevisionID
	languageID string
}

// Text returns the full snapshot content joined with \n.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// TextRange returns the text covered by r.
func (s *Snapshot) TextRange(r Range) string {
	return textRange(s.lines, r)
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// LastPosition returns the position just past the final character.
func (s *Snapshot) LastPosition() Position {
	return lastPosition(s.lines)
}

// ValidatePosition clamps p into the snapshot.
func (s *Snapshot) ValidatePosition(p Position) Position {
	return clampPosition(s.lines, p)
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LanguageID returns the document language identifier.
func (s *Snapshot) LanguageID() string {
	return s.languageID
}

// ByteOffset returns the byte offset of p in Text().
func (s *Snapshot) ByteOffset(p Position) int {
	return byteOffset(s.lines, clampPosition(s.lines, p))
}

// PositionAtByte converts a byte offset in Text() to a position.
// Offsets inside a multi-byte character round down to its start.
func (s *Snapshot) PositionAtByte(offset int) Position {
	if offset <= 0 {
		return Position{}
	}
	for i, line := range s.lines {
		if offset <= len(line) {
			return Position{Line: i, Column: ByteToUTF16(line, offset)}
		}
		offset -= len(line) + 1
	}
	return lastPosition(s.lines)
}
