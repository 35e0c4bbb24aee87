package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrRangeInvalid       = errors.New("invalid range")
	ErrEditsOverlap       = errors.New("edits overlap")
)

// LineEnding specifies the line ending style used when the buffer is
// serialized. Internally lines are always split on \n.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Document is the read-only view of a text document that the motion engine
// scans. Line numbers are 0-indexed; LineText excludes the line break.
type Document interface {
	LineCount() int
	LineText(line int) string
}

// Buffer is a line-oriented text buffer.
// It provides the document surface consumed by the selection engine.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
	languageID string
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewBufferFromString(text, opts...), nil
}

// splitLines normalizes line endings and splits text into lines.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// TextRange returns the text covered by r, joining lines with \n.
func (b *Buffer) TextRange(r Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return textRange(b.lines, r)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line (without newline).
// Out of range lines return "".
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the length of a line in UTF-16 code units.
func (b *Buffer) LineLen(line int) int {
	return UTF16Len(b.LineText(line))
}

// LanguageID returns the document language identifier.
func (b *Buffer) LanguageID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.languageID
}

// SetLanguageID sets the document language identifier.
func (b *Buffer) SetLanguageID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.languageID = id
}

// Coordinate Conversion

// LastPosition returns the position just past the final character.
func (b *Buffer) LastPosition() Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lastPosition(b.lines)
}

// ValidatePosition clamps p into the document.
func (b *Buffer) ValidatePosition(p Position) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clampPosition(b.lines, p)
}

// OffsetAt converts a position to a UTF-16 offset from the start of the
// document. Each line break counts as one unit.
func (b *Buffer) OffsetAt(p Position) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p = clampPosition(b.lines, p)
	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += UTF16Len(b.lines[i]) + 1
	}
	return offset + p.Column
}

// PositionAt converts a UTF-16 document offset to a position.
func (b *Buffer) PositionAt(offset int) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset <= 0 {
		return Position{}
	}
	for i, line := range b.lines {
		n := UTF16Len(line)
		if offset <= n {
			return Position{Line: i, Column: offset}
		}
		offset -= n + 1
	}
	return lastPosition(b.lines)
}

// Write Operations

// Insert inserts text at the given position.
func (b *Buffer) Insert(p Position, text string) error {
	return b.ApplyEdits([]Edit{NewInsert(p, text)})
}

// Delete removes text in the given range.
func (b *Buffer) Delete(r Range) error {
	return b.ApplyEdits([]Edit{NewDelete(r)})
}

// Replace replaces text in the given range with new text.
func (b *Buffer) Replace(r Range, text string) error {
	return b.ApplyEdits([]Edit{NewEdit(r, text)})
}

// ApplyEdits applies multiple edits atomically.
// Edits may be given in any order; all ranges refer to the document as it
// was before the batch. Either every edit is applied or none is.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.After(sorted[j].Range.Start)
	})

	// Validate all ranges before touching the text
	for i, edit := range sorted {
		if !edit.Range.IsValid() || !inDocument(b.lines, edit.Range.Start) || !inDocument(b.lines, edit.Range.End) {
			return ErrRangeInvalid
		}
		if i > 0 && edit.Range.End.After(sorted[i-1].Range.Start) {
			return ErrEditsOverlap
		}
	}

	text := strings.Join(b.lines, "\n")
	for _, edit := range sorted {
		start := byteOffset(b.lines, edit.Range.Start)
		end := byteOffset(b.lines, edit.Range.End)
		newText := strings.ReplaceAll(edit.NewText, "\r\n", "\n")
		text = text[:start] + newText + text[end:]
	}

	b.lines = strings.Split(text, "\n")
	b.revisionID = NewRevisionID()
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only snapshot of the current buffer state.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return &Snapshot{
		lines:      lines,
		revisionID: b.revisionID,
		languageID: b.languageID,
	}
}

// helpers shared with Snapshot

func lastPosition(lines []string) Position {
	last := len(lines) - 1
	return Position{Line: last, Column: UTF16Len(lines[last])}
}

func clampPosition(lines []string, p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(lines) {
		return lastPosition(lines)
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := UTF16Len(lines[p.Line]); p.Column > n {
		p.Column = n
	}
	return p
}

func inDocument(lines []string, p Position) bool {
	return p.Line >= 0 && p.Line < len(lines) &&
		p.Column >= 0 && p.Column <= UTF16Len(lines[p.Line])
}

// byteOffset returns the byte offset of p in the \n-joined text.
func byteOffset(lines []string, p Position) int {
	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += len(lines[i]) + 1
	}
	return offset + UTF16ToByte(lines[p.Line], p.Column)
}

func textRange(lines []string, r Range) string {
	r = NewRange(clampPosition(lines, r.Start), clampPosition(lines, r.End))
	if r.IsSingleLine() {
		line := lines[r.Start.Line]
		return line[UTF16ToByte(line, r.Start.Column):UTF16ToByte(line, r.End.Column)]
	}

	var sb strings.Builder
	first := lines[r.Start.Line]
	sb.WriteString(first[UTF16ToByte(first, r.Start.Column):])
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(lines[i])
	}
	last := lines[r.End.Line]
	sb.WriteByte('\n')
	sb.WriteString(last[:UTF16ToByte(last, r.End.Column)])
	return sb.String()
}
