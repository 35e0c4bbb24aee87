package engine

import (
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line / UTF-16 column position.
	Position = buffer.Position

	// Range is a concrete range of positions.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// Selection represents an anchor/active selection.
	Selection = cursor.Selection

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// MessageLevel is the severity of a user-visible message.
type MessageLevel uint8

const (
	MessageInfo MessageLevel = iota
	MessageWarning
	MessageError
)

// String returns the level name.
func (l MessageLevel) String() string {
	switch l {
	case MessageWarning:
		return "warning"
	case MessageError:
		return "error"
	default:
		return "info"
	}
}

// Message is a user-visible notification raised by a command.
type Message struct {
	Level MessageLevel
	Text  string
}

// Engine is an in-process editor host: a text buffer, the live selection
// set and the small set of editor services selection commands depend on
// (messages, reveal, word lookup, next match).
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet

	messages    []Message
	maxMessages int
	revealed    Range

	readOnly bool

	// Initialization
	initContent    string
	initSelections []Selection
	lineEnding     *buffer.LineEnding
	languageID     string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions(e.initContent)...)
	e.initCursors()
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithContent(string(data))}, opts...)
	return New(opts...), nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{maxMessages: DefaultMaxMessages}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) bufferOptions(content string) []buffer.Option {
	bufOpts := []buffer.Option{buffer.WithLanguageID(e.languageID)}
	if e.lineEnding != nil {
		bufOpts = append(bufOpts, buffer.WithLineEnding(*e.lineEnding))
	} else {
		bufOpts = append(bufOpts, buffer.WithDetectedLineEnding(content))
	}
	return bufOpts
}

func (e *Engine) initCursors() {
	sels := make([]Selection, len(e.initSelections))
	for i, sel := range e.initSelections {
		sels[i] = sel.Clamp(e.buf)
	}
	e.cursors = cursor.NewCursorSet(sels...)
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// TextRange returns text in the given range.
func (e *Engine) TextRange(r Range) string {
	return e.buf.TextRange(r)
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (e *Engine) LineText(line int) string {
	return e.buf.LineText(line)
}

// OffsetAt converts a position to a UTF-16 document offset.
func (e *Engine) OffsetAt(p Position) int {
	return e.buf.OffsetAt(p)
}

// PositionAt converts a UTF-16 document offset to a position.
func (e *Engine) PositionAt(offset int) Position {
	return e.buf.PositionAt(offset)
}

// LastPosition returns the position just past the final character.
func (e *Engine) LastPosition() Position {
	return e.buf.LastPosition()
}

// Document returns an immutable snapshot of the buffer, suitable for
// computing motions.
func (e *Engine) Document() buffer.Document {
	return e.buf.Snapshot()
}

// Snapshot returns a read-only snapshot of the current buffer state.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// LanguageID returns the document language identifier.
func (e *Engine) LanguageID() string {
	return e.buf.LanguageID()
}

// SetLanguageID changes the document language identifier.
func (e *Engine) SetLanguageID(id string) {
	e.buf.SetLanguageID(id)
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	return e.buf.RevisionID()
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Write Operations
// ============================================================================

// ApplyEdits applies a batch of edits atomically. All ranges refer to the
// document before the batch. Selections are transformed so that a replaced
// selection covers its new text.
func (e *Engine) ApplyEdits(edits []Edit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if err := e.buf.ApplyEdits(edits); err != nil {
		return err
	}
	e.cursors.SetAll(cursor.TransformSelections(e.cursors.All(), edits))
	return nil
}

// Insert inserts text at the given position.
func (e *Engine) Insert(p Position, text string) error {
	return e.ApplyEdits([]Edit{buffer.NewInsert(p, text)})
}

// Delete removes text in the given range.
func (e *Engine) Delete(r Range) error {
	return e.ApplyEdits([]Edit{buffer.NewDelete(r)})
}

// Replace replaces text in the given range.
func (e *Engine) Replace(r Range, text string) error {
	return e.ApplyEdits([]Edit{buffer.NewEdit(r, text)})
}

// InsertAtSelections inserts text at the active end of every selection in
// one batch.
func (e *Engine) InsertAtSelections(text string) error {
	sels := e.Selections()
	edits := make([]Edit, 0, len(sels))
	seen := make(map[Position]struct{}, len(sels))
	for _, sel := range sels {
		if _, ok := seen[sel.Active]; ok {
			continue
		}
		seen[sel.Active] = struct{}{}
		edits = append(edits, buffer.NewInsert(sel.Active, text))
	}
	return e.ApplyEdits(edits)
}

// ============================================================================
// Selections
// ============================================================================

// Selections returns a copy of the live selections in editor order.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// SetSelections replaces the live selections. Positions are clamped into
// the document. An empty slice leaves a cursor at the document start.
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clamped := make([]Selection, len(sels))
	for i, sel := range sels {
		clamped[i] = sel.Clamp(e.buf)
	}
	e.cursors.SetAll(clamped)
}

// SelectionCount returns the number of live selections.
func (e *Engine) SelectionCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// SelectedText returns the text of every live selection.
func (e *Engine) SelectedText() []string {
	sels := e.Selections()
	texts := make([]string, len(sels))
	for i, sel := range sels {
		texts[i] = e.buf.TextRange(sel.Range())
	}
	return texts
}

// ============================================================================
// Editor Services
// ============================================================================

// Reveal records r as the range the view should scroll to.
func (e *Engine) Reveal(r Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revealed = r
}

// Revealed returns the last revealed range.
func (e *Engine) Revealed() Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revealed
}

// ShowError records a user-visible error message.
func (e *Engine) ShowError(msg string) {
	e.addMessage(MessageError, msg)
}

// ShowWarning records a user-visible warning message.
func (e *Engine) ShowWarning(msg string) {
	e.addMessage(MessageWarning, msg)
}

// ShowInfo records a user-visible informational message.
func (e *Engine) ShowInfo(msg string) {
	e.addMessage(MessageInfo, msg)
}

func (e *Engine) addMessage(level MessageLevel, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, Message{Level: level, Text: text})
	if over := len(e.messages) - e.maxMessages; over > 0 {
		e.messages = append([]Message(nil), e.messages[over:]...)
	}
}

// Messages returns the retained user messages, oldest first.
func (e *Engine) Messages() []Message {
	e.mu.RLock()
	defer e.mu.RUnlock()
	result := make([]Message, len(e.messages))
	copy(result, e.messages)
	return result
}

// ClearMessages drops all retained messages.
func (e *Engine) ClearMessages() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = nil
}

// WordRangeAt returns the range of the word containing p, or the word
// ending at p. Words follow Unicode word segmentation and must contain a
// letter, digit or underscore.
func (e *Engine) WordRangeAt(p Position) (Range, bool) {
	line := e.buf.LineText(p.Line)
	col := 0
	var touching Range
	found := false

	state := -1
	for rest := line; len(rest) > 0; {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		start := col
		col += buffer.UTF16Len(word)
		if !isWord(word) {
			continue
		}
		r := buffer.NewRange(buffer.NewPosition(p.Line, start), buffer.NewPosition(p.Line, col))
		if start <= p.Column && p.Column < col {
			return r, true
		}
		if col == p.Column {
			touching, found = r, true
		}
	}
	return touching, found
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return true
		}
	}
	return false
}

// NextMatch finds the next occurrence of the text selected by sel, searching
// forward from its end or backward from its start and wrapping around the
// document. An empty sel yields the word under the cursor instead. The
// returned selection is forward oriented; ok is false when nothing other
// than sel itself matches.
func (e *Engine) NextMatch(sel Selection, forward bool) (Selection, bool) {
	if sel.IsEmpty() {
		r, ok := e.WordRangeAt(sel.Active)
		if !ok {
			return sel, false
		}
		return cursor.NewRangeSelection(r), true
	}

	snap := e.buf.Snapshot()
	text := snap.Text()
	needle := snap.TextRange(sel.Range())
	start := snap.ByteOffset(sel.Start())
	end := snap.ByteOffset(sel.End())

	idx := -1
	if forward {
		if i := strings.Index(text[end:], needle); i >= 0 {
			idx = end + i
		} else {
			idx = strings.Index(text, needle)
		}
	} else {
		if i := strings.LastIndex(text[:start], needle); i >= 0 {
			idx = i
		} else {
			idx = strings.LastIndex(text, needle)
		}
	}
	if idx < 0 || idx == start {
		return sel, false
	}

	match := cursor.NewSelection(snap.PositionAtByte(idx), snap.PositionAtByte(idx+len(needle)))
	return match, true
}
