// Package session owns the per-session selection bookkeeping: the primary
// selection index and named selection registers.
package session

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// Host is the editor surface selection commands operate on.
type Host interface {
	// Document returns a read-only view of the current text.
	Document() buffer.Document
	// TextRange returns the text covered by r.
	TextRange(r buffer.Range) string
	// Selections returns the live selections in editor order.
	Selections() []cursor.Selection
	// SetSelections replaces the live selections.
	SetSelections(sels []cursor.Selection)
	// ApplyEdits applies a batch of edits atomically.
	ApplyEdits(edits []buffer.Edit) error
	// WordRangeAt returns the word at p.
	WordRangeAt(p buffer.Position) (buffer.Range, bool)
	// NextMatch returns the next occurrence of sel's text.
	NextMatch(sel cursor.Selection, forward bool) (cursor.Selection, bool)
	// Reveal asks the view to show r.
	Reveal(r buffer.Range)
	// ShowError shows a user-visible error.
	ShowError(msg string)
	// ShowWarning shows a user-visible warning.
	ShowWarning(msg string)
	// LanguageID returns the document kind.
	LanguageID() string
}
