package engine

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// DefaultMaxMessages is the number of user messages the engine retains.
const DefaultMaxMessages = 100

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the line ending style for the engine.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = &ending
	}
}

// WithLanguageID sets the document language identifier.
func WithLanguageID(id string) Option {
	return func(e *Engine) {
		e.languageID = id
	}
}

// WithSelections sets the initial selections.
func WithSelections(sels ...cursor.Selection) Option {
	return func(e *Engine) {
		e.initSelections = sels
	}
}

// WithMaxMessages sets how many user messages are retained.
func WithMaxMessages(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxMessages = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
