package engine

import (
	"errors"

	"github.com/dshills/kakmotion/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrRangeInvalid indicates an edit range outside the document.
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEditsOverlap indicates two edits in one batch overlap.
	ErrEditsOverlap = buffer.ErrEditsOverlap

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
