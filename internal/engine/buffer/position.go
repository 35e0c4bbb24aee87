package buffer

import (
	"fmt"
	"sync/atomic"
)

// Position represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in UTF-16 code units from the start of the line,
// matching the coordinate system of editor hosts and the LSP protocol.
type Position struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column in UTF-16 code units
}

// NewPosition creates a position at the given line and column.
func NewPosition(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// BeforeOrEqual returns true if p comes before or is equal to other.
func (p Position) BeforeOrEqual(other Position) bool {
	return p.Compare(other) <= 0
}

// AfterOrEqual returns true if p comes after or is equal to other.
func (p Position) AfterOrEqual(other Position) bool {
	return p.Compare(other) >= 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// MinPosition returns the earlier of two positions.
func MinPosition(a, b Position) Position {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxPosition returns the later of two positions.
func MaxPosition(a, b Position) Position {
	if a.After(b) {
		return a
	}
	return b
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
