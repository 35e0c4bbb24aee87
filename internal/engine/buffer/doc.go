// Package buffer provides the line-oriented text document used by the
// selection engine.
//
// The buffer package provides:
//
//   - Position and Range types in line / UTF-16 column coordinates
//   - A thread-safe Buffer with atomic batched edits
//   - Read-only snapshots so motions can be computed against a fixed text
//   - Position helpers that wrap across line boundaries
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("foo bar\nbaz")
//
//	// Replace two ranges in one atomic batch
//	err := buf.ApplyEdits([]buffer.Edit{
//	    buffer.NewEdit(buffer.NewRange(buffer.NewPosition(0, 0), buffer.NewPosition(0, 3)), "FOO"),
//	    buffer.NewInsert(buffer.NewPosition(1, 3), "!"),
//	})
//
//	// Walk four characters forward, crossing the line break
//	p := buffer.WrappedTranslate(buf, buffer.NewPosition(0, 5), 4) // (1:1)
//
// Position Types:
//
// Columns are measured in UTF-16 code units, the coordinate system used by
// editor hosts. Characters outside the Basic Multilingual Plane occupy two
// columns.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Snapshots are immutable.
package buffer
