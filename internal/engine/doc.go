// Package engine provides the in-process editor host used by kakmotion.
//
// The engine combines a line-oriented buffer with the live selection set
// and the editor services that selection commands consume: user messages,
// reveal hints, word lookup and next-match search. It is the surface that
// a real editor would otherwise provide, so the selection core, the CLI and
// the tests all run without one.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - buffer: positions in UTF-16 columns, atomic batched edits, snapshots
//   - cursor: anchor/active selections and multi-selection sets
//
// # Thread Safety
//
// All Engine operations are thread-safe. Motions should be computed against
// Document(), an immutable snapshot, and applied with SetSelections.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("foo bar foo"))
//
//	// Select the first word, then find the next occurrence
//	r, _ := e.WordRangeAt(buffer.NewPosition(0, 1))
//	next, ok := e.NextMatch(cursor.NewRangeSelection(r), true)
//	// next covers (0:8)-(0:11)
//
//	// Edit at every cursor in one batch
//	e.SetSelections([]engine.Selection{cursor.NewCursorSelection(r.End), next.Collapse()})
//	e.InsertAtSelections("!") // "foo! bar foo!"
//
// # Messages
//
// Commands never fail the process. Problems are reported with ShowError or
// ShowWarning and can be inspected through Messages:
//
//	for _, m := range e.Messages() {
//	    fmt.Println(m.Level, m.Text)
//	}
//
// # Read-Only Mode
//
//	e := engine.New(engine.WithContent("text"), engine.WithReadOnly())
//	err := e.Insert(buffer.NewPosition(0, 0), "x")
//	// err == engine.ErrReadOnly
package engine
