package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

func pos(line, col int) Position {
	return buffer.NewPosition(line, col)
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
	if e.SelectionCount() != 1 {
		t.Errorf("expected one cursor, got %d", e.SelectionCount())
	}
}

func TestNewWithOptions(t *testing.T) {
	e := New(
		WithContent("foo\nbar"),
		WithLanguageID("markdown"),
		WithSelections(cursor.NewSelection(pos(0, 1), pos(5, 5))),
	)

	if e.LanguageID() != "markdown" {
		t.Errorf("LanguageID() = %q, want markdown", e.LanguageID())
	}
	sels := e.Selections()
	if len(sels) != 1 || sels[0].Active != pos(1, 3) {
		t.Errorf("initial selection should be clamped, got %v", sels)
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "a\r\nb" {
		t.Errorf("expected CRLF preserved, got %q", e.Text())
	}
	if e.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", e.LineCount())
	}
}

// ============================================================================
// Edits
// ============================================================================

func TestApplyEditsTransformsSelections(t *testing.T) {
	e := New(
		WithContent("foo bar"),
		WithSelections(
			cursor.NewSelection(pos(0, 0), pos(0, 3)),
			cursor.NewSelection(pos(0, 7), pos(0, 4)),
		),
	)

	err := e.ApplyEdits([]Edit{
		buffer.NewEdit(buffer.NewRange(pos(0, 0), pos(0, 3)), "bar"),
		buffer.NewEdit(buffer.NewRange(pos(0, 4), pos(0, 7)), "foo"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits() error = %v", err)
	}
	if e.Text() != "bar foo" {
		t.Errorf("Text() = %q, want %q", e.Text(), "bar foo")
	}
	got := e.SelectedText()
	if got[0] != "bar" || got[1] != "foo" {
		t.Errorf("SelectedText() = %v, want [bar foo]", got)
	}
	if !e.Selections()[1].IsBackward() {
		t.Error("selection orientation should be preserved")
	}
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	e := New(WithContent("hello"))
	err := e.ApplyEdits([]Edit{
		buffer.NewDelete(buffer.NewRange(pos(0, 0), pos(0, 3))),
		buffer.NewDelete(buffer.NewRange(pos(0, 2), pos(0, 4))),
	})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}
	if e.Text() != "hello" {
		t.Errorf("text must be unchanged, got %q", e.Text())
	}
}

func TestInsertAtSelections(t *testing.T) {
	e := New(
		WithContent("joe, boe"),
		WithSelections(
			cursor.NewCursorSelection(pos(0, 3)),
			cursor.NewCursorSelection(pos(0, 8)),
			cursor.NewCursorSelection(pos(0, 8)),
		),
	)
	if err := e.InsertAtSelections("+"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "joe+, boe+" {
		t.Errorf("Text() = %q, want %q", e.Text(), "joe+, boe+")
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("text"), WithReadOnly())
	if err := e.Insert(pos(0, 0), "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if !e.IsReadOnly() {
		t.Error("IsReadOnly() should be true")
	}
}

// ============================================================================
// Editor Services
// ============================================================================

func TestMessages(t *testing.T) {
	e := New(WithMaxMessages(2))
	e.ShowInfo("one")
	e.ShowWarning("two")
	e.ShowError("three")

	msgs := e.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 retained messages, got %d", len(msgs))
	}
	if msgs[0].Text != "two" || msgs[0].Level != MessageWarning {
		t.Errorf("unexpected first message %+v", msgs[0])
	}
	if msgs[1].Level.String() != "error" {
		t.Errorf("Level.String() = %q, want error", msgs[1].Level)
	}

	e.ClearMessages()
	if len(e.Messages()) != 0 {
		t.Error("ClearMessages() should drop all messages")
	}
}

func TestReveal(t *testing.T) {
	e := New(WithContent("abc"))
	r := buffer.NewRange(pos(0, 1), pos(0, 2))
	e.Reveal(r)
	if e.Revealed() != r {
		t.Errorf("Revealed() = %s, want %s", e.Revealed(), r)
	}
}

func TestWordRangeAt(t *testing.T) {
	e := New(WithContent("foo  bar_baz, qux"))

	tests := []struct {
		name string
		p    Position
		want Range
		ok   bool
	}{
		{"start of word", pos(0, 0), buffer.NewRange(pos(0, 0), pos(0, 3)), true},
		{"inside word", pos(0, 7), buffer.NewRange(pos(0, 5), pos(0, 12)), true},
		{"end of word", pos(0, 3), buffer.NewRange(pos(0, 0), pos(0, 3)), true},
		{"between spaces", pos(0, 4), Range{}, false},
		{"punctuation after word", pos(0, 12), buffer.NewRange(pos(0, 5), pos(0, 12)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.WordRangeAt(tt.p)
			if ok != tt.ok || got != tt.want {
				t.Errorf("WordRangeAt(%s) = %s, %v; want %s, %v", tt.p, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNextMatch(t *testing.T) {
	e := New(WithContent("foo bar\nfoo baz foo"))
	first := cursor.NewSelection(pos(0, 0), pos(0, 3))

	next, ok := e.NextMatch(first, true)
	if !ok || next.Start() != pos(1, 0) || next.End() != pos(1, 3) {
		t.Fatalf("NextMatch(forward) = %s, %v", next, ok)
	}

	prev, ok := e.NextMatch(first, false)
	if !ok || prev.Start() != pos(1, 8) {
		t.Errorf("NextMatch(backward) should wrap to the last foo, got %s, %v", prev, ok)
	}

	wrapped, ok := e.NextMatch(cursor.NewSelection(pos(1, 8), pos(1, 11)), true)
	if !ok || wrapped.Start() != pos(0, 0) {
		t.Errorf("NextMatch should wrap to the document start, got %s", wrapped)
	}
}

func TestNextMatchUnique(t *testing.T) {
	e := New(WithContent("foo bar"))
	sel := cursor.NewSelection(pos(0, 4), pos(0, 7))
	if _, ok := e.NextMatch(sel, true); ok {
		t.Error("a unique selection has no next match")
	}
}

func TestNextMatchEmptySelectsWord(t *testing.T) {
	e := New(WithContent("foo bar"))
	got, ok := e.NextMatch(cursor.NewCursorSelection(pos(0, 5)), true)
	if !ok || e.TextRange(got.Range()) != "bar" {
		t.Errorf("NextMatch(empty) = %s, %v; want the word under the cursor", got, ok)
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentReadsAndEdits(t *testing.T) {
	e := New(WithContent(strings.Repeat("word ", 100)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = e.Document().LineText(0)
				_ = e.Selections()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = e.Insert(pos(0, 0), "x")
			}
		}()
	}
	wg.Wait()

	if got := len(e.LineText(0)); got != 500+200 {
		t.Errorf("line length = %d, want %d", got, 700)
	}
}
