package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBufferFromString(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLines int
		wantText  string
	}{
		{"empty", "", 1, ""},
		{"single line", "hello", 1, "hello"},
		{"two lines", "foo\nbar", 2, "foo\nbar"},
		{"trailing newline", "foo\n", 2, "foo\n"},
		{"crlf normalized", "a\r\nb", 2, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.text)
			if got := b.LineCount(); got != tt.wantLines {
				t.Errorf("LineCount() = %d, want %d", got, tt.wantLines)
			}
			if got := b.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestNewBufferFromReaderDetectsCRLF(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb\r\n"))
	if err != nil {
		t.Fatalf("NewBufferFromReader() error = %v", err)
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("LineEnding() = %v, want CRLF", b.LineEnding())
	}
	if got := b.Text(); got != "a\r\nb\r\n" {
		t.Errorf("Text() = %q, want CRLF round trip", got)
	}
}

func TestBufferTextRange(t *testing.T) {
	b := NewBufferFromString("foo bar\nbiz baz\nqux")

	tests := []struct {
		r    Range
		want string
	}{
		{NewRange(NewPosition(0, 0), NewPosition(0, 3)), "foo"},
		{NewRange(NewPosition(0, 4), NewPosition(1, 3)), "bar\nbiz"},
		{NewRange(NewPosition(0, 0), NewPosition(2, 3)), "foo bar\nbiz baz\nqux"},
		{NewRange(NewPosition(1, 3), NewPosition(1, 3)), ""},
		{NewRange(NewPosition(2, 1), NewPosition(9, 9)), "ux"},
	}

	for _, tt := range tests {
		if got := b.TextRange(tt.r); got != tt.want {
			t.Errorf("TextRange(%s) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestBufferUTF16Columns(t *testing.T) {
	// U+1F600 occupies two UTF-16 code units
	b := NewBufferFromString("a\U0001F600b")
	if got := b.LineLen(0); got != 4 {
		t.Fatalf("LineLen() = %d, want 4", got)
	}
	if got := b.TextRange(NewRange(NewPosition(0, 1), NewPosition(0, 3))); got != "\U0001F600" {
		t.Errorf("TextRange() = %q, want emoji", got)
	}
	if got := b.TextRange(NewRange(NewPosition(0, 3), NewPosition(0, 4))); got != "b" {
		t.Errorf("TextRange() = %q, want %q", got, "b")
	}
}

func TestBufferOffsetConversion(t *testing.T) {
	b := NewBufferFromString("ab\ncd\n\nef")

	tests := []struct {
		pos    Position
		offset int
	}{
		{NewPosition(0, 0), 0},
		{NewPosition(0, 2), 2},
		{NewPosition(1, 0), 3},
		{NewPosition(1, 2), 5},
		{NewPosition(2, 0), 6},
		{NewPosition(3, 2), 9},
	}

	for _, tt := range tests {
		if got := b.OffsetAt(tt.pos); got != tt.offset {
			t.Errorf("OffsetAt(%s) = %d, want %d", tt.pos, got, tt.offset)
		}
		if got := b.PositionAt(tt.offset); got != tt.pos {
			t.Errorf("PositionAt(%d) = %s, want %s", tt.offset, got, tt.pos)
		}
	}

	if got := b.PositionAt(100); got != NewPosition(3, 2) {
		t.Errorf("PositionAt(100) = %s, want clamp to end", got)
	}
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("foo bar baz")
	rev := b.RevisionID()

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(NewPosition(0, 0), NewPosition(0, 3)), "one"),
		NewEdit(NewRange(NewPosition(0, 8), NewPosition(0, 11)), "three"),
		NewEdit(NewRange(NewPosition(0, 4), NewPosition(0, 7)), "two\nlines"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits() error = %v", err)
	}
	if got, want := b.Text(), "one two\nlines three"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if b.RevisionID() == rev {
		t.Error("RevisionID should change after edits")
	}
}

func TestBufferApplyEditsAtomic(t *testing.T) {
	b := NewBufferFromString("foo bar")

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(NewPosition(0, 0), NewPosition(0, 5)), "x"),
		NewEdit(NewRange(NewPosition(0, 4), NewPosition(0, 7)), "y"),
	})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Fatalf("ApplyEdits() error = %v, want ErrEditsOverlap", err)
	}
	if got := b.Text(); got != "foo bar" {
		t.Errorf("Text() = %q, buffer must be unchanged", got)
	}

	err = b.ApplyEdits([]Edit{
		NewInsert(NewPosition(0, 0), "ok"),
		NewInsert(NewPosition(4, 0), "bad"),
	})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Fatalf("ApplyEdits() error = %v, want ErrRangeInvalid", err)
	}
	if got := b.Text(); got != "foo bar" {
		t.Errorf("Text() = %q, buffer must be unchanged", got)
	}
}

func TestBufferInsertDelete(t *testing.T) {
	b := NewBufferFromString("hello")

	if err := b.Insert(NewPosition(0, 5), " world"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(NewRange(NewPosition(0, 0), NewPosition(0, 6))); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "world" {
		t.Errorf("Text() = %q, want %q", got, "world")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewBufferFromString("abc", WithLanguageID("go"))
	snap := b.Snapshot()

	if err := b.Replace(NewRange(NewPosition(0, 0), NewPosition(0, 3)), "xyz"); err != nil {
		t.Fatal(err)
	}
	if got := snap.Text(); got != "abc" {
		t.Errorf("snapshot Text() = %q, want %q", got, "abc")
	}
	if snap.LanguageID() != "go" {
		t.Errorf("snapshot LanguageID() = %q, want %q", snap.LanguageID(), "go")
	}
	if snap.RevisionID() == b.RevisionID() {
		t.Error("snapshot revision should differ from the edited buffer")
	}
}

func TestEditEndPosition(t *testing.T) {
	tests := []struct {
		edit Edit
		want Position
	}{
		{NewInsert(NewPosition(1, 2), "ab"), NewPosition(1, 4)},
		{NewInsert(NewPosition(1, 2), "ab\ncde"), NewPosition(2, 3)},
		{NewDelete(NewRange(NewPosition(0, 1), NewPosition(0, 4))), NewPosition(0, 1)},
	}
	for _, tt := range tests {
		if got := tt.edit.EndPosition(); got != tt.want {
			t.Errorf("%s.EndPosition() = %s, want %s", tt.edit, got, tt.want)
		}
	}
}
