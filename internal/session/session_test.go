package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/kakmotion/internal/engine"
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

var _ Host = (*engine.Engine)(nil)

func pos(line, col int) buffer.Position {
	return buffer.NewPosition(line, col)
}

func sel(al, ac, hl, hc int) cursor.Selection {
	return cursor.NewSelection(pos(al, ac), pos(hl, hc))
}

func newHost(text string, sels ...cursor.Selection) *engine.Engine {
	return engine.New(engine.WithContent(text), engine.WithSelections(sels...))
}

func TestNewStoreID(t *testing.T) {
	a, b := NewStore(), NewStore()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("store ids = %q, %q, want distinct non-empty", a.ID(), b.ID())
	}
	if got := NewStore(WithID("fixed")).ID(); got != "fixed" {
		t.Errorf("ID() = %q, want %q", got, "fixed")
	}
}

func TestMovePrimaryWraps(t *testing.T) {
	host := newHost("a b c", sel(0, 0, 0, 1), sel(0, 2, 0, 3), sel(0, 4, 0, 5))
	s := NewStore()

	s.MovePrimary(host, -1)
	if got := s.Primary(); got != 2 {
		t.Fatalf("Primary() = %d, want 2", got)
	}
	if got := host.Revealed(); got != sel(0, 4, 0, 5).Range() {
		t.Errorf("Revealed() = %s, want last selection", got)
	}

	s.MovePrimary(host, 1)
	if got := s.Primary(); got != 0 {
		t.Errorf("Primary() = %d, want 0", got)
	}
}

func TestSelectionsChangedClamps(t *testing.T) {
	s := NewStore()
	s.SetPrimary(4, 5)
	s.SelectionsChanged(2)
	if got := s.Primary(); got != 1 {
		t.Errorf("Primary() = %d, want 1", got)
	}
	s.SelectionsChanged(0)
	if got := s.Primary(); got != 0 {
		t.Errorf("Primary() = %d, want 0", got)
	}
}

func TestAppendRestoreKeepsPositions(t *testing.T) {
	saved := []cursor.Selection{sel(0, 0, 0, 3), sel(0, 8, 0, 11)}
	host := newHost("foo bar baz\nqux", saved...)
	s := NewStore()

	if n := s.Append(host, ""); n != 2 {
		t.Fatalf("Append() = %d, want 2", n)
	}

	// Registers hold copies: edits do not move saved positions.
	if err := host.Insert(pos(0, 0), "zzz "); err != nil {
		t.Fatal(err)
	}
	host.SetSelections([]cursor.Selection{cursor.NewCursorSelection(pos(1, 0))})

	if err := s.RestoreAndClear(host, DefaultRegister); err != nil {
		t.Fatalf("RestoreAndClear() error = %v", err)
	}
	if got := host.Selections(); !reflect.DeepEqual(got, saved) {
		t.Errorf("Selections() = %v, want %v", got, saved)
	}
	if got := s.Register(DefaultRegister); len(got) != 0 {
		t.Errorf("register = %v, want empty after restore", got)
	}

	err := s.RestoreAndClear(host, DefaultRegister)
	if !errors.Is(err, ErrEmptyRegister) {
		t.Errorf("RestoreAndClear() error = %v, want ErrEmptyRegister", err)
	}
}

func TestAppendSavesWordUnderCursor(t *testing.T) {
	host := newHost("foo bar", cursor.NewCursorSelection(pos(0, 5)))
	s := NewStore()

	s.Append(host, "words")
	want := []cursor.Selection{sel(0, 4, 0, 7)}
	if got := s.Register("words"); !reflect.DeepEqual(got, want) {
		t.Errorf("Register() = %v, want %v", got, want)
	}
}

func TestAppendSorts(t *testing.T) {
	host := newHost("a b c", sel(0, 4, 0, 5))
	s := NewStore()
	s.Append(host, "")
	host.SetSelections([]cursor.Selection{sel(0, 0, 0, 1)})
	s.Append(host, "")

	want := []cursor.Selection{sel(0, 0, 0, 1), sel(0, 4, 0, 5)}
	if got := s.Register(""); !reflect.DeepEqual(got, want) {
		t.Errorf("Register() = %v, want %v", got, want)
	}
}

func TestRestorePicksNearestPrimary(t *testing.T) {
	tests := []struct {
		name    string
		primary cursor.Selection
		want    int
	}{
		{"same line", cursor.NewCursorSelection(pos(2, 9)), 2},
		{"nearest line then column", cursor.NewCursorSelection(pos(1, 0)), 0},
		{"nearest column on line", cursor.NewCursorSelection(pos(0, 6)), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newHost("one two three\nfour\nfive six", sel(0, 0, 0, 3), sel(2, 0, 2, 4), sel(0, 4, 0, 7))
			s := NewStore()
			s.Append(host, "")

			host.SetSelections([]cursor.Selection{tt.primary})
			s.SelectionsChanged(1)
			if err := s.RestoreAndClear(host, ""); err != nil {
				t.Fatal(err)
			}
			// restored in sorted order: (0:0-0:3), (0:4-0:7), (2:0-2:4)
			if got := s.Primary(); got != tt.want {
				t.Errorf("Primary() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSwapWithMemory(t *testing.T) {
	host := newHost("one two three four", sel(0, 8, 0, 13), sel(0, 14, 0, 18))
	s := NewStore()
	s.Append(host, "")

	host.SetSelections([]cursor.Selection{sel(0, 0, 0, 3), sel(0, 4, 0, 7)})
	if err := s.SwapWithMemory(host, ""); err != nil {
		t.Fatalf("SwapWithMemory() error = %v", err)
	}
	if got, want := host.Text(), "three four one two"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got := s.Register(""); len(got) != 0 {
		t.Errorf("register = %v, want empty after swap", got)
	}
}

func TestSwapWithMemoryCountMismatch(t *testing.T) {
	host := newHost("one two three", sel(0, 0, 0, 3), sel(0, 4, 0, 7))
	s := NewStore()
	s.Append(host, "")

	host.SetSelections([]cursor.Selection{sel(0, 8, 0, 13)})
	err := s.SwapWithMemory(host, "")
	if !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("SwapWithMemory() error = %v, want ErrCountMismatch", err)
	}
	if got := host.Text(); got != "one two three" {
		t.Errorf("Text() = %q, want unchanged", got)
	}
	if got := len(s.Register("")); got != 2 {
		t.Errorf("register size = %d, want 2", got)
	}
}

func TestDeleteLastSaved(t *testing.T) {
	host := newHost("a b", sel(0, 0, 0, 1), sel(0, 2, 0, 3))
	s := NewStore()
	s.Append(host, "r")

	if err := s.DeleteLastSaved("r"); err != nil {
		t.Fatal(err)
	}
	want := []cursor.Selection{sel(0, 0, 0, 1)}
	if got := s.Register("r"); !reflect.DeepEqual(got, want) {
		t.Errorf("Register() = %v, want %v", got, want)
	}

	_ = s.DeleteLastSaved("r")
	if err := s.DeleteLastSaved("r"); !errors.Is(err, ErrEmptyRegister) {
		t.Errorf("DeleteLastSaved() error = %v, want ErrEmptyRegister", err)
	}
}

func TestCancelSelection(t *testing.T) {
	host := newHost("foo bar", sel(0, 0, 0, 3), sel(0, 4, 0, 7))
	s := NewStore()
	s.SetPrimary(1, 2)

	s.CancelSelection(host)

	want := []cursor.Selection{cursor.NewCursorSelection(pos(0, 7))}
	if got := host.Selections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selections() = %v, want %v", got, want)
	}
	if got := len(s.Register(CancelRegister)); got != 2 {
		t.Errorf("cancel register size = %d, want 2", got)
	}
	if s.Primary() != 0 {
		t.Errorf("Primary() = %d, want 0", s.Primary())
	}
}

func TestDeletePrimary(t *testing.T) {
	host := newHost("a b c", sel(0, 0, 0, 1), sel(0, 2, 0, 3), sel(0, 4, 0, 5))
	s := NewStore()
	s.SetPrimary(2, 3)

	if !s.DeletePrimary(host) {
		t.Fatal("DeletePrimary() = false, want true")
	}
	if got := host.SelectionCount(); got != 2 {
		t.Errorf("SelectionCount() = %d, want 2", got)
	}
	if got := s.Primary(); got != 1 {
		t.Errorf("Primary() = %d, want 1", got)
	}

	single := newHost("a", sel(0, 0, 0, 1))
	if s.DeletePrimary(single) {
		t.Error("DeletePrimary() on a single selection = true, want false")
	}
}

func TestAddNext(t *testing.T) {
	host := newHost("foo bar foo baz foo", sel(0, 0, 0, 3))
	s := NewStore()

	if !s.AddNext(host, true) {
		t.Fatal("AddNext() = false")
	}
	want := []cursor.Selection{sel(0, 0, 0, 3), sel(0, 8, 0, 11)}
	if got := host.Selections(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Selections() = %v, want %v", got, want)
	}
	if s.Primary() != 1 {
		t.Errorf("Primary() = %d, want 1", s.Primary())
	}

	s.AddNext(host, true)
	s.AddNext(host, true)
	want = []cursor.Selection{sel(0, 0, 0, 3), sel(0, 8, 0, 11), sel(0, 16, 0, 19)}
	if got := host.Selections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selections() = %v, want %v", got, want)
	}
	if s.Primary() != 0 {
		t.Errorf("Primary() = %d, want 0 after wrapping", s.Primary())
	}
}

func TestAddNextEmptySelectsWord(t *testing.T) {
	host := newHost("foo bar", cursor.NewCursorSelection(pos(0, 5)))
	s := NewStore()

	if !s.AddNext(host, true) {
		t.Fatal("AddNext() = false")
	}
	want := []cursor.Selection{sel(0, 4, 0, 7)}
	if got := host.Selections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selections() = %v, want %v", got, want)
	}
}

func TestSkipNext(t *testing.T) {
	host := newHost("foo bar foo", sel(0, 0, 0, 3))
	s := NewStore()

	if !s.SkipNext(host, true) {
		t.Fatal("SkipNext() = false")
	}
	want := []cursor.Selection{sel(0, 8, 0, 11)}
	if got := host.Selections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selections() = %v, want %v", got, want)
	}
}

func TestAddNextNoMatch(t *testing.T) {
	host := newHost("foo bar", sel(0, 0, 0, 3))
	s := NewStore()
	if s.AddNext(host, true) {
		t.Error("AddNext() = true, want false when nothing else matches")
	}
	if got := host.SelectionCount(); got != 1 {
		t.Errorf("SelectionCount() = %d, want 1", got)
	}
}
