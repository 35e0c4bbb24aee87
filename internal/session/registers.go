package session

import (
	"fmt"
	"sort"

	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// Append adds the live selections to a register and keeps the register
// sorted. An empty selection is saved as the word under it, if any.
func (s *Store) Append(host Host, name string) int {
	name = registerName(name)
	sels := host.Selections()
	saved := make([]cursor.Selection, 0, len(sels))
	for _, sel := range sels {
		if sel.IsEmpty() {
			if r, ok := host.WordRangeAt(sel.Active); ok {
				sel = cursor.NewRangeSelection(r)
			}
		}
		saved = append(saved, sel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reg := append(cloneSelections(s.registers[name]), saved...)
	sort.SliceStable(reg, func(i, j int) bool {
		return cursor.CompareSelections(reg[i], reg[j]) < 0
	})
	s.registers[name] = reg
	s.logger.Debug("register %q holds %d selections", name, len(reg))
	return len(reg)
}

// RestoreAndClear replaces the live selections with a register's contents
// and empties the register. The new primary is the restored selection
// closest to the old primary.
func (s *Store) RestoreAndClear(host Host, name string) error {
	name = registerName(name)
	old := s.PrimarySelection(host)

	s.mu.Lock()
	reg := cloneSelections(s.registers[name])
	if len(reg) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}
	s.registers[name] = []cursor.Selection{}
	s.primary = nearest(reg, old.Active)
	primary := s.primary
	s.mu.Unlock()

	host.SetSelections(reg)
	host.Reveal(reg[primary].Range())
	return nil
}

// SwapWithMemory exchanges the text of each live selection with the text of
// the register selection at the same index, in one edit batch, and empties
// the register. Both sides' text is captured before editing.
func (s *Store) SwapWithMemory(host Host, name string) error {
	name = registerName(name)
	live := host.Selections()

	s.mu.Lock()
	reg := cloneSelections(s.registers[name])
	s.mu.Unlock()

	if len(reg) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}
	if len(reg) != len(live) {
		return fmt.Errorf("%w: %d saved, %d selected", ErrCountMismatch, len(reg), len(live))
	}

	edits := make([]buffer.Edit, 0, 2*len(live))
	for i := range live {
		a, b := live[i].Range(), reg[i].Range()
		if a == b {
			continue
		}
		aText, bText := host.TextRange(a), host.TextRange(b)
		edits = append(edits, buffer.NewEdit(a, bText), buffer.NewEdit(b, aText))
	}
	if err := host.ApplyEdits(edits); err != nil {
		return fmt.Errorf("swap with register %q: %w", name, err)
	}

	s.mu.Lock()
	s.registers[name] = []cursor.Selection{}
	s.mu.Unlock()
	return nil
}

// DeleteLastSaved drops the last entry of a register.
func (s *Store) DeleteLastSaved(name string) error {
	name = registerName(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	reg := s.registers[name]
	if len(reg) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}
	s.registers[name] = reg[:len(reg)-1]
	return nil
}

// nearest returns the index of the selection whose active position is
// closest to target: same line first, then fewest lines away, then fewest
// columns away.
func nearest(sels []cursor.Selection, target buffer.Position) int {
	best := 0
	for i := 1; i < len(sels); i++ {
		if closer(sels[i].Active, sels[best].Active, target) {
			best = i
		}
	}
	return best
}

func closer(a, b, target buffer.Position) bool {
	aLines, bLines := abs(a.Line-target.Line), abs(b.Line-target.Line)
	if aLines != bLines {
		return aLines < bLines
	}
	return abs(a.Column-target.Column) < abs(b.Column-target.Column)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
