package session

import (
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// MovePrimary rotates the primary index by delta, wrapping around the live
// selections, and reveals the new primary.
func (s *Store) MovePrimary(host Host, delta int) {
	sels := host.Selections()
	n := len(sels)
	if n == 0 {
		return
	}

	s.mu.Lock()
	s.primary = ((clampIndex(s.primary, n)+delta)%n + n) % n
	primary := s.primary
	s.mu.Unlock()

	host.Reveal(sels[primary].Range())
}

// DeletePrimary removes the primary selection when more than one exists.
func (s *Store) DeletePrimary(host Host) bool {
	set := cursor.NewCursorSet(host.Selections()...)
	primary := s.PrimarySelection(host)
	if !set.Remove(set.Index(primary)) {
		return false
	}
	host.SetSelections(set.All())
	s.SelectionsChanged(set.Count())
	host.Reveal(set.Get(s.Primary()).Range())
	return true
}

// CancelSelection saves the live selections in the cancel register and
// collapses to a cursor at the primary's active position.
func (s *Store) CancelSelection(host Host) {
	sels := host.Selections()
	primary := s.PrimarySelection(host)

	s.mu.Lock()
	s.registers[CancelRegister] = cloneSelections(sels)
	s.primary = 0
	s.mu.Unlock()

	host.SetSelections([]cursor.Selection{cursor.NewCursorSelection(primary.Active)})
	s.logger.Debug("cancelled %d selections", len(sels))
}
