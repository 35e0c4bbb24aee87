package session

import (
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// AddNext adds the next occurrence of the primary selection's text and
// makes it primary. An empty primary is replaced by the word under it.
func (s *Store) AddNext(host Host, forward bool) bool {
	return s.next(host, forward, false)
}

// SkipNext replaces the primary selection with the next occurrence of its
// text.
func (s *Store) SkipNext(host Host, forward bool) bool {
	return s.next(host, forward, true)
}

func (s *Store) next(host Host, forward, skip bool) bool {
	sels := host.Selections()
	primary := s.PrimarySelection(host)
	match, ok := host.NextMatch(primary, forward)
	if !ok {
		return false
	}

	set := cursor.NewCursorSet(sels...)
	if (primary.IsEmpty() || skip) && !set.Remove(set.Index(primary)) {
		set = cursor.NewCursorSet(match)
	}
	set.Sort()
	set.Dedupe()
	index := set.Insert(match)

	host.SetSelections(set.All())
	s.SetPrimary(index, set.Count())
	host.Reveal(match.Range())
	return true
}
