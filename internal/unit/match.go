package unit

import (
	"github.com/dlclark/regexp2"
)

// Span is a match in UTF-16 code units, [Start, End).
type Span struct {
	Start int
	End   int
}

// FindAll returns all non-overlapping matches of re in s. A zero-length
// match advances the search by one character. Match errors (timeouts)
// end the search.
func FindAll(re *regexp2.Regexp, s string) []Span {
	runes := []rune(s)
	cols := utf16Columns(runes)

	var spans []Span
	for at := 0; at <= len(runes); {
		m, err := re.FindRunesMatchStartingAt(runes, at)
		if err != nil || m == nil {
			break
		}
		spans = append(spans, Span{Start: cols[m.Index], End: cols[m.Index+m.Length]})
		next := m.Index + m.Length
		if m.Length == 0 {
			next++
		}
		at = next
	}
	return spans
}

// Matches reports whether re matches anywhere in s.
func Matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// utf16Columns maps each rune index (and len(runes)) to its UTF-16 column.
func utf16Columns(runes []rune) []int {
	cols := make([]int, len(runes)+1)
	for i, r := range runes {
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		cols[i+1] = cols[i] + w
	}
	return cols
}
