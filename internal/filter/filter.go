// Package filter splits, creates, filters and reshapes selections by their
// text.
package filter

import (
	"errors"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/unit"
)

// ErrNoMatch indicates that a pattern matched nothing in any selection.
var ErrNoMatch = errors.New("filter: no match")

// Literal compiles text as a pattern matching itself.
func Literal(text string) (*regexp2.Regexp, error) {
	return regexp2.Compile(regexp2.Escape(text), regexp2.None)
}

// matches returns the matches of re inside sel as document ranges.
func matches(doc buffer.Document, sel cursor.Selection, re *regexp2.Regexp) []buffer.Range {
	start := sel.Start()
	spans := unit.FindAll(re, buffer.TextOf(doc, sel.Range()))
	out := make([]buffer.Range, len(spans))
	for i, sp := range spans {
		out[i] = buffer.Range{
			Start: buffer.WrappedTranslate(doc, start, sp.Start),
			End:   buffer.WrappedTranslate(doc, start, sp.End),
		}
	}
	return out
}

// SplitBy splits every selection at the matches of re. The pieces exclude
// the delimiters and keep the orientation of their selection. Selections
// without a match are kept whole; if no selection matched, ErrNoMatch is
// returned.
func SplitBy(doc buffer.Document, sels []cursor.Selection, re *regexp2.Regexp) ([]cursor.Selection, error) {
	var out []cursor.Selection
	matched := false
	for _, sel := range sels {
		delims := matches(doc, sel, re)
		if len(delims) == 0 {
			out = append(out, sel)
			continue
		}
		matched = true
		from := sel.Start()
		for _, d := range delims {
			out = append(out, sel.WithBounds(from, d.Start))
			from = d.End
		}
		out = append(out, sel.WithBounds(from, sel.End()))
	}
	if !matched {
		return sels, ErrNoMatch
	}
	return out, nil
}

// SplitByNewline splits every selection into its lines.
func SplitByNewline(doc buffer.Document, sels []cursor.Selection) ([]cursor.Selection, error) {
	re, err := Literal("\n")
	if err != nil {
		return sels, err
	}
	return SplitBy(doc, sels, re)
}

// CreateBy replaces every selection by the selections of its matches of re.
// Selections without a match are dropped; if nothing matched at all,
// ErrNoMatch is returned.
func CreateBy(doc buffer.Document, sels []cursor.Selection, re *regexp2.Regexp) ([]cursor.Selection, error) {
	var out []cursor.Selection
	for _, sel := range sels {
		for _, m := range matches(doc, sel, re) {
			out = append(out, sel.WithBounds(m.Start, m.End))
		}
	}
	if len(out) == 0 {
		return sels, ErrNoMatch
	}
	return out, nil
}

// Include keeps the selections whose text matches re. If none would
// remain, the input is returned with ErrNoMatch.
func Include(doc buffer.Document, sels []cursor.Selection, re *regexp2.Regexp) ([]cursor.Selection, error) {
	return keep(doc, sels, re, true)
}

// Exclude drops the selections whose text matches re. If none would
// remain, the input is returned with ErrNoMatch.
func Exclude(doc buffer.Document, sels []cursor.Selection, re *regexp2.Regexp) ([]cursor.Selection, error) {
	return keep(doc, sels, re, false)
}

func keep(doc buffer.Document, sels []cursor.Selection, re *regexp2.Regexp, want bool) ([]cursor.Selection, error) {
	var out []cursor.Selection
	for _, sel := range sels {
		if unit.Matches(re, buffer.TextOf(doc, sel.Range())) == want {
			out = append(out, sel)
		}
	}
	if len(out) == 0 {
		return sels, ErrNoMatch
	}
	return out, nil
}

// TrimWhitespace shrinks every selection to exclude leading and trailing
// whitespace. A selection of only whitespace collapses to its start.
func TrimWhitespace(doc buffer.Document, sels []cursor.Selection) []cursor.Selection {
	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		text := buffer.TextOf(doc, sel.Range())
		trimmed := strings.TrimLeftFunc(text, isSpace)
		lead := 0
		if trimmed != "" {
			lead = buffer.UTF16Len(text[:len(text)-len(trimmed)])
		}
		body := buffer.UTF16Len(strings.TrimRightFunc(trimmed, isSpace))

		start := buffer.WrappedTranslate(doc, sel.Start(), lead)
		end := buffer.WrappedTranslate(doc, start, body)
		out[i] = sel.WithBounds(start, end)
	}
	return out
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ExchangeAnchorActive swaps anchor and active of every selection.
func ExchangeAnchorActive(sels []cursor.Selection) []cursor.Selection {
	return mapSelections(sels, cursor.Selection.Flip)
}

// ActiveAtEnd orients every selection forward.
func ActiveAtEnd(sels []cursor.Selection) []cursor.Selection {
	return mapSelections(sels, cursor.Selection.Normalize)
}

// ActiveAtStart orients every selection backward.
func ActiveAtStart(sels []cursor.Selection) []cursor.Selection {
	return mapSelections(sels, cursor.Selection.Reverse)
}

func mapSelections(sels []cursor.Selection, f func(cursor.Selection) cursor.Selection) []cursor.Selection {
	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		out[i] = f(sel)
	}
	return out
}
