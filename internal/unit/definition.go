package unit

import (
	"github.com/dlclark/regexp2"
)

// Shape identifies which scanning strategy a unit definition uses.
type Shape uint8

const (
	// ShapeLine is a single-line pattern matched on every line.
	ShapeLine Shape = iota
	// ShapeRun is a maximal run of consecutive lines matching one pattern.
	ShapeRun
	// ShapeWindow is N consecutive lines where line i matches pattern i.
	ShapeWindow
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeRun:
		return "run"
	case ShapeWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Definition is a compiled unit definition. The concrete type is one of
// *LinePattern, *LineRun or *LineWindow.
type Definition interface {
	// Name returns the unit name, e.g. "word" or "paragraph".
	Name() string
	// Shape returns the scanning strategy.
	Shape() Shape
	// Source returns the configured pattern text.
	Source() []string

	definition()
}

// LinePattern matches units within single lines, globally and with
// Unicode classes.
type LinePattern struct {
	name    string
	Pattern *regexp2.Regexp
}

func (d *LinePattern) Name() string     { return d.name }
func (d *LinePattern) Shape() Shape     { return ShapeLine }
func (d *LinePattern) Source() []string { return []string{d.Pattern.String()} }
func (d *LinePattern) definition()      {}

// LineRun treats each maximal run of consecutive lines matching Pattern as
// one unit.
type LineRun struct {
	name    string
	Pattern *regexp2.Regexp
}

func (d *LineRun) Name() string     { return d.name }
func (d *LineRun) Shape() Shape     { return ShapeRun }
func (d *LineRun) Source() []string { return []string{d.Pattern.String()} }
func (d *LineRun) definition()      {}

// LineWindow matches len(Patterns) consecutive lines where line i matches
// Patterns[i].
type LineWindow struct {
	name     string
	Patterns []*regexp2.Regexp
}

func (d *LineWindow) Name() string { return d.name }
func (d *LineWindow) Shape() Shape { return ShapeWindow }
func (d *LineWindow) definition()  {}

func (d *LineWindow) Source() []string {
	src := make([]string, len(d.Patterns))
	for i, p := range d.Patterns {
		src[i] = p.String()
	}
	return src
}

// Size returns the number of lines in a window.
func (d *LineWindow) Size() int {
	return len(d.Patterns)
}

// NewLinePattern returns a single-line unit definition.
func NewLinePattern(name string, re *regexp2.Regexp) *LinePattern {
	return &LinePattern{name: name, Pattern: re}
}

// NewLineRun returns a line-run unit definition.
func NewLineRun(name string, re *regexp2.Regexp) *LineRun {
	return &LineRun{name: name, Pattern: re}
}

// NewLineWindow returns a line-window unit definition. With a single
// pattern it degenerates to a one-line window, not a run.
func NewLineWindow(name string, res ...*regexp2.Regexp) *LineWindow {
	return &LineWindow{name: name, Patterns: res}
}
