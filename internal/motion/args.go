package motion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/kakmotion/internal/scan"
)

// Boundary selects which edge(s) of a unit a motion stops at.
type Boundary = scan.Boundary

// Boundary values.
const (
	BoundaryStart = scan.Start
	BoundaryEnd   = scan.End
	BoundaryBoth  = scan.Both
)

// ErrInvalidBoundary indicates a boundary other than start, end or both.
var ErrInvalidBoundary = errors.New("motion: invalid boundary")

// ParseBoundary parses "start", "end" or "both". An empty string yields def.
func ParseBoundary(s string, def Boundary) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "start":
		return BoundaryStart, nil
	case "end":
		return BoundaryEnd, nil
	case "both":
		return BoundaryBoth, nil
	default:
		return def, fmt.Errorf("%w: %q", ErrInvalidBoundary, s)
	}
}

// MoveArgs are the arguments of a moveBy command.
type MoveArgs struct {
	// Unit names the unit; empty means the default unit.
	Unit string `mapstructure:"unit"`
	// Select extends from the current anchor instead of moving a cursor.
	Select bool `mapstructure:"select"`
	// SelectWhole selects whole units instead of stopping at boundaries.
	SelectWhole bool `mapstructure:"selectWhole"`
	// SelectOneUnit keeps only the last unit of a multi-step whole move.
	SelectOneUnit bool `mapstructure:"selectOneUnit"`
	// Value is the signed step count; negative moves backward.
	Value int `mapstructure:"value"`
	// Boundary is start, end or both.
	Boundary string `mapstructure:"boundary"`
}

// DefaultMoveArgs returns the argument defaults: one step to unit starts.
func DefaultMoveArgs() MoveArgs {
	return MoveArgs{Value: 1, Boundary: "start"}
}

// NarrowArgs are the arguments of a narrowTo command.
type NarrowArgs struct {
	Unit string `mapstructure:"unit"`
	// Then is tried when Unit cannot narrow the selection.
	Then         string `mapstructure:"then"`
	ThenBoundary string `mapstructure:"thenBoundary"`
	Boundary     string `mapstructure:"boundary"`
}

// DefaultNarrowArgs returns the argument defaults: narrow to both edges.
func DefaultNarrowArgs() NarrowArgs {
	return NarrowArgs{Boundary: "both"}
}

// Move validates the arguments.
func (a MoveArgs) Move() (Move, error) {
	b, err := ParseBoundary(a.Boundary, BoundaryStart)
	if err != nil {
		return Move{}, err
	}
	return Move{
		Select:        a.Select,
		SelectWhole:   a.SelectWhole,
		SelectOneUnit: a.SelectOneUnit,
		Value:         a.Value,
		Boundary:      b,
	}, nil
}
