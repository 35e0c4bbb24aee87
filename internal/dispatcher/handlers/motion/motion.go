// Package motion provides the unit motion handlers: moving and extending
// selections by units, and narrowing selections to unit boundaries.
package motion

import (
	"fmt"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/input"
	"github.com/dshills/kakmotion/internal/motion"
	"github.com/dshills/kakmotion/internal/unit"
)

// Action names for unit motions.
const (
	ActionMoveBy   = "selection.moveBy"
	ActionNarrowTo = "selection.narrowTo"
)

// Handler implements the unit motion actions.
type Handler struct{}

// NewHandler creates a new motion handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the selection namespace.
func (h *Handler) Namespace() string {
	return "selection"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionMoveBy, ActionNarrowTo:
		return true
	}
	return false
}

// Actions lists the handled action names.
func (h *Handler) Actions() []string {
	return []string{ActionMoveBy, ActionNarrowTo}
}

// ValidateUnits rejects a motion action whose unit or fallback unit is not
// defined for the document kind. It is meant for a pre-dispatch
// validation hook; other actions and the default unit pass.
func ValidateUnits(action *input.Action, ctx *execctx.ExecutionContext) error {
	if ctx.Units == nil || ctx.Host == nil {
		return nil
	}
	switch action.Name {
	case ActionMoveBy, ActionNarrowTo:
	default:
		return nil
	}
	if name := action.Args.GetString("unit"); name != "" {
		if _, err := ctx.Unit(name); err != nil {
			return err
		}
	}
	if action.Name == ActionNarrowTo {
		if name := action.Args.GetString("then"); name != "" {
			if _, err := ctx.Unit(name); err != nil {
				return fmt.Errorf("then: %w", err)
			}
		}
	}
	return nil
}

// HandleAction processes a motion action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForMotion(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionMoveBy:
		return h.moveBy(action, ctx)
	case ActionNarrowTo:
		return h.narrowTo(action, ctx)
	default:
		return handler.Errorf("unknown motion action: %s", action.Name)
	}
}

// moveBy maps every selection through one unit motion. The repeat count
// multiplies the step value.
func (h *Handler) moveBy(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	args := motion.DefaultMoveArgs()
	if err := action.Decode(&args); err != nil {
		return handler.Error(err)
	}
	m, err := args.Move()
	if err != nil {
		return handler.Error(err)
	}
	def, err := ctx.Unit(args.Unit)
	if err != nil {
		return handler.Error(err)
	}
	m = m.Repeat(ctx.GetCount())

	doc := ctx.Document()
	return apply(ctx, func(sel cursor.Selection) cursor.Selection {
		return motion.MoveBy(doc, sel, def, m)
	})
}

// narrowTo shrinks every selection to unit boundaries. Selections the unit
// cannot tighten fall back to the "then" unit when one is given.
func (h *Handler) narrowTo(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	args := motion.DefaultNarrowArgs()
	if err := action.Decode(&args); err != nil {
		return handler.Error(err)
	}
	boundary, err := motion.ParseBoundary(args.Boundary, motion.BoundaryBoth)
	if err != nil {
		return handler.Error(err)
	}
	def, err := ctx.Unit(args.Unit)
	if err != nil {
		return handler.Error(err)
	}

	var thenDef unit.Definition
	thenBoundary := boundary
	if args.Then != "" {
		if thenDef, err = ctx.Unit(args.Then); err != nil {
			return handler.Error(fmt.Errorf("then: %w", err))
		}
		if thenBoundary, err = motion.ParseBoundary(args.ThenBoundary, boundary); err != nil {
			return handler.Error(fmt.Errorf("thenBoundary: %w", err))
		}
	}

	doc := ctx.Document()
	return apply(ctx, func(sel cursor.Selection) cursor.Selection {
		if narrowed, ok := motion.NarrowTo(doc, sel, def, boundary); ok {
			return narrowed
		}
		if thenDef != nil {
			if narrowed, ok := motion.NarrowTo(doc, sel, thenDef, thenBoundary); ok {
				return narrowed
			}
		}
		return sel
	})
}

// apply maps the live selections through f and writes them back when any
// changed.
func apply(ctx *execctx.ExecutionContext, f func(cursor.Selection) cursor.Selection) handler.Result {
	sels := ctx.Selections()
	out := make([]cursor.Selection, len(sels))
	changed := false
	for i, sel := range sels {
		out[i] = f(sel)
		if out[i] != sel {
			changed = true
		}
	}
	if !changed {
		return handler.NoOp()
	}
	ctx.Host.SetSelections(out)
	return handler.Success()
}
