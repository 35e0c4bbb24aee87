// Package memory provides the selection-set handlers: primary selection
// rotation, selection registers and next-match selection.
package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/input"
)

// Action names for selection-set commands.
const (
	ActionMovePrimaryLeft  = "selection.movePrimaryLeft"
	ActionMovePrimaryRight = "selection.movePrimaryRight"
	ActionAppendToMemory   = "selection.appendToMemory"
	ActionRestoreAndClear  = "selection.restoreAndClear"
	ActionSwapWithMemory   = "selection.swapWithMemory"
	ActionDeleteLastSaved  = "selection.deleteLastSaved"
	ActionDeletePrimary    = "selection.deletePrimary"
	ActionCancelSelection  = "selection.cancelSelection"
	ActionAddNext          = "selection.addNext"
	ActionSkipNext         = "selection.skipNext"
)

// ErrInvalidDirection indicates a direction other than forward or backward.
var ErrInvalidDirection = errors.New("memory: invalid direction")

var actions = []string{
	ActionAddNext,
	ActionAppendToMemory,
	ActionCancelSelection,
	ActionDeleteLastSaved,
	ActionDeletePrimary,
	ActionMovePrimaryLeft,
	ActionMovePrimaryRight,
	ActionRestoreAndClear,
	ActionSkipNext,
	ActionSwapWithMemory,
}

type registerArgs struct {
	Register string `mapstructure:"register"`
}

type nextArgs struct {
	Direction string `mapstructure:"direction"`
}

// Handler implements the selection-set actions.
type Handler struct{}

// NewHandler creates a new memory handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the selection namespace.
func (h *Handler) Namespace() string {
	return "selection"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	for _, a := range actions {
		if a == actionName {
			return true
		}
	}
	return false
}

// Actions lists the handled action names.
func (h *Handler) Actions() []string {
	return append([]string(nil), actions...)
}

// HandleAction processes a selection-set action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForSession(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionMovePrimaryLeft:
		return h.movePrimary(action, ctx, -ctx.GetCount())
	case ActionMovePrimaryRight:
		return h.movePrimary(action, ctx, ctx.GetCount())
	case ActionAppendToMemory, ActionRestoreAndClear, ActionSwapWithMemory, ActionDeleteLastSaved:
		return h.register(action, ctx)
	case ActionDeletePrimary:
		return h.deletePrimary(action, ctx)
	case ActionCancelSelection:
		return h.cancelSelection(action, ctx)
	case ActionAddNext, ActionSkipNext:
		return h.next(action, ctx)
	default:
		return handler.Errorf("unknown memory action: %s", action.Name)
	}
}

func (h *Handler) movePrimary(action input.Action, ctx *execctx.ExecutionContext, delta int) handler.Result {
	if err := action.Decode(&struct{}{}); err != nil {
		return handler.Error(err)
	}
	if len(ctx.Selections()) < 2 {
		return handler.NoOp()
	}
	ctx.Store.MovePrimary(ctx.Host, delta)
	return handler.Success().WithData("primary", ctx.Store.Primary())
}

func (h *Handler) register(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	var args registerArgs
	if err := action.Decode(&args); err != nil {
		return handler.Error(err)
	}

	var err error
	switch action.Name {
	case ActionAppendToMemory:
		n := ctx.Store.Append(ctx.Host, args.Register)
		return handler.Success().WithData("saved", n)
	case ActionRestoreAndClear:
		err = ctx.Store.RestoreAndClear(ctx.Host, args.Register)
	case ActionSwapWithMemory:
		err = ctx.Store.SwapWithMemory(ctx.Host, args.Register)
	case ActionDeleteLastSaved:
		err = ctx.Store.DeleteLastSaved(args.Register)
	}
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success()
}

func (h *Handler) deletePrimary(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := action.Decode(&struct{}{}); err != nil {
		return handler.Error(err)
	}
	if !ctx.Store.DeletePrimary(ctx.Host) {
		return handler.NoOp()
	}
	return handler.Success()
}

func (h *Handler) cancelSelection(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := action.Decode(&struct{}{}); err != nil {
		return handler.Error(err)
	}
	ctx.Store.CancelSelection(ctx.Host)
	return handler.Success()
}

// next adds (or skips to) the next match, repeated count times.
func (h *Handler) next(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	var args nextArgs
	if err := action.Decode(&args); err != nil {
		return handler.Error(err)
	}
	forward, err := parseDirection(args.Direction)
	if err != nil {
		return handler.Error(err)
	}

	step := ctx.Store.AddNext
	if action.Name == ActionSkipNext {
		step = ctx.Store.SkipNext
	}

	moved := 0
	for i := 0; i < ctx.GetCount(); i++ {
		if !step(ctx.Host, forward) {
			break
		}
		moved++
	}
	if moved == 0 {
		return handler.NoOpWithMessage("no other match")
	}
	return handler.Success()
}

func parseDirection(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return true, nil
	case "backward":
		return false, nil
	default:
		return true, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
