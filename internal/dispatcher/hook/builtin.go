package hook

import (
	"time"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/input"
)

// Standard hook priorities.
const (
	PriorityTiming     = 1100 // Brackets every other hook
	PriorityAudit      = 1000
	PriorityCountLimit = 900
	PriorityValidation = 800
	PriorityReveal     = 100
)

// Logger is the logging surface of the audit hook.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuditHook logs every dispatched action.
type AuditHook struct {
	logger Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the action being dispatched.
func (h *AuditHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.logger != nil {
		h.logger.Debug("dispatch %s count=%d kind=%s", action.Name, ctx.Count, ctx.Kind())
	}
	return true
}

// PostDispatch logs the dispatch result.
func (h *AuditHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if h.logger == nil {
		return
	}
	if result.Status == handler.StatusError {
		h.logger.Error("dispatch %s failed: %v", action.Name, result.Error)
		return
	}
	h.logger.Debug("dispatch %s -> %s (%d selections)", action.Name, result.Status, result.Selections)
}

// CountLimitHook caps the repeat count so a large count cannot run away.
type CountLimitHook struct {
	maxCount int
}

// NewCountLimitHook creates a count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{maxCount: maxCount}
}

// Name implements Hook.
func (h *CountLimitHook) Name() string { return "count-limit" }

// Priority implements Hook.
func (h *CountLimitHook) Priority() int { return PriorityCountLimit }

// PreDispatch limits the repeat count.
func (h *CountLimitHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.maxCount > 0 && ctx.Count > h.maxCount {
		ctx.Count = h.maxCount
	}
	return true
}

// ValidationHook rejects actions before dispatch using a custom function.
// The rejection error is kept on the context (see Rejection) so the
// dispatcher can report it as the action's result.
type ValidationHook struct {
	name     string
	priority int
	validate func(action *input.Action, ctx *execctx.ExecutionContext) error
}

const rejectionKey = "_validation_error"

// NewValidationHook creates a validation hook.
func NewValidationHook(name string, priority int, validate func(*input.Action, *execctx.ExecutionContext) error) *ValidationHook {
	return &ValidationHook{
		name:     name,
		priority: priority,
		validate: validate,
	}
}

// Name implements Hook.
func (h *ValidationHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ValidationHook) Priority() int { return h.priority }

// PreDispatch validates the action and cancels if invalid.
func (h *ValidationHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.validate == nil {
		return true
	}
	if err := h.validate(action, ctx); err != nil {
		ctx.SetData(rejectionKey, err)
		return false
	}
	return true
}

// Rejection returns the error a validation hook cancelled the dispatch
// with, or nil.
func Rejection(ctx *execctx.ExecutionContext) error {
	v, ok := ctx.GetData(rejectionKey)
	if !ok {
		return nil
	}
	err, _ := v.(error)
	return err
}

// TimingHook measures action execution time. The start time lives on the
// ExecutionContext so concurrent dispatches do not share state.
type TimingHook struct {
	callback func(action string, duration time.Duration, status handler.ResultStatus)
}

const timingStartKey = "_timing_start"

// NewTimingHook creates a timing hook. The callback receives the elapsed
// time and final status of every dispatch, cancelled ones included.
func NewTimingHook(callback func(action string, duration time.Duration, status handler.ResultStatus)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityTiming }

// PreDispatch records the start time on the context.
func (h *TimingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.SetData(timingStartKey, time.Now())
	return true
}

// PostDispatch reports the elapsed time.
func (h *TimingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	v, ok := ctx.GetData(timingStartKey)
	if !ok || h.callback == nil {
		return
	}
	if start, ok := v.(time.Time); ok {
		h.callback(action.Name, time.Since(start), result.Status)
	}
}

// RevealHook asks the host to show the primary selection after every
// successful action.
type RevealHook struct{}

// NewRevealHook creates a reveal hook.
func NewRevealHook() *RevealHook {
	return &RevealHook{}
}

// Name implements Hook.
func (h *RevealHook) Name() string { return "reveal" }

// Priority implements Hook.
func (h *RevealHook) Priority() int { return PriorityReveal }

// PostDispatch reveals the primary selection.
func (h *RevealHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK || ctx.Host == nil || ctx.Store == nil {
		return
	}
	if len(ctx.Host.Selections()) == 0 {
		return
	}
	ctx.Host.Reveal(ctx.Store.PrimarySelection(ctx.Host).Range())
}
