// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/dispatcher/hook"
	"github.com/dshills/kakmotion/internal/input"
	"github.com/dshills/kakmotion/internal/session"
)

// Dispatcher routes actions to handlers and coordinates execution.
// One dispatcher serves one editor session: it owns the host, the unit
// resolver and the session store every action runs against.
type Dispatcher struct {
	mu sync.RWMutex

	router *Router
	hooks  *hook.Manager

	host  session.Host
	units execctx.UnitResolver
	store *session.Store

	config  Config
	metrics *Metrics
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		router: NewRouter(),
		hooks:  hook.NewManager(),
		config: config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
		d.hooks.Register(hook.NewTimingHook(d.metrics.RecordDispatch))
	}
	if config.MaxRepeatCount > 0 {
		d.hooks.RegisterPre(hook.NewCountLimitHook(config.MaxRepeatCount))
	}
	if config.Reveal {
		d.hooks.RegisterPost(hook.NewRevealHook())
	}

	return d
}

// SetHost sets the editor surface actions operate on.
func (d *Dispatcher) SetHost(host session.Host) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.host = host
}

// SetUnits sets the unit resolver.
func (d *Dispatcher) SetUnits(units execctx.UnitResolver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units = units
}

// SetStore sets the session store.
func (d *Dispatcher) SetStore(store *session.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store = store
}

// Dispatch executes an action synchronously. Errors never escape as
// panics or return values: they come back as a StatusError result after
// being shown on the host.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	ctx := d.buildContext()
	if action.Count > 0 {
		ctx.Count = action.Count
	}

	result := d.run(&action, ctx)

	d.processResult(&result, ctx)
	d.hooks.RunPostDispatch(&action, ctx, &result)
	return result
}

// DispatchString parses a command line (see input.ParseAction) and
// dispatches it.
func (d *Dispatcher) DispatchString(line string) handler.Result {
	action, err := input.ParseAction(line)
	if err != nil {
		result := handler.Error(err)
		d.processResult(&result, d.buildContext())
		return result
	}
	return d.Dispatch(action)
}

func (d *Dispatcher) run(action *input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if !d.hooks.RunPreDispatch(action, ctx) {
		if err := hook.Rejection(ctx); err != nil {
			return handler.Error(err)
		}
		return handler.CancelledWithMessage("cancelled by hook")
	}

	h := d.router.Route(action.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	if d.config.RecoverFromPanic {
		return d.executeWithRecovery(h, *action, ctx)
	}
	return h.Handle(*action, ctx)
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			result = handler.Error(fmt.Errorf("%w for %s: %v\n%s", ErrPanic, action.Name, r, stack[:n]))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext() *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return execctx.New().
		WithHost(d.host).
		WithUnits(d.units).
		WithStore(d.store)
}

// processResult reports errors on the host and keeps the primary index
// valid for the resulting selection set.
func (d *Dispatcher) processResult(result *handler.Result, ctx *execctx.ExecutionContext) {
	if ctx.Host == nil {
		return
	}
	if result.Status == handler.StatusError && result.Error != nil {
		ctx.Host.ShowError(firstLine(result.Error.Error()))
	}

	n := len(ctx.Host.Selections())
	result.Selections = n
	if ctx.Store != nil {
		ctx.Store.SelectionsChanged(n)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// Actions returns every action name the dispatcher can route, sorted.
func (d *Dispatcher) Actions() []string {
	return slices.Compact(d.router.Actions())
}

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager {
	return d.hooks
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}
