// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/session"
	"github.com/dshills/kakmotion/internal/unit"
)

// UnitResolver looks up motion units by document kind and name.
type UnitResolver interface {
	Lookup(kind, name string) (unit.Definition, error)
	Names(kind string) []string
}

// ExecutionContext provides context for action execution: the editor host
// the command acts on, the unit table and the session bookkeeping.
type ExecutionContext struct {
	// Host is the editor surface.
	Host session.Host

	// Units resolves unit names for the document kind.
	Units UnitResolver

	// Store holds the primary index and selection registers.
	Store *session.Store

	// Count is the repeat count (1 if not specified).
	Count int

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Count: 1,
		Data:  make(map[string]any),
	}
}

// WithHost returns the context with the host set.
func (ctx *ExecutionContext) WithHost(host session.Host) *ExecutionContext {
	ctx.Host = host
	return ctx
}

// WithUnits returns the context with the unit resolver set.
func (ctx *ExecutionContext) WithUnits(units UnitResolver) *ExecutionContext {
	ctx.Units = units
	return ctx
}

// WithStore returns the context with the session store set.
func (ctx *ExecutionContext) WithStore(store *session.Store) *ExecutionContext {
	ctx.Store = store
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Kind returns the document kind used for unit lookup.
func (ctx *ExecutionContext) Kind() string {
	if ctx.Host == nil {
		return ""
	}
	return ctx.Host.LanguageID()
}

// Document returns the host's current document.
func (ctx *ExecutionContext) Document() buffer.Document {
	return ctx.Host.Document()
}

// Selections returns the host's live selections.
func (ctx *ExecutionContext) Selections() []cursor.Selection {
	return ctx.Host.Selections()
}

// Unit resolves a unit name for the document kind. An empty name yields
// the default unit.
func (ctx *ExecutionContext) Unit(name string) (unit.Definition, error) {
	return ctx.Units.Lookup(ctx.Kind(), name)
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// Validate checks that the context has a host.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Host == nil {
		return ErrMissingHost
	}
	return nil
}

// ValidateForMotion checks that the context can resolve units.
func (ctx *ExecutionContext) ValidateForMotion() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Units == nil {
		return ErrMissingUnits
	}
	return nil
}

// ValidateForSession checks that the context carries a session store.
func (ctx *ExecutionContext) ValidateForSession() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Store == nil {
		return ErrMissingStore
	}
	return nil
}
