// Package filter provides the text-driven selection handlers: orientation,
// whitespace trimming, splitting, creation and filtering by pattern.
package filter

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/filter"
	"github.com/dshills/kakmotion/internal/input"
)

// Action names for text-driven selection commands.
const (
	ActionExchangeAnchorActive = "selection.exchangeAnchorActive"
	ActionActiveAtEnd          = "selection.activeAtEnd"
	ActionActiveAtStart        = "selection.activeAtStart"
	ActionTrimWhitespace       = "selection.trimWhitespace"
	ActionSplitBy              = "selection.splitBy"
	ActionSplitByRegex         = "selection.splitByRegex"
	ActionSplitByNewline       = "selection.splitByNewline"
	ActionCreateBy             = "selection.createBy"
	ActionCreateByRegex        = "selection.createByRegex"
	ActionIncludeBy            = "selection.includeBy"
	ActionExcludeBy            = "selection.excludeBy"
	ActionIncludeByRegex       = "selection.includeByRegex"
	ActionExcludeByRegex       = "selection.excludeByRegex"
)

// ErrMissingText indicates a pattern action without its text argument.
var ErrMissingText = errors.New("filter: missing text")

var actions = []string{
	ActionActiveAtEnd,
	ActionActiveAtStart,
	ActionCreateBy,
	ActionCreateByRegex,
	ActionExcludeBy,
	ActionExcludeByRegex,
	ActionExchangeAnchorActive,
	ActionIncludeBy,
	ActionIncludeByRegex,
	ActionSplitBy,
	ActionSplitByNewline,
	ActionSplitByRegex,
	ActionTrimWhitespace,
}

type textArgs struct {
	Text string `mapstructure:"text"`
}

// compiler is satisfied by unit registries that cache compiled patterns.
type compiler interface {
	Compile(src string) (*regexp2.Regexp, error)
}

// Handler implements the text-driven selection actions.
type Handler struct{}

// NewHandler creates a new filter handler.
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

// HandleAction processes a text-driven selection action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionExchangeAnchorActive, ActionActiveAtEnd, ActionActiveAtStart, ActionTrimWhitespace, ActionSplitByNewline:
		return h.reshape(action, ctx)
	case ActionSplitBy, ActionSplitByRegex, ActionCreateBy, ActionCreateByRegex,
		ActionIncludeBy, ActionExcludeBy, ActionIncludeByRegex, ActionExcludeByRegex:
		return h.byPattern(action, ctx)
	default:
		return handler.Errorf("unknown filter action: %s", action.Name)
	}
}

func (h *Handler) reshape(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := action.Decode(&struct{}{}); err != nil {
		return handler.Error(err)
	}

	sels := ctx.Selections()
	var next []cursor.Selection
	switch action.Name {
	case ActionExchangeAnchorActive:
		next = filter.ExchangeAnchorActive(sels)
	case ActionActiveAtEnd:
		next = filter.ActiveAtEnd(sels)
	case ActionActiveAtStart:
		next = filter.ActiveAtStart(sels)
	case ActionTrimWhitespace:
		next = filter.TrimWhitespace(ctx.Document(), sels)
	case ActionSplitByNewline:
		var err error
		if next, err = filter.SplitByNewline(ctx.Document(), sels); err != nil {
			return handler.Error(err)
		}
	}
	return apply(ctx, sels, next)
}

func (h *Handler) byPattern(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	var args textArgs
	if err := action.Decode(&args); err != nil {
		return handler.Error(err)
	}
	if args.Text == "" {
		return handler.Error(fmt.Errorf("%w for %s", ErrMissingText, action.Name))
	}

	re, err := h.pattern(action.Name, args.Text, ctx)
	if err != nil {
		return handler.Error(err)
	}

	doc := ctx.Document()
	sels := ctx.Selections()
	var next []cursor.Selection
	switch action.Name {
	case ActionSplitBy, ActionSplitByRegex:
		next, err = filter.SplitBy(doc, sels, re)
	case ActionCreateBy, ActionCreateByRegex:
		next, err = filter.CreateBy(doc, sels, re)
	case ActionIncludeBy, ActionIncludeByRegex:
		next, err = filter.Include(doc, sels, re)
	case ActionExcludeBy, ActionExcludeByRegex:
		next, err = filter.Exclude(doc, sels, re)
	}
	if err != nil {
		return handler.Error(fmt.Errorf("%w: %q", err, args.Text))
	}
	return apply(ctx, sels, next)
}

// pattern compiles text literally or, for the Regex actions, as a regular
// expression through the unit registry's cache when one is available.
func (h *Handler) pattern(name, text string, ctx *execctx.ExecutionContext) (*regexp2.Regexp, error) {
	switch name {
	case ActionSplitByRegex, ActionCreateByRegex, ActionIncludeByRegex, ActionExcludeByRegex:
	default:
		return filter.Literal(text)
	}
	compile := func(src string) (*regexp2.Regexp, error) {
		return regexp2.Compile(src, regexp2.None)
	}
	if c, ok := ctx.Units.(compiler); ok {
		compile = c.Compile
	}
	re, err := compile(text)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", text, err)
	}
	return re, nil
}

func apply(ctx *execctx.ExecutionContext, before, after []cursor.Selection) handler.Result {
	if equal(before, after) {
		return handler.NoOp()
	}
	ctx.Host.SetSelections(after)
	return handler.Success()
}

func equal(a, b []cursor.Selection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
