package dispatcher_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/dshills/kakmotion/internal/dispatcher"
	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/input"
)

type actionFunc func(input.Action, *execctx.ExecutionContext) handler.Result

// stubNamespace serves a fixed table of actions.
type stubNamespace struct {
	name    string
	actions map[string]actionFunc
}

func namespace(name string, actions ...string) *stubNamespace {
	h := &stubNamespace{name: name, actions: make(map[string]actionFunc)}
	for _, a := range actions {
		h.actions[a] = messageFn(a)
	}
	return h
}

func (h *stubNamespace) on(action string, fn actionFunc) *stubNamespace {
	h.actions[action] = fn
	return h
}

func (h *stubNamespace) Namespace() string { return h.name }

func (h *stubNamespace) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

func (h *stubNamespace) Actions() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *stubNamespace) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	return h.actions[action.Name](action, ctx)
}

func messageFn(msg string) actionFunc {
	return func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage(msg)
	}
}

func TestRouterSharedNamespace(t *testing.T) {
	r := dispatcher.NewRouter()
	r.RegisterNamespace("selection", namespace("selection", "selection.moveBy", "selection.narrowTo"))
	r.RegisterNamespace("selection", namespace("selection", "selection.splitBy"))

	tests := []struct {
		action string
		want   string
	}{
		{"selection.moveBy", "selection.moveBy"},
		{"selection.splitBy", "selection.splitBy"},
	}
	for _, tt := range tests {
		h := r.Route(tt.action)
		if h == nil {
			t.Fatalf("Route(%q) = nil", tt.action)
		}
		if got := h.Handle(input.Action{Name: tt.action}, execctx.New()); got.Message != tt.want {
			t.Errorf("Route(%q) ran %q", tt.action, got.Message)
		}
	}

	if r.Route("selection.unknown") != nil {
		t.Error("Route(selection.unknown) should be nil")
	}
	if r.Route("noNamespace") != nil {
		t.Error("Route(noNamespace) should be nil")
	}
	if got := fmt.Sprint(r.Actions()); got != "[selection.moveBy selection.narrowTo selection.splitBy]" {
		t.Errorf("Actions() = %s", got)
	}
}

func TestRouterFirstHandlerWins(t *testing.T) {
	r := dispatcher.NewRouter()
	r.RegisterNamespace("selection", namespace("selection").on("selection.moveBy", messageFn("first")))
	r.RegisterNamespace("selection", namespace("selection").on("selection.moveBy", messageFn("second")))

	h := r.Route("selection.moveBy")
	if got := h.Handle(input.Action{Name: "selection.moveBy"}, execctx.New()); got.Message != "first" {
		t.Errorf("Route() ran %q, want first", got.Message)
	}
}
