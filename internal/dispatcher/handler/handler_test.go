package handler_test

import (
	"testing"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	"github.com/dshills/kakmotion/internal/dispatcher/handlers/memory"
	"github.com/dshills/kakmotion/internal/engine"
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/input"
	"github.com/dshills/kakmotion/internal/session"
)

func TestNamespaceAdapter(t *testing.T) {
	adapter := handler.NewNamespaceAdapter(memory.NewHandler())

	tests := []struct {
		action string
		want   bool
	}{
		{memory.ActionAddNext, true},
		{memory.ActionMovePrimaryRight, true},
		{"selection.moveBy", false},
		{"other.addNext", false},
	}
	for _, tt := range tests {
		if got := adapter.CanHandle(tt.action); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestNamespaceAdapterHandle(t *testing.T) {
	sels := []cursor.Selection{
		cursor.NewCursorSelection(buffer.NewPosition(0, 0)),
		cursor.NewCursorSelection(buffer.NewPosition(0, 2)),
	}
	eng := engine.New(engine.WithContent("abc"), engine.WithSelections(sels...))
	store := session.NewStore()
	ctx := execctx.New().WithHost(eng).WithStore(store)

	adapter := handler.NewNamespaceAdapter(memory.NewHandler())
	if got := adapter.Handle(input.Action{Name: memory.ActionMovePrimaryRight}, ctx); !got.IsOK() {
		t.Fatalf("Handle() = %v %v, want ok", got.Status, got.Error)
	}
	if store.Primary() != 1 {
		t.Errorf("Primary() = %d, want 1", store.Primary())
	}

	if got := adapter.Handle(input.Action{Name: memory.ActionAddNext}, execctx.New()); !got.IsError() {
		t.Errorf("Handle() without a host = %v, want error", got.Status)
	}
}
