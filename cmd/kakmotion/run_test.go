package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/kakmotion/internal/app"
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
)

func TestParseSelections(t *testing.T) {
	got, err := parseSelections([]string{"0:0-1:5", "2:3", "4:1-3:0"})
	if err != nil {
		t.Fatalf("parseSelections() error = %v", err)
	}
	want := []cursor.Selection{
		cursor.NewSelection(buffer.NewPosition(0, 0), buffer.NewPosition(1, 5)),
		cursor.NewCursorSelection(buffer.NewPosition(2, 3)),
		cursor.NewSelection(buffer.NewPosition(4, 1), buffer.NewPosition(3, 0)),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection %d = %s, want %s", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"", "1", "a:1", "1:-2", "1:1-2"} {
		if _, err := parseSelections([]string{bad}); err == nil {
			t.Errorf("parseSelections(%q) succeeded", bad)
		}
	}
}

func TestPrintStats(t *testing.T) {
	o := app.DefaultOptions()
	o.Logger = app.NullLogger
	o.Dispatcher = o.Dispatcher.WithMetrics()
	application, err := app.New(o)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()

	application.OpenText("test", "foo bar baz", "")
	for _, line := range []string{"selection.moveBy unit=word", "selection.moveBy unit=word", "selection.moveBy unit=sentence"} {
		if _, err := application.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}

	var out bytes.Buffer
	printStats(&out, application)
	got := out.String()
	if !strings.Contains(got, "dispatches: 3  errors: 1") {
		t.Errorf("printStats() summary missing:\n%s", got)
	}
	if !strings.Contains(got, "selection.moveBy") {
		t.Errorf("printStats() missing the action row:\n%s", got)
	}
}

func TestPrintStatsDisabled(t *testing.T) {
	o := app.DefaultOptions()
	o.Logger = app.NullLogger
	application, err := app.New(o)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()

	var out bytes.Buffer
	printStats(&out, application)
	if out.Len() != 0 {
		t.Errorf("printStats() without metrics = %q, want empty", out.String())
	}
}
