package filter_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dlclark/regexp2"

	"github.com/dshills/kakmotion/internal/dispatcher/execctx"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	filterhandler "github.com/dshills/kakmotion/internal/dispatcher/handlers/filter"
	"github.com/dshills/kakmotion/internal/engine"
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/engine/cursor"
	"github.com/dshills/kakmotion/internal/filter"
	"github.com/dshills/kakmotion/internal/input"
	"github.com/dshills/kakmotion/internal/unit"
)

func sel(al, ac, hl, hc int) cursor.Selection {
	return cursor.NewSelection(buffer.NewPosition(al, ac), buffer.NewPosition(hl, hc))
}

func run(t *testing.T, eng *engine.Engine, ctx *execctx.ExecutionContext, name string, args input.ActionArgs) handler.Result {
	t.Helper()
	if ctx == nil {
		ctx = execctx.New().WithHost(eng)
	}
	return filterhandler.NewHandler().HandleAction(input.NewAction(name, args), ctx)
}

func TestCanHandle(t *testing.T) {
	h := filterhandler.NewHandler()
	if got := len(h.Actions()); got != 13 {
		t.Errorf("len(Actions()) = %d, want 13", got)
	}
	if !h.CanHandle(filterhandler.ActionSplitByRegex) {
		t.Error("CanHandle(splitByRegex) = false")
	}
	if h.CanHandle("selection.addNext") {
		t.Error("CanHandle(addNext) = true")
	}
}

func TestPatternActions(t *testing.T) {
	lines := "foo 1\nbar 2\nfoo.3"
	all := []cursor.Selection{sel(0, 0, 0, 5), sel(1, 0, 1, 5), sel(2, 0, 2, 5)}

	tests := []struct {
		name   string
		action string
		text   string
		start  []cursor.Selection
		want   []cursor.Selection
	}{
		{
			name:   "split literal",
			action: filterhandler.ActionSplitBy,
			text:   " ",
			start:  []cursor.Selection{sel(0, 0, 0, 5)},
			want:   []cursor.Selection{sel(0, 0, 0, 3), sel(0, 4, 0, 5)},
		},
		{
			name:   "split regex",
			action: filterhandler.ActionSplitByRegex,
			text:   `\d`,
			start:  []cursor.Selection{sel(0, 0, 0, 5)},
			want:   []cursor.Selection{sel(0, 0, 0, 4), sel(0, 5, 0, 5)},
		},
		{
			name:   "create literal dot",
			action: filterhandler.ActionCreateBy,
			text:   ".",
			start:  all,
			want:   []cursor.Selection{sel(2, 3, 2, 4)},
		},
		{
			name:   "create regex",
			action: filterhandler.ActionCreateByRegex,
			text:   `[a-z]+`,
			start:  []cursor.Selection{sel(0, 0, 0, 5), sel(1, 0, 1, 5)},
			want:   []cursor.Selection{sel(0, 0, 0, 3), sel(1, 0, 1, 3)},
		},
		{
			name:   "include literal",
			action: filterhandler.ActionIncludeBy,
			text:   "foo",
			start:  all,
			want:   []cursor.Selection{sel(0, 0, 0, 5), sel(2, 0, 2, 5)},
		},
		{
			name:   "exclude literal",
			action: filterhandler.ActionExcludeBy,
			text:   "foo",
			start:  all,
			want:   []cursor.Selection{sel(1, 0, 1, 5)},
		},
		{
			name:   "include regex",
			action: filterhandler.ActionIncludeByRegex,
			text:   `[23]$`,
			start:  all,
			want:   []cursor.Selection{sel(1, 0, 1, 5), sel(2, 0, 2, 5)},
		},
		{
			name:   "exclude regex",
			action: filterhandler.ActionExcludeByRegex,
			text:   `^\w+ `,
			start:  all,
			want:   []cursor.Selection{sel(2, 0, 2, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := engine.New(engine.WithContent(lines), engine.WithSelections(tt.start...))
			result := run(t, eng, nil, tt.action, input.ActionArgs{"text": tt.text})
			if !result.IsOK() {
				t.Fatalf("status = %v, error = %v", result.Status, result.Error)
			}
			if got := eng.Selections(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Selections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoMatchLeavesSelections(t *testing.T) {
	start := []cursor.Selection{sel(0, 0, 0, 3), sel(0, 4, 0, 7)}
	for _, action := range []string{
		filterhandler.ActionSplitBy,
		filterhandler.ActionCreateBy,
		filterhandler.ActionIncludeBy,
	} {
		eng := engine.New(engine.WithContent("abc def"), engine.WithSelections(start...))
		result := run(t, eng, nil, action, input.ActionArgs{"text": "zzz"})
		if !errors.Is(result.Error, filter.ErrNoMatch) {
			t.Errorf("%s error = %v, want ErrNoMatch", action, result.Error)
		}
		if got := eng.Selections(); !reflect.DeepEqual(got, start) {
			t.Errorf("%s changed selections to %v", action, got)
		}
	}

	eng := engine.New(engine.WithContent("abc def"), engine.WithSelections(start...))
	if result := run(t, eng, nil, filterhandler.ActionExcludeBy, input.ActionArgs{"text": "d"}); !result.IsOK() {
		t.Errorf("exclude d status = %v", result.Status)
	}
	if got := eng.Selections(); len(got) != 1 || got[0] != start[0] {
		t.Errorf("Selections() = %v, want only abc", got)
	}
}

func TestPatternErrors(t *testing.T) {
	eng := engine.New(engine.WithContent("abc"), engine.WithSelections(sel(0, 0, 0, 3)))

	if got := run(t, eng, nil, filterhandler.ActionSplitBy, nil); !errors.Is(got.Error, filterhandler.ErrMissingText) {
		t.Errorf("missing text error = %v, want ErrMissingText", got.Error)
	}
	if got := run(t, eng, nil, filterhandler.ActionSplitByRegex, input.ActionArgs{"text": "("}); !got.IsError() {
		t.Errorf("invalid regex status = %v, want error", got.Status)
	}
	if got := run(t, eng, nil, filterhandler.ActionSplitBy, input.ActionArgs{"text": "(", "unit": "word"}); !got.IsError() {
		t.Errorf("unknown argument status = %v, want error", got.Status)
	}
	if got := run(t, eng, nil, filterhandler.ActionSplitBy, input.ActionArgs{"text": "("}); !errors.Is(got.Error, filter.ErrNoMatch) {
		t.Errorf("literal ( error = %v, want ErrNoMatch", got.Error)
	}
}

type emptySource struct{}

func (emptySource) Units(string) []map[string]any { return nil }

type countingUnits struct {
	*unit.Registry
	compiled []string
}

func (c *countingUnits) Compile(src string) (*regexp2.Regexp, error) {
	c.compiled = append(c.compiled, src)
	return c.Registry.Compile(src)
}

func TestRegexUsesUnitCompiler(t *testing.T) {
	eng := engine.New(engine.WithContent("a1b2"), engine.WithSelections(sel(0, 0, 0, 4)))
	units := &countingUnits{Registry: unit.NewRegistry(emptySource{})}
	ctx := execctx.New().WithHost(eng).WithUnits(units)

	if got := run(t, eng, ctx, filterhandler.ActionCreateByRegex, input.ActionArgs{"text": `\d`}); !got.IsOK() {
		t.Fatalf("status = %v, error = %v", got.Status, got.Error)
	}
	if len(units.compiled) != 1 || units.compiled[0] != `\d` {
		t.Errorf("compiled = %v, want [\\d]", units.compiled)
	}
	if got := run(t, eng, ctx, filterhandler.ActionCreateBy, input.ActionArgs{"text": "1"}); !got.IsOK() {
		t.Fatalf("literal status = %v", got.Status)
	}
	if len(units.compiled) != 1 {
		t.Errorf("literal pattern went through the unit compiler: %v", units.compiled)
	}
}

func TestReshapeActions(t *testing.T) {
	text := "  ab  \ncd"
	tests := []struct {
		action string
		start  cursor.Selection
		want   []cursor.Selection
	}{
		{filterhandler.ActionExchangeAnchorActive, sel(0, 0, 0, 2), []cursor.Selection{sel(0, 2, 0, 0)}},
		{filterhandler.ActionActiveAtEnd, sel(0, 2, 0, 0), []cursor.Selection{sel(0, 0, 0, 2)}},
		{filterhandler.ActionActiveAtStart, sel(0, 0, 0, 2), []cursor.Selection{sel(0, 2, 0, 0)}},
		{filterhandler.ActionTrimWhitespace, sel(0, 0, 0, 6), []cursor.Selection{sel(0, 2, 0, 4)}},
		{filterhandler.ActionSplitByNewline, sel(0, 0, 1, 2), []cursor.Selection{sel(0, 0, 0, 6), sel(1, 0, 1, 2)}},
	}

	for _, tt := range tests {
		eng := engine.New(engine.WithContent(text), engine.WithSelections(tt.start))
		result := run(t, eng, nil, tt.action, nil)
		if !result.IsOK() {
			t.Errorf("%s status = %v, error = %v", tt.action, result.Status, result.Error)
			continue
		}
		if got := eng.Selections(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s Selections() = %v, want %v", tt.action, got, tt.want)
		}
	}

	eng := engine.New(engine.WithContent(text), engine.WithSelections(sel(0, 0, 0, 2)))
	if got := run(t, eng, nil, filterhandler.ActionActiveAtEnd, nil); got.Status != handler.StatusNoOp {
		t.Errorf("activeAtEnd on forward selection status = %v, want no-op", got.Status)
	}
}
