// Package input defines the actions handed to the dispatcher.
//
// An action is a command name plus a loosely typed argument record, as an
// editor keybinding or the command line supplies it. Handlers decode the
// record into their own argument structs with Decode.
package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"
)

// ErrInvalidAction indicates an action string could not be parsed.
var ErrInvalidAction = errors.New("input: invalid action")

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action came from a keybinding.
	SourceKeyboard ActionSource = iota
	// SourcePalette indicates the action came from the command palette.
	SourcePalette
	// SourceCLI indicates the action came from the command line.
	SourceCLI
	// SourceAPI indicates the action came from an API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePalette:
		return "palette"
	case SourceCLI:
		return "cli"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds the raw arguments of an action.
type ActionArgs map[string]any

// Get retrieves a raw argument.
func (a ActionArgs) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

// GetString retrieves a string argument.
func (a ActionArgs) GetString(key string) string {
	if s, ok := a[key].(string); ok {
		return s
	}
	return ""
}

// GetInt retrieves an integer argument.
func (a ActionArgs) GetInt(key string) int {
	switch n := a[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetBool retrieves a boolean argument.
func (a ActionArgs) GetBool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g. "selection.moveBy").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count, 0 when not given.
	Count int
}

// NewAction creates an action with arguments.
func NewAction(name string, args ActionArgs) Action {
	return Action{Name: name, Args: args}
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithArg returns a copy of the action with one argument set.
func (a Action) WithArg(key string, value any) Action {
	args := make(ActionArgs, len(a.Args)+1)
	for k, v := range a.Args {
		args[k] = v
	}
	args[key] = value
	a.Args = args
	return a
}

// Decode decodes the arguments into out, a pointer to a struct tagged with
// mapstructure keys. Fields already set in out act as defaults. Strings
// are converted to numbers and booleans where needed; unknown argument
// names are an error.
func (a Action) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(a.Args)); err != nil {
		return fmt.Errorf("%s: %w", a.Name, err)
	}
	return nil
}

// String formats the action the way ParseAction reads it.
func (a Action) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	keys := make([]string, 0, len(a.Args))
	for k := range a.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(a.Name)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, a.Args[k])
	}
	return b.String()
}

// ParseAction parses a command line action. The name may be followed by
// key=value pairs or by a single JSON object:
//
//	selection.moveBy unit=word value=2 select=true
//	selection.narrowTo {"unit": "WORD", "boundary": "both"}
//
// Values of key=value pairs are kept as strings; Decode converts them.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, rest, _ := strings.Cut(s, " ")
	if name == "" {
		return Action{}, fmt.Errorf("%w: empty", ErrInvalidAction)
	}
	action := Action{Name: name, Args: ActionArgs{}, Source: SourceCLI}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return action, nil
	}
	if strings.HasPrefix(rest, "{") {
		if !gjson.Valid(rest) {
			return Action{}, fmt.Errorf("%w: %s: malformed JSON arguments", ErrInvalidAction, name)
		}
		args, ok := gjson.Parse(rest).Value().(map[string]any)
		if !ok {
			return Action{}, fmt.Errorf("%w: %s: arguments must be an object", ErrInvalidAction, name)
		}
		action.Args = args
		return action, nil
	}

	for _, field := range strings.Fields(rest) {
		k, v, ok := strings.Cut(field, "=")
		if !ok || k == "" {
			return Action{}, fmt.Errorf("%w: %s: expected key=value, got %q", ErrInvalidAction, name, field)
		}
		action.Args[k] = v
	}
	return action, nil
}
