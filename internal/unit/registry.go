package unit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/kakmotion/internal/config/notify"
)

// GenericKind is the registry key for units shared by all languages.
const GenericKind = "*"

// DefaultPattern is the unit used when a command names no unit: a run of
// letters.
const DefaultPattern = `\p{L}+`

// ConfigPath is the configuration path holding unit tables.
const ConfigPath = "units"

// Pattern cache settings.
const (
	DefaultCacheExpiration = 30 * time.Minute
	DefaultCacheCleanup    = time.Hour
)

// Errors returned by the registry.
var (
	// ErrUnknownUnit indicates no unit of that name exists for the kind.
	ErrUnknownUnit = errors.New("unit: unknown unit")

	// ErrMalformedUnit indicates a unit entry has neither regex nor regexs,
	// or a pattern that does not compile.
	ErrMalformedUnit = errors.New("unit: malformed definition")
)

// Source provides the raw configured unit entries for a document kind.
// Each entry is a map with a "name" and either "regex" (string) or
// "regexs" (string or list of strings).
type Source interface {
	Units(kind string) []map[string]any
}

// Reporter receives user-visible warnings.
type Reporter interface {
	ShowWarning(msg string)
}

// Logger is the logging surface used by the registry.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Registry maps document kinds to their compiled unit definitions.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	source   Source
	reporter Reporter
	logger   Logger
	kinds    map[string]map[string]Definition
	patterns *gocache.Cache
	fallback Definition
}

// Option configures a Registry.
type Option func(*Registry)

// WithReporter sets the receiver of malformed-entry warnings.
func WithReporter(r Reporter) Option {
	return func(reg *Registry) {
		reg.reporter = r
	}
}

// WithLogger sets the registry logger.
func WithLogger(l Logger) Option {
	return func(reg *Registry) {
		if l != nil {
			reg.logger = l
		}
	}
}

// WithPatternCache shares a compiled pattern cache between registries.
func WithPatternCache(c *gocache.Cache) Option {
	return func(reg *Registry) {
		if c != nil {
			reg.patterns = c
		}
	}
}

// NewRegistry creates a registry over source and builds the generic kind.
func NewRegistry(source Source, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		logger: nopLogger{},
		kinds:  make(map[string]map[string]Definition),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.patterns == nil {
		r.patterns = gocache.New(DefaultCacheExpiration, DefaultCacheCleanup)
	}

	re, err := r.compile(DefaultPattern)
	if err != nil {
		panic(fmt.Sprintf("unit: default pattern: %v", err))
	}
	r.fallback = NewLinePattern("", re)

	r.Update(nil, "")
	return r
}

// Default returns the built-in unit used when no name is given.
func (r *Registry) Default() Definition {
	return r.fallback
}

// Update rebuilds the definitions of every previously seen kind, the generic
// kind and kind (if non-empty). A non-nil change that does not touch the
// unit configuration is ignored.
func (r *Registry) Update(change *notify.Change, kind string) {
	if change != nil && !change.Touches(ConfigPath) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]string, 0, len(r.kinds)+2)
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	kinds = append(kinds, GenericKind)
	if kind != "" {
		kinds = append(kinds, kind)
	}

	for _, k := range kinds {
		r.kinds[k] = r.build(k)
	}
	r.logger.Debug("unit registry rebuilt for %d kinds", len(r.kinds))
}

// build compiles the unit table for one kind. Callers hold r.mu.
func (r *Registry) build(kind string) map[string]Definition {
	table := make(map[string]Definition)
	if r.source == nil {
		return table
	}
	for _, entry := range r.source.Units(kind) {
		def, err := r.parseEntry(entry)
		if err != nil {
			r.warn(fmt.Sprintf("Skipping unit in %q: %v", kind, err))
			continue
		}
		table[def.Name()] = def
	}
	return table
}

func (r *Registry) warn(msg string) {
	r.logger.Debug(msg)
	if r.reporter != nil {
		r.reporter.ShowWarning(msg)
	}
}

// Lookup returns the unit called name for kind, falling back to the
// generic kind. The kind is registered on first use. An empty name returns
// the default unit.
func (r *Registry) Lookup(kind, name string) (Definition, error) {
	if name == "" {
		return r.fallback, nil
	}
	if kind == "" {
		kind = GenericKind
	}

	r.ensure(kind)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.kinds[kind][name]; ok {
		return def, nil
	}
	if def, ok := r.kinds[GenericKind][name]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// ensure registers kind on first use.
func (r *Registry) ensure(kind string) {
	r.mu.RLock()
	_, seen := r.kinds[kind]
	r.mu.RUnlock()
	if !seen {
		r.Update(nil, kind)
	}
}

// Names returns the unit names available for kind, including generic ones,
// in sorted order.
func (r *Registry) Names(kind string) []string {
	if kind == "" {
		kind = GenericKind
	}
	r.ensure(kind)

	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for name := range r.kinds[GenericKind] {
		set[name] = struct{}{}
	}
	for name := range r.kinds[kind] {
		set[name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the kinds the registry has built, in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Compile returns the compiled form of a pattern, shared through the
// pattern cache.
func (r *Registry) Compile(src string) (*regexp2.Regexp, error) {
	return r.compile(src)
}

func (r *Registry) compile(src string) (*regexp2.Regexp, error) {
	if v, ok := r.patterns.Get(src); ok {
		if re, ok := v.(*regexp2.Regexp); ok {
			return re, nil
		}
	}
	re, err := regexp2.Compile(src, regexp2.None)
	if err != nil {
		return nil, err
	}
	r.patterns.SetDefault(src, re)
	return re, nil
}

// parseEntry decides the definition shape of one configured entry.
func (r *Registry) parseEntry(entry map[string]any) (Definition, error) {
	name, _ := entry["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedUnit)
	}

	if src, ok := entry["regex"].(string); ok {
		re, err := r.compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedUnit, name, err)
		}
		return NewLinePattern(name, re), nil
	}

	sources, ok := stringList(entry["regexs"])
	if !ok || len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s: expected regex or regexs", ErrMalformedUnit, name)
	}

	patterns := make([]*regexp2.Regexp, len(sources))
	for i, src := range sources {
		re, err := r.compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedUnit, name, err)
		}
		patterns[i] = re
	}
	if len(patterns) == 1 {
		return NewLineRun(name, patterns[0]), nil
	}
	return NewLineWindow(name, patterns...), nil
}

// stringList accepts a string or a list of strings.
func stringList(v any) ([]string, bool) {
	switch v := v.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
