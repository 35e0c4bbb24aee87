// Package layer stacks configuration sources by priority. Higher priority
// layers override lower ones; unit tables merge by kind and unit name.
package layer

import (
	"time"
)

// Layer is one configuration source.
type Layer struct {
	// Name identifies the layer (e.g. "defaults", "user").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path, if loaded from a file.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the layer was last loaded.
	ModTime time.Time
}

// NewLayer creates an empty layer with the standard priority of source.
func NewLayer(name string, source Source) *Layer {
	return NewLayerWithData(name, source, make(map[string]any))
}

// NewLayerWithData creates a layer holding data.
func NewLayerWithData(name string, source Source, data map[string]any) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the embedded default unit table.
	SourceBuiltin Source = iota
	// SourceSettings is an editor settings.json file.
	SourceSettings
	// SourceUser is the user's configuration file.
	SourceUser
	// SourceWorkspace is a per-project configuration file.
	SourceWorkspace
	// SourceSession holds in-memory overrides.
	SourceSession
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceSettings:
		return "settings"
	case SourceUser:
		return "user"
	case SourceWorkspace:
		return "workspace"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the standard merge priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceSettings:
		return 50
	case SourceUser:
		return 100
	case SourceWorkspace:
		return 200
	case SourceSession:
		return 1000
	default:
		return 0
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		dst := make([]any, len(v))
		for i, item := range v {
			dst[i] = cloneValue(item)
		}
		return dst
	default:
		return val
	}
}
