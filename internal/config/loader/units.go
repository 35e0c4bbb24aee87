package loader

import (
	"fmt"
)

// UnitsKey is the top-level configuration key holding unit tables.
const UnitsKey = "units"

// NormalizeUnits rewrites the unit tables of config into the by-name form.
// Each kind may hold a list of {name, regex|regexs} tables or a table keyed
// by unit name whose values are tables, a pattern string (regex) or a list
// of pattern strings (regexs).
func NormalizeUnits(source string, config map[string]any) error {
	raw, ok := config[UnitsKey]
	if !ok {
		return nil
	}
	kinds, ok := raw.(map[string]any)
	if !ok {
		return unitsError(source, "%q must be a table of document kinds, got %T", UnitsKey, raw)
	}

	for kind, v := range kinds {
		table, err := normalizeKind(source, kind, v)
		if err != nil {
			return err
		}
		kinds[kind] = table
	}
	return nil
}

func normalizeKind(source, kind string, v any) (map[string]any, error) {
	table := make(map[string]any)
	switch entries := v.(type) {
	case []any:
		for i, e := range entries {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, unitsError(source, "units.%s[%d]: expected a table, got %T", kind, i, e)
			}
			name, _ := m["name"].(string)
			if name == "" {
				return nil, unitsError(source, "units.%s[%d]: missing name", kind, i)
			}
			body := make(map[string]any, len(m))
			for k, val := range m {
				if k != "name" {
					body[k] = val
				}
			}
			table[name] = body
		}
	case map[string]any:
		for name, val := range entries {
			switch val := val.(type) {
			case string:
				table[name] = map[string]any{"regex": val}
			case []any:
				table[name] = map[string]any{"regexs": val}
			case map[string]any:
				table[name] = val
			default:
				return nil, unitsError(source, "units.%s.%s: unexpected %T", kind, name, val)
			}
		}
	default:
		return nil, unitsError(source, "units.%s: expected a list or table, got %T", kind, v)
	}
	return table, nil
}

func unitsError(source, format string, args ...any) error {
	return &ParseError{Path: source, Message: fmt.Sprintf(format, args...)}
}
