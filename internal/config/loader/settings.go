package loader

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// SettingsKey is the editor setting holding unit definitions.
const SettingsKey = "selection-utilities.motionUnits"

// AnyKind is the document kind that applies to every language.
const AnyKind = "*"

// SettingsLoader reads unit definitions from an editor settings.json file.
// The top-level setting defines the "*" kind; language override sections
// such as "[markdown]" or "[latex][markdown]" define per-language kinds.
type SettingsLoader struct {
	fs   FileSystem
	path string
}

// NewSettingsLoader creates a settings loader for path.
func NewSettingsLoader(path string) *SettingsLoader {
	return NewSettingsLoaderWithFS(DefaultFS(), path)
}

// NewSettingsLoaderWithFS creates a settings loader with a custom file
// system.
func NewSettingsLoaderWithFS(fs FileSystem, path string) *SettingsLoader {
	return &SettingsLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *SettingsLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *SettingsLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseSettings(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *SettingsLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return ParseSettings("<reader>", data)
}

// ParseSettings extracts unit definitions from settings.json data.
// Settings unrelated to units are ignored.
func ParseSettings(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	key := escapePath(SettingsKey)

	kinds := make(map[string]any)
	if v := root.Get(key); v.Exists() {
		kinds[AnyKind] = v.Value()
	}
	root.ForEach(func(k, v gjson.Result) bool {
		for _, lang := range overrideLanguages(k.String()) {
			if units := v.Get(key); units.Exists() {
				kinds[lang] = units.Value()
			}
		}
		return true
	})

	config := make(map[string]any)
	if len(kinds) == 0 {
		return config, nil
	}
	config[UnitsKey] = kinds
	if err := NormalizeUnits(source, config); err != nil {
		return nil, err
	}
	return config, nil
}

// ExportSettings writes the unit lists of kinds into settings.json data,
// leaving every other setting in place. Empty data starts a new document.
func ExportSettings(data []byte, kinds map[string][]map[string]any) ([]byte, error) {
	out := data
	if len(strings.TrimSpace(string(out))) == 0 {
		out = []byte("{}")
	}
	if !gjson.ValidBytes(out) {
		return nil, &ParseError{Path: "<settings>", Message: "invalid JSON"}
	}

	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, kind)
	}
	sort.Strings(names)

	var err error
	for _, kind := range names {
		path := escapePath(SettingsKey)
		if kind != AnyKind {
			path = escapePath("["+kind+"]") + "." + path
		}
		out, err = sjson.SetBytes(out, path, kinds[kind])
		if err != nil {
			return nil, fmt.Errorf("exporting units for %s: %w", kind, err)
		}
	}
	return pretty.Pretty(out), nil
}

// overrideLanguages returns the languages of a "[lang]" override key.
func overrideLanguages(key string) []string {
	if len(key) < 3 || key[0] != '[' || key[len(key)-1] != ']' {
		return nil
	}
	return strings.Split(key[1:len(key)-1], "][")
}

// escapePath escapes characters with meaning in gjson and sjson paths.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
