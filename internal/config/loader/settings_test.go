package loader

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

const sampleSettings = `{
  "editor.fontSize": 14,
  "selection-utilities.motionUnits": [
    {"name": "WORD", "regex": "\\S+"},
    {"name": "paragraph", "regexs": ["\\S"]}
  ],
  "[markdown]": {
    "editor.wordWrap": "on",
    "selection-utilities.motionUnits": [
      {"name": "section", "regex": "^#{1,2}\\s.*"}
    ]
  },
  "[latex][tex]": {
    "selection-utilities.motionUnits": [
      {"name": "section", "regex": "\\\\section"}
    ]
  },
  "[go]": {"editor.tabSize": 4}
}`

func TestParseSettings(t *testing.T) {
	config, err := ParseSettings("settings.json", []byte(sampleSettings))
	if err != nil {
		t.Fatalf("ParseSettings() error = %v", err)
	}

	word := unitTable(t, config, AnyKind)["WORD"].(map[string]any)
	if word["regex"] != `\S+` {
		t.Errorf("WORD regex = %v, want \\S+", word["regex"])
	}
	if got := unitTable(t, config, "markdown")["section"].(map[string]any)["regex"]; got != `^#{1,2}\s.*` {
		t.Errorf("markdown section = %v", got)
	}
	for _, lang := range []string{"latex", "tex"} {
		if got := unitTable(t, config, lang)["section"].(map[string]any)["regex"]; got != `\\section` {
			t.Errorf("%s section = %v", lang, got)
		}
	}

	kinds := config[UnitsKey].(map[string]any)
	if _, ok := kinds["go"]; ok {
		t.Error("go override has no units and should be absent")
	}
}

func TestParseSettingsWithoutUnits(t *testing.T) {
	config, err := ParseSettings("settings.json", []byte(`{"editor.fontSize": 12}`))
	if err != nil {
		t.Fatalf("ParseSettings() error = %v", err)
	}
	if len(config) != 0 {
		t.Errorf("ParseSettings() = %v, want empty", config)
	}
}

func TestParseSettingsInvalid(t *testing.T) {
	_, err := ParseSettings("settings.json", []byte(`{"a": `))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("ParseSettings() error = %v, want *ParseError", err)
	}
}

func TestExportSettings(t *testing.T) {
	kinds := map[string][]map[string]any{
		AnyKind:    {{"name": "word", "regex": `\w+`}},
		"markdown": {{"name": "section", "regex": `^#\s`}},
	}

	out, err := ExportSettings([]byte(`{"editor.fontSize": 14}`), kinds)
	if err != nil {
		t.Fatalf("ExportSettings() error = %v", err)
	}

	if got := gjson.GetBytes(out, escapePath("editor.fontSize")).Int(); got != 14 {
		t.Errorf("editor.fontSize = %d, want 14 preserved", got)
	}

	config, err := ParseSettings("out", out)
	if err != nil {
		t.Fatalf("ParseSettings(export) error = %v", err)
	}
	want := map[string]any{
		AnyKind:    map[string]any{"word": map[string]any{"regex": `\w+`}},
		"markdown": map[string]any{"section": map[string]any{"regex": `^#\s`}},
	}
	if got := config[UnitsKey]; !reflect.DeepEqual(got, want) {
		t.Errorf("exported units = %v, want %v", got, want)
	}
}

func TestExportSettingsEmpty(t *testing.T) {
	out, err := ExportSettings(nil, map[string][]map[string]any{
		AnyKind: {{"name": "line", "regexs": []string{".*"}}},
	})
	if err != nil {
		t.Fatalf("ExportSettings() error = %v", err)
	}
	if !gjson.ValidBytes(out) {
		t.Fatalf("ExportSettings() produced invalid JSON: %s", out)
	}
	if got := gjson.GetBytes(out, escapePath(SettingsKey)+".0.name").String(); got != "line" {
		t.Errorf("first unit name = %q, want line", got)
	}
}

func TestEscapePath(t *testing.T) {
	if got, want := escapePath("a.b*c"), `a\.b\*c`; got != want {
		t.Errorf("escapePath() = %q, want %q", got, want)
	}
}
