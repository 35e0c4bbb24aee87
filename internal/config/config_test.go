package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/kakmotion/internal/config/notify"
	"github.com/dshills/kakmotion/internal/unit"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func entryNamed(entries []map[string]any, name string) map[string]any {
	for _, e := range entries {
		if e["name"] == name {
			return e
		}
	}
	return nil
}

func TestNewHasDefaults(t *testing.T) {
	c := New()

	generic := c.Units("*")
	for _, name := range []string{"WORD", "word", "subword", "number", "line", "paragraph", "section", "subsection"} {
		if entryNamed(generic, name) == nil {
			t.Errorf("default unit %q missing", name)
		}
	}
	if got := entryNamed(generic, "paragraph")["regexs"]; got == nil {
		t.Error("paragraph should be a regexs unit")
	}
	if entryNamed(c.Units("markdown"), "section") == nil {
		t.Error("markdown section missing")
	}

	for i := 1; i < len(generic); i++ {
		if generic[i-1]["name"].(string) >= generic[i]["name"].(string) {
			t.Errorf("Units() not sorted: %v before %v", generic[i-1]["name"], generic[i]["name"])
		}
	}
}

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) ShowWarning(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msg)
}

func TestDefaultsCompile(t *testing.T) {
	c := New()
	var w warnings
	reg := unit.NewRegistry(c, unit.WithReporter(&w))

	for _, kind := range []string{"*", "markdown"} {
		for _, name := range reg.Names(kind) {
			if _, err := reg.Lookup(kind, name); err != nil {
				t.Errorf("Lookup(%q, %q) error = %v", kind, name, err)
			}
		}
	}
	if len(w.msgs) != 0 {
		t.Errorf("default units produced warnings: %v", w.msgs)
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	user := filepath.Join(dir, "units.toml")
	workspace := filepath.Join(dir, "workspace.yaml")

	writeFile(t, settings, `{
  "selection-utilities.motionUnits": [
    {"name": "word", "regex": "settings"},
    {"name": "tag", "regex": "<[^>]+>"}
  ]
}`)
	writeFile(t, user, `
[units."*"]
word = 'user'
number = ['[0-9]']

[units.go]
func = 'func\s+\w+'
`)
	writeFile(t, workspace, `
units:
  "*":
    - name: number
      regex: 'workspace'
`)

	c := New(WithSettingsFile(settings), WithUserFile(user), WithWorkspaceFile(workspace))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer c.Close()

	generic := c.Units("*")
	if got := entryNamed(generic, "word")["regex"]; got != "user" {
		t.Errorf("word regex = %v, want user to override settings", got)
	}
	if got := entryNamed(generic, "tag")["regex"]; got != "<[^>]+>" {
		t.Errorf("tag regex = %v, want settings value", got)
	}

	number := entryNamed(generic, "number")
	if number["regex"] != "workspace" {
		t.Errorf("number regex = %v, want workspace", number["regex"])
	}
	if _, ok := number["regexs"]; ok {
		t.Error("workspace unit must replace the user unit as a whole")
	}

	if entryNamed(c.Units("go"), "func") == nil {
		t.Error("go func unit missing")
	}

	if from, ok := c.LayerOf("*", "number"); !ok || from != LayerWorkspace {
		t.Errorf("LayerOf(number) = %q, %v, want workspace", from, ok)
	}
	if from, _ := c.LayerOf("*", "WORD"); from != LayerDefaults {
		t.Errorf("LayerOf(WORD) = %q, want defaults", from)
	}

	wantKinds := []string{"*", "go", "markdown"}
	if got := c.Kinds(); len(got) != len(wantKinds) || got[1] != "go" {
		t.Errorf("Kinds() = %v, want %v", got, wantKinds)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(WithUserFile(filepath.Join(dir, "none.toml")))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if entryNamed(c.Units("*"), "word") == nil {
		t.Error("defaults should remain when files are missing")
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units\n")

	c := New(WithUserFile(path))
	err := c.Load(context.Background())

	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("Load() error = %v, want *FileError", err)
	}
	if fileErr.Layer != LayerUser {
		t.Errorf("Layer = %q, want user", fileErr.Layer)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Load() error = %v, want wrapped *ParseError", err)
	}
}

type changeLog struct {
	mu      sync.Mutex
	changes []notify.Change
	ch      chan struct{}
}

func newChangeLog() *changeLog {
	return &changeLog{ch: make(chan struct{}, 64)}
}

func (l *changeLog) observe(c notify.Change) {
	l.mu.Lock()
	l.changes = append(l.changes, c)
	l.mu.Unlock()
	l.ch <- struct{}{}
}

func (l *changeLog) last() notify.Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.changes) == 0 {
		return notify.Change{}
	}
	return l.changes[len(l.changes)-1]
}

func (l *changeLog) paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	paths := make([]string, len(l.changes))
	for i, c := range l.changes {
		paths[i] = c.Path
	}
	return paths
}

func TestReloadNotifiesChangedKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units.\"*\"]\nword = 'a'\n")

	c := New(WithUserFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	log := newChangeLog()
	c.SubscribePath(UnitsPath, log.observe)

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := log.paths(); len(got) != 0 {
		t.Errorf("unchanged reload notified %v", got)
	}

	writeFile(t, path, "[units.\"*\"]\nword = 'b'\n[units.go]\nfunc = 'func'\n")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	got := log.paths()
	if len(got) != 2 || got[0] != "units.*" || got[1] != "units.go" {
		t.Errorf("notified paths = %v, want [units.* units.go]", got)
	}
	if v := entryNamed(c.Units("*"), "word")["regex"]; v != "b" {
		t.Errorf("word regex = %v, want b", v)
	}

	log.mu.Lock()
	generic := log.changes[0]
	log.mu.Unlock()
	if generic.Kind != "*" || generic.Type != notify.ChangeSet || generic.Source != "reload" {
		t.Errorf("change = %+v, want reload set of *", generic)
	}
	if names := generic.Names(); len(names) != 1 || names[0] != "word" {
		t.Errorf("Names() = %v, want [word]", names)
	}
}

func TestReloadErrorKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units.\"*\"]\nword = 'a'\n")

	c := New(WithUserFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "[units\n")
	if err := c.Reload(); err == nil {
		t.Fatal("Reload() should fail on a broken file")
	}
	if v := entryNamed(c.Units("*"), "word")["regex"]; v != "a" {
		t.Errorf("word regex = %v, want previous value a", v)
	}
}

func TestReloadRemovedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units.go]\nfunc = 'func'\n")

	c := New(WithUserFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	log := newChangeLog()
	c.SubscribePath(UnitsPath, log.observe)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if len(c.Units("go")) != 0 {
		t.Error("go units should be gone")
	}
	if got := log.paths(); len(got) != 1 || got[0] != "units.go" {
		t.Fatalf("notified paths = %v, want [units.go]", got)
	}
	change := log.last()
	if change.Type != notify.ChangeDelete || change.Kind != "go" || change.New != nil {
		t.Errorf("change = %+v, want delete of go with no new table", change)
	}
}

func TestSetUnit(t *testing.T) {
	c := New()
	log := newChangeLog()
	c.SubscribePath(UnitsPath, log.observe)

	if err := c.SetUnit("", "word", map[string]any{"regex": `\w+`}); err != nil {
		t.Fatalf("SetUnit() error = %v", err)
	}
	if v := entryNamed(c.Units("*"), "word")["regex"]; v != `\w+` {
		t.Errorf("word regex = %v, want session override", v)
	}
	if from, _ := c.LayerOf("*", "word"); from != "session" {
		t.Errorf("LayerOf(word) = %q, want session", from)
	}
	if got := log.paths(); len(got) != 1 || got[0] != "units.*" {
		t.Errorf("notified paths = %v, want [units.*]", got)
	}
	if names := log.last().Names(); len(names) != 1 || names[0] != "word" {
		t.Errorf("Names() = %v, want [word]", names)
	}
}

func TestSetUnitSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units.\"*\"]\nword = 'file'\n")

	c := New(WithUserFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.SetUnit("go", "my.func", map[string]any{"regex": "func"}); err != nil {
		t.Fatalf("SetUnit() error = %v", err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if entryNamed(c.Units("go"), "my.func") == nil {
		t.Error("session unit with a dotted name lost after reload")
	}
	if from, ok := c.LayerOf("go", "my.func"); !ok || from != "session" {
		t.Errorf("LayerOf(my.func) = %q, %v, want session", from, ok)
	}
	if err := c.SetUnit("go", "", nil); !errors.Is(err, ErrUnitName) {
		t.Errorf("SetUnit(\"\") error = %v, want ErrUnitName", err)
	}
}

func TestClose(t *testing.T) {
	c := New()
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := c.Reload(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reload() after Close = %v, want ErrClosed", err)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	writeFile(t, path, "[units.\"*\"]\nword = 'a'\n")

	c := New(WithUserFile(path), WithWatcher(true))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	log := newChangeLog()
	c.SubscribePath(UnitsPath, log.observe)

	writeFile(t, path, "[units.\"*\"]\nword = 'b'\n")
	select {
	case <-log.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload notification after file change")
	}
	if v := entryNamed(c.Units("*"), "word")["regex"]; v != "b" {
		t.Errorf("word regex = %v, want b", v)
	}
}
