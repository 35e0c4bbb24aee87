package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/kakmotion/internal/config/layer"
	"github.com/dshills/kakmotion/internal/config/loader"
	"github.com/dshills/kakmotion/internal/config/notify"
	"github.com/dshills/kakmotion/internal/config/watcher"
)

//go:embed defaults.toml
var defaultUnits []byte

// UnitsPath is the configuration path holding unit tables.
const UnitsPath = loader.UnitsKey

// Layer names.
const (
	LayerDefaults  = "defaults"
	LayerSettings  = "settings"
	LayerUser      = "user"
	LayerWorkspace = "workspace"
)

// Logger is the logging surface used by the configuration system.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// file is a configuration file feeding one layer.
type file struct {
	layer  string
	source layer.Source
	path   string
}

// Config provides merged access to the unit tables, reloads them when their
// files change and notifies subscribers.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher
	fs       loader.FileSystem
	logger   Logger

	files         []file
	enableWatcher bool
	closed        bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithSettingsFile reads units from an editor settings.json file.
func WithSettingsFile(path string) Option {
	return withFile(LayerSettings, layer.SourceSettings, path)
}

// WithUserFile reads units from the user's TOML or YAML units file.
func WithUserFile(path string) Option {
	return withFile(LayerUser, layer.SourceUser, path)
}

// WithWorkspaceFile reads units from a workspace TOML or YAML units file.
func WithWorkspaceFile(path string) Option {
	return withFile(LayerWorkspace, layer.SourceWorkspace, path)
}

func withFile(name string, source layer.Source, path string) Option {
	return func(c *Config) {
		if path == "" {
			return
		}
		for i := range c.files {
			if c.files[i].layer == name {
				c.files[i].path = path
				return
			}
		}
		c.files = append(c.files, file{layer: name, source: source, path: path})
	}
}

// WithFileSystem sets the file system files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithWatcher enables reloading when configuration files change.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// DefaultUserConfigDir returns the per-user configuration directory.
func DefaultUserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".kakmotion")
	}
	return filepath.Join(dir, "kakmotion")
}

// DefaultUserFile returns the default path of the user's units file.
func DefaultUserFile() string {
	return filepath.Join(DefaultUserConfigDir(), "units.toml")
}

// New creates a Config holding the built-in unit table. Files configured
// by options are read by Load.
func New(opts ...Option) *Config {
	c := &Config{
		layers:   layer.NewManager(),
		notifier: notify.New(),
		fs:       loader.DefaultFS(),
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.layers.AddLayer(layer.NewLayerWithData(LayerDefaults, layer.SourceBuiltin, mustDefaults()))
	return c
}

// mustDefaults parses the embedded default units.
func mustDefaults() map[string]any {
	data, err := loader.ParseTOML("defaults.toml", defaultUnits)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return data
}

// Load reads every configured file and, if enabled, starts watching them.
// Missing files are skipped.
func (c *Config) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	for _, f := range c.files {
		if err := c.loadFile(f); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	start := c.enableWatcher && c.watcher == nil && len(c.files) > 0
	if start {
		c.watcher = watcher.New(watcher.WithLogger(c.logger))
		for _, f := range c.files {
			if err := c.watcher.Watch(f.path); err != nil {
				c.mu.Unlock()
				return fmt.Errorf("watching %s: %w", f.path, err)
			}
		}
		c.watcher.OnChange(c.handleFileChange)
	}
	w := c.watcher
	c.mu.Unlock()

	// The watcher calls back into Reload, which takes c.mu.
	if start {
		if err := w.Start(ctx); err != nil {
			return err
		}
		c.logger.Debug("watching %d config files", len(c.files))
	}
	return nil
}

// loadFile reads f into its layer, dropping the layer when the file is
// missing. Callers hold c.mu.
func (c *Config) loadFile(f file) error {
	ld, err := loader.ForPath(c.fs, f.path)
	if err != nil {
		return &FileError{Layer: f.layer, Path: f.path, Err: err}
	}
	data, err := ld.Load()
	if err != nil {
		return &FileError{Layer: f.layer, Path: f.path, Err: err}
	}
	if data == nil {
		c.layers.RemoveLayer(f.layer)
		return nil
	}

	l := layer.NewLayerWithData(f.layer, f.source, data)
	l.Path = f.path
	if info, err := c.fs.Stat(f.path); err == nil {
		l.ModTime = info.ModTime()
	}
	c.layers.AddLayer(l)
	c.logger.Debug("loaded %s config from %s", f.layer, f.path)
	return nil
}

// Reload re-reads every configured file and notifies subscribers of the
// unit kinds whose effective tables changed. On error the previous layers
// stay in effect.
func (c *Config) Reload() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	before := c.effective()
	saved := make([]*layer.Layer, 0, len(c.files))
	for _, l := range c.layers.Layers() {
		saved = append(saved, l.Clone())
	}

	for _, f := range c.files {
		if err := c.loadFile(f); err != nil {
			c.restore(saved)
			c.mu.Unlock()
			return err
		}
	}
	after := c.effective()
	c.mu.Unlock()

	batch := c.notifier.NewBatch()
	for _, kind := range changedKinds(before, after) {
		change := notify.Change{
			Path:   UnitsPath + "." + kind,
			Kind:   kind,
			Type:   notify.ChangeSet,
			Old:    before[kind],
			New:    after[kind],
			Source: "reload",
		}
		if change.New == nil {
			change.Type = notify.ChangeDelete
		}
		batch.Add(change)
	}
	if n := batch.Len(); n > 0 {
		c.logger.Info("config reloaded, %d unit kinds changed", n)
	}
	batch.Commit()
	return nil
}

// restore puts back a saved set of layers. Callers hold c.mu.
func (c *Config) restore(saved []*layer.Layer) {
	for _, f := range c.files {
		c.layers.RemoveLayer(f.layer)
	}
	for _, l := range saved {
		c.layers.AddLayer(l)
	}
}

func (c *Config) handleFileChange(ev watcher.Event) {
	c.logger.Debug("config file %s: %s", ev.Path, ev.Op)
	if err := c.Reload(); err != nil {
		c.logger.Warn("config reload failed: %v", err)
	}
}

// changedKinds returns the sorted kinds whose tables differ.
func changedKinds(before, after map[string]map[string]any) []string {
	old := map[string]any{}
	for kind, units := range before {
		old[kind] = units
	}
	cur := map[string]any{}
	for kind, units := range after {
		cur[kind] = units
	}

	added, modified, removed := layer.DiffMaps(old, cur)
	set := make(map[string]struct{})
	for _, paths := range [][]string{added, modified, removed} {
		for _, p := range paths {
			kind, _, _ := strings.Cut(p, ".")
			set[kind] = struct{}{}
		}
	}
	kinds := make([]string, 0, len(set))
	for kind := range set {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Close stops the watcher and the notifier.
func (c *Config) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	c.mu.Unlock()

	var err error
	if w != nil {
		err = w.Stop()
	}
	c.notifier.Close()
	return err
}

// SetUnit defines or replaces one unit in the session layer.
func (c *Config) SetUnit(kind, name string, body map[string]any) error {
	if name == "" {
		return ErrUnitName
	}
	if kind == "" {
		kind = loader.AnyKind
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	before := c.effective()[kind]
	c.layers.SetInSession(body, UnitsPath, kind, name)
	after := c.effective()[kind]
	c.mu.Unlock()

	c.notifier.Notify(notify.Change{
		Path:   UnitsPath + "." + kind,
		Kind:   kind,
		Type:   notify.ChangeSet,
		Old:    before,
		New:    after,
		Source: layer.SourceSession.String(),
	})
	return nil
}

// effective returns the unit bodies per kind and name, each taken whole from
// the highest layer defining it. Callers hold c.mu.
func (c *Config) effective() map[string]map[string]any {
	result := make(map[string]map[string]any)
	for _, l := range c.layers.Layers() {
		kinds, ok := l.Data[UnitsPath].(map[string]any)
		if !ok {
			continue
		}
		for kind, v := range kinds {
			table, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if result[kind] == nil {
				result[kind] = make(map[string]any)
			}
			for name, body := range table {
				result[kind][name] = body
			}
		}
	}
	return result
}

// Units returns the raw unit entries defined for kind, sorted by name. Each
// entry carries its "name" alongside "regex" or "regexs". Entries of the
// generic kind are not included.
func (c *Config) Units(kind string) []map[string]any {
	c.mu.RLock()
	table := c.effective()[kind]
	c.mu.RUnlock()

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]map[string]any, 0, len(names))
	for _, name := range names {
		entry := map[string]any{"name": name}
		if body, ok := table[name].(map[string]any); ok {
			for k, v := range body {
				entry[k] = v
			}
		} else {
			entry["regex"] = table[name]
		}
		entries = append(entries, entry)
	}
	return entries
}

// Kinds returns the document kinds that define units, sorted.
func (c *Config) Kinds() []string {
	c.mu.RLock()
	eff := c.effective()
	c.mu.RUnlock()

	kinds := make([]string, 0, len(eff))
	for kind := range eff {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// AllUnits returns the entries of every kind.
func (c *Config) AllUnits() map[string][]map[string]any {
	result := make(map[string][]map[string]any)
	for _, kind := range c.Kinds() {
		result[kind] = c.Units(kind)
	}
	return result
}

// LayerOf returns the name of the layer providing unit name of kind.
func (c *Config) LayerOf(kind, name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, from, ok := c.layers.Get(UnitsPath, kind, name)
	return from, ok
}

// SubscribePath registers an observer for changes to a specific path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}
