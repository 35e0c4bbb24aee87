// Package app wires the configuration, the unit registry, the dispatcher
// and the open documents into one selection-editing session.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/kakmotion/internal/config"
	"github.com/dshills/kakmotion/internal/config/notify"
	"github.com/dshills/kakmotion/internal/dispatcher"
	"github.com/dshills/kakmotion/internal/dispatcher/handler"
	filterhandler "github.com/dshills/kakmotion/internal/dispatcher/handlers/filter"
	"github.com/dshills/kakmotion/internal/dispatcher/handlers/memory"
	motionhandler "github.com/dshills/kakmotion/internal/dispatcher/handlers/motion"
	"github.com/dshills/kakmotion/internal/dispatcher/hook"
	"github.com/dshills/kakmotion/internal/input"
	"github.com/dshills/kakmotion/internal/session"
	"github.com/dshills/kakmotion/internal/unit"
)

// Options configures the application.
type Options struct {
	// SettingsFile is an editor settings.json holding unit lists.
	SettingsFile string `mapstructure:"settings"`

	// UserFile is the user's TOML or YAML units file.
	UserFile string `mapstructure:"user"`

	// WorkspaceFile is a workspace TOML or YAML units file.
	WorkspaceFile string `mapstructure:"workspace"`

	// Watch reloads units when their files change.
	Watch bool `mapstructure:"watch"`

	// LogLevel sets the logging verbosity.
	LogLevel string `mapstructure:"log_level"`

	// Dispatcher configures command dispatch.
	Dispatcher dispatcher.Config `mapstructure:"dispatcher"`

	// Logger overrides the logger built from LogLevel.
	Logger *Logger `mapstructure:"-"`
}

// DefaultOptions returns the default application options.
func DefaultOptions() Options {
	return Options{
		LogLevel:   "warn",
		Dispatcher: dispatcher.DefaultConfig(),
	}
}

// Application is one selection-editing session: the merged unit
// configuration, the compiled unit registry, the dispatcher and the
// active document every command acts on.
type Application struct {
	mu sync.RWMutex

	opts   Options
	logger *Logger

	config     *config.Config
	units      *unit.Registry
	unitsSub   *notify.Subscription
	dispatcher *dispatcher.Dispatcher

	active *Document

	closed atomic.Bool
}

// New creates an Application and loads its configuration. Configuration
// files that fail to load are reported and the remaining layers stay in
// effect.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts, logger: opts.Logger}
	if app.logger == nil {
		cfg := DefaultLoggerConfig()
		cfg.Level = ParseLogLevel(opts.LogLevel)
		app.logger = NewLogger(cfg)
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	app.config = config.New(
		config.WithSettingsFile(app.opts.SettingsFile),
		config.WithUserFile(app.opts.UserFile),
		config.WithWorkspaceFile(app.opts.WorkspaceFile),
		config.WithWatcher(app.opts.Watch),
		config.WithLogger(app.logger.WithComponent("config")),
	)
	if err := app.config.Load(context.Background()); err != nil {
		app.logger.Warn("configuration: %v", err)
	}

	// 2. Units, rebuilt whenever the unit configuration changes
	app.units = unit.NewRegistry(app.config,
		unit.WithReporter(app),
		unit.WithLogger(app.logger.WithComponent("units")),
	)
	unitsLog := app.logger.WithComponent("units")
	app.unitsSub = app.config.SubscribePath(config.UnitsPath, func(change notify.Change) {
		unitsLog.Debug("%s %s from %s: %s", change.Type, change.Path, change.Source, strings.Join(change.Names(), ", "))
		app.units.Update(&change, change.Kind)
	})

	// 3. Dispatcher
	app.dispatcher = dispatcher.New(app.opts.Dispatcher)
	app.dispatcher.SetUnits(app.units)
	app.dispatcher.RegisterNamespace(motionhandler.NewHandler())
	app.dispatcher.RegisterNamespace(memory.NewHandler())
	app.dispatcher.RegisterNamespace(filterhandler.NewHandler())
	app.dispatcher.Hooks().RegisterPre(hook.NewValidationHook("units", hook.PriorityValidation, motionhandler.ValidateUnits))
	if app.logger.Level() <= LogLevelDebug {
		app.dispatcher.Hooks().Register(hook.NewAuditHook(app.logger.WithComponent("dispatch")))
	}

	return nil
}

// ShowWarning reports a warning on the active document and in the log.
func (app *Application) ShowWarning(msg string) {
	app.logger.Warn("%s", msg)
	if doc := app.Active(); doc != nil {
		doc.Engine.ShowWarning(msg)
	}
}

// Open reads path and makes it the active document.
func (app *Application) Open(path string) (*Document, error) {
	if app.closed.Load() {
		return nil, ErrClosed
	}
	doc, err := OpenDocument(path, app.sessionOptions()...)
	if err != nil {
		return nil, err
	}
	app.activate(doc)
	return doc, nil
}

// OpenText makes an in-memory document the active document. The language
// identifier selects its unit table.
func (app *Application) OpenText(name, content, languageID string) *Document {
	doc := NewDocument("", []byte(content), app.sessionOptions()...)
	if name != "" {
		doc.Name = name
	}
	if languageID != "" {
		doc.Engine.SetLanguageID(languageID)
	}
	app.activate(doc)
	return doc
}

func (app *Application) sessionOptions() []session.Option {
	id := uuid.NewString()
	return []session.Option{
		session.WithID(id),
		session.WithLogger(app.logger.WithComponent("session").WithField("session", id)),
	}
}

func (app *Application) activate(doc *Document) {
	app.mu.Lock()
	app.active = doc
	app.mu.Unlock()

	app.units.Update(nil, doc.LanguageID())
	app.dispatcher.SetHost(doc.Engine)
	app.dispatcher.SetStore(doc.Store)
	app.logger.WithField("session", doc.Store.ID()).Debug("opened %s (%s)", doc.Name, doc.LanguageID())
}

// Active returns the active document, or nil.
func (app *Application) Active() *Document {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.active
}

// Execute runs one command line against the active document. A leading
// number is the repeat count:
//
//	3 selection.moveBy unit=word
func (app *Application) Execute(line string) (handler.Result, error) {
	if app.closed.Load() {
		return handler.Result{}, ErrClosed
	}
	if app.Active() == nil {
		return handler.Result{}, ErrNoDocument
	}

	action, err := parseCommand(line)
	if err != nil {
		result := handler.Error(err)
		app.Active().Engine.ShowError(err.Error())
		return result, nil
	}
	return app.dispatcher.Dispatch(action), nil
}

// parseCommand parses a command line with an optional count prefix.
func parseCommand(line string) (input.Action, error) {
	line = strings.TrimSpace(line)
	first, rest, _ := strings.Cut(line, " ")
	count, err := strconv.Atoi(first)
	if err != nil {
		return input.ParseAction(line)
	}
	action, err := input.ParseAction(rest)
	if err != nil {
		return action, err
	}
	if count < 1 {
		return action, fmt.Errorf("%w: count must be positive", input.ErrInvalidAction)
	}
	return action.WithCount(count), nil
}

// RunScript executes one command per line of r. Blank lines and lines
// starting with '#' are skipped. Failed commands are reported as
// *CommandError; unless keepGoing is set, the first failure stops the
// script.
func (app *Application) RunScript(r io.Reader, keepGoing bool) error {
	var errs ErrorList
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result, err := app.Execute(line)
		if err != nil {
			return err
		}
		if !result.IsError() {
			continue
		}

		cause := result.Error
		if cause == nil {
			cause = fmt.Errorf("%w: %s", ErrCommandFailed, result.Message)
		}
		errs.Add(&CommandError{Line: n, Command: line, Err: cause})
		if !keepGoing {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errs.AsError()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Units returns the unit registry.
func (app *Application) Units() *unit.Registry {
	return app.units
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Close stops watching configuration files. Close is idempotent.
func (app *Application) Close() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}
	if app.unitsSub != nil {
		app.unitsSub.Unsubscribe()
	}
	if err := app.config.Close(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	return nil
}
