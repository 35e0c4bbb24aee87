package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/kakmotion/internal/engine/cursor"
)

// Register names with special meaning.
const (
	// DefaultRegister is used when a command names no register.
	DefaultRegister = "default"

	// CancelRegister receives the selections dropped by CancelSelection.
	CancelRegister = "cancel"
)

// Errors returned by register operations.
var (
	// ErrCountMismatch indicates a swap between a register and a live
	// selection set of different sizes.
	ErrCountMismatch = errors.New("session: register and selection counts differ")

	// ErrEmptyRegister indicates a register with nothing to restore.
	ErrEmptyRegister = errors.New("session: register is empty")
)

// Logger is the logging surface used by the store.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Store holds the primary index and the registers of one editor session.
// Registers hold copied positions and do not follow later edits.
type Store struct {
	mu        sync.Mutex
	id        string
	primary   int
	registers map[string][]cursor.Selection
	logger    Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(s *Store) {
		s.id = id
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		registers: make(map[string][]cursor.Selection),
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// ID returns the session identifier.
func (s *Store) ID() string {
	return s.id
}

// Primary returns the primary selection index.
func (s *Store) Primary() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primary
}

// SetPrimary sets the primary index, clamped to a set of n selections.
func (s *Store) SetPrimary(index, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = clampIndex(index, n)
}

// SelectionsChanged clamps the primary index after the live set changed to
// n selections.
func (s *Store) SelectionsChanged(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = clampIndex(s.primary, n)
}

// PrimarySelection returns the host's primary selection, clamping the
// index to the live set first.
func (s *Store) PrimarySelection(host Host) cursor.Selection {
	sels := host.Selections()
	s.SelectionsChanged(len(sels))
	if len(sels) == 0 {
		return cursor.Selection{}
	}
	return sels[s.Primary()]
}

// Register returns a copy of a register's selections.
func (s *Store) Register(name string) []cursor.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSelections(s.registers[registerName(name)])
}

// Registers returns the names of non-empty registers.
func (s *Store) Registers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.registers))
	for name, sels := range s.registers {
		if len(sels) > 0 {
			names = append(names, name)
		}
	}
	return names
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func registerName(name string) string {
	if name == "" {
		return DefaultRegister
	}
	return name
}

func cloneSelections(sels []cursor.Selection) []cursor.Selection {
	if sels == nil {
		return nil
	}
	out := make([]cursor.Selection, len(sels))
	copy(out, sels)
	return out
}
