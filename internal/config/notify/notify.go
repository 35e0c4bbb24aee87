// Package notify delivers unit-table changes to subscribers.
//
// A change names one unit kind ("units.markdown") and carries the kind's
// effective table before and after, keyed by unit name. Subscribers
// register for a path and receive changes at, below or above it.
package notify

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a kind's table was added or modified.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a kind's table disappeared.
	ChangeDelete

	// ChangeReload indicates every table may have changed.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Table is the effective unit bodies of one kind, keyed by unit name.
type Table map[string]any

// Change represents a change to one kind's unit table.
type Change struct {
	// Path is the dot-separated configuration path, e.g. "units.markdown".
	// Empty for reload events.
	Path string

	// Kind is the document kind whose table changed.
	Kind string

	// Type is the type of change.
	Type ChangeType

	// Old and New are the kind's tables before and after. Old is nil for a
	// new kind, New is nil for a deleted one.
	Old, New Table

	// Source identifies the layer or event that caused the change.
	Source string
}

// Names returns the sorted unit names added, modified or removed.
func (c Change) Names() []string {
	set := make(map[string]struct{})
	for name, body := range c.New {
		if old, ok := c.Old[name]; !ok || !reflect.DeepEqual(old, body) {
			set[name] = struct{}{}
		}
	}
	for name := range c.Old {
		if _, ok := c.New[name]; !ok {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Touches reports whether the change affects path: a reload affects every
// path, otherwise the change path must equal path or be nested on either
// side of it.
func (c Change) Touches(path string) bool {
	if c.Type == ChangeReload || c.Path == "" {
		return true
	}
	return c.Path == path || isParentPath(path, c.Path) || isParentPath(c.Path, path)
}

// Observer is called when a unit table changes.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type subscriber struct {
	path     string
	observer Observer
}

// Notifier manages change subscriptions. Delivery is synchronous, in
// subscription order, outside the notifier's lock.
type Notifier struct {
	mu     sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64
	closed bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[uint64]subscriber)}
}

// SubscribePath registers an observer for changes touching path. An empty
// path receives every change.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = subscriber{path: path, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to every subscriber whose path it touches.
// Changes after Close are dropped.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.subs))
	for id, s := range n.subs {
		if s.path == "" || change.Touches(s.path) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.subs[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// Close drops every subscription. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = make(map[uint64]subscriber)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// isParentPath checks if parent is a parent path of child.
// e.g., "units" is parent of "units.markdown".
func isParentPath(parent, child string) bool {
	if parent == "" {
		return child != ""
	}
	return strings.HasPrefix(child, parent+".")
}

// Batch collects the changes of one reload and delivers them together.
type Batch struct {
	notifier *Notifier
	changes  []Change
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.changes = append(b.changes, change)
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	return len(b.changes)
}

// Commit sends the batched changes in the order they were added and empties
// the batch.
func (b *Batch) Commit() {
	changes := b.changes
	b.changes = nil
	for _, change := range changes {
		b.notifier.Notify(change)
	}
}
