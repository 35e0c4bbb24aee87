package layer

import (
	"sort"
	"sync"
)

// Manager holds the layers in ascending priority.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddLayer adds a layer, replacing any layer with the same name.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(l.Name); i >= 0 {
		m.layers[i] = l
	} else {
		m.layers = append(m.layers, l)
	}
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}

// RemoveLayer removes a layer by name, reporting whether it existed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(name)
	if i < 0 {
		return false
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	return true
}

// Layer returns a layer by name, or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(name); i >= 0 {
		return m.layers[i]
	}
	return nil
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Layer, len(m.layers))
	copy(result, m.layers)
	return result
}

// Get returns the effective value under the key path and the name of the
// layer that provides it.
func (m *Manager) Get(path ...string) (any, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(m.layers[i].Data, path...); ok {
			return cloneValue(val), m.layers[i].Name, true
		}
	}
	return nil, "", false
}

// SetInSession sets a value under the key path in the session layer,
// creating the layer on demand. The layer is replaced, not mutated, so
// clones taken earlier keep their data.
func (m *Manager) SetInSession(value any, path ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(SourceSession.String())
	if i < 0 {
		m.layers = append(m.layers, NewLayer(SourceSession.String(), SourceSession))
		i = len(m.layers) - 1
	} else {
		m.layers[i] = m.layers[i].Clone()
	}
	SetByPath(m.layers[i].Data, value, path...)
}

// indexOf finds a layer by name. Callers hold m.mu.
func (m *Manager) indexOf(name string) int {
	for i, l := range m.layers {
		if l.Name == name {
			return i
		}
	}
	return -1
}
