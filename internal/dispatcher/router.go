package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/kakmotion/internal/dispatcher/handler"
)

// Router routes actions to handlers using namespace prefixes. Several
// handlers may serve one namespace ("selection" is split across the
// motion, memory and filter handlers); the first registered handler that
// accepts an action wins.
type Router struct {
	mu sync.RWMutex

	namespaces map[string][]handler.NamespaceHandler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string][]handler.NamespaceHandler),
	}
}

// RegisterNamespace adds a handler for actions in a namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = append(r.namespaces[namespace], h)
}

// Route finds the handler for an action, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.namespaces[extractNamespace(actionName)] {
		if h.CanHandle(actionName) {
			return handler.NewNamespaceAdapter(h)
		}
	}
	return nil
}

// Actions returns the action names advertised by namespace handlers that
// list them, sorted.
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, hs := range r.namespaces {
		for _, h := range hs {
			if lister, ok := h.(interface{ Actions() []string }); ok {
				names = append(names, lister.Actions()...)
			}
		}
	}
	sort.Strings(names)
	return names
}

// extractNamespace returns the prefix before the first dot, or "".
func extractNamespace(actionName string) string {
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return ns
}
