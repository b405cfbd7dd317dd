package menu

import "sync"

// Registry remembers which bots already have a callback listener so that a
// listener is attached once per bot
type Registry struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// Listeners is the process-wide registry
var Listeners = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Register records id and reports whether it was new
func (r *Registry) Register(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Registered reports whether id has been recorded
func (r *Registry) Registered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.ids[id]
	return ok
}

// Len returns the number of recorded ids
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.ids)
}
