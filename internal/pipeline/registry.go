package pipeline

import (
	"context"
	"sort"
	"sync"
)

// Func is a custom processor. It receives the context bounding its
// execution window, the current pipeline value, and the immutable run
// context. Implementations must not write shared state: results are
// committed by the pipeline only when the call finishes in time.
type Func func(ctx context.Context, value any, pctx *Context) (any, error)

// Registry maps processor names to callables. Custom steps resolve
// against it only in dev mode.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces a native processor.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the processor registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names lists registered processors, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
