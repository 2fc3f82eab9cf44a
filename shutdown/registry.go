package shutdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go_fsr2/core"
)

// Handler priorities used by the go_fsr2 command. Lower runs first.
const (
	PriorityNative = 10 // destroy FSR2 sessions before anything else
	PriorityFiles  = 20
	PriorityLogger = 90 // flush logs last so earlier handlers are recorded
)

type handler struct {
	name     string
	priority int
	seq      int
	fn       core.ShutdownFunc
}

// Registry holds cleanup handlers and runs them once, in priority order.
// Handlers with equal priority run in registration order.
type Registry struct {
	mu       sync.Mutex
	handlers []handler
	closed   bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds fn. Registrations after Run are ignored.
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.handlers = append(r.handlers, handler{name: name, priority: priority, seq: len(r.handlers), fn: fn})
}

func (r *Registry) sorted() []handler {
	hs := append([]handler(nil), r.handlers...)
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].priority != hs[j].priority {
			return hs[i].priority < hs[j].priority
		}
		return hs[i].seq < hs[j].seq
	})
	return hs
}

// Run calls every handler, even after failures, and returns their errors
// prefixed with the handler name. Later calls return nil.
func (r *Registry) Run(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	hs := r.sorted()
	r.mu.Unlock()

	var errs []error
	for _, h := range hs {
		if err := h.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errs
}

// Names returns handler names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	hs := r.sorted()
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.name
	}
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
