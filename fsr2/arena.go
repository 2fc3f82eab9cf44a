package fsr2

import (
	"errors"
	"fmt"
	"sync"
)

// Handle identifies a session in an Arena. The generation makes handles
// to destroyed sessions fail instead of aliasing a newer session that
// reused the slot. The zero Handle is never valid.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("fsr2:%d.%d", h.Index, h.Generation)
}

// contextOps are the native calls the arena drives.
type contextOps struct {
	alloc    func() *Context
	create   func(*Context, *ContextDescription) error
	dispatch func(*Context, *DispatchDescription) error
	reactive func(*Context, *GenerateReactiveDescription) error
	destroy  func(*Context) error
}

var nativeOps = contextOps{
	alloc:    NewContext,
	create:   ContextCreate,
	dispatch: ContextDispatch,
	reactive: ContextGenerateReactiveMask,
	destroy:  ContextDestroy,
}

// session is one live context. mu serializes native calls on ctx.
type session struct {
	mu  sync.Mutex
	ctx *Context
	cfg ContextConfig
}

type slot struct {
	generation uint32
	s          *session
}

// Arena owns upscaling contexts and hands out generation-tagged handles
// for them. It is safe for concurrent use; calls on the same handle are
// serialized because the native library forbids concurrent access to one
// context, while different handles proceed in parallel.
type Arena struct {
	ops contextOps

	mu     sync.Mutex
	slots  []slot
	free   []uint32
	live   int
	closed bool
}

// NewArena returns an empty arena backed by the native library.
func NewArena() *Arena {
	return &Arena{ops: nativeOps}
}

// Create allocates and initializes a context from cfg. Native failures
// are returned unchanged and leave nothing allocated.
func (a *Arena) Create(cfg ContextConfig) (Handle, error) {
	desc, err := cfg.Description()
	if err != nil {
		return Handle{}, err
	}

	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return Handle{}, ErrArenaClosed
	}

	ctx := a.ops.alloc()
	if ctx == nil {
		return Handle{}, OutOfMemory
	}
	if err := a.ops.create(ctx, &desc); err != nil {
		ctx.Free()
		return Handle{}, err
	}

	s := &session{ctx: ctx, cfg: cfg}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		err := a.ops.destroy(ctx)
		ctx.Free()
		return Handle{}, errors.Join(ErrArenaClosed, err)
	}
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	a.slots[idx].generation++
	a.slots[idx].s = s
	a.live++
	h := Handle{Index: idx, Generation: a.slots[idx].generation}
	a.mu.Unlock()

	return h, nil
}

func (a *Arena) lookup(h Handle) (*session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrArenaClosed
	}
	if h.IsZero() || int(h.Index) >= len(a.slots) {
		return nil, ErrInvalidHandle
	}
	sl := a.slots[h.Index]
	if sl.s == nil || sl.generation != h.Generation {
		return nil, ErrInvalidHandle
	}
	return sl.s, nil
}

// With runs fn with exclusive access to the context behind h, for
// backend queries that take a *Context.
func (a *Arena) With(h Handle, fn func(*Context) error) error {
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return ErrInvalidHandle
	}
	return fn(s.ctx)
}

// Config returns the configuration the session behind h was created with.
func (a *Arena) Config(h Handle) (ContextConfig, error) {
	s, err := a.lookup(h)
	if err != nil {
		return ContextConfig{}, err
	}
	return s.cfg, nil
}

// Dispatch records one upscaling pass on the session behind h.
func (a *Arena) Dispatch(h Handle, desc *DispatchDescription) error {
	return a.With(h, func(ctx *Context) error {
		return a.ops.dispatch(ctx, desc)
	})
}

// GenerateReactiveMask records the reactive-mask pass on the session
// behind h.
func (a *Arena) GenerateReactiveMask(h Handle, desc *GenerateReactiveDescription) error {
	return a.With(h, func(ctx *Context) error {
		return a.ops.reactive(ctx, desc)
	})
}

// Destroy releases the session behind h. The handle is invalid afterwards
// even if the native destroy call fails.
func (a *Arena) Destroy(h Handle) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrArenaClosed
	}
	if h.IsZero() || int(h.Index) >= len(a.slots) {
		a.mu.Unlock()
		return ErrInvalidHandle
	}
	sl := &a.slots[h.Index]
	if sl.s == nil || sl.generation != h.Generation {
		a.mu.Unlock()
		return ErrInvalidHandle
	}
	s := sl.s
	sl.s = nil
	a.free = append(a.free, h.Index)
	a.live--
	a.mu.Unlock()

	return a.release(s)
}

func (a *Arena) release(s *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil
	}
	err := a.ops.destroy(s.ctx)
	s.ctx.Free()
	s.ctx = nil
	return err
}

// Len returns the number of live sessions.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Close destroys every live session. Later calls return ErrArenaClosed.
func (a *Arena) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrArenaClosed
	}
	a.closed = true
	var sessions []*session
	for i := range a.slots {
		if a.slots[i].s != nil {
			sessions = append(sessions, a.slots[i].s)
			a.slots[i].s = nil
		}
	}
	a.live = 0
	a.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := a.release(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
