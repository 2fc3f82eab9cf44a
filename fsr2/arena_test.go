package fsr2

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeBackend struct {
	iface Interface
}

func (b *fakeBackend) Kind() BackendKind     { return BackendVulkan }
func (b *fakeBackend) Interface() *Interface { return &b.iface }
func (b *fakeBackend) Device() Device        { return Device(0xbeef) }

// fakeNative records calls in place of the native library.
type fakeNative struct {
	mu         sync.Mutex
	created    int
	destroyed  int
	dispatched int
	lastDesc   ContextDescription
	createErr  error
	destroyErr error

	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (f *fakeNative) ops() contextOps {
	return contextOps{
		alloc: func() *Context { return new(Context) },
		create: func(ctx *Context, desc *ContextDescription) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.createErr != nil {
				return f.createErr
			}
			f.created++
			f.lastDesc = *desc
			ctx.data[0] = 1
			return nil
		},
		dispatch: func(ctx *Context, desc *DispatchDescription) error {
			if f.inFlight.Add(1) > 1 {
				f.overlap.Store(true)
			}
			defer f.inFlight.Add(-1)
			if ctx.data[0] != 1 {
				return InvalidPointer
			}
			f.mu.Lock()
			f.dispatched++
			f.mu.Unlock()
			return nil
		},
		reactive: func(ctx *Context, desc *GenerateReactiveDescription) error {
			if desc.Scale <= 0 {
				return InvalidArgument
			}
			return nil
		},
		destroy: func(ctx *Context) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.destroyed++
			ctx.data[0] = 0
			return f.destroyErr
		},
	}
}

func newTestArena(f *fakeNative) *Arena {
	return &Arena{ops: f.ops()}
}

func testConfig() ContextConfig {
	return ContextConfig{
		Flags:         EnableAutoExposure,
		MaxRenderSize: Dimensions2D{Width: 1920, Height: 1080},
		DisplaySize:   Dimensions2D{Width: 3840, Height: 2160},
		Backend:       &fakeBackend{iface: Interface{ScratchBufferSize: 4096}},
	}
}

func TestArena_CreateDispatchDestroy(t *testing.T) {
	// DOING: Run one session through its whole lifecycle
	// EXPECT: Description built from the config, dispatch reaches the context, destroy releases it
	// IF YES: Arena wiring to the native calls is correct
	// IF NO: Handles or descriptions are mixed up

	f := &fakeNative{}
	a := newTestArena(f)

	h, err := a.Create(testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h.IsZero() {
		t.Fatal("Create returned the zero handle")
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}

	if f.lastDesc.Device != Device(0xbeef) {
		t.Errorf("description device = %#x, want 0xbeef", f.lastDesc.Device)
	}
	if f.lastDesc.Callbacks.ScratchBufferSize != 4096 {
		t.Errorf("description callbacks not copied from backend")
	}
	if f.lastDesc.DisplaySize.Width != 3840 || f.lastDesc.Flags != EnableAutoExposure {
		t.Errorf("description = %+v", f.lastDesc)
	}

	if err := a.Dispatch(h, &DispatchDescription{}); err != nil {
		t.Errorf("Dispatch failed: %v", err)
	}
	if err := a.GenerateReactiveMask(h, &GenerateReactiveDescription{Scale: 1}); err != nil {
		t.Errorf("GenerateReactiveMask failed: %v", err)
	}
	if err := a.GenerateReactiveMask(h, &GenerateReactiveDescription{}); !errors.Is(err, InvalidArgument) {
		t.Errorf("GenerateReactiveMask error = %v, want InvalidArgument", err)
	}

	cfg, err := a.Config(h)
	if err != nil || cfg.DisplaySize != testConfig().DisplaySize {
		t.Errorf("Config() = %+v, %v", cfg, err)
	}

	if err := a.Destroy(h); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if f.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", f.destroyed)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after Destroy, want 0", a.Len())
	}
}

func TestArena_StaleHandle(t *testing.T) {
	f := &fakeNative{}
	a := newTestArena(f)

	old, _ := a.Create(testConfig())
	if err := a.Destroy(old); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	// The slot is reused with a new generation.
	fresh, err := a.Create(testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if fresh.Index != old.Index || fresh.Generation == old.Generation {
		t.Errorf("fresh = %v, old = %v; want same index, new generation", fresh, old)
	}

	if err := a.Dispatch(old, &DispatchDescription{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Dispatch(stale) error = %v, want ErrInvalidHandle", err)
	}
	if err := a.Destroy(old); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Destroy(stale) error = %v, want ErrInvalidHandle", err)
	}
	if err := a.Dispatch(fresh, &DispatchDescription{}); err != nil {
		t.Errorf("Dispatch(fresh) failed: %v", err)
	}
}

func TestArena_InvalidHandles(t *testing.T) {
	a := newTestArena(&fakeNative{})

	tests := []struct {
		name string
		h    Handle
	}{
		{"zero", Handle{}},
		{"out of range", Handle{Index: 9, Generation: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.Dispatch(tt.h, &DispatchDescription{}); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Dispatch error = %v, want ErrInvalidHandle", err)
			}
			if err := a.Destroy(tt.h); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Destroy error = %v, want ErrInvalidHandle", err)
			}
			if _, err := a.Config(tt.h); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Config error = %v, want ErrInvalidHandle", err)
			}
		})
	}
}

func TestArena_CreateFailures(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		a := newTestArena(&fakeNative{})
		cfg := testConfig()
		cfg.Backend = nil
		if _, err := a.Create(cfg); !errors.Is(err, ErrNilBackend) {
			t.Errorf("error = %v, want ErrNilBackend", err)
		}
	})

	t.Run("native error passes through", func(t *testing.T) {
		f := &fakeNative{createErr: IncompleteInterface}
		a := newTestArena(f)
		_, err := a.Create(testConfig())
		if code, _ := Code(err); code != IncompleteInterface {
			t.Errorf("Code(err) = %v, want IncompleteInterface", code)
		}
		if a.Len() != 0 {
			t.Errorf("Len() = %d after failed create, want 0", a.Len())
		}
	})

	t.Run("allocation failure", func(t *testing.T) {
		f := &fakeNative{}
		ops := f.ops()
		ops.alloc = func() *Context { return nil }
		a := &Arena{ops: ops}
		if _, err := a.Create(testConfig()); !errors.Is(err, OutOfMemory) {
			t.Errorf("error = %v, want OutOfMemory", err)
		}
	})
}

func TestArena_DestroyErrorInvalidatesHandle(t *testing.T) {
	f := &fakeNative{destroyErr: BackendAPIError}
	a := newTestArena(f)

	h, _ := a.Create(testConfig())
	if err := a.Destroy(h); !errors.Is(err, BackendAPIError) {
		t.Errorf("Destroy error = %v, want BackendAPIError", err)
	}
	if err := a.Destroy(h); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("second Destroy error = %v, want ErrInvalidHandle", err)
	}
}

func TestArena_Close(t *testing.T) {
	f := &fakeNative{}
	a := newTestArena(f)

	var handles []Handle
	for i := 0; i < 3; i++ {
		h, err := a.Create(testConfig())
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		handles = append(handles, h)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if f.destroyed != 3 {
		t.Errorf("destroyed = %d, want 3", f.destroyed)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", a.Len())
	}

	if err := a.Dispatch(handles[0], &DispatchDescription{}); !errors.Is(err, ErrArenaClosed) {
		t.Errorf("Dispatch after Close error = %v, want ErrArenaClosed", err)
	}
	if _, err := a.Create(testConfig()); !errors.Is(err, ErrArenaClosed) {
		t.Errorf("Create after Close error = %v, want ErrArenaClosed", err)
	}
	if err := a.Close(); !errors.Is(err, ErrArenaClosed) {
		t.Errorf("second Close error = %v, want ErrArenaClosed", err)
	}
}

func TestArena_CloseJoinsErrors(t *testing.T) {
	f := &fakeNative{}
	a := newTestArena(f)
	a.Create(testConfig())
	a.Create(testConfig())

	f.destroyErr = BackendAPIError
	err := a.Close()
	if !errors.Is(err, BackendAPIError) {
		t.Errorf("Close error = %v, want BackendAPIError", err)
	}
}

func TestArena_ConcurrentDispatch(t *testing.T) {
	// DOING: Dispatch on one handle from many goroutines
	// EXPECT: Calls never overlap on the same context
	// IF YES: Per-session serialization holds
	// IF NO: Two goroutines entered the native library on one context

	f := &fakeNative{}
	a := newTestArena(f)
	h, _ := a.Create(testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := a.Dispatch(h, &DispatchDescription{}); err != nil {
					t.Errorf("Dispatch failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if f.overlap.Load() {
		t.Error("dispatches on one context overlapped")
	}
	if f.dispatched != 16*50 {
		t.Errorf("dispatched = %d, want %d", f.dispatched, 16*50)
	}
}

func TestArena_ConcurrentCreateDestroy(t *testing.T) {
	f := &fakeNative{}
	a := newTestArena(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h, err := a.Create(testConfig())
				if err != nil {
					t.Errorf("Create failed: %v", err)
					return
				}
				if err := a.Destroy(h); err != nil {
					t.Errorf("Destroy failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	if f.created != f.destroyed {
		t.Errorf("created %d, destroyed %d", f.created, f.destroyed)
	}
}

func TestHandle_String(t *testing.T) {
	h := Handle{Index: 4, Generation: 2}
	if got := h.String(); got != "fsr2:4.2" {
		t.Errorf("String() = %q", got)
	}
}
