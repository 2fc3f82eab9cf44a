package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go_fsr2/core"
)

// Manager cancels its context on the first SIGINT or SIGTERM, exits
// immediately on the second, and runs cleanup handlers on Shutdown.
//
//	m := shutdown.NewManager(logger)
//	m.Register("logger", shutdown.PriorityLogger, func(context.Context) error { return logger.Sync() })
//	m.Start()
//	defer m.Stop()
//
//	err := m.Run("build", builder.Run)
//	m.Shutdown()
//	os.Exit(m.ExitCode(err))
type Manager struct {
	logger  *zap.Logger
	timeout time.Duration
	exit    func(int)

	ctx    context.Context
	cancel context.CancelFunc

	tracker  *OperationTracker
	registry *Registry
	signals  *SignalCounter

	mu       sync.Mutex
	sigChan  chan os.Signal
	stop     chan struct{} // closed by Stop
	stopped  chan struct{} // closed when loop returns
	started  bool
	shutdown bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds how long Shutdown waits for operations and handlers.
// The default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithExit replaces os.Exit for the forced exit on a second signal.
func WithExit(exit func(int)) Option {
	return func(m *Manager) { m.exit = exit }
}

// NewManager returns a Manager. Signals are not handled until Start.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   logger,
		timeout:  30 * time.Second,
		exit:     os.Exit,
		ctx:      ctx,
		cancel:   cancel,
		tracker:  NewOperationTracker(),
		registry: NewRegistry(),
		sigChan:  make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.signals = NewSignalCounter(2, func(sig os.Signal) {
		code := core.ExitCodeForSignal(sig)
		m.logger.Warn("second signal, exiting immediately", zap.Stringer("signal", sig), zap.Int("exit_code", code))
		m.exit(code)
	})
	return m
}

// Context is cancelled by the first signal or by Shutdown.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Register adds a cleanup handler; see Registry.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
}

// Start begins handling SIGINT and SIGTERM. Calling it again is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.stop = make(chan struct{})
	m.stopped = make(chan struct{})
	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go m.loop(m.stop, m.stopped)
}

func (m *Manager) loop(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case sig := <-m.sigChan:
			m.handle(sig)
		case <-stop:
			return
		}
	}
}

func (m *Manager) handle(sig os.Signal) {
	if m.signals.Add(sig) == 1 {
		m.logger.Info("signal received, stopping", zap.Stringer("signal", sig))
		m.cancel()
	}
}

// Stop stops signal handling and waits for the signal loop to return.
// Calling it before Start is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	signal.Stop(m.sigChan)
	close(m.stop)
	stopped := m.stopped
	m.mu.Unlock()

	<-stopped
}

// Run executes fn as a tracked operation with the managed context. It
// returns ErrTrackerClosed once shutdown has begun.
func (m *Manager) Run(name string, fn func(context.Context) error) error {
	if !m.tracker.Start() {
		m.logger.Debug("operation rejected during shutdown", zap.String("operation", name))
		return ErrTrackerClosed
	}
	defer m.tracker.Done()
	if err := m.ctx.Err(); err != nil {
		return err
	}
	return fn(m.ctx)
}

// Shutdown cancels the context, waits for running operations and runs the
// cleanup handlers. It runs once; later calls return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	m.mu.Unlock()

	start := time.Now()
	m.cancel()
	m.tracker.Close()
	if err := m.tracker.Wait(m.timeout); err != nil {
		m.logger.Warn("operations still running at shutdown", zap.Int64("active", m.tracker.ActiveCount()))
	}

	remaining := m.timeout - time.Since(start)
	if remaining < time.Second {
		remaining = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), remaining)
	defer cancel()

	errs := m.registry.Run(ctx)
	for _, err := range errs {
		m.logger.Error("cleanup failed", zap.Error(err))
	}
	return errors.Join(errs...)
}

// Signal returns the first signal received, or nil.
func (m *Manager) Signal() os.Signal {
	return m.signals.First()
}

// ExitCode maps the outcome of the command to a process exit code: 130 or
// 143 when a signal interrupted it, 1 for any other error, 0 otherwise.
func (m *Manager) ExitCode(err error) int {
	if sig := m.Signal(); sig != nil {
		return core.ExitCodeForSignal(sig)
	}
	if err != nil {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// IsShuttingDown reports whether Shutdown was called.
func (m *Manager) IsShuttingDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}

// RegisteredHandlers returns handler names in execution order.
func (m *Manager) RegisteredHandlers() []string {
	return m.registry.Names()
}
