package shutdown

import (
	"os"
	"sync"
)

// SignalCounter records received signals. The first cancels the running
// command; reaching forceAfter calls onForce with the latest signal.
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	first      os.Signal
	forceAfter int
	onForce    func(os.Signal)
}

// NewSignalCounter returns a counter that calls onForce (if non-nil) once
// forceAfter signals have arrived.
func NewSignalCounter(forceAfter int, onForce func(os.Signal)) *SignalCounter {
	return &SignalCounter{forceAfter: forceAfter, onForce: onForce}
}

// Add records sig and returns the new count.
func (s *SignalCounter) Add(sig os.Signal) int {
	s.mu.Lock()
	s.count++
	if s.first == nil {
		s.first = sig
	}
	count, onForce := s.count, s.onForce
	s.mu.Unlock()

	if count >= s.forceAfter && onForce != nil {
		onForce(sig)
	}
	return count
}

// Count returns the number of signals received.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// First returns the first signal received, or nil.
func (s *SignalCounter) First() os.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first
}
