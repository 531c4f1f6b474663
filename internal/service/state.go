package service

import "sync"

// SharedValue holds the single integer shared by every connected client.
// It starts at zero and is replaced wholesale; concurrent replacements
// are last-write-wins in lock order.
type SharedValue struct {
	mu sync.RWMutex
	v  int64
}

// NewSharedValue creates a SharedValue initialized to zero.
func NewSharedValue() *SharedValue {
	return &SharedValue{}
}

// Read returns the current value.
func (s *SharedValue) Read() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Replace overwrites the value and returns what was stored. A replace
// with the current value is still a replacement and still triggers a
// broadcast at the call site.
func (s *SharedValue) Replace(v int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
	return s.v
}
