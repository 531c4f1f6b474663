package service

import (
	"sync"
	"testing"
)

func TestSharedValueStartsAtZero(t *testing.T) {
	v := NewSharedValue()
	if got := v.Read(); got != 0 {
		t.Errorf("expected initial value 0, got %d", got)
	}
}

func TestSharedValueReplace(t *testing.T) {
	v := NewSharedValue()

	if got := v.Replace(42); got != 42 {
		t.Errorf("Replace returned %d, want 42", got)
	}
	if got := v.Read(); got != 42 {
		t.Errorf("Read returned %d, want 42", got)
	}

	// Replacing with the same value is still a replacement.
	if got := v.Replace(42); got != 42 {
		t.Errorf("no-op Replace returned %d, want 42", got)
	}

	if got := v.Replace(-7); got != -7 {
		t.Errorf("Replace returned %d, want -7", got)
	}
}

func TestSharedValueConcurrentReplace(t *testing.T) {
	v := NewSharedValue()

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Replace(int64(i))
		}()
	}
	wg.Wait()

	// Last write wins; any of the written values is a valid final state.
	got := v.Read()
	if got < 0 || got > 63 {
		t.Errorf("final value %d was never written", got)
	}
}
