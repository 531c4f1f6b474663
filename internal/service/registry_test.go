package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/flxlfx/websocket-tutorials/internal/domain"
)

func TestRegistryRegisterAndSnapshot(t *testing.T) {
	reg := NewRegistry()

	a, b := &mockConn{}, &mockConn{}
	if err := reg.Register("a", a); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := reg.Register("b", b); err != nil {
		t.Fatalf("register b: %v", err)
	}

	if got := reg.Len(); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}

	seen := map[string]bool{}
	for _, e := range reg.Snapshot() {
		seen[e.ID] = true
		if e.Conn == nil {
			t.Errorf("entry %s has nil conn", e.ID)
		}
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("snapshot missing entries: %v", seen)
	}
}

func TestRegistryDuplicateIdentity(t *testing.T) {
	reg := NewRegistry()

	first := &mockConn{}
	if err := reg.Register("dup", first); err != nil {
		t.Fatal(err)
	}

	err := reg.Register("dup", &mockConn{})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	// The original entry must survive the rejected registration.
	snap := reg.Snapshot()
	if len(snap) != 1 || snap[0].Conn != first {
		t.Errorf("existing entry was replaced")
	}
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("x", &mockConn{}); err != nil {
		t.Fatal(err)
	}
	reg.Unregister("x")
	reg.Unregister("x") // no-op
	reg.Unregister("never-existed")

	if got := reg.Len(); got != 0 {
		t.Errorf("expected empty registry, got %d entries", got)
	}
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("a", &mockConn{}); err != nil {
		t.Fatal(err)
	}

	snap := reg.Snapshot()
	reg.Unregister("a")

	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later unregister: %v", snap)
	}
}

// Membership after any interleaving of register/unregister equals the
// set registered minus the set unregistered.
func TestRegistryConcurrentMembership(t *testing.T) {
	reg := NewRegistry()

	const perWorker = 50
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				id := fmt.Sprintf("w%d-c%d", w, i)
				if err := reg.Register(id, &mockConn{}); err != nil {
					t.Errorf("register %s: %v", id, err)
				}
				// Odd entries leave again; snapshots interleave with both.
				_ = reg.Snapshot()
				if i%2 == 1 {
					reg.Unregister(id)
				}
			}
		}()
	}
	wg.Wait()

	want := 8 * perWorker / 2
	if got := reg.Len(); got != want {
		t.Errorf("expected %d remaining entries, got %d", want, got)
	}
	for _, e := range reg.Snapshot() {
		var w, i int
		if _, err := fmt.Sscanf(e.ID, "w%d-c%d", &w, &i); err != nil {
			t.Fatalf("unexpected id %q", e.ID)
		}
		if i%2 == 1 {
			t.Errorf("entry %s should have been unregistered", e.ID)
		}
	}
}
