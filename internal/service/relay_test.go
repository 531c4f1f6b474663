package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/flxlfx/websocket-tutorials/internal/port/broadcast"
)

var _ broadcast.Broadcaster = (*Relay)(nil)

func TestBroadcastTextSelfOtherFraming(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	origin, other := &mockConn{}, &mockConn{}
	if err := reg.Register("origin", origin); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("other", other); err != nil {
		t.Fatal(err)
	}

	relay.BroadcastText(context.Background(), "origin", "hello")

	originGot := origin.sent()
	otherGot := other.sent()
	if len(originGot) != 1 || len(otherGot) != 1 {
		t.Fatalf("expected exactly one payload each, got %d and %d", len(originGot), len(otherGot))
	}
	if originGot[0] != "🟢 Você (origin) disse: hello" {
		t.Errorf("self payload = %q", originGot[0])
	}
	if otherGot[0] != "🔵 origin disse: hello" {
		t.Errorf("other payload = %q", otherGot[0])
	}
	if originGot[0] == otherGot[0] {
		t.Error("self and other payloads must differ")
	}
	// Same text content on both sides.
	if !strings.HasSuffix(originGot[0], "hello") || !strings.HasSuffix(otherGot[0], "hello") {
		t.Error("text content must be identical across recipients")
	}
}

func TestBroadcastValorReachesEveryone(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	conns := []*mockConn{{}, {}, {}}
	for i, c := range conns {
		if err := reg.Register(string(rune('a'+i)), c); err != nil {
			t.Fatal(err)
		}
	}

	relay.BroadcastValor(context.Background(), 7)

	for i, c := range conns {
		got := c.sent()
		if len(got) != 1 {
			t.Fatalf("conn %d received %d payloads, want 1", i, len(got))
		}
		if got[0] != `{"type":"valor","valor":7}` {
			t.Errorf("conn %d payload = %q", i, got[0])
		}
	}
}

func TestBroadcastSendFailureIsolated(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	broken := &mockConn{sendErr: errors.New("connection reset")}
	healthy := &mockConn{}
	if err := reg.Register("broken", broken); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("healthy", healthy); err != nil {
		t.Fatal(err)
	}

	relay.BroadcastText(context.Background(), "broken", "still going")

	if got := healthy.sent(); len(got) != 1 {
		t.Fatalf("healthy conn received %d payloads, want 1", len(got))
	}
	// A failing send must not evict the connection; close detection is
	// the transport's job.
	if reg.Len() != 2 {
		t.Errorf("registry size changed to %d after send failure", reg.Len())
	}
}

func TestNotifyAllUnframed(t *testing.T) {
	reg := NewRegistry()
	relay := NewRelay(reg)

	a, b := &mockConn{}, &mockConn{}
	if err := reg.Register("a", a); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("b", b); err != nil {
		t.Fatal(err)
	}

	relay.NotifyAll(context.Background(), "🔔 deploy finished")

	for _, c := range []*mockConn{a, b} {
		got := c.sent()
		if len(got) != 1 || got[0] != "🔔 deploy finished" {
			t.Errorf("payloads = %v", got)
		}
	}
}

func TestBroadcastEmptyRegistry(t *testing.T) {
	relay := NewRelay(NewRegistry())

	// Must not panic with nobody connected.
	relay.BroadcastText(context.Background(), "ghost", "anyone?")
	relay.BroadcastValor(context.Background(), 1)
	relay.NotifyAll(context.Background(), "quiet")
}
