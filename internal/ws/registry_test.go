package ws

import "testing"

// stubConn records payloads handed to it and can simulate a full buffer.
type stubConn struct {
	payloads [][]byte
	full     bool
}

func (c *stubConn) TrySend(payload []byte) bool {
	if c.full {
		return false
	}
	c.payloads = append(c.payloads, payload)
	return true
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	c := &stubConn{}

	if _, ok := r.Lookup(1); ok {
		t.Fatal("lookup on empty registry reported online")
	}
	r.Register(1, c)
	got, ok := r.Lookup(1)
	if !ok || got != Conn(c) {
		t.Fatalf("lookup returned %v %v", got, ok)
	}
	if r.Online() != 1 {
		t.Fatalf("online=%d, want 1", r.Online())
	}
}

func TestLastConnectionWins(t *testing.T) {
	r := NewRegistry()
	first := &stubConn{}
	second := &stubConn{}

	r.Register(1, first)
	r.Register(1, second)
	if got, _ := r.Lookup(1); got != Conn(second) {
		t.Fatal("replacement connection not in effect")
	}
	if r.Online() != 1 {
		t.Fatalf("online=%d, want 1", r.Online())
	}

	// the late disconnect of the superseded connection must not evict
	// the live one
	r.Unregister(first)
	if got, ok := r.Lookup(1); !ok || got != Conn(second) {
		t.Fatal("stale unregister evicted the live connection")
	}

	r.Unregister(second)
	if _, ok := r.Lookup(1); ok {
		t.Fatal("user still online after unregister")
	}
}

func TestUnregisterUnknownConn(t *testing.T) {
	r := NewRegistry()
	r.Register(1, &stubConn{})
	r.Unregister(&stubConn{}) // never registered
	if r.Online() != 1 {
		t.Fatalf("online=%d, want 1", r.Online())
	}
}
