package ws

import "sync"

// Conn is the delivery half of a live client connection.
type Conn interface {
	// TrySend queues payload for delivery without blocking. It reports
	// false when the connection's buffer is full or closed.
	TrySend(payload []byte) bool
}

// Registry maps a user id to their single live connection. A user is either
// offline (no entry) or online (exactly one Conn); registering again
// silently replaces the previous entry, so the last connection wins.
//
// The registry is the only concurrently mutated in-memory structure in the
// system. Entries are removed only by Unregister, never by timeout: a dead
// connection lingers until its transport reports the disconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[uint64]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]Conn)}
}

// Register installs or overwrites the mapping for userID. It never fails.
func (r *Registry) Register(userID uint64, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
}

// Unregister removes whichever mapping still points at conn. A disconnect
// arriving after the user reconnected finds the entry superseded and leaves
// the newer connection alone.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	for uid, c := range r.conns {
		if c == conn {
			delete(r.conns, uid)
			break
		}
	}
	r.mu.Unlock()
}

// Lookup returns the user's live connection, if any. Non-blocking.
func (r *Registry) Lookup(userID uint64) (Conn, bool) {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	return conn, ok
}

// Online returns the number of registered connections.
func (r *Registry) Online() int {
	r.mu.RLock()
	n := len(r.conns)
	r.mu.RUnlock()
	return n
}
