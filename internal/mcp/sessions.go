package mcp

import "sync"

// sessionBuffer is the per-session outbound event buffer. A slow SSE reader
// drops messages rather than blocking the message-post handler.
const sessionBuffer = 16

// SSESession is one open legacy subscribe connection. Events pushed to it are
// written to the connection as SSE message events.
type SSESession struct {
	ID     string
	events chan []byte
}

// NewSSESession creates a session with the given identifier.
func NewSSESession(id string) *SSESession {
	return &SSESession{
		ID:     id,
		events: make(chan []byte, sessionBuffer),
	}
}

// Send queues data for delivery over the SSE stream. Returns false if the
// session's buffer is full.
func (s *SSESession) Send(data []byte) bool {
	select {
	case s.events <- data:
		return true
	default:
		return false
	}
}

// Events returns the outbound event channel, consumed by the SSE writer.
func (s *SSESession) Events() <-chan []byte {
	return s.events
}

// SessionRegistry tracks live legacy SSE connections by session identifier.
// Every entry corresponds to exactly one currently-open connection; the SSE
// handler removes the entry when its connection closes.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*SSESession
}

// NewSessionRegistry creates an empty SessionRegistry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*SSESession)}
}

// Register adds a session. Must be called before the connection starts
// accepting posted messages.
func (r *SessionRegistry) Register(s *SSESession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Lookup returns the session for the given identifier, if open.
func (r *SessionRegistry) Lookup(id string) (*SSESession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Unregister removes a session. Safe to call for an unknown identifier.
func (r *SessionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of open sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
