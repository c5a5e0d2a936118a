package chat

import "sync"

// Registry is the shared callsign → session table.  It is the only
// channel through which one session discovers another: broadcast
// fan-out, /who, and /warn all go through it.
//
// A callsign appears at most once.  Entries are added only after a
// successful name capture and removed when the owning connection
// closes, so iteration never observes a session that has no callsign.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register claims callsign for s.  It returns false if the callsign is
// already taken, leaving the registry unchanged.
func (r *Registry) Register(callsign string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.sessions[callsign]; taken {
		return false
	}
	r.sessions[callsign] = s
	return true
}

// Unregister removes s from the registry.  The entry is deleted only
// if it still maps to s, so a stale unregister can never evict a
// newer session that reclaimed the callsign.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	callsign := s.Callsign()
	if cur, ok := r.sessions[callsign]; ok && cur == s {
		delete(r.sessions, callsign)
	}
}

// Lookup returns the session owning callsign, if any.
func (r *Registry) Lookup(callsign string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[callsign]
	return s, ok
}

// Snapshot returns a consistent copy of the current sessions for
// iteration.  Broadcast fan-out walks the copy, so a join or leave
// racing with delivery can never corrupt the walk.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
