package widget

import "sync"

// SessionRegistry hands out one render session per dashboard. History state
// lives only here; dropping a dashboard's session discards its chart buffers.
type SessionRegistry struct {
	resolver *Resolver
	fetcher  *Fetcher

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry returns an empty registry building sessions from the
// given resolver and fetcher.
func NewSessionRegistry(resolver *Resolver, fetcher *Fetcher) *SessionRegistry {
	return &SessionRegistry{
		resolver: resolver,
		fetcher:  fetcher,
		sessions: make(map[string]*Session),
	}
}

// Session returns the dashboard's session, creating it on first use.
func (r *SessionRegistry) Session(dashboardID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[dashboardID]
	if !ok {
		s = NewSession(r.resolver, r.fetcher)
		r.sessions[dashboardID] = s
	}
	return s
}

// Drop removes the dashboard's session and its accumulated history.
func (r *SessionRegistry) Drop(dashboardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, dashboardID)
}
