package net

import "time"

// SessionStore holds the live sessions. Game loop only.
type SessionStore struct {
	sessions map[uint64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint64]*Session)}
}

func (st *SessionStore) Add(s *Session) { st.sessions[s.ID] = s }

func (st *SessionStore) Remove(id uint64) { delete(st.sessions, id) }

func (st *SessionStore) Get(id uint64) *Session { return st.sessions[id] }

func (st *SessionStore) Len() int { return len(st.sessions) }

// Raw exposes the map for draining loops that may remove entries.
func (st *SessionStore) Raw() map[uint64]*Session { return st.sessions }

func (st *SessionStore) ForEach(fn func(*Session)) {
	for _, s := range st.sessions {
		fn(s)
	}
}

// DrainAndClose waits up to timeout for every writer to empty its queue,
// then closes all sessions.
func (st *SessionStore) DrainAndClose(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) && !st.drained() {
		time.Sleep(5 * time.Millisecond)
	}
	for _, s := range st.sessions {
		s.Close()
	}
}

func (st *SessionStore) drained() bool {
	for _, s := range st.sessions {
		if !s.Drained() {
			return false
		}
	}
	return true
}
