package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the identity handed to every component that needs the user's
// credential: populated at login, deleted at logout, read-only in between.
type Session struct {
	Token    string
	Username string
	APIToken string
}

// SessionStore keeps active sessions in memory, keyed by opaque token.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Issue creates a session for a logged-in user and returns it.
func (s *SessionStore) Issue(username, apiToken string) Session {
	session := Session{
		Token:    uuid.New().String(),
		Username: username,
		APIToken: apiToken,
	}
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return session
}

// Get resolves a session token.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	return session, ok
}

// Delete removes a session at logout.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
