package page

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps sessions in memory, keyed by a random id.
// Every access goes through the store's lock, which serializes the
// requests of one session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		s.now = now
	}
}

// NewSessionStore creates a SessionStore whose sessions expire after ttl
// without a request.
func NewSessionStore(ttl time.Duration, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Touch runs fn on the session with id and returns a copy of it afterwards.
// An unknown or expired id gets a fresh session with a new id, so callers
// must reissue the returned ID.
func (s *SessionStore) Touch(id string, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, now) {
		delete(s.sessions, id)
		sess = &Session{ID: s.newID(), CreatedAt: now}
		s.sessions[sess.ID] = sess
	}
	sess.LastSeen = now

	if fn != nil {
		fn(sess)
	}
	return *sess
}

// Peek returns a copy of the session with id without creating one.
func (s *SessionStore) Peek(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, s.now()) {
		return Session{}, false
	}
	return *sess, true
}

// Prune drops expired sessions and returns how many were removed.
func (s *SessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) > s.ttl
}
