package relay

import (
	"context"
	"sync"
)

// SessionStore holds at most one Session per user.
type SessionStore interface {
	// Put stores the session, overwriting any previous one for the same user.
	Put(ctx context.Context, session Session) error
	// Get returns the user's session and whether it exists.
	Get(ctx context.Context, userID int64) (Session, bool, error)
	// Remove deletes the user's session if present.
	Remove(ctx context.Context, userID int64) error
	// FindUserByCopy returns the user an admin-side copy was relayed for.
	// Copies of earlier messages resolve too, even after the user's session
	// was overwritten or removed.
	FindUserByCopy(ctx context.Context, messageID int) (int64, bool, error)
}

// maxTrackedCopies bounds the copy index of a MemoryStore.
const maxTrackedCopies = 4096

// MemoryStore is a SessionStore backed by maps. Sessions are lost on restart.
// It also remembers which user the most recent admin-side copies belong to,
// evicting the oldest beyond maxTrackedCopies.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[int64]Session
	copies    map[int]int64
	order     []int
	maxCopies int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[int64]Session),
		copies:    make(map[int]int64),
		maxCopies: maxTrackedCopies,
	}
}

func (s *MemoryStore) Put(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session
	s.trackCopy(session.ForwardedMessageID, session.UserID)
	s.trackCopy(session.NoteMessageID, session.UserID)
	return nil
}

func (s *MemoryStore) trackCopy(messageID int, userID int64) {
	if messageID == 0 {
		return
	}
	if _, ok := s.copies[messageID]; ok {
		return
	}
	s.copies[messageID] = userID
	s.order = append(s.order, messageID)
	for len(s.order) > s.maxCopies {
		delete(s.copies, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()
	return session, ok, nil
}

func (s *MemoryStore) Remove(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) FindUserByCopy(_ context.Context, messageID int) (int64, bool, error) {
	if messageID == 0 {
		return 0, false, nil
	}

	s.mu.RLock()
	userID, ok := s.copies[messageID]
	s.mu.RUnlock()
	return userID, ok, nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
