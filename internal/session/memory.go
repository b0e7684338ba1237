package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/linchiawei/twstore-linebot-go/internal/errors"
)

// MemoryStore is an in-process session store used when no Redis
// address is configured. Expired entries are dropped lazily on read
// and swept in the background.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get fetches a session, or ErrSessionNotFound if none is live.
func (s *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, apperrors.ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

// Set stores a session and refreshes its TTL.
func (s *MemoryStore) Set(_ context.Context, userID string, session *Session) error {
	s.mu.Lock()
	s.sessions[userID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

// Ready always succeeds for the in-memory store.
func (s *MemoryStore) Ready(_ context.Context) error {
	return nil
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for userID, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, userID)
				}
			}
			s.mu.Unlock()
		}
	}
}
