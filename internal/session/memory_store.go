package session

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 30 * time.Minute

	// CleanupInterval is how often expired sessions are swept.
	CleanupInterval = 30 * time.Second
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. Entries expire after the
// TTL; a background loop sweeps them until Close.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStore(ttl, CleanupInterval, time.Now)
}

func newMemoryStore(ttl, cleanupInterval time.Duration, now func() time.Time) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		sessions:    make(map[string]*memoryEntry),
		ttl:         ttl,
		now:         now,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	return copyState(&entry.state), nil
}

// Set stores a copy of state and restarts its TTL.
func (s *MemoryStore) Set(_ context.Context, sessionID string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &memoryEntry{
		state:     *copyState(state),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports how many sessions are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background cleanup and waits for it to finish.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}

func copyState(st *State) *State {
	if st == nil {
		return &State{}
	}
	out := &State{Lines: append([]domain.CartLine(nil), st.Lines...)}
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	return out
}
