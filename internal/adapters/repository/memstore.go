package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/pkg/metrics"
)

// MemoryStore keeps sessions in a map and evicts idle ones from a
// background sweep loop.
type MemoryStore struct {
	mu            sync.RWMutex
	sessions      map[string]*Session
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	closed        bool

	wg       sync.WaitGroup
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a session store and starts its sweep loop,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]*Session),
		ttl:           30 * time.Minute,
		sweepInterval: time.Minute,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startSweeper(ctx)
	metrics.UpdateActiveSessions(0)
	return s
}

func (s *MemoryStore) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Close stops the sweep loop. Later calls fail with ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Create implements Store.Create.
func (s *MemoryStore) Create(ctx context.Context, sel filter.Selection) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Session{}, ErrStoreClosed
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Selection:  sel,
		CreatedAt:  now,
		LastAccess: now,
	}
	s.sessions[sess.ID] = sess
	metrics.UpdateActiveSessions(len(s.sessions))
	return *sess, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return Session{}, err
	}
	sess.LastAccess = s.now()
	return *sess, nil
}

// Update implements Store.Update.
func (s *MemoryStore) Update(ctx context.Context, id string, sel filter.Selection) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return Session{}, err
	}
	sess.Selection = sel
	sess.LastAccess = s.now()
	return *sess, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.RecordSessionsExpired(removed)
		metrics.UpdateActiveSessions(len(s.sessions))
	}
	return removed
}

// live returns a session that exists and has not outlived its TTL.
// Callers hold s.mu.
func (s *MemoryStore) live(id string) (*Session, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	sess, ok := s.sessions[id]
	if !ok || sess.LastAccess.Before(s.now().Add(-s.ttl)) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
