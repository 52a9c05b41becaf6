package search

import (
	"context"
	"sync"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

// SessionStore keeps the ranked result list of each search so later
// requests can page through it.
//
// Next must be atomic: two concurrent calls for the same key receive
// disjoint pages.
type SessionStore interface {
	// Put replaces the session stored under key.
	Put(ctx context.Context, key string, candidates []model.Candidate, offset int) error

	// Next returns up to n candidates from the current offset and advances
	// the offset, clamped to the list length. found is false when no
	// session exists for key.
	Next(ctx context.Context, key string, n int) (page []model.Candidate, found bool, err error)
}

type session struct {
	candidates []model.Candidate
	offset     int
}

// MemoryStore is an in-process SessionStore. Sessions live until the
// process exits.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewMemoryStore returns an empty in-process SessionStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session)}
}

func (s *MemoryStore) Put(_ context.Context, key string, candidates []model.Candidate, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = &session{
		candidates: candidates,
		offset:     min(max(offset, 0), len(candidates)),
	}
	return nil
}

func (s *MemoryStore) Next(_ context.Context, key string, n int) ([]model.Candidate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, false, nil
	}

	end := min(sess.offset+n, len(sess.candidates))
	page := make([]model.Candidate, end-sess.offset)
	copy(page, sess.candidates[sess.offset:end])
	sess.offset = end

	return page, true, nil
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
