// Package session keeps the server-side half of login sessions: a token
// maps to the principal that logged in, until logout or expiry.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Save(ctx context.Context, token string, p auth.Principal, ttl time.Duration) error
	Load(ctx context.Context, token string) (auth.Principal, error)
	Delete(ctx context.Context, token string) error
	Close() error
}

type memoryEntry struct {
	principal auth.Principal
	expiresAt time.Time
}

// MemoryStore holds sessions in process. Expired entries are dropped lazily on Load.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, token string, p auth.Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{principal: p, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, token string) (auth.Principal, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return auth.Principal{}, ErrNotFound
	}

	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return auth.Principal{}, ErrNotFound
	}
	return entry.principal, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
