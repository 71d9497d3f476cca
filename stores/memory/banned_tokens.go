package memory

import (
	"context"
	"sync"

	"github.com/MrEthical07/authservice/domain"
)

// BannedTokenStore is a revocation set with no expiry. Entries live for
// the lifetime of the process.
type BannedTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewBannedTokenStore() *BannedTokenStore {
	return &BannedTokenStore{tokens: make(map[string]struct{})}
}

func (s *BannedTokenStore) AddBannedToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *BannedTokenStore) CheckBannedToken(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	_, banned := s.tokens[token]
	s.mu.RUnlock()
	return banned, nil
}

var _ domain.BannedTokenStore = (*BannedTokenStore)(nil)
