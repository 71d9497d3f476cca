package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/authservice/domain"
)

type pendingChallenge struct {
	attemptID domain.LoginAttemptID
	code      domain.TwoFACode
	expiresAt time.Time
}

// TwoFACodeStore keeps one pending challenge per email. Entries older than
// the configured TTL read as absent and are dropped on access.
type TwoFACodeStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	pending map[domain.Email]pendingChallenge
}

// NewTwoFACodeStore returns a store whose entries expire after ttl.
// ttl <= 0 disables expiry.
func NewTwoFACodeStore(ttl time.Duration) *TwoFACodeStore {
	return &TwoFACodeStore{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[domain.Email]pendingChallenge),
	}
}

func (s *TwoFACodeStore) AddCode(_ context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) error {
	entry := pendingChallenge{attemptID: attemptID, code: code}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.pending[email] = entry
	s.mu.Unlock()
	return nil
}

func (s *TwoFACodeStore) RemoveCode(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.pending[email]
	if !ok {
		return domain.ErrLoginAttemptNotFound
	}
	delete(s.pending, email)
	if s.expired(entry) {
		return domain.ErrLoginAttemptNotFound
	}
	return nil
}

func (s *TwoFACodeStore) GetCode(_ context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	s.mu.RLock()
	entry, ok := s.pending[email]
	s.mu.RUnlock()
	if !ok {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, domain.ErrLoginAttemptNotFound
	}
	if s.expired(entry) {
		s.mu.Lock()
		// A concurrent AddCode may have replaced the entry.
		if current, ok := s.pending[email]; ok && current == entry {
			delete(s.pending, email)
		}
		s.mu.Unlock()
		return domain.LoginAttemptID{}, domain.TwoFACode{}, domain.ErrLoginAttemptNotFound
	}
	return entry.attemptID, entry.code, nil
}

func (s *TwoFACodeStore) expired(entry pendingChallenge) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}

var _ domain.TwoFACodeStore = (*TwoFACodeStore)(nil)
