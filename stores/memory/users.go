package memory

import (
	"context"
	"sync"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/stores"
)

// UserStore keeps accounts in a map guarded by one RWMutex.
type UserStore struct {
	hasher stores.Hasher
	decoy  stores.Decoy

	mu    sync.RWMutex
	users map[domain.Email]domain.User
}

// NewUserStore returns an empty store that hashes passwords with h.
func NewUserStore(h stores.Hasher) *UserStore {
	return &UserStore{
		hasher: h,
		users:  make(map[domain.Email]domain.User),
	}
}

func (s *UserStore) AddUser(ctx context.Context, user domain.User) error {
	// Skip the hash for a taken email. The write lock below is the
	// authoritative check.
	s.mu.RLock()
	_, exists := s.users[user.Email]
	s.mu.RUnlock()
	if exists {
		return domain.ErrUserAlreadyExists
	}

	sealed, err := stores.SealUser(ctx, s.hasher, user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return domain.ErrUserAlreadyExists
	}
	s.users[user.Email] = sealed
	return nil
}

func (s *UserStore) GetUser(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		s.decoy.Spend(ctx, s.hasher, password)
		return err
	}
	return stores.CheckPassword(ctx, s.hasher, u.PasswordHash, password)
}

var _ domain.UserStore = (*UserStore)(nil)
