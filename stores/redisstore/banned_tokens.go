package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/redis/go-redis/v9"
)

const bannedTokenPrefix = "banned_token:"

// BannedTokenStore records revoked tokens until ttl elapses. ttl should be
// at least the token lifetime; after that the token fails expiry checks on
// its own.
type BannedTokenStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewBannedTokenStore(client redis.UniversalClient, ttl time.Duration) *BannedTokenStore {
	return &BannedTokenStore{redis: client, ttl: ttl}
}

func (s *BannedTokenStore) AddBannedToken(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, bannedTokenPrefix+token, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *BannedTokenStore) CheckBannedToken(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, bannedTokenPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

var _ domain.BannedTokenStore = (*BannedTokenStore)(nil)
