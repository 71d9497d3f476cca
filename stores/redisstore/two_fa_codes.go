package redisstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/redis/go-redis/v9"
)

const (
	twoFACodePrefix        = "two_fa_code:"
	challengeRecordVersion = 1
)

var errCorruptChallenge = errors.New("corrupt 2fa challenge record")

// TwoFACodeStore keeps the pending challenge for each email under a single
// key. AddCode overwrites; last write wins.
type TwoFACodeStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewTwoFACodeStore(client redis.UniversalClient, ttl time.Duration) *TwoFACodeStore {
	return &TwoFACodeStore{redis: client, ttl: ttl}
}

func (s *TwoFACodeStore) key(email domain.Email) string {
	return twoFACodePrefix + email.Expose()
}

func (s *TwoFACodeStore) AddCode(ctx context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) error {
	encoded, err := encodeChallenge(attemptID.Expose(), code.Expose())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := s.redis.Set(ctx, s.key(email), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *TwoFACodeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	n, err := s.redis.Del(ctx, s.key(email)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return domain.ErrLoginAttemptNotFound
	}
	return nil
}

func (s *TwoFACodeStore) GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	data, err := s.redis.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LoginAttemptID{}, domain.TwoFACode{}, domain.ErrLoginAttemptNotFound
		}
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	rawID, rawCode, err := decodeChallenge(data)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	attemptID, err := domain.ParseLoginAttemptID(rawID)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	code, err := domain.ParseTwoFACode(rawCode)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return attemptID, code, nil
}

// Record layout (big endian):
//
//	u8  version
//	u16 len(attempt id) | attempt id
//	u16 len(code)       | code
func encodeChallenge(attemptID, code string) ([]byte, error) {
	if len(attemptID) > 0xffff || len(code) > 0xffff {
		return nil, errors.New("2fa challenge field too long")
	}
	var buf bytes.Buffer
	buf.WriteByte(challengeRecordVersion)
	for _, field := range []string{attemptID, code} {
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}
	return buf.Bytes(), nil
}

func decodeChallenge(data []byte) (attemptID, code string, err error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil {
		return "", "", errCorruptChallenge
	}
	if version != challengeRecordVersion {
		return "", "", fmt.Errorf("%w: version %d", errCorruptChallenge, version)
	}

	fields := make([]string, 2)
	for i := range fields {
		var n uint16
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return "", "", errCorruptChallenge
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return "", "", errCorruptChallenge
		}
		fields[i] = string(b)
	}
	if r.Len() != 0 {
		return "", "", fmt.Errorf("%w: trailing bytes", errCorruptChallenge)
	}
	return fields[0], fields[1], nil
}

var _ domain.TwoFACodeStore = (*TwoFACodeStore)(nil)
