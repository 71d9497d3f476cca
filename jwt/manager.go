package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC key NewManager accepts.
const MinSecretLength = 32

var (
	// ErrTokenMalformed covers bad encoding, a wrong algorithm, a bad
	// signature and missing required claims.
	ErrTokenMalformed = errors.New("jwt: malformed token")
	// ErrTokenExpired is returned once exp is in the past.
	ErrTokenExpired = errors.New("jwt: token expired")
	// ErrInvalidConfig is returned by NewManager.
	ErrInvalidConfig = errors.New("jwt: invalid configuration")
)

// Config configures a Manager.
type Config struct {
	// Secret is the HS256 signing key.
	Secret []byte
	// TTL is the lifetime of issued tokens.
	TTL time.Duration
	// Leeway tolerates clock skew when checking exp and iat.
	Leeway time.Duration
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Claims is the payload of a session token. Subject carries the email the
// token was issued to.
type Claims struct {
	jwt.RegisteredClaims
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// Token is a signed session token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Manager issues and parses HS256 session tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewManager validates cfg and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrInvalidConfig, MinSecretLength)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, fmt.Errorf("%w: leeway must be within [0, 2m]", ErrInvalidConfig)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}

	return &Manager{
		secret: secret,
		ttl:    cfg.TTL,
		leeway: cfg.Leeway,
		now:    now,
		parser: jwt.NewParser(options...),
	}, nil
}

// TTL returns the lifetime given to issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for email valid from now until now+TTL.
func (m *Manager) Issue(email string) (Token, error) {
	if email == "" {
		return Token{}, errors.New("jwt: empty subject")
	}

	// NumericDate has second precision; truncating keeps ExpiresAt equal to
	// what a parser reads back.
	issuedAt := m.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
// Revocation is not checked here.
func (m *Manager) Parse(token string) (*Claims, error) {
	parsed, err := m.parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
