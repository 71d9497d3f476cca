package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKiB   uint32 = 8 * 1024
	minIterations  uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

var (
	// ErrMalformedHash is returned when a stored string is not a valid
	// argon2id PHC encoding.
	ErrMalformedHash = errors.New("password: malformed PHC hash")
	// ErrInvalidParams is returned by NewHasher for parameters below the
	// accepted floor.
	ErrInvalidParams = errors.New("password: invalid argon2 parameters")
)

// Params are the Argon2id cost parameters written into every new hash.
// Memory is in KiB.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns m=15000 KiB, t=2, p=1 with a 16 byte salt and a
// 32 byte key.
func DefaultParams() Params {
	return Params{
		Memory:      15000,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher produces and checks Argon2id PHC strings of the form
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt b64>$<key b64>
//
// A Hasher is immutable and safe for concurrent use.
type Hasher struct {
	params Params
}

// NewHasher validates p and returns a Hasher.
func NewHasher(p Params) (*Hasher, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: p}, nil
}

// Params returns the parameters used for new hashes.
func (h *Hasher) Params() Params {
	return h.params
}

// Hash derives a key from plaintext with a fresh random salt. The bytes of
// plaintext are used as given, without Unicode normalization.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters embedded in encoded and
// compares in constant time. A mismatch is (false, nil); only a malformed
// encoding yields an error.
func (h *Hasher) Verify(plaintext, encoded string) (bool, error) {
	phc, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		phc.salt,
		phc.params.Iterations,
		phc.params.Memory,
		phc.params.Parallelism,
		phc.params.KeyLength,
	)
	return subtle.ConstantTimeCompare(key, phc.key) == 1, nil
}

type phcHash struct {
	params Params
	salt   []byte
	key    []byte
}

func decodePHC(encoded string) (phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phcHash{}, fmt.Errorf("%w: expected 5 fields", ErrMalformedHash)
	}
	if parts[1] != algorithmID {
		return phcHash{}, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, parts[1])
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return phcHash{}, fmt.Errorf("%w: missing version", ErrMalformedHash)
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return phcHash{}, fmt.Errorf("%w: version %q", ErrMalformedHash, version)
	}

	params, err := decodeParams(parts[3])
	if err != nil {
		return phcHash{}, err
	}

	salt, err := decodeB64(parts[4])
	if err != nil || len(salt) < int(minSaltLength) {
		return phcHash{}, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	key, err := decodeB64(parts[5])
	if err != nil || len(key) == 0 {
		return phcHash{}, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	return phcHash{params: params, salt: salt, key: key}, nil
}

// decodeB64 accepts both padded and unpadded standard base64. Hashes written
// by other Argon2 libraries commonly omit padding.
func decodeB64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func decodeParams(field string) (Params, error) {
	var (
		p                    Params
		seenM, seenT, seenP bool
	)
	for _, pair := range strings.Split(field, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Params{}, fmt.Errorf("%w: parameter %q", ErrMalformedHash, pair)
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minMemoryKiB {
				return Params{}, fmt.Errorf("%w: memory", ErrMalformedHash)
			}
			p.Memory, seenM = uint32(v), true
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minIterations {
				return Params{}, fmt.Errorf("%w: iterations", ErrMalformedHash)
			}
			p.Iterations, seenT = uint32(v), true
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || uint8(v) < minParallelism {
				return Params{}, fmt.Errorf("%w: parallelism", ErrMalformedHash)
			}
			p.Parallelism, seenP = uint8(v), true
		default:
			return Params{}, fmt.Errorf("%w: unknown parameter %q", ErrMalformedHash, name)
		}
	}
	if !seenM || !seenT || !seenP {
		return Params{}, fmt.Errorf("%w: missing parameters", ErrMalformedHash)
	}
	return p, nil
}

func (p Params) validate() error {
	switch {
	case p.Memory < minMemoryKiB:
		return fmt.Errorf("%w: memory must be >= %d KiB", ErrInvalidParams, minMemoryKiB)
	case p.Iterations < minIterations:
		return fmt.Errorf("%w: iterations must be >= %d", ErrInvalidParams, minIterations)
	case p.Parallelism < minParallelism:
		return fmt.Errorf("%w: parallelism must be >= %d", ErrInvalidParams, minParallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("%w: salt length must be >= %d", ErrInvalidParams, minSaltLength)
	case p.KeyLength < minKeyLength:
		return fmt.Errorf("%w: key length must be >= %d", ErrInvalidParams, minKeyLength)
	}
	return nil
}
