package password

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func testParams() Params {
	return Params{
		Memory:      minMemoryKiB,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(testParams())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", encoded)
	}

	ok, err := h.Verify("correct horse battery", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	ok, err := h.Verify("correct horse batterY", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := newTestHasher(t)

	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyUsesEmbeddedParams(t *testing.T) {
	old := newTestHasher(t)
	encoded, err := old.Hash("rotated-params")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	current, err := NewHasher(DefaultParams())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	ok, err := current.Verify("rotated-params", encoded)
	if err != nil || !ok {
		t.Fatalf("expected old hash to verify under new params, ok=%v err=%v", ok, err)
	}
}

func TestVerifyAcceptsPaddedEncoding(t *testing.T) {
	h := newTestHasher(t)
	encoded, _ := h.Hash("padded-variant")

	parts := strings.Split(encoded, "$")
	parts[4] += strings.Repeat("=", (4-len(parts[4])%4)%4)
	parts[5] += strings.Repeat("=", (4-len(parts[5])%4)%4)
	padded := strings.Join(parts, "$")

	ok, err := h.Verify("padded-variant", padded)
	if err != nil || !ok {
		t.Fatalf("expected padded hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := newTestHasher(t)
	valid, _ := h.Hash("some-password")
	parts := strings.Split(valid, "$")

	cases := map[string]string{
		"empty":          "",
		"bcrypt":         "$2a$10$abcdefghijklmnopqrstuu",
		"wrong version":  "$argon2id$v=16$" + strings.Join(parts[3:], "$"),
		"low memory":     "$argon2id$v=19$m=1024,t=1,p=1$" + parts[4] + "$" + parts[5],
		"missing param":  "$argon2id$v=19$m=8192,t=1$" + parts[4] + "$" + parts[5],
		"unknown param":  "$argon2id$v=19$m=8192,t=1,x=1$" + parts[4] + "$" + parts[5],
		"short salt":     "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$" + parts[5],
		"bad key base64": "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$!!!",
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Verify("some-password", encoded); !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestNewHasherRejectsWeakParams(t *testing.T) {
	weak := []Params{
		{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}
	for i, p := range weak {
		if _, err := NewHasher(p); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("case %d: expected ErrInvalidParams, got %v", i, err)
		}
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 15000 || p.Iterations != 2 || p.Parallelism != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if _, err := NewHasher(p); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestPoolConcurrentVerify(t *testing.T) {
	h := newTestHasher(t)
	pool := NewPool(h, 2)
	ctx := context.Background()

	encoded, err := pool.Hash(ctx, "pooled-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := pool.Verify(ctx, "pooled-password", encoded)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- errors.New("unexpected mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestPoolHonorsContextWhileWaiting(t *testing.T) {
	h := newTestHasher(t)
	pool := NewPool(h, 1)

	// Hold the only slot.
	if err := pool.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer pool.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Hash(ctx, "blocked"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
