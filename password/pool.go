package password

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many Argon2 computations run at once. Each computation
// allocates Params.Memory KiB, so an unbounded burst of logins would pin
// that much memory per request and starve the scheduler.
//
// Callers waiting for a slot give up when their context is done.
type Pool struct {
	hasher *Hasher
	sem    *semaphore.Weighted
}

// NewPool wraps h. size <= 0 selects runtime.NumCPU().
func NewPool(h *Hasher, size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{hasher: h, sem: semaphore.NewWeighted(int64(size))}
}

// Hash runs Hasher.Hash once a slot is free.
func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return p.hasher.Hash(plaintext)
}

// Verify runs Hasher.Verify once a slot is free.
func (p *Pool) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)
	return p.hasher.Verify(plaintext, encoded)
}
