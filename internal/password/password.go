package password

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mingle-social/mingle/internal/metrics"
)

// Hasher wraps bcrypt with a fixed cost factor. Hashing is intentionally
// expensive, so concurrent hash/verify calls are bounded by a semaphore
// sized independently of the HTTP worker pool — a login flood degrades into
// queueing instead of saturating every CPU.
type Hasher struct {
	cost  int
	sem   chan struct{}
	dummy string
}

// NewHasher builds a Hasher with the given bcrypt cost and concurrency
// bound. It precomputes a throwaway hash used to keep the work of rejecting
// an unknown email indistinguishable from rejecting a wrong password.
func NewHasher(cost, maxConcurrent int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	h := &Hasher{
		cost: cost,
		sem:  make(chan struct{}, maxConcurrent),
	}

	dummy, err := h.Hash("mingle-dummy-credential")
	if err != nil {
		return nil, fmt.Errorf("precompute dummy hash: %w", err)
	}
	h.dummy = dummy
	return h, nil
}

// Hash derives a salted one-way digest of raw. The salt and cost are
// embedded in the returned string.
func (h *Hasher) Hash(raw string) (string, error) {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	start := time.Now()
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

// Verify recomputes the digest using the salt embedded in stored and
// reports whether raw matches. A malformed stored hash is reported the same
// way as a mismatch.
func (h *Hasher) Verify(raw, stored string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	start := time.Now()
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(raw))
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	return err == nil
}

// Dummy returns a valid hash of a throwaway credential. Login uses it to
// burn a comparison when the email is unknown.
func (h *Hasher) Dummy() string {
	return h.dummy
}
