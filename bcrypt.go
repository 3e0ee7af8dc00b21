package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultHashCost is the bcrypt work factor used for stored digests
const DefaultHashCost = 10

// MaxBcryptInput is the longest input bcrypt accepts. Longer passwords
// are reduced to a sha256 digest before hashing.
const MaxBcryptInput = 72

// ErrMismatchedHashAndPassword is returned by ComparePasswordAndHash
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match the given password")

// Hasher hashes passwords with bcrypt. Calls are CPU bound so the
// number of concurrent hash/verify operations is capped by a weighted
// semaphore; waiting callers give up when their context is done.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

type HasherOption func(*Hasher)

// WithCost overrides the bcrypt cost
func WithCost(cost int) HasherOption {
	return func(h *Hasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// WithConcurrency caps how many digests are computed at once
func WithConcurrency(n int) HasherOption {
	return func(h *Hasher) {
		if n > 0 {
			h.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{
		cost: DefaultHashCost,
		sem:  semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cost returns the configured work factor
func (h *Hasher) Cost() int {
	return h.cost
}

type hashResult struct {
	digest []byte
	err    error
}

// Hash returns a salted bcrypt digest of plaintext. Two calls with the
// same input produce different digests.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", WithMessage(ErrMissingField, "password must not be empty")
	}

	res, err := h.run(ctx, func() hashResult {
		d, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), h.cost)
		return hashResult{digest: d, err: err}
	})
	if err != nil {
		return "", err
	}
	if res.err != nil {
		return "", WrapError(ErrHashFailure, res.err)
	}
	return string(res.digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is not an
// error, a malformed digest is reported as ErrHashFailure.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	res, err := h.run(ctx, func() hashResult {
		return hashResult{err: bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(plaintext))}
	})
	if err != nil {
		return false, err
	}
	if res.err == nil {
		return true, nil
	}
	if errors.Is(res.err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, WrapError(ErrHashFailure, res.err)
}

// bcryptInput passes inputs up to MaxBcryptInput through unchanged and
// pre-hashes longer ones.
func bcryptInput(plaintext string) []byte {
	if len(plaintext) <= MaxBcryptInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (h *Hasher) run(ctx context.Context, fn func() hashResult) (hashResult, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return hashResult{}, WrapError(ErrHashFailure, err)
	}

	done := make(chan hashResult, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()

	select {
	case <-ctx.Done():
		return hashResult{}, WrapError(ErrHashFailure, ctx.Err())
	case res := <-done:
		return res, nil
	}
}

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", WithMessage(ErrMissingField, "password must not be empty")
	}

	h, err := bcrypt.GenerateFromPassword(bcryptInput(password), DefaultHashCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash hashes a random uuid. Used as a stand in digest
// when no account matches a login attempt.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
