// Package auth keeps the bearer credential for the upstream content API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// DefaultSafetyMargin is how long before the real expiry a token is
// considered stale.
const DefaultSafetyMargin = 30 * time.Second

var ErrTokenAcquisitionFailed = errors.New("token acquisition failed")

// Acquirer obtains a fresh credential from the issuer.
type Acquirer interface {
	Acquire(ctx context.Context) (entities.Credential, error)
}

// AcquirerFunc adapts a function to the Acquirer interface.
type AcquirerFunc func(ctx context.Context) (entities.Credential, error)

func (f AcquirerFunc) Acquire(ctx context.Context) (entities.Credential, error) {
	return f(ctx)
}

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// TokenCache hands out a cached credential and refreshes it on demand.
// Concurrent callers that find the cache stale share a single acquisition.
type TokenCache struct {
	acquirer Acquirer
	clock    Clock
	margin   time.Duration

	mu   sync.RWMutex
	cred *entities.Credential

	group singleflight.Group
}

type Option func(*TokenCache)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(tc *TokenCache) { tc.clock = c }
}

// WithSafetyMargin overrides DefaultSafetyMargin. Negative values are ignored.
func WithSafetyMargin(d time.Duration) Option {
	return func(tc *TokenCache) {
		if d >= 0 {
			tc.margin = d
		}
	}
}

func NewTokenCache(acquirer Acquirer, opts ...Option) *TokenCache {
	tc := &TokenCache{
		acquirer: acquirer,
		clock:    SystemClock{},
		margin:   DefaultSafetyMargin,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Token returns a usable access token, acquiring a new one when the cached
// credential is missing or inside the safety margin.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := tc.cached(); ok {
		return token, nil
	}

	ch := tc.group.DoChan("token", func() (any, error) {
		if token, ok := tc.cached(); ok {
			return token, nil
		}

		// Shared by every waiter, so the first caller's cancellation must not abort it.
		cred, err := tc.acquirer.Acquire(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}
		if cred.Token == "" {
			return "", errors.New("issuer returned an empty token")
		}

		tc.mu.Lock()
		tc.cred = &cred
		tc.mu.Unlock()

		return cred.Token, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrTokenAcquisitionFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("%w: %w", ErrTokenAcquisitionFailed, res.Err)
		}
		return res.Val.(string), nil
	}
}

// Expiry returns the expiry of the cached credential, if any.
func (tc *TokenCache) Expiry() (time.Time, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if tc.cred == nil {
		return time.Time{}, false
	}
	return tc.cred.ExpiresAt, true
}

// Invalidate drops the cached credential so the next call acquires a new one.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.cred = nil
	tc.mu.Unlock()
}

func (tc *TokenCache) cached() (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if !tc.cred.ValidAt(tc.clock.Now(), tc.margin) {
		return "", false
	}
	return tc.cred.Token, true
}
