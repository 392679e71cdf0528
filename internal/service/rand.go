package service

import (
	"math/rand"
	"sync"
)

// Rand is the source of randomness for sampling, option building and
// shuffling. Implementations must be safe for concurrent use.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand uses the auto-seeded package-level generator.
func DefaultRand() Rand { return globalRand{} }

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRand returns a reproducible generator.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}
