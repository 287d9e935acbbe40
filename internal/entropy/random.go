// Package entropy provides the single seedable random source shared by the
// market, agent policy, fate resolver, voyage engine, and turn scheduler.
// Falls back to crypto/rand only to pick a seed when none is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the random draw interface every stochastic component takes.
type Source interface {
	Float64() float64 // uniform in [0, 1)
	Intn(n int) int   // uniform in [0, n)
}

// Rand is a deterministic Source backed by math/rand. It counts the steps
// taken by the underlying generator so a saved game can resume mid-sequence.
type Rand struct {
	rng  *mrand.Rand
	src  *counted
	seed int64
}

// counted wraps a math/rand source and counts every step it takes. Int63
// and Uint64 each advance the generator by exactly one step.
type counted struct {
	inner mrand.Source64
	steps uint64
}

func (c *counted) Int63() int64   { c.steps++; return c.inner.Int63() }
func (c *counted) Uint64() uint64 { c.steps++; return c.inner.Uint64() }
func (c *counted) Seed(seed int64) {
	c.inner.Seed(seed)
	c.steps = 0
}

// New creates a Source seeded with seed. The same seed replays the same game.
func New(seed int64) *Rand {
	src := &counted{inner: mrand.NewSource(seed).(mrand.Source64)}
	return &Rand{
		rng:  mrand.New(src),
		src:  src,
		seed: seed,
	}
}

// Resume recreates the source of a saved game: seeded with seed and advanced
// past the first draws generator steps.
func Resume(seed int64, draws uint64) *Rand {
	r := New(seed)
	for i := uint64(0); i < draws; i++ {
		r.src.Int63()
	}
	return r
}

// Float64 returns a uniform float in [0, 1).
func (r *Rand) Float64() float64 { return r.rng.Float64() }

// Intn returns a uniform int in [0, n). Panics if n <= 0, like math/rand.
func (r *Rand) Intn(n int) int { return r.rng.Intn(n) }

// Seed returns the seed the source was created with.
func (r *Rand) Seed() int64 { return r.seed }

// Draws returns how many generator steps have been consumed.
func (r *Rand) Draws() uint64 { return r.src.steps }

// Resumable is a Source whose position can be saved and restored with Resume.
type Resumable interface {
	Source
	Seed() int64
	Draws() uint64
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but return a fixed seed as a safe default.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// RollDie returns a uniform value in {1..6}.
func RollDie(src Source) int {
	return src.Intn(6) + 1
}

// Between returns a uniform float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
