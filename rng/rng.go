// Package rng provides seed derivation and a deterministic pseudo-random
// stream for the simulation core.
//
// Every subsystem derives a fresh, disposable RNG per logical operation by
// hashing the global seed, a subsystem tag and all context identifiers. The
// same (seed, tag, context) always reproduces the same draws, and advancing
// one subsystem's stream never perturbs another's.
package rng

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// delim separates serialized components so ("ab","c") and ("a","bc") hash
// differently.
const delim = 0x1f

// DeriveSeed hashes an ordered list of heterogeneous components into a
// 64-bit seed. Each component is serialized with fmt and followed by a
// single delimiter byte; the BLAKE2b-64 digest is read big-endian.
func DeriveSeed(parts ...any) uint64 {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// Only reachable with an invalid digest size or key.
		panic(fmt.Sprintf("rng: blake2b init: %v", err))
	}
	for _, p := range parts {
		fmt.Fprintf(h, "%v", p)
		h.Write([]byte{delim})
	}
	return binary.BigEndian.Uint64(h.Sum(nil))
}

// RNG is a deterministic pseudo-random stream. The zero value is not usable;
// construct with New.
type RNG struct {
	r *rand.Rand
}

// New returns a stream seeded from the given 64-bit seed.
func New(seed uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Derive is shorthand for New(DeriveSeed(parts...)).
func Derive(parts ...any) *RNG {
	return New(DeriveSeed(parts...))
}

// Float64 returns a uniform float in [0,1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// IntN returns a uniform int in [0,n).
func (g *RNG) IntN(n int) int { return g.r.IntN(n) }

// IntRange returns a uniform int in [a,b] inclusive.
func (g *RNG) IntRange(a, b int) int {
	if b < a {
		a, b = b, a
	}
	return a + g.r.IntN(b-a+1)
}

// Gauss returns a normal deviate via Box-Muller. The first uniform is
// floored at 1e-12 so log(0) can never occur.
func (g *RNG) Gauss(mu, sigma float64) float64 {
	u1 := math.Max(1e-12, g.r.Float64())
	u2 := g.r.Float64()
	z := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
	return mu + sigma*z
}

// TriCentered returns triangular-ish noise centered at 0 in [-1.5, +1.5]
// (sum of three uniforms minus 1.5).
func (g *RNG) TriCentered() float64 {
	return g.r.Float64() + g.r.Float64() + g.r.Float64() - 1.5
}

// TriNoise returns triangular-ish noise in [-1, 1] with its peak at 0.
func (g *RNG) TriNoise() float64 {
	return g.r.Float64() + g.r.Float64() - 1.0
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are treated as zero; if all weights are zero the pick
// is uniform.
func (g *RNG) WeightedIndex(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return g.r.IntN(len(weights))
	}
	r := g.r.Float64() * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Choice returns a uniformly chosen element. Panics on an empty slice; an
// empty choice set is a programmer error upstream.
func Choice[T any](g *RNG, items []T) T {
	return items[g.r.IntN(len(items))]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](g *RNG, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Sample returns k distinct elements drawn without replacement. If k exceeds
// the slice length the whole slice is returned shuffled.
func Sample[T any](g *RNG, items []T, k int) []T {
	cp := append([]T(nil), items...)
	Shuffle(g, cp)
	if k > len(cp) {
		k = len(cp)
	}
	if k < 0 {
		k = 0
	}
	return cp[:k]
}
