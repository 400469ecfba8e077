package sim

import (
	"math"

	"github.com/padraicbc/derbysim/rng"
)

// Breeding constants. Gamma > 1 makes the parent-average curve concave near
// the floor and convex near the ceiling, so strong parents are rewarded
// disproportionately.
const (
	breedGamma     = 1.6
	breedNoiseSD   = 2.2
	anomalyProb    = 0.035
	anomalyMag     = 14.0
	affinitySD     = 18.0
	capIterations  = 20
	capHardCeiling = 180
	// DefaultBirthCap is the untokened cap on the sum of a foal's externals.
	DefaultBirthCap = 160
)

// Foal is the output of one breeding: a newborn's fixed attributes.
type Foal struct {
	Internals Internals
	Externals Externals
	Affinity  int
	Style     Style
}

// Breed derives a foal from two parents using the supplied disposable RNG.
// Internals are deterministic (floor of the parent mean); affinity and
// externals are stochastic. capSum bounds the externals total, adjusted
// upward by genetic tokens.
func Breed(sire, dam Parent, g *rng.RNG, capSum, tokensSire, tokensDam int) Foal {
	ints := breedInternals(sire, dam)
	aff := breedAffinity(sire, dam, g)
	ext := breedExternals(sire, dam, g, capSum, tokensSire, tokensDam)
	return Foal{
		Internals: ints,
		Externals: ext,
		Affinity:  aff,
		Style:     DeriveStyle(ext),
	}
}

func floorAvg(a, b int) int { return (a + b) / 2 }

func breedInternals(sire, dam Parent) Internals {
	return Internals{
		Stamina: floorAvg(sire.Stamina, dam.Stamina),
		Speed:   floorAvg(sire.Speed, dam.Speed),
		Sharp:   floorAvg(sire.Sharp, dam.Sharp),
	}
}

func breedAffinity(sire, dam Parent, g *rng.RNG) int {
	base := float64(sire.Affinity+dam.Affinity) / 2.0
	v := int(math.Round(base + g.Gauss(0, affinitySD)))
	return clampInt(v, 0, 255)
}

// parentExternals returns the pedigree-scale externals in canonical stat
// order: start, corner, navigate, competing, tenacity, spurt.
func parentExternals(p Parent) [6]int {
	return [6]int{p.Start, p.Corner, p.Navigate, p.Competing, p.Tenacity, p.Spurt}
}

func externalsFromArray(v [6]int) Externals {
	return Externals{
		Start:     v[0],
		Corner:    v[1],
		Navigate:  v[2],
		Competing: v[3],
		Tenacity:  v[4],
		Spurt:     v[5],
	}
}

func externalsToArray(e Externals) [6]int {
	return [6]int{e.Start, e.Corner, e.Navigate, e.Competing, e.Tenacity, e.Spurt}
}

func breedExternals(sire, dam Parent, g *rng.RNG, capSum, tokensSire, tokensDam int) Externals {
	se := parentExternals(sire)
	de := parentExternals(dam)

	tTotal := max(0, tokensSire) + max(0, tokensDam)
	nShift := 0.03 * float64(min(tTotal, 6))
	capSum = min(capHardCeiling, capSum+min(4*tTotal, 20))

	var out [6]int
	for k := 0; k < 6; k++ {
		a := clampInt(se[k], 0, 16)
		b := clampInt(de[k], 0, 16)

		// A parent sitting on the pedigree ceiling shifts the normalizing
		// denominator so the midpoint cannot divide by zero headroom.
		denom := 15.0
		if a == 16 || b == 16 {
			denom = 16.0
		}
		n := (float64(a+b) / 2.0) / denom
		n = clampFloat(n+nShift, 0.0, 1.0)
		expected := float64(ExtMin) + float64(ExtMax-ExtMin)*math.Pow(n, breedGamma)

		noise := g.TriCentered() * breedNoiseSD * 2.0

		if g.Float64() < anomalyProb {
			pPos := math.Min(0.70, 0.50+0.05*float64(tTotal))
			sign := -1.0
			if g.Float64() < pPos {
				sign = 1.0
			}
			noise += sign * (g.Float64() * anomalyMag)
		}

		out[k] = clampInt(int(expected+noise), ExtMin, ExtMax)
	}

	enforceBirthCap(&out, capSum)
	return externalsFromArray(out)
}

// enforceBirthCap reduces the externals total to capSum without driving any
// stat below ExtMin. Excess is first redistributed proportionally to each
// stat's room above the floor for a bounded number of passes; if rounding
// stalls the proportional scheme, the largest stat is decremented one point
// at a time. Both phases are required: a pure proportional or pure greedy
// policy materially changes birth distributions.
func enforceBirthCap(out *[6]int, capSum int) {
	sum := func() int {
		s := 0
		for _, v := range out {
			s += v
		}
		return s
	}

	for iter := 0; iter < capIterations; iter++ {
		s := sum()
		if s <= capSum {
			break
		}
		excess := s - capSum
		totalRoom := 0
		for _, v := range out {
			if v > ExtMin {
				totalRoom += v - ExtMin
			}
		}
		if totalRoom <= 0 {
			break
		}
		for k := range out {
			room := out[k] - ExtMin
			if room <= 0 {
				continue
			}
			cut := int(math.Round(float64(excess) * float64(room) / float64(totalRoom)))
			if cut <= 0 {
				continue
			}
			out[k] = max(ExtMin, out[k]-cut)
		}
	}

	for sum() > capSum {
		kmax := 0
		for k := 1; k < 6; k++ {
			if out[k] > out[kmax] {
				kmax = k
			}
		}
		if out[kmax] <= ExtMin {
			break
		}
		out[kmax]--
	}
}

// styleSpread is the max spread among the compared stats below which a horse
// classifies as Almighty.
const styleSpread = 3

// DeriveStyle classifies running style from the externals. Corner is
// excluded; the remaining five are compared. A near-uniform spread yields
// Almighty, otherwise the style buckets by how many of the other four stats
// exceed Start, from earliest-peaking (FrontRunner) to latest (StretchRunner).
func DeriveStyle(e Externals) Style {
	compared := [5]int{e.Start, e.Navigate, e.Competing, e.Tenacity, e.Spurt}
	lo, hi := compared[0], compared[0]
	for _, v := range compared[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo <= styleSpread {
		return Almighty
	}

	greater := 0
	for _, v := range compared[1:] {
		if v > e.Start {
			greater++
		}
	}
	switch greater {
	case 0:
		return FrontRunner
	case 1:
		return StartDash
	case 2:
		return LastSpurt
	default:
		return StretchRunner
	}
}
