package sim

import "github.com/padraicbc/derbysim/rng"

// AffinityCategory buckets the 0..255 surface-affinity scalar.
type AffinityCategory int

const (
	AffTurf AffinityCategory = iota
	AffMixed
	AffDirtLean
	AffDirtMax
)

// CategorizeAffinity maps an affinity value to its preference band.
func CategorizeAffinity(affinity int) AffinityCategory {
	switch {
	case affinity <= 63:
		return AffTurf
	case affinity <= 212:
		return AffMixed
	case affinity <= 254:
		return AffDirtLean
	default:
		return AffDirtMax
	}
}

// SurfaceFit returns a signed preference scalar for racing the given
// surface: positive for a match, negative for a mismatch.
func SurfaceFit(affinity int, raceSurface Surface) float64 {
	switch CategorizeAffinity(affinity) {
	case AffTurf:
		if raceSurface == Turf {
			return 0.9
		}
		return -0.6
	case AffMixed:
		return 0.2
	case AffDirtLean:
		if raceSurface == Dirt {
			return 0.6
		}
		return -0.2
	default: // AffDirtMax
		if raceSurface == Dirt {
			return 1.0
		}
		return -0.5
	}
}

// conditionProbs returns the going distribution for a surface. Turf meets
// are usually dry; dirt courses are watered, so SOFT is their modal going.
func conditionProbs(surface Surface) [4]struct {
	cond Condition
	p    float64
} {
	if surface == Turf {
		return [4]struct {
			cond Condition
			p    float64
		}{{Good, 0.35}, {GoodToSoft, 0.30}, {Soft, 0.20}, {Heavy, 0.15}}
	}
	return [4]struct {
		cond Condition
		p    float64
	}{{Soft, 0.35}, {Heavy, 0.30}, {GoodToSoft, 0.20}, {Good, 0.15}}
}

// RollCondition deterministically draws the going for one race meeting.
func RollCondition(globalSeed uint64, round int, slot Slot, meetIter int, surface Surface) Condition {
	g := rng.Derive(globalSeed, "COND", round, slot, meetIter)
	r := g.Float64()
	probs := conditionProbs(surface)
	acc := 0.0
	for _, cp := range probs {
		acc += cp.p
		if r <= acc {
			return cp.cond
		}
	}
	return probs[len(probs)-1].cond
}

// ConditionSpeedScalar returns a small signed "fastness" term; positive
// means the track rides faster than par. Fastest going is GOOD on turf and
// SOFT on dirt.
func ConditionSpeedScalar(surface Surface, cond Condition) float64 {
	if surface == Turf {
		switch cond {
		case Good:
			return 0.02
		case GoodToSoft:
			return 0.00
		case Soft:
			return -0.01
		default:
			return -0.03
		}
	}
	switch cond {
	case Soft:
		return 0.02
	case Heavy:
		return 0.01
	case GoodToSoft:
		return 0.00
	default:
		return -0.02
	}
}

// FastestCondition is the only going under which a surface's records may be
// updated.
func FastestCondition(surface Surface) Condition {
	if surface == Turf {
		return Good
	}
	return Soft
}

// ConditionHeaviness returns how demanding the going is, 0 (dry) to 1
// (heavy), on either surface.
func ConditionHeaviness(cond Condition) float64 {
	switch cond {
	case Good:
		return 0.0
	case GoodToSoft:
		return 0.35
	case Soft:
		return 0.70
	default:
		return 1.0
	}
}
