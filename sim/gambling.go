package sim

import (
	"fmt"
	"math"

	"github.com/padraicbc/derbysim/rng"
)

// Gambling Chance: a side bet on a CPU-only race. Odds come from a softmax
// over a lightweight strength estimate, shaded by the house edge; the
// winner is sampled from the same distribution, so the posted odds are an
// honest (pre-edge) picture of each runner's chance.

const (
	// DefaultGambleStake is the wager placed when the caller names none.
	DefaultGambleStake = 25_000

	gambleHouseEdge = 0.15
	gambleTemp      = 12.0

	// Odds are priced off a notional mile regardless of the race card.
	gambleDistance = 1600
)

// GambleResult is one settled Gambling Chance round.
type GambleResult struct {
	PickedID string
	WinnerID string
	Won      bool
	Payout   int
	Odds     map[string]float64
}

// oddsPhaseWeights is a coarser early/mid/late split than the race engine
// uses. The estimate only needs to rank horses, not race them.
func oddsPhaseWeights(distanceM int) (early, mid, late float64) {
	switch {
	case distanceM <= 1200:
		return 0.40, 0.40, 0.20
	case distanceM <= 1600:
		return 0.36, 0.34, 0.30
	case distanceM <= 2000:
		return 0.32, 0.34, 0.34
	case distanceM <= 2500:
		return 0.30, 0.35, 0.35
	default:
		return 0.25, 0.35, 0.40
	}
}

// oddsSurfaceComponent is a small additive surface/condition preference
// term driven by affinity, kept modest on purpose.
func oddsSurfaceComponent(affinity int, surface Surface, cond Condition) float64 {
	turfLove := 1.0 - clampFloat(float64(affinity), 0, 255)/255.0

	if surface == Turf {
		base := (turfLove - 0.5) * 10.0
		switch cond {
		case GoodToSoft:
			return base * 0.90
		case Soft:
			return base * 0.80
		case Heavy:
			return base * 0.70
		default:
			return base
		}
	}
	base := ((1.0 - turfLove) - 0.5) * 10.0
	switch cond {
	case GoodToSoft:
		return base * 1.05
	case Soft:
		return base * 1.10
	case Heavy:
		return base * 1.15
	default:
		return base
	}
}

func lerpClamped(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	t := clampFloat((x-x0)/(x1-x0), 0.0, 1.0)
	return y0 + (y1-y0)*t
}

// strengthEstimate is a stable, monotonic strength score for the odds
// board. Deliberately simpler than the race engine: no gates, pace or
// traffic, just phase blends, a surface tilt, a front-runner/closer tilt
// and a stamina-by-distance term.
func strengthEstimate(h Horse, distanceM int, surface Surface, cond Condition) float64 {
	st := float64(h.Internals.Stamina)
	sp := float64(h.Internals.Speed)
	sh := float64(h.Internals.Sharp)

	ex := h.Externals
	early := 0.60*float64(ex.Start) + 0.25*float64(ex.Navigate) + 0.15*sp
	mid := 0.40*float64(ex.Corner) + 0.25*float64(ex.Competing) + 0.35*(st+sh)/2.0
	late := 0.55*float64(ex.Spurt) + 0.25*float64(ex.Tenacity) + 0.20*sh

	we, wm, wl := oddsPhaseWeights(distanceM)
	score := we*early + wm*mid + wl*late

	score += 0.08 * oddsSurfaceComponent(h.Affinity, surface, cond)

	switch h.Style {
	case FrontRunner:
		score += 0.7 * (we - wl) * 10.0
	case StretchRunner:
		score += 0.7 * (wl - we) * 10.0
	}

	staminaMod := lerpClamped(float64(distanceM), 1200.0, 3000.0, 0.0, 3.0)
	score += staminaMod * (st - 32.0) / 32.0

	return score
}

func softmax(scores []float64, temp float64) []float64 {
	mx := scores[0]
	for _, s := range scores[1:] {
		if s > mx {
			mx = s
		}
	}
	var z float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		e := math.Exp((s - mx) / temp)
		out[i] = e
		z += e
	}
	for i := range out {
		out[i] /= z
	}
	return out
}

// RunGamblingChance prices a field, samples a winner from the same
// distribution and settles the pick. Identical inputs replay identically:
// the noise, the odds and the sampled winner all come from one RNG derived
// from the race context.
func RunGamblingChance(globalSeed uint64, meetIter, round int, slot Slot, field []Horse, pickedID string, stake int) (GambleResult, error) {
	if len(field) == 0 {
		return GambleResult{}, fmt.Errorf("sim: gamble round %d %s: empty field", round, slot)
	}
	found := false
	for _, h := range field {
		if h.ID == pickedID {
			found = true
			break
		}
	}
	if !found {
		return GambleResult{}, fmt.Errorf("sim: gamble round %d %s: pick %q not in field", round, slot, pickedID)
	}
	if stake <= 0 {
		stake = DefaultGambleStake
	}

	g := rng.Derive(globalSeed, "GAMBLE", round, slot, meetIter)

	raw := make([]float64, len(field))
	for i, h := range field {
		raw[i] = strengthEstimate(h, gambleDistance, Turf, Good) + g.Gauss(0.0, 2.0) + g.Gauss(0.0, 1.0)
	}
	ps := softmax(raw, gambleTemp)

	odds := make(map[string]float64, len(field))
	for i, h := range field {
		p := math.Max(1e-6, ps[i])
		odds[h.ID] = (1.0 / p) * (1.0 - gambleHouseEdge)
	}

	r := g.Float64()
	winner := field[len(field)-1].ID
	acc := 0.0
	for i, h := range field {
		acc += ps[i]
		if r <= acc {
			winner = h.ID
			break
		}
	}

	won := pickedID == winner
	payout := 0
	if won {
		payout = int(math.Round(float64(stake)*odds[pickedID]/PurseUnit)) * PurseUnit
	}

	return GambleResult{
		PickedID: pickedID,
		WinnerID: winner,
		Won:      won,
		Payout:   payout,
		Odds:     odds,
	}, nil
}
