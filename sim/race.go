package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/padraicbc/derbysim/rng"
)

// DistanceProfile is the (sprint, mile, stayer) weight triple derived from
// race distance. The weights blend phase weights and penalty severities.
func DistanceProfile(distanceM int) (sprint, mile, stayer float64) {
	switch {
	case distanceM <= 1400:
		return 0.75, 0.25, 0.0
	case distanceM <= 2000:
		return 0.30, 0.55, 0.15
	case distanceM <= 2600:
		return 0.15, 0.35, 0.50
	default:
		return 0.05, 0.25, 0.70
	}
}

// extNorm maps an external 8..48 onto a 0..60 scale for mixing with
// internals.
func extNorm(v int) float64 {
	return (clampFloat(float64(v), ExtMin, ExtMax) - ExtMin) * 1.5
}

// Style coefficients. Early types carry a first-phase edge and pay for it
// late; closers are the mirror image. Endurance scales how hard a hot pace
// bites.
func styleEarlyBonus(s Style) float64 {
	switch s {
	case FrontRunner:
		return 3.0
	case StartDash:
		return 2.0
	case Almighty:
		return 0.5
	case LastSpurt:
		return -0.5
	default:
		return -1.0
	}
}

func styleMidBonus(s Style) float64 {
	switch s {
	case FrontRunner:
		return 0.2
	case StartDash:
		return 0.4
	case Almighty:
		return 0.6
	case LastSpurt:
		return 0.2
	default:
		return 0.0
	}
}

func styleLateBonus(s Style) float64 {
	switch s {
	case FrontRunner:
		return -1.0
	case StartDash:
		return -0.5
	case Almighty:
		return 0.5
	case LastSpurt:
		return 3.0
	default:
		return 2.0
	}
}

func styleEndurance(s Style) float64 {
	switch s {
	case FrontRunner:
		return 1.00
	case StartDash:
		return 0.90
	case Almighty:
		return 0.75
	case LastSpurt:
		return 0.55
	default:
		return 0.45
	}
}

// gateIdealPos is a style's preferred normalized gate position: inside for
// early speed, wider for closers looking for clear air.
func gateIdealPos(s Style) float64 {
	switch s {
	case FrontRunner, StartDash:
		return 0.22
	case Almighty:
		return 0.50
	case LastSpurt:
		return 0.65
	default:
		return 0.75
	}
}

// gatePenalty is a continuous penalty in score units (positive = bad),
// subtracted from the early/mid phases. Strong break skill mitigates it.
func gatePenalty(gate, nRunners int, style Style, surface Surface, sprint, mile, stayer, breakSkill float64) float64 {
	if nRunners <= 1 {
		return 0.0
	}
	gatePos := clampFloat(float64(gate-1)/float64(nRunners-1), 0.0, 1.0)

	surfMult := 1.0
	if surface == Turf {
		surfMult = 1.15
	}
	severity := (1.9*sprint + 1.2*mile + 0.7*stayer) * surfMult

	stylePen := math.Abs(gatePos-gateIdealPos(style)) * severity * 2.3

	// Outside ground loss applies even when a closer prefers the outside.
	outsideSurf := 1.0
	if surface == Turf {
		outsideSurf = 1.05
	}
	outsideSev := (1.4*sprint + 0.9*mile + 0.5*stayer) * outsideSurf
	outsidePen := gatePos * outsideSev * 1.3

	mitig := 1.0 - 0.50*clampFloat(breakSkill, 0.0, 1.0)
	return (stylePen + outsidePen) * mitig
}

// turnPenalty is the extra wide-turn tax on the mid phase; low corner skill
// makes wide trips hurt more.
func turnPenalty(gate, nRunners int, surface Surface, sprint, mile, stayer, cornerSkill float64) float64 {
	if nRunners <= 1 {
		return 0.0
	}
	gatePos := clampFloat(float64(gate-1)/float64(nRunners-1), 0.0, 1.0)

	surfMult := 1.0
	if surface == Turf {
		surfMult = 1.15
	}
	sev := (1.6*sprint + 1.2*mile + 0.9*stayer) * surfMult
	lack := 1.0 - clampFloat(cornerSkill, 0.0, 1.0)
	return gatePos * sev * lack * 1.8
}

// surfaceScalar converts affinity fit and going into a multiplicative
// performance scalar. A good fit is a modest benefit; a mismatch is a
// steeper penalty, amplified on heavier going.
func surfaceScalar(affinity int, surface Surface, cond Condition) float64 {
	fit := SurfaceFit(affinity, surface)
	heavy := ConditionHeaviness(cond)
	if fit >= 0 {
		return 1.0 + 0.10*fit
	}
	return 1.0 + 0.24*fit*(1.0+0.90*heavy)
}

// paceHotness is a 0..2 field-wide scalar from the z-score gap between the
// top-3 early performers and the field mean. A dead zone near zero keeps
// ordinary fields from registering as contested.
func paceHotness(earlyPotentials []float64) float64 {
	n := len(earlyPotentials)
	if n < 3 {
		return 0.0
	}
	var mean float64
	for _, v := range earlyPotentials {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range earlyPotentials {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	if variance <= 1e-9 {
		return 0.0
	}
	sd := math.Sqrt(variance)

	top := append([]float64(nil), earlyPotentials...)
	sort.Sort(sort.Reverse(sort.Float64Slice(top)))
	topMean := (top[0] + top[1] + top[2]) / 3.0

	z := (topMean - mean) / sd
	return clampFloat(z-0.25, 0.0, 2.0)
}

// raceBaseSeed gives each race a deterministic seed from its full context.
func raceBaseSeed(seed uint64, meetIter int, race RaceMeta, cond Condition) uint64 {
	return rng.DeriveSeed(seed, meetIter, race.CourseCode, race.Distance, race.Surface, cond)
}

// DrawGates deterministically assigns starting gates 1..N to the runners.
// The draw is seeded apart from the scoring stream so it never perturbs the
// simulation. The result is always a permutation of {1..N}.
func DrawGates(seed uint64, meetIter int, race RaceMeta, cond Condition, runners []Horse) (map[string]int, error) {
	if len(runners) == 0 {
		return nil, fmt.Errorf("sim: draw gates %s %dm: empty field", race.CourseCode, race.Distance)
	}
	g := rng.Derive(raceBaseSeed(seed, meetIter, race, cond), "GATE")
	gates := make([]int, len(runners))
	for i := range gates {
		gates[i] = i + 1
	}
	rng.Shuffle(g, gates)

	out := make(map[string]int, len(runners))
	for i, h := range runners {
		out[h.ID] = gates[i]
	}
	return out, nil
}

// validateGates rejects gate maps that are not a bijection from the runner
// ids onto {1..N}. A malformed map is an upstream bug; clamping it here
// would only mask it.
func validateGates(runners []Horse, gates map[string]int) error {
	n := len(runners)
	seen := make([]bool, n+1)
	for _, h := range runners {
		gate, ok := gates[h.ID]
		if !ok {
			return fmt.Errorf("sim: gate map missing runner %s", h.ID)
		}
		if gate < 1 || gate > n {
			return fmt.Errorf("sim: gate %d out of range for field of %d", gate, n)
		}
		if seen[gate] {
			return fmt.Errorf("sim: duplicate gate %d", gate)
		}
		seen[gate] = true
	}
	return nil
}

// Result is one simulated race: relative performance scores keyed by horse
// id and the derived finishing order. The reporting layer converts scores
// into times and margins.
type Result struct {
	Scores map[string]float64
	Order  []Horse
	Gates  map[string]int
}

// phaseScores computes the base early/mid/late phase scores for one runner,
// before field-level pace, trip and fitness adjustments.
func phaseScores(h Horse, sprint, mile, stayer float64, gate, nRunners int, surface Surface, g *rng.RNG) (early, mid, late float64) {
	st := float64(h.Internals.Stamina)
	sp := float64(h.Internals.Speed)
	sh := float64(h.Internals.Sharp)

	start := extNorm(h.Externals.Start)
	corner := extNorm(h.Externals.Corner)
	nav := extNorm(h.Externals.Navigate)
	comp := extNorm(h.Externals.Competing)
	ten := extNorm(h.Externals.Tenacity)
	spurt := extNorm(h.Externals.Spurt)

	earlyI := 0.60*sp + 0.40*sh
	earlyE := 0.65*start + 0.35*nav
	early = 0.45*earlyI + 0.55*earlyE

	midI := 0.45*sp + 0.25*sh + 0.30*st
	midE := 0.55*comp + 0.45*corner
	mid = 0.55*midE + 0.45*midI

	lateI := 0.55*st + 0.30*sp + 0.15*sh
	lateE := 0.55*spurt + 0.45*ten
	late = 0.55*lateE + 0.45*lateI

	early += styleEarlyBonus(h.Style)
	mid += styleMidBonus(h.Style)
	late += styleLateBonus(h.Style)

	breakSkill := (0.60*start + 0.40*nav) / 60.0
	gp := gatePenalty(gate, nRunners, h.Style, surface, sprint, mile, stayer, breakSkill)
	early -= gp * (0.75*sprint + 0.40*mile + 0.20*stayer)
	mid -= gp * (0.25*sprint + 0.40*mile + 0.35*stayer)

	mid -= turnPenalty(gate, nRunners, surface, sprint, mile, stayer, corner/60.0)

	// Break variance mostly shapes the early picture and therefore the pace.
	early += g.TriNoise() * (1.20*sprint + 0.85*mile + 0.60*stayer)

	return early, mid, late
}

// SimulateRace computes a per-runner performance score and a finishing
// order for one race. It is stateless per race: identical (seed, iteration,
// context, field, gates) reproduce identical scores and order to full float
// precision. Exact score ties are not explicitly broken; with injected
// noise they are effectively impossible, which is relied on as a liveness
// property rather than a guarantee.
func SimulateRace(seed uint64, meetIter int, race RaceMeta, cond Condition, runners []Horse, gates map[string]int) (*Result, error) {
	if len(runners) == 0 {
		return nil, fmt.Errorf("sim: simulate %s %dm: empty field", race.CourseCode, race.Distance)
	}
	if gates == nil {
		var err error
		gates, err = DrawGates(seed, meetIter, race, cond, runners)
		if err != nil {
			return nil, err
		}
	}
	if err := validateGates(runners, gates); err != nil {
		return nil, err
	}

	base := raceBaseSeed(seed, meetIter, race, cond)
	sprint, mile, stayer := DistanceProfile(race.Distance)
	surface := race.Surface
	heavy := ConditionHeaviness(cond)
	n := len(runners)

	type phases struct{ early, mid, late float64 }
	phaseByID := make(map[string]phases, n)
	earlyPots := make([]float64, 0, n)
	for _, h := range runners {
		hg := rng.Derive(base, h.ID, "HORSE")
		early, mid, late := phaseScores(h, sprint, mile, stayer, gates[h.ID], n, surface, hg)
		phaseByID[h.ID] = phases{early, mid, late}
		earlyPots = append(earlyPots, early)
	}

	paceHot := paceHotness(earlyPots)

	earlyOrder := append([]Horse(nil), runners...)
	sort.SliceStable(earlyOrder, func(a, b int) bool {
		return phaseByID[earlyOrder[a].ID].early > phaseByID[earlyOrder[b].ID].early
	})
	earlyRank := make(map[string]int, n)
	for i, h := range earlyOrder {
		earlyRank[h.ID] = i + 1
	}

	scores := make(map[string]float64, n)
	for _, h := range runners {
		// Fresh stream per runner so traffic/luck replays exactly per horse
		// per race.
		hg := rng.Derive(base, h.ID, "HORSE")
		gate := gates[h.ID]
		rank := earlyRank[h.ID]

		st := float64(h.Internals.Stamina)
		sp := float64(h.Internals.Speed)
		sh := float64(h.Internals.Sharp)
		nav := extNorm(h.Externals.Navigate)
		comp := extNorm(h.Externals.Competing)
		ten := extNorm(h.Externals.Tenacity)

		ph := phaseByID[h.ID]
		early, mid, late := ph.early, ph.mid, ph.late

		// Trip/traffic: closers and back-of-pack runners risk getting
		// stuck; heavy dirt and inner gates raise the risk, navigation and
		// competitiveness lower it.
		isCloser := h.Style == LastSpurt || h.Style == StretchRunner || rank >= 8
		trafficProb := 0.12 + 0.06*sprint + 0.08*mile + 0.10*stayer
		if isCloser {
			trafficProb += 0.10
		}
		if surface == Dirt && heavy >= 0.70 {
			trafficProb += 0.05
		}
		if gate <= 4 {
			trafficProb += 0.07
		} else if gate <= 8 {
			trafficProb += 0.03
		}
		trafficProb -= (nav / 60.0) * 0.18
		trafficProb -= (comp / 60.0) * 0.08
		trafficProb = clampFloat(trafficProb, 0.0, 0.55)

		if hg.Float64() < trafficProb {
			penalty := (1.5 + hg.Float64()*2.5) * (1.0 - (nav/60.0)*0.55)
			late -= penalty * (0.65*sprint + 0.55*mile + 0.45*stayer)
			mid -= penalty * 0.25
		} else if isCloser && nav >= 45.0 {
			// Clear run: sharp-navigating closers occasionally slingshot.
			cutChance := 0.12 + 0.08*mile + 0.06*stayer
			if hg.Float64() < cutChance {
				late += 1.0 + hg.Float64()*1.5
			}
		}

		// Pace fade: a hot pace punishes forward positions on longer trips
		// when stamina/tenacity run short.
		var posFac float64
		switch {
		case rank <= 2:
			posFac = 1.00
		case rank <= 4:
			posFac = 0.85
		case rank <= 6:
			posFac = 0.65
		case rank <= 9:
			posFac = 0.40
		default:
			posFac = 0.25
		}

		endurance := styleEndurance(h.Style)
		distFac := 0.30*sprint + 0.70*mile + 1.00*stayer
		energy := 0.55*st + 0.45*ten
		energyDef := math.Max(0.0, 32.0-energy) / 32.0
		paceFade := paceHot * posFac * endurance * distFac * (1.5 + 2.5*energyDef)

		// Distance mismatch: sprint-built horses fade when the stayer
		// weight dominates.
		sprinterApt := 0.55*sp + 0.45*sh
		mismatch := math.Max(0.0, sprinterApt-st)
		distFade := (mismatch / 40.0) * endurance * (0.20*sprint + 0.80*mile + 1.20*stayer) * 2.8

		// Going handling: stamina/tenacity above baseline pays on wet
		// tracks and costs below it.
		handling := 0.45*st + 0.55*ten
		goingAdj := heavy * ((handling - 30.0) / 30.0) * 2.0

		wEarly := 0.45*sprint + 0.30*mile + 0.20*stayer
		wMid := 0.30*sprint + 0.35*mile + 0.35*stayer
		wLate := 0.25*sprint + 0.35*mile + 0.45*stayer

		score := wEarly*early + wMid*mid + wLate*late
		score += goingAdj
		score -= paceFade + distFade
		score *= surfaceScalar(h.Affinity, surface, cond)

		// Day-to-day noise; sprints are more chaotic than routes.
		sigma := 0.95*sprint + 0.75*mile + 0.60*stayer
		score += hg.Gauss(0.0, sigma)
		score += hg.TriNoise() * 0.25

		scores[h.ID] = score
	}

	order := append([]Horse(nil), runners...)
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a].ID] > scores[order[b].ID]
	})

	return &Result{Scores: scores, Order: order, Gates: gates}, nil
}
