package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/padraicbc/derbysim/rng"
)

// DefaultPoolSize is the number of CPU horses generated per round.
const DefaultPoolSize = 36

// DefaultFieldSize is the number of CPU runners drawn per race.
const DefaultFieldSize = 11

// RoundPool is one round's generated competitor population. Horses and the
// rating-sorted id order are read-only after construction; only the
// per-slot used-id sets mutate, and only through SelectField.
type RoundPool struct {
	Round      int
	Seed       uint64
	Horses     []Horse
	SortedIDs  []string // ascending by rating
	byID       map[string]*Horse
	usedBySlot map[Slot]map[string]bool
}

// HorseByID returns the pool horse with the given id, or nil.
func (p *RoundPool) HorseByID(id string) *Horse {
	return p.byID[id]
}

// roundMeanMultiplier scales pool strength upward over the 16-round
// program; round 16 pools run ~35% hotter than round 1.
func roundMeanMultiplier(round int) float64 {
	return 1.00 + float64(round-1)*(0.35/15.0)
}

// scaleExternal pulls an external toward/away from the range midpoint by
// the round multiplier, keeping the career bounds.
func scaleExternal(v int, rm float64) int {
	const mid = 28
	scaled := mid + (float64(v)-mid)*rm
	return clampInt(int(math.Round(scaled)), ExtMin, ExtMax)
}

func scaleInternals(in Internals, rm float64) Internals {
	mult := 0.95 + 0.05*rm
	return Internals{
		Stamina: int(math.Round(float64(in.Stamina) * mult)),
		Speed:   int(math.Round(float64(in.Speed) * mult)),
		Sharp:   int(math.Round(float64(in.Sharp) * mult)),
	}
}

// BuildRoundPool deterministically generates, rates and rank-orders one
// round's competitor population by breeding random sire/dam pairs from the
// rosters (with replacement). Later rounds produce statistically stronger
// pools via the round multiplier.
func BuildRoundPool(globalSeed uint64, round int, sires, dams []Parent, namePool []string, poolSize int) (*RoundPool, error) {
	if len(sires) == 0 || len(dams) == 0 {
		return nil, fmt.Errorf("sim: build pool round %d: empty parent roster", round)
	}
	if poolSize <= 0 {
		return nil, fmt.Errorf("sim: build pool round %d: pool size %d", round, poolSize)
	}

	seed := rng.DeriveSeed(globalSeed, "ROUND", round)
	g := rng.New(seed)
	rm := roundMeanMultiplier(round)
	names := RoundNames(globalSeed, round, poolSize, namePool)

	horses := make([]Horse, 0, poolSize)
	for idx := 0; idx < poolSize; idx++ {
		sire := rng.Choice(g, sires)
		dam := rng.Choice(g, dams)
		foal := Breed(sire, dam, g, DefaultBirthCap, 0, 0)

		ext := externalsToArray(foal.Externals)
		for k := range ext {
			ext[k] = scaleExternal(ext[k], rm)
		}
		scaledExt := externalsFromArray(ext)

		sex := Male
		if g.Float64() < 0.5 {
			sex = Female
		}

		horses = append(horses, Horse{
			ID:        fmt.Sprintf("CPU-R%02d-%02d", round, idx),
			Name:      names[idx],
			Sex:       sex,
			Style:     DeriveStyle(scaledExt),
			Affinity:  foal.Affinity,
			Internals: scaleInternals(foal.Internals, rm),
			Externals: scaledExt,
		})
	}

	mu, sd := PoolIntStats(horses)
	for i := range horses {
		horses[i].RatingBase = Rating(horses[i], mu, sd)
	}

	sorted := make([]string, len(horses))
	order := make([]int, len(horses))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return horses[order[a]].RatingBase < horses[order[b]].RatingBase
	})
	for i, idx := range order {
		sorted[i] = horses[idx].ID
	}

	pool := &RoundPool{
		Round:      round,
		Seed:       seed,
		Horses:     horses,
		SortedIDs:  sorted,
		byID:       make(map[string]*Horse, len(horses)),
		usedBySlot: make(map[Slot]map[string]bool, len(Slots)),
	}
	for i := range pool.Horses {
		pool.byID[pool.Horses[i].ID] = &pool.Horses[i]
	}
	for _, s := range Slots {
		pool.usedBySlot[s] = make(map[string]bool)
	}
	return pool, nil
}

// SelectField draws a race field from the slot's percentile band over the
// rating-sorted pool. bandShift (from difficulty logic outside the core)
// moves both bounds, clamped to [0,1]. Ids already used for this slot are
// skipped first; if the window cannot otherwise fill the field, used ids
// are allowed again so a field is never short. Selected ids are marked used.
func SelectField(globalSeed uint64, pool *RoundPool, slot Slot, meetIter, fieldSize int, bandShift float64) ([]Horse, error) {
	if pool == nil || len(pool.Horses) == 0 {
		return nil, fmt.Errorf("sim: select field: empty pool")
	}
	if fieldSize <= 0 {
		return nil, fmt.Errorf("sim: select field: field size %d", fieldSize)
	}

	lo, hi := slot.Band()
	lo = clampFloat(lo+bandShift, 0.0, 1.0)
	hi = clampFloat(hi+bandShift, 0.0, 1.0)
	if hi < lo {
		hi = lo
	}

	ids := pool.SortedIDs
	n := len(ids)
	loIdx := int(float64(n) * lo)
	hiIdx := max(loIdx, int(float64(n)*hi)-1)
	if loIdx >= n {
		loIdx = n - 1
	}
	if hiIdx >= n {
		hiIdx = n - 1
	}
	candidates := append([]string(nil), ids[loIdx:hiIdx+1]...)

	g := rng.Derive(globalSeed, "FIELD", pool.Round, slot, meetIter)
	rng.Shuffle(g, candidates)

	used := pool.usedBySlot[slot]
	chosen := make([]string, 0, fieldSize)
	for _, id := range candidates {
		if !used[id] {
			chosen = append(chosen, id)
		}
		if len(chosen) == fieldSize {
			break
		}
	}

	// Fallback: the window is too small to fill the field fresh, so allow
	// previously used ids rather than returning a short field.
	if len(chosen) < fieldSize {
		inChosen := make(map[string]bool, len(chosen))
		for _, id := range chosen {
			inChosen[id] = true
		}
		for _, id := range candidates {
			if !inChosen[id] {
				chosen = append(chosen, id)
				inChosen[id] = true
			}
			if len(chosen) == fieldSize {
				break
			}
		}
	}

	for _, id := range chosen {
		used[id] = true
	}

	out := make([]Horse, 0, len(chosen))
	for _, id := range chosen {
		if h := pool.byID[id]; h != nil {
			out = append(out, *h)
		}
	}
	return out, nil
}

// RatingPercentile returns the player's rating rank within the pool as a
// value in [0,1]. An empty pool reports the median.
func RatingPercentile(player Horse, poolHorses []Horse) float64 {
	if len(poolHorses) == 0 {
		return 0.50
	}
	mu, sd := PoolIntStats(poolHorses)
	pr := Rating(player, mu, sd)

	le := 0
	for _, h := range poolHorses {
		r := h.RatingBase
		if r == 0 {
			r = Rating(h, mu, sd)
		}
		if r <= pr {
			le++
		}
	}
	return float64(le) / float64(len(poolHorses))
}

// HandicapBandShift computes the extra slot-1R band shift for a player
// horse: more career wins, G1 wins and a top-of-pool rating all draw
// tougher fields. The shift stays bounded so the round difficulty curve
// holds.
func HandicapBandShift(player Horse, poolHorses []Horse, careerWins int) float64 {
	pct := RatingPercentile(player, poolHorses)

	shiftWins := math.Min(0.12, float64(careerWins)*0.008)
	shiftG1 := math.Min(0.06, float64(player.G1Wins)*0.02)

	shiftPct := 0.0
	if pct > 0.70 {
		shiftPct = math.Min(0.06, (pct-0.70)*0.20)
	}

	return math.Min(0.18, shiftWins+shiftG1+shiftPct)
}
