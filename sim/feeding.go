package sim

import (
	"sort"
	"strings"

	"github.com/padraicbc/derbysim/rng"
)

// FoodTier orders the catalog from everyday fodder to reward foods.
type FoodTier string

const (
	TierBasic    FoodTier = "basic"
	TierStandard FoodTier = "standard"
	TierPremium  FoodTier = "premium"
	TierSpecial  FoodTier = "special"
)

// FoodItem is one catalog entry.
type FoodItem struct {
	Name string
	Tier FoodTier
}

// Foods is the feeding catalog. Specials appear only once unlocked by G1
// wins; Draft Beer is offered only after a Perfect session.
var Foods = []FoodItem{
	{"Vegetable Salad", TierStandard},
	{"Camembert Cheese", TierPremium},
	{"Herbal Dumplings (Regular)", TierStandard},
	{"Apple", TierBasic},
	{"Large Apple", TierStandard},
	{"Green Apple", TierBasic},
	{"Orange", TierBasic},
	{"Large Orange", TierStandard},
	{"Carrot", TierBasic},
	{"Bunch of Carrots", TierStandard},
	{"Fodder", TierBasic},
	{"Fodder with Green Tea", TierStandard},
	{"Hay Bale Deluxe", TierStandard},
	{"Mineral Mix", TierStandard},
	{"Cube Sugar", TierPremium},
	{"Pudding", TierStandard},
	{"Large Pudding", TierPremium},
	{"Draft Beer", TierPremium},
	{"Herbal Dumpling", TierSpecial},
	{"Large Herbal Dumpling", TierSpecial},
	{"Large Korean Ginseng", TierSpecial},
}

// specialOrder is the unlock sequence for genetic reward foods.
var specialOrder = []string{"Herbal Dumpling", "Large Herbal Dumpling", "Large Korean Ginseng"}

// UnlockedSpecials returns the genetic foods available to a horse: one new
// special per G1 win, up to three.
func UnlockedSpecials(h Horse) []string {
	n := clampInt(h.G1Wins, 0, 3)
	return specialOrder[:n]
}

func foodTier(name string) FoodTier {
	for _, f := range Foods {
		if f.Name == name {
			return f.Tier
		}
	}
	return TierStandard
}

// BuildFoodOffering deterministically assembles the k-item menu shown after
// a training session. Better grades surface richer tiers; unlocked specials
// appear probabilistically; a Perfect session always offers Draft Beer.
func BuildFoodOffering(globalSeed uint64, meetIter, round int, slot Slot, grade Grade, primary []string, h Horse, k int) []string {
	g := rng.Derive(globalSeed, "FOOD_OFFER", round, slot, meetIter)

	unlocked := make(map[string]bool)
	for _, s := range UnlockedSpecials(h) {
		unlocked[s] = true
	}

	var basic, standard, premium, specials []FoodItem
	for _, f := range Foods {
		if f.Name == "Draft Beer" && grade != GradePerfect {
			continue
		}
		switch {
		case unlocked[f.Name]:
			specials = append(specials, f)
		case f.Tier == TierSpecial:
			// Locked special: never offered.
		case f.Tier == TierBasic:
			basic = append(basic, f)
		case f.Tier == TierStandard:
			standard = append(standard, f)
		case f.Tier == TierPremium:
			premium = append(premium, f)
		}
	}

	var pool []FoodItem
	var biasN int
	switch grade {
	case GradePerfect:
		pool = append(append(append(pool, premium...), standard...), basic...)
		biasN = 4
	case GradeCool, GradeGreat:
		pool = append(append(append(pool, premium...), standard...), basic...)
		biasN = 3
	case GradeGood, GradeNone:
		pool = append(append(append(pool, standard...), basic...), premium...)
		biasN = 2
	default: // Bad
		pool = append(append(append(pool, basic...), standard...), premium...)
		biasN = 1
	}
	rng.Shuffle(g, pool)

	chosen := make([]FoodItem, 0, k)
	inChosen := func(name string) bool {
		for _, c := range chosen {
			if c.Name == name {
				return true
			}
		}
		return false
	}

	if grade == GradePerfect {
		for _, f := range premium {
			if f.Name == "Draft Beer" {
				chosen = append(chosen, f)
				break
			}
		}
	}

	// A fresh G1 winner is always shown the newest special they unlocked.
	if h.PendingSuperfood && len(specials) > 0 {
		chosen = append(chosen, specials[len(specials)-1])
	} else if len(specials) > 0 && grade != GradeBad {
		p := map[Grade]float64{
			GradePerfect: 0.60, GradeCool: 0.50, GradeGreat: 0.40, GradeGood: 0.30, GradeNone: 0.30,
		}[grade]
		if g.Float64() < p {
			chosen = append(chosen, rng.Choice(g, specials))
		}
	}

	// Bias: surface foods whose folklore fits the trained stats.
	hasPrimary := func(key string) bool {
		for _, p := range primary {
			if p == key {
				return true
			}
		}
		return false
	}
	biasScore := func(name string) float64 {
		score := 0.0
		if strings.Contains(name, "Carrot") && (hasPrimary("start") || hasPrimary("navigate")) {
			score += 2.0
		}
		if strings.Contains(name, "Apple") && hasPrimary("spurt") {
			score += 1.0
		}
		if strings.Contains(name, "Dumpling") && (hasPrimary("tenacity") || hasPrimary("competing")) {
			score += 1.5
		}
		if strings.Contains(name, "Cheese") && (hasPrimary("competing") || hasPrimary("tenacity")) {
			score += 1.0
		}
		if strings.Contains(name, "Mineral") && (hasPrimary("corner") || hasPrimary("tenacity")) {
			score += 1.0
		}
		return score + g.Float64()*0.05
	}

	type scoredFood struct {
		f     FoodItem
		score float64
	}
	remaining := make([]scoredFood, 0, len(pool))
	for _, f := range pool {
		if !inChosen(f.Name) {
			remaining = append(remaining, scoredFood{f, biasScore(f.Name)})
		}
	}
	sort.SliceStable(remaining, func(a, b int) bool {
		return remaining[a].score > remaining[b].score
	})
	for _, sf := range remaining {
		if biasN <= 0 || len(chosen) >= k {
			break
		}
		if !inChosen(sf.f.Name) {
			chosen = append(chosen, sf.f)
			biasN--
		}
	}

	for _, f := range pool {
		if len(chosen) >= k {
			break
		}
		if !inChosen(f.Name) {
			chosen = append(chosen, f)
		}
	}

	names := make([]string, 0, k)
	for _, f := range chosen {
		names = append(names, f.Name)
		if len(names) == k {
			break
		}
	}
	return names
}

// FeedingResult reports one feeding action.
type FeedingResult struct {
	GradeContext Grade
	FoodsOffered []string
	Chosen       string
	Deltas       map[string]int
	Notes        string
}

// ComputeFoodDeltas rolls the stat deltas for eating chosenFood after a
// session with the given grade and training targets. Budgets scale with
// food tier; a per-horse deterministic "palate" multiplier makes individual
// horses love or hate particular foods without any persisted state. Reward
// foods never punish a bad session.
func ComputeFoodDeltas(globalSeed uint64, meetIter, round int, slot Slot, grade Grade, primary, secondary []string, chosenFood string, h Horse) map[string]int {
	g := rng.Derive(globalSeed, "FOOD_DELTA", meetIter, round, slot, chosenFood)

	isSpecial := false
	for _, s := range specialOrder {
		if s == chosenFood {
			isSpecial = true
			break
		}
	}
	isBeer := chosenFood == "Draft Beer"
	tier := foodTier(chosenFood)

	// Palate: keyed off stable identity traits, not the mutable id.
	pref := rng.Derive(uint64(0), "FOOD_PREF", h.Name, h.Sex, h.Affinity, chosenFood)
	var prefMult float64
	switch r := pref.Float64(); {
	case r < 0.15:
		prefMult = 0.7
	case r < 0.55:
		prefMult = 1.0
	case r < 0.85:
		prefMult = 1.2
	default:
		prefMult = 1.4
	}

	effGrade := grade
	if grade == GradeBad && (isBeer || isSpecial) {
		effGrade = GradeGood
	}

	var baseBudget int
	if effGrade == GradeBad {
		switch tier {
		case TierBasic:
			baseBudget = g.IntRange(-3, 0)
		case TierPremium:
			baseBudget = g.IntRange(-2, 2)
		default:
			baseBudget = g.IntRange(-3, 1)
		}
	} else {
		switch {
		case isSpecial:
			switch chosenFood {
			case "Herbal Dumpling":
				baseBudget = g.IntRange(3, 5)
			case "Large Herbal Dumpling":
				baseBudget = g.IntRange(4, 6)
			default:
				baseBudget = g.IntRange(5, 7)
			}
		case isBeer:
			if grade == GradePerfect {
				baseBudget = g.IntRange(4, 7)
			} else {
				baseBudget = g.IntRange(3, 6)
			}
		case tier == TierBasic:
			baseBudget = g.IntRange(1, 2)
		case tier == TierPremium:
			baseBudget = g.IntRange(2, 4)
		default:
			baseBudget = g.IntRange(1, 3)
		}
	}

	budget := int(float64(baseBudget) * prefMult)
	if budget == 0 {
		return map[string]int{}
	}

	targets := primary
	sec := secondary
	if len(targets) == 0 && len(sec) == 0 {
		targets = statKeys
	}

	bag := make([]string, 0, 8)
	for _, s := range targets {
		bag = append(bag, s, s, s, s)
	}
	for _, s := range sec {
		bag = append(bag, s, s)
	}
	if len(bag) == 0 {
		bag = append(bag, statKeys...)
	}

	inBag := make(map[string]bool, len(bag))
	for _, s := range bag {
		inBag[s] = true
	}

	// Simulate against temp values so diminishing/clamping tracks this one
	// feeding event.
	temp := make(map[string]int, len(statKeys))
	for _, k := range statKeys {
		temp[k] = getExternal(&h.Externals, k)
	}
	deltas := map[string]int{}
	simApply := func(stat string, raw int) {
		cur := temp[stat]
		d := scaleDeltaForDiminishing(cur, raw)
		nv := clampInt(cur+d, ExtMin, ExtMax)
		if nv != cur {
			deltas[stat] += nv - cur
		}
		temp[stat] = nv
	}

	var p2 float64
	switch {
	case isBeer:
		p2 = 0.45
	case isSpecial:
		p2 = 0.40
	case tier == TierBasic:
		p2 = 0.15
	case tier == TierPremium:
		p2 = 0.35
	default:
		p2 = 0.25
	}

	remaining := budget
	sign := 1
	if budget < 0 {
		remaining = -budget
		sign = -1
	}
	for remaining > 0 {
		stat := rng.Choice(g, bag)
		packet := 1
		if remaining >= 2 && (temp[stat] >= 42 || g.Float64() < p2) {
			packet = 2
		}
		simApply(stat, sign*packet)
		remaining -= packet
	}

	// Spillover to a non-target stat.
	others := make([]string, 0, len(statKeys))
	for _, k := range statKeys {
		if !inBag[k] {
			others = append(others, k)
		}
	}
	if len(others) > 0 {
		pOther, extra := 0.30, 1
		if tier == TierPremium || isSpecial || isBeer {
			pOther = 0.55
			if g.Float64() < 0.33 {
				extra = 2
			}
		}
		if g.Float64() < pOther {
			simApply(rng.Choice(g, others), sign*extra)
		}
	}

	return deltas
}

// ApplyFeeding computes and applies one feeding to the horse, returning the
// record of what happened. Eating a genetic special grants a breeding
// token.
func ApplyFeeding(globalSeed uint64, meetIter, round int, slot Slot, grade Grade, primary, secondary []string, h *Horse, chosenFood string, offered []string) FeedingResult {
	deltas := ComputeFoodDeltas(globalSeed, meetIter, round, slot, grade, primary, secondary, chosenFood, *h)

	for _, k := range statKeys {
		if d := deltas[k]; d != 0 {
			cur := getExternal(&h.Externals, k)
			nv := clampInt(cur+d, ExtMin, ExtMax)
			setExternal(&h.Externals, k, nv)
			deltas[k] = nv - cur
		}
	}

	notes := ""
	for _, s := range specialOrder {
		if s == chosenFood {
			h.GeneticTokens++
			h.PendingSuperfood = false
			notes = "Special genetic food consumed. (+1 genetic token)"
			break
		}
	}

	return FeedingResult{
		GradeContext: grade,
		FoodsOffered: offered,
		Chosen:       chosenFood,
		Deltas:       deltas,
		Notes:        notes,
	}
}
