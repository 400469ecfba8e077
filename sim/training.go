package sim

import "github.com/padraicbc/derbysim/rng"

// Grade is a training (or feeding context) outcome.
type Grade string

const (
	GradePerfect Grade = "Perfect"
	GradeCool    Grade = "Cool"
	GradeGreat   Grade = "Great"
	GradeGood    Grade = "Good"
	GradeBad     Grade = "Bad"
	GradeNone    Grade = "None"
)

// statKeys is the canonical external stat order used by training and
// feeding deltas.
var statKeys = []string{"start", "corner", "navigate", "competing", "tenacity", "spurt"}

func getExternal(e *Externals, key string) int {
	switch key {
	case "start":
		return e.Start
	case "corner":
		return e.Corner
	case "navigate":
		return e.Navigate
	case "competing":
		return e.Competing
	case "tenacity":
		return e.Tenacity
	default:
		return e.Spurt
	}
}

func setExternal(e *Externals, key string, v int) {
	switch key {
	case "start":
		e.Start = v
	case "corner":
		e.Corner = v
	case "navigate":
		e.Navigate = v
	case "competing":
		e.Competing = v
	case "tenacity":
		e.Tenacity = v
	default:
		e.Spurt = v
	}
}

// Training is one menu entry: primary stats dominate the session budget,
// secondaries pick up the rest.
type Training struct {
	Name      string
	Primary   []string
	Secondary []string
}

// Trainings is the ten-entry training menu.
var Trainings = []Training{
	{"Pool", []string{"tenacity"}, []string{"competing"}},
	{"Solo Turf/Start", []string{"start"}, []string{"navigate"}},
	{"Solo Wood/Corner", []string{"corner"}, []string{"competing"}},
	{"Solo Dirt/Tenacity", []string{"tenacity"}, []string{"competing"}},
	{"Solo Slope/Spurt", []string{"spurt"}, []string{"tenacity"}},
	{"Co-op Turf Start/Comp", []string{"start", "competing"}, []string{"navigate"}},
	{"Co-op Dirt Ten/Nav", []string{"tenacity", "navigate"}, []string{"competing"}},
	{"Co-op Wood Corner/Nav", []string{"corner", "navigate"}, []string{"competing"}},
	{"Co-op Slope Spurt/Comp", []string{"spurt", "competing"}, []string{"tenacity"}},
	{"Rest", nil, nil},
}

// PacePlans are the rider instructions chosen before a session.
var PacePlans = []string{"Early Push", "Even", "Late Push"}

// PreferredPlans returns the pace plans that suit a training for a given
// running style: early types want Early Push on break work, closers want
// Late Push on spurt work, Almighty prefers Even.
func PreferredPlans(t Training, style Style) []string {
	if style == Almighty {
		return []string{"Even"}
	}
	early := style == FrontRunner || style == StartDash
	late := style == LastSpurt || style == StretchRunner

	has := func(key string) bool {
		for _, p := range t.Primary {
			if p == key {
				return true
			}
		}
		return false
	}

	switch {
	case has("start") || has("navigate"):
		if early {
			return []string{"Early Push", "Even"}
		}
		if late {
			return []string{"Even", "Late Push"}
		}
	case has("spurt"):
		if late {
			return []string{"Late Push", "Even"}
		}
		if early {
			return []string{"Even", "Early Push"}
		}
	}
	return []string{"Even"}
}

// GradeFromMinigame rolls the session grade. Matching a preferred pace plan
// tilts the distribution toward the better grades; Perfect and Bad stay
// rare either way.
func GradeFromMinigame(g *rng.RNG, playerChoice string, preferred []string) Grade {
	matched := false
	for _, p := range preferred {
		if p == playerChoice {
			matched = true
			break
		}
	}

	type gw struct {
		grade Grade
		w     float64
	}
	var weights []gw
	if matched {
		weights = []gw{{GradePerfect, 0.05}, {GradeCool, 0.15}, {GradeGreat, 0.25}, {GradeGood, 0.50}, {GradeBad, 0.05}}
	} else {
		weights = []gw{{GradePerfect, 0.05}, {GradeCool, 0.10}, {GradeGreat, 0.20}, {GradeGood, 0.60}, {GradeBad, 0.05}}
	}

	r := g.Float64()
	acc := 0.0
	for _, w := range weights {
		acc += w.w
		if r <= acc {
			return w.grade
		}
	}
	return weights[len(weights)-1].grade
}

// scaleDeltaForDiminishing tapers growth near the external cap so stats
// crawl over the last few points instead of jumping.
func scaleDeltaForDiminishing(val, delta int) int {
	if delta == 0 {
		return 0
	}
	mag := delta
	sign := 1
	if delta < 0 {
		mag = -delta
		sign = -1
	}
	switch {
	case val >= 46:
		mag = max(1, mag/4)
	case val >= 42:
		mag = max(1, mag/2)
	}
	return sign * mag
}

func applyDelta(val, delta int) int {
	return clampInt(val+delta, ExtMin, ExtMax)
}

// TrainingResult reports a completed session and the per-stat deltas that
// were actually applied after clamping.
type TrainingResult struct {
	TrainingID   int
	TrainingName string
	Grade        Grade
	Deltas       map[string]int
}

// ApplyTraining mutates the horse's externals for one session and returns
// the applied deltas. The session spends a grade-dependent point budget in
// 1-2 point packets allocated across the training's primary/secondary
// stats, with diminishing returns near the cap, plus occasional
// breakthrough and spillover rolls.
func ApplyTraining(h *Horse, trainingIndex int, grade Grade, g *rng.RNG) TrainingResult {
	t := Trainings[trainingIndex]
	deltas := make(map[string]int, len(statKeys))
	for _, k := range statKeys {
		deltas[k] = 0
	}
	res := TrainingResult{TrainingID: trainingIndex, TrainingName: t.Name, Grade: grade, Deltas: deltas}
	if grade == GradeNone {
		return res
	}

	e := &h.Externals
	bump := func(stat string, raw int) {
		cur := getExternal(e, stat)
		adj := scaleDeltaForDiminishing(cur, raw)
		nv := applyDelta(cur, adj)
		setExternal(e, stat, nv)
		deltas[stat] += nv - cur
	}

	// Rest is mostly neutral: a small recovery on the best grades, a small
	// decline on a bad one.
	if t.Name == "Rest" {
		restStats := []string{"competing", "tenacity", "navigate", "corner"}
		switch grade {
		case GradePerfect, GradeCool:
			bump(rng.Choice(g, restStats), 1)
		case GradeBad:
			bump(rng.Choice(g, restStats), -1)
		}
		return res
	}

	var budget, sign int
	switch grade {
	case GradePerfect:
		budget, sign = g.IntRange(7, 11), 1
	case GradeCool:
		budget, sign = g.IntRange(6, 10), 1
	case GradeGreat:
		budget, sign = g.IntRange(5, 8), 1
	case GradeGood:
		budget, sign = g.IntRange(3, 6), 1
	default: // Bad
		budget, sign = g.IntRange(1, 5), -1
	}

	targets := make([]string, 0, 4)
	weights := make([]float64, 0, 4)
	add := func(stat string, w float64) {
		for i, tg := range targets {
			if tg == stat {
				weights[i] += w
				return
			}
		}
		targets = append(targets, stat)
		weights = append(weights, w)
	}
	for _, s := range t.Primary {
		add(s, 4)
	}
	for _, s := range t.Secondary {
		add(s, 2)
	}

	p2ByGrade := map[Grade]float64{
		GradePerfect: 0.55, GradeCool: 0.45, GradeGreat: 0.35, GradeGood: 0.20, GradeBad: 0.25,
	}
	p2 := p2ByGrade[grade]

	remaining := budget
	for remaining > 0 {
		stat := targets[g.WeightedIndex(weights)]
		cur := getExternal(e, stat)

		// Near the taper, force 2-point packets so the budget still spends.
		var packet int
		if remaining >= 2 && cur >= 42 {
			packet = 2
		} else if remaining >= 2 && g.Float64() < p2 {
			packet = 2
		} else {
			packet = 1
		}

		bump(stat, sign*packet)
		remaining -= packet
	}

	// Breakthrough: a small chance of an extra burst on a primary stat.
	if sign > 0 && len(t.Primary) > 0 {
		btChance := map[Grade]float64{
			GradeGood: 0.08, GradeGreat: 0.12, GradeCool: 0.15, GradePerfect: 0.18,
		}[grade]
		if g.Float64() < btChance {
			extra := g.IntRange(2, 3)
			if grade == GradeCool || grade == GradePerfect {
				extra = g.IntRange(2, 4)
			}
			bump(rng.Choice(g, t.Primary), extra)
		}
	}

	// Spillover: occasional tick to a non-target stat; on a bad session it
	// is a penalty instead.
	inTargets := make(map[string]bool, len(targets))
	for _, tg := range targets {
		inTargets[tg] = true
	}
	nonTargets := make([]string, 0, len(statKeys))
	for _, k := range statKeys {
		if !inTargets[k] {
			nonTargets = append(nonTargets, k)
		}
	}
	if len(nonTargets) > 0 {
		if sign > 0 {
			soChance := map[Grade]float64{
				GradeGood: 0.20, GradeGreat: 0.25, GradeCool: 0.30, GradePerfect: 0.35,
			}[grade]
			if g.Float64() < soChance {
				bump(rng.Choice(g, nonTargets), 1)
			}
		} else if g.Float64() < 0.35 {
			bump(rng.Choice(g, nonTargets), -1)
		}
	}

	return res
}
