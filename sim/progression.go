package sim

import "github.com/padraicbc/derbysim/rng"

// GrowthResult is the internal-stat growth applied after one race.
type GrowthResult struct {
	Stamina int
	Speed   int
	Sharp   int
}

func (gr GrowthResult) Total() int { return gr.Stamina + gr.Speed + gr.Sharp }

// ApplyPostRaceGrowth rolls permanent internal growth after a race. The
// chance scales with finishing position and race tier; a G1 win carries an
// extra roll. Growth is rare on purpose, internals are mostly fixed at
// birth.
func ApplyPostRaceGrowth(globalSeed uint64, meetIter int, race RaceMeta, h *Horse, finishPos int) GrowthResult {
	g := rng.Derive(globalSeed, "GROW", race.Round, race.Slot, meetIter)

	var p, extraP float64
	switch race.Slot {
	case SlotG1:
		switch finishPos {
		case 1:
			p, extraP = 0.60, 0.20
		case 2:
			p = 0.35
		case 3:
			p = 0.25
		default:
			p = 0.10
		}
	case Slot3R:
		switch finishPos {
		case 1:
			p = 0.40
		case 2:
			p = 0.25
		case 3:
			p = 0.20
		default:
			p = 0.08
		}
	default:
		switch finishPos {
		case 1:
			p = 0.25
		case 2:
			p = 0.15
		case 3:
			p = 0.10
		default:
			p = 0.05
		}
	}

	var res GrowthResult
	keys := []string{"stamina", "speed", "sharp"}
	grow := func() {
		switch rng.Choice(g, keys) {
		case "stamina":
			h.Internals.Stamina++
			res.Stamina++
		case "speed":
			h.Internals.Speed++
			res.Speed++
		default:
			h.Internals.Sharp++
			res.Sharp++
		}
	}

	if g.Float64() < p {
		grow()
	}
	if extraP > 0 && g.Float64() < extraP {
		grow()
	}
	return res
}

// ApplyG1WinRewards credits a G1 victory: the win count feeds special-food
// unlocks and the winner is owed a guaranteed genetic food at the next
// feeding.
func ApplyG1WinRewards(h *Horse, finishPos int) bool {
	if finishPos != 1 {
		return false
	}
	h.G1Wins++
	h.PendingSuperfood = true
	return true
}
