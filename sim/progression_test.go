package sim

import "testing"

func TestPostRaceGrowthBounded(t *testing.T) {
	race := testRace()
	for pos := 1; pos <= 11; pos++ {
		for i := 0; i < 50; i++ {
			h := testTrainee()
			before := h.Internals.Sum()
			res := ApplyPostRaceGrowth(uint64(i), 0, race, &h, pos)
			gained := h.Internals.Sum() - before
			if gained != res.Total() {
				t.Fatalf("pos %d seed %d: result %d vs applied %d", pos, i, res.Total(), gained)
			}
			if gained < 0 || gained > 2 {
				t.Fatalf("pos %d seed %d: grew %d", pos, i, gained)
			}
			if pos > 1 && gained > 1 {
				t.Fatalf("pos %d seed %d: extra roll off a win", pos, i)
			}
		}
	}
}

func TestPostRaceGrowthDeterministic(t *testing.T) {
	race := testRace()
	h1, h2 := testTrainee(), testTrainee()
	a := ApplyPostRaceGrowth(42, 3, race, &h1, 1)
	b := ApplyPostRaceGrowth(42, 3, race, &h2, 1)
	if a != b || h1.Internals != h2.Internals {
		t.Fatalf("growth diverged: %+v vs %+v", a, b)
	}
}

func TestPostRaceGrowthTierRates(t *testing.T) {
	g1 := testRace() // SlotG1
	maiden := g1
	maiden.Slot = Slot1R

	g1Wins, maidenWins := 0, 0
	for i := 0; i < 400; i++ {
		h := testTrainee()
		if ApplyPostRaceGrowth(uint64(i), 0, g1, &h, 1).Total() > 0 {
			g1Wins++
		}
		h = testTrainee()
		if ApplyPostRaceGrowth(uint64(i), 1, maiden, &h, 1).Total() > 0 {
			maidenWins++
		}
	}
	// 60%+20% extra vs 25%: the G1 rate must clearly dominate.
	if g1Wins <= maidenWins {
		t.Fatalf("G1 growth %d not above maiden growth %d", g1Wins, maidenWins)
	}
}

func TestG1WinRewards(t *testing.T) {
	h := testTrainee()
	if ApplyG1WinRewards(&h, 2) {
		t.Fatal("runner-up rewarded")
	}
	if h.G1Wins != 0 || h.PendingSuperfood {
		t.Fatalf("state mutated on a loss: %+v", h)
	}

	if !ApplyG1WinRewards(&h, 1) {
		t.Fatal("win not rewarded")
	}
	if h.G1Wins != 1 || !h.PendingSuperfood {
		t.Fatalf("win state %+v", h)
	}
}
