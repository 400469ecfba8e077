package sim

import (
	"math"
	"testing"
)

func gambleField(n int) []Horse {
	field := testField(n)
	for i := range field {
		// Spread strength so the odds board has favorites and outsiders.
		field[i].Internals = Internals{Stamina: 24 + i, Speed: 24 + i, Sharp: 24 + i}
		field[i].Externals = Externals{
			Start: 10 + 2*i, Corner: 10 + 2*i, Navigate: 10 + 2*i,
			Competing: 10 + 2*i, Tenacity: 10 + 2*i, Spurt: 10 + 2*i,
		}
	}
	return field
}

func TestGamblingChanceDeterministic(t *testing.T) {
	field := gambleField(12)
	a, err := RunGamblingChance(42, 0, 5, SlotG1, field, field[3].ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunGamblingChance(42, 0, 5, SlotG1, field, field[3].ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.WinnerID != b.WinnerID || a.Won != b.Won || a.Payout != b.Payout {
		t.Fatalf("replay diverged: %+v vs %+v", a, b)
	}
	for id, o := range a.Odds {
		if b.Odds[id] != o {
			t.Fatalf("odds for %s diverged", id)
		}
	}

	c, err := RunGamblingChance(43, 0, 5, SlotG1, field, field[3].ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	same := c.WinnerID == a.WinnerID
	for id, o := range a.Odds {
		if c.Odds[id] != o {
			same = false
		}
	}
	if same {
		t.Fatal("seed had no effect on the gamble")
	}
}

func TestGamblingChanceOddsShape(t *testing.T) {
	field := gambleField(12)
	res, err := RunGamblingChance(42, 0, 5, SlotG1, field, field[0].ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Odds) != len(field) {
		t.Fatalf("odds for %d runners, want %d", len(res.Odds), len(field))
	}

	// Odds are implied probabilities shaded by the house edge, so the
	// implied book sums to 1/(1-edge).
	var book float64
	for _, h := range field {
		o := res.Odds[h.ID]
		if o <= 0 {
			t.Fatalf("odds for %s not positive: %v", h.ID, o)
		}
		book += 1.0 / o
	}
	if want := 1.0 / (1.0 - gambleHouseEdge); math.Abs(book-want) > 1e-6 {
		t.Fatalf("implied book %v, want %v", book, want)
	}

	// The strongest horse should be priced shorter than the weakest.
	if res.Odds[field[len(field)-1].ID] >= res.Odds[field[0].ID] {
		t.Fatalf("favorite %v not shorter than outsider %v",
			res.Odds[field[len(field)-1].ID], res.Odds[field[0].ID])
	}
}

func TestGamblingChanceWinnerInField(t *testing.T) {
	field := gambleField(8)
	for seed := uint64(0); seed < 50; seed++ {
		res, err := RunGamblingChance(seed, 0, 3, SlotG1, field, field[0].ID, 0)
		if err != nil {
			t.Fatal(err)
		}
		ok := false
		for _, h := range field {
			if h.ID == res.WinnerID {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("seed %d: winner %s not in field", seed, res.WinnerID)
		}
	}
}

func TestGamblingChancePayout(t *testing.T) {
	field := gambleField(8)

	// Find a seed where the pick wins so the payout path runs.
	for seed := uint64(0); seed < 200; seed++ {
		res, err := RunGamblingChance(seed, 0, 3, SlotG1, field, field[7].ID, 50_000)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Won {
			if res.Payout != 0 {
				t.Fatalf("seed %d: losing pick paid %d", seed, res.Payout)
			}
			continue
		}
		if res.Payout <= 0 {
			t.Fatalf("seed %d: winning pick paid %d", seed, res.Payout)
		}
		if res.Payout%PurseUnit != 0 {
			t.Fatalf("seed %d: payout %d not in %d units", seed, res.Payout, PurseUnit)
		}
		want := int(math.Round(50_000*res.Odds[field[7].ID]/PurseUnit)) * PurseUnit
		if res.Payout != want {
			t.Fatalf("seed %d: payout %d, want %d", seed, res.Payout, want)
		}
		return
	}
	t.Fatal("no winning seed found in 200 tries")
}

func TestGamblingChanceRejectsBadInput(t *testing.T) {
	field := gambleField(8)
	if _, err := RunGamblingChance(42, 0, 3, SlotG1, nil, "X", 0); err == nil {
		t.Fatal("empty field accepted")
	}
	if _, err := RunGamblingChance(42, 0, 3, SlotG1, field, "no-such-horse", 0); err == nil {
		t.Fatal("unknown pick accepted")
	}
}

func TestStrengthEstimateMonotone(t *testing.T) {
	weak := gambleField(2)[0]
	strong := weak
	strong.Internals = Internals{Stamina: 40, Speed: 40, Sharp: 40}
	strong.Externals = Externals{Start: 40, Corner: 40, Navigate: 40, Competing: 40, Tenacity: 40, Spurt: 40}

	if strengthEstimate(strong, 1600, Turf, Good) <= strengthEstimate(weak, 1600, Turf, Good) {
		t.Fatal("stronger horse not rated higher")
	}
}
