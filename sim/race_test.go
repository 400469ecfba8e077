package sim

import (
	"math"
	"testing"
)

func testRace() RaceMeta {
	return RaceMeta{
		Round: 5, Slot: SlotG1, Track: "Central City", Distance: 2000,
		WinnerPurse: 1_000_000, Name: "Test Cup", CourseCode: "CC", Surface: Turf,
	}
}

func testField(n int) []Horse {
	field := make([]Horse, 0, n)
	styles := []Style{FrontRunner, StartDash, LastSpurt, StretchRunner, Almighty}
	for i := 0; i < n; i++ {
		field = append(field, Horse{
			ID:       "H" + string(rune('A'+i)),
			Name:     "Horse " + string(rune('A'+i)),
			Sex:      Male,
			Style:    styles[i%len(styles)],
			Affinity: (i * 23) % 256,
			Internals: Internals{
				Stamina: 24 + i%8,
				Speed:   26 + (i*3)%7,
				Sharp:   25 + (i*5)%6,
			},
			Externals: Externals{
				Start:     10 + (i*7)%30,
				Corner:    12 + (i*5)%28,
				Navigate:  9 + (i*11)%32,
				Competing: 14 + (i*3)%26,
				Tenacity:  11 + (i*13)%30,
				Spurt:     10 + (i*9)%31,
			},
		})
	}
	return field
}

func TestDrawGatesPermutation(t *testing.T) {
	field := testField(11)
	gates, err := DrawGates(42, 0, testRace(), Good, field)
	if err != nil {
		t.Fatal(err)
	}
	if len(gates) != len(field) {
		t.Fatalf("gate count %d", len(gates))
	}
	seen := make([]bool, len(field)+1)
	for _, g := range gates {
		if g < 1 || g > len(field) {
			t.Fatalf("gate %d out of range", g)
		}
		if seen[g] {
			t.Fatalf("gate %d assigned twice", g)
		}
		seen[g] = true
	}

	again, err := DrawGates(42, 0, testRace(), Good, field)
	if err != nil {
		t.Fatal(err)
	}
	for id, g := range gates {
		if again[id] != g {
			t.Fatalf("gate draw not deterministic for %s", id)
		}
	}
}

func TestDrawGatesEmptyField(t *testing.T) {
	if _, err := DrawGates(42, 0, testRace(), Good, nil); err == nil {
		t.Fatal("empty field accepted")
	}
}

func TestSimulateRaceDeterministic(t *testing.T) {
	field := testField(11)
	race := testRace()

	a, err := SimulateRace(42, 0, race, Good, field, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SimulateRace(42, 0, race, Good, field, nil)
	if err != nil {
		t.Fatal(err)
	}
	for id, s := range a.Scores {
		if b.Scores[id] != s {
			t.Fatalf("score for %s diverged: %v vs %v", id, s, b.Scores[id])
		}
	}
	for i := range a.Order {
		if a.Order[i].ID != b.Order[i].ID {
			t.Fatalf("order diverged at %d", i)
		}
	}

	c, err := SimulateRace(42, 1, race, Good, field, nil)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for id, s := range a.Scores {
		if c.Scores[id] != s {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different meet iteration produced identical scores")
	}
}

func TestSimulateRaceOrderMatchesScores(t *testing.T) {
	field := testField(11)
	res, err := SimulateRace(7, 0, testRace(), GoodToSoft, field, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Order) != len(field) {
		t.Fatalf("order length %d", len(res.Order))
	}
	seen := map[string]bool{}
	for i, h := range res.Order {
		if seen[h.ID] {
			t.Fatalf("runner %s finished twice", h.ID)
		}
		seen[h.ID] = true
		if i > 0 && res.Scores[h.ID] > res.Scores[res.Order[i-1].ID] {
			t.Fatalf("order not descending by score at %d", i)
		}
	}
}

func TestSimulateRaceRejectsBadGates(t *testing.T) {
	field := testField(4)
	race := testRace()

	bad := map[string]int{field[0].ID: 1, field[1].ID: 1, field[2].ID: 2, field[3].ID: 3}
	if _, err := SimulateRace(42, 0, race, Good, field, bad); err == nil {
		t.Fatal("duplicate gate accepted")
	}

	missing := map[string]int{field[0].ID: 1, field[1].ID: 2, field[2].ID: 3}
	if _, err := SimulateRace(42, 0, race, Good, field, missing); err == nil {
		t.Fatal("missing runner gate accepted")
	}

	out := map[string]int{field[0].ID: 1, field[1].ID: 2, field[2].ID: 3, field[3].ID: 9}
	if _, err := SimulateRace(42, 0, race, Good, field, out); err == nil {
		t.Fatal("out-of-range gate accepted")
	}
}

func TestDistanceProfile(t *testing.T) {
	cases := []struct {
		dist   int
		sprint float64
	}{
		{1200, 0.75},
		{1400, 0.75},
		{1600, 0.30},
		{2000, 0.30},
		{2400, 0.15},
		{3200, 0.05},
	}
	for _, tc := range cases {
		sp, mi, st := DistanceProfile(tc.dist)
		if sp != tc.sprint {
			t.Errorf("%dm: sprint %v, want %v", tc.dist, sp, tc.sprint)
		}
		if math.Abs(sp+mi+st-1.0) > 1e-9 {
			t.Errorf("%dm: weights sum to %v", tc.dist, sp+mi+st)
		}
	}
}

func TestPaceHotness(t *testing.T) {
	if h := paceHotness([]float64{10, 10}); h != 0 {
		t.Fatalf("tiny field hotness %v", h)
	}
	if h := paceHotness([]float64{10, 10, 10, 10}); h != 0 {
		t.Fatalf("flat field hotness %v", h)
	}
	hot := paceHotness([]float64{30, 29, 28, 10, 10, 10, 10, 10, 10, 10})
	if hot <= 0 || hot > 2 {
		t.Fatalf("contested field hotness %v", hot)
	}
}

func TestSurfaceScalar(t *testing.T) {
	// Matched affinity helps; a turf specialist on heavy dirt pays more than
	// on good dirt.
	if s := surfaceScalar(10, Turf, Good); s <= 1.0 {
		t.Fatalf("turf specialist on turf: %v", s)
	}
	dry := surfaceScalar(10, Dirt, Good)
	wet := surfaceScalar(10, Dirt, Heavy)
	if dry <= wet {
		t.Fatalf("mismatch penalty should deepen with going: dry %v wet %v", dry, wet)
	}
	if dry >= 1.0 {
		t.Fatalf("mismatch should penalize: %v", dry)
	}
}

func TestGatePenalty(t *testing.T) {
	sp, mi, st := DistanceProfile(1200)
	if p := gatePenalty(1, 1, FrontRunner, Turf, sp, mi, st, 0.5); p != 0 {
		t.Fatalf("solo field penalty %v", p)
	}
	inside := gatePenalty(1, 12, FrontRunner, Turf, sp, mi, st, 0.5)
	outside := gatePenalty(12, 12, FrontRunner, Turf, sp, mi, st, 0.5)
	if outside <= inside {
		t.Fatalf("front runner should prefer inside: in %v out %v", inside, outside)
	}

	weak := gatePenalty(12, 12, FrontRunner, Turf, sp, mi, st, 0.0)
	strong := gatePenalty(12, 12, FrontRunner, Turf, sp, mi, st, 1.0)
	if strong >= weak {
		t.Fatalf("break skill should mitigate: weak %v strong %v", weak, strong)
	}
}
