package sim

import "testing"

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestUnlockedSpecials(t *testing.T) {
	h := testTrainee()
	if got := UnlockedSpecials(h); len(got) != 0 {
		t.Fatalf("no wins unlocked %v", got)
	}
	h.G1Wins = 2
	if got := UnlockedSpecials(h); len(got) != 2 || got[1] != "Large Herbal Dumpling" {
		t.Fatalf("two wins unlocked %v", got)
	}
	h.G1Wins = 9
	if got := UnlockedSpecials(h); len(got) != 3 {
		t.Fatalf("unlocks must cap at three: %v", got)
	}
}

func TestBuildFoodOffering(t *testing.T) {
	h := testTrainee()
	offer := BuildFoodOffering(42, 0, 3, Slot2R, GradeGood, []string{"start"}, h, 4)
	if len(offer) != 4 {
		t.Fatalf("offer size %d", len(offer))
	}
	seen := map[string]bool{}
	for _, n := range offer {
		if seen[n] {
			t.Fatalf("duplicate offer %q", n)
		}
		seen[n] = true
		if foodTier(n) == TierSpecial {
			t.Fatalf("locked special %q offered", n)
		}
		if n == "Draft Beer" {
			t.Fatal("beer offered off a perfect session")
		}
	}

	again := BuildFoodOffering(42, 0, 3, Slot2R, GradeGood, []string{"start"}, h, 4)
	for i := range offer {
		if offer[i] != again[i] {
			t.Fatalf("offering not deterministic at %d", i)
		}
	}
}

func TestBuildFoodOfferingPerfectHasBeer(t *testing.T) {
	h := testTrainee()
	offer := BuildFoodOffering(42, 0, 3, Slot2R, GradePerfect, []string{"spurt"}, h, 4)
	if !containsName(offer, "Draft Beer") {
		t.Fatalf("perfect session offer %v lacks Draft Beer", offer)
	}
}

func TestBuildFoodOfferingPendingSuperfood(t *testing.T) {
	h := testTrainee()
	h.G1Wins = 1
	h.PendingSuperfood = true
	offer := BuildFoodOffering(42, 0, 3, Slot1R, GradeGood, nil, h, 4)
	if !containsName(offer, "Herbal Dumpling") {
		t.Fatalf("pending superfood not forced: %v", offer)
	}
}

func TestComputeFoodDeltasDeterministic(t *testing.T) {
	h := testTrainee()
	a := ComputeFoodDeltas(42, 0, 3, Slot2R, GradeGood, []string{"start"}, []string{"navigate"}, "Carrot", h)
	b := ComputeFoodDeltas(42, 0, 3, Slot2R, GradeGood, []string{"start"}, []string{"navigate"}, "Carrot", h)
	if len(a) != len(b) {
		t.Fatalf("delta sets differ: %v vs %v", a, b)
	}
	for k, v := range a {
		if b[k] != v {
			t.Fatalf("delta %s diverged: %d vs %d", k, v, b[k])
		}
	}
}

func TestFoodRewardNeverPunishesBadSession(t *testing.T) {
	h := testTrainee()
	h.G1Wins = 1
	for i := 0; i < 100; i++ {
		deltas := ComputeFoodDeltas(uint64(i), 0, 3, Slot2R, GradeBad, []string{"start"}, nil, "Herbal Dumpling", h)
		total := 0
		for _, d := range deltas {
			total += d
		}
		if total < 0 {
			t.Fatalf("seed %d: special food punished a bad session: %v", i, deltas)
		}
	}
}

func TestApplyFeedingSpecialGrantsToken(t *testing.T) {
	h := testTrainee()
	h.G1Wins = 1
	h.PendingSuperfood = true
	offer := []string{"Herbal Dumpling", "Carrot", "Apple", "Fodder"}

	res := ApplyFeeding(42, 0, 3, Slot1R, GradeGood, []string{"start"}, nil, &h, "Herbal Dumpling", offer)
	if h.GeneticTokens != 1 {
		t.Fatalf("tokens %d, want 1", h.GeneticTokens)
	}
	if h.PendingSuperfood {
		t.Fatal("pending superfood not cleared")
	}
	if res.Chosen != "Herbal Dumpling" || res.Notes == "" {
		t.Fatalf("result %+v", res)
	}
	for _, v := range externalsToArray(h.Externals) {
		if v < ExtMin || v > ExtMax {
			t.Fatalf("stat %d out of bounds", v)
		}
	}
}

func TestApplyFeedingOrdinaryFood(t *testing.T) {
	h := testTrainee()
	res := ApplyFeeding(42, 0, 3, Slot2R, GradeGood, []string{"start"}, []string{"navigate"}, &h, "Carrot", []string{"Carrot"})
	if h.GeneticTokens != 0 {
		t.Fatalf("carrot granted a token")
	}
	for k, d := range res.Deltas {
		if d != 0 && getExternal(&h.Externals, k) < ExtMin {
			t.Fatalf("%s below floor", k)
		}
	}
}
