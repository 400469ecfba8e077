package sim

import "testing"

func TestCategorizeAffinity(t *testing.T) {
	cases := []struct {
		aff  int
		want AffinityCategory
	}{
		{0, AffTurf}, {63, AffTurf},
		{64, AffMixed}, {212, AffMixed},
		{213, AffDirtLean}, {254, AffDirtLean},
		{255, AffDirtMax},
	}
	for _, tc := range cases {
		if got := CategorizeAffinity(tc.aff); got != tc.want {
			t.Errorf("affinity %d: got %v want %v", tc.aff, got, tc.want)
		}
	}
}

func TestSurfaceFit(t *testing.T) {
	if f := SurfaceFit(10, Turf); f != 0.9 {
		t.Errorf("turf specialist on turf: %v", f)
	}
	if f := SurfaceFit(10, Dirt); f != -0.6 {
		t.Errorf("turf specialist on dirt: %v", f)
	}
	if f := SurfaceFit(128, Turf); f != 0.2 {
		t.Errorf("mixed on turf: %v", f)
	}
	if f := SurfaceFit(128, Dirt); f != 0.2 {
		t.Errorf("mixed on dirt: %v", f)
	}
	if f := SurfaceFit(255, Dirt); f != 1.0 {
		t.Errorf("dirt max on dirt: %v", f)
	}
	if f := SurfaceFit(255, Turf); f != -0.5 {
		t.Errorf("dirt max on turf: %v", f)
	}
}

func TestRollConditionDeterministic(t *testing.T) {
	a := RollCondition(42, 3, SlotG1, 0, Turf)
	b := RollCondition(42, 3, SlotG1, 0, Turf)
	if a != b {
		t.Fatalf("same context rolled %v and %v", a, b)
	}

	// Dirt meets should skew wetter than turf over many draws.
	turfDry, dirtDry := 0, 0
	for i := 0; i < 500; i++ {
		if c := RollCondition(42, 1, Slot1R, i, Turf); c == Good || c == GoodToSoft {
			turfDry++
		}
		if c := RollCondition(42, 1, Slot1R, i, Dirt); c == Good || c == GoodToSoft {
			dirtDry++
		}
	}
	if turfDry <= dirtDry {
		t.Fatalf("turf dry draws %d <= dirt dry draws %d", turfDry, dirtDry)
	}
}

func TestFastestCondition(t *testing.T) {
	if FastestCondition(Turf) != Good {
		t.Fatal("turf fastest going")
	}
	if FastestCondition(Dirt) != Soft {
		t.Fatal("dirt fastest going")
	}
}

func TestConditionHeavinessMonotone(t *testing.T) {
	prev := -1.0
	for _, c := range []Condition{Good, GoodToSoft, Soft, Heavy} {
		h := ConditionHeaviness(c)
		if h <= prev {
			t.Fatalf("heaviness not increasing at %v", c)
		}
		prev = h
	}
	if ConditionHeaviness(Good) != 0 || ConditionHeaviness(Heavy) != 1 {
		t.Fatal("heaviness endpoints")
	}
}

func TestConditionParseRoundTrip(t *testing.T) {
	for _, c := range []Condition{Good, GoodToSoft, Soft, Heavy} {
		got, err := ParseCondition(c.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != c {
			t.Fatalf("round trip %v -> %v", c, got)
		}
	}
	if _, err := ParseCondition("SLOP"); err == nil {
		t.Fatal("unknown condition accepted")
	}
}

func TestStyleParseRoundTrip(t *testing.T) {
	for _, s := range []Style{FrontRunner, StartDash, LastSpurt, StretchRunner, Almighty} {
		got, err := ParseStyle(s.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Fatalf("round trip %v -> %v", s, got)
		}
	}
	if _, err := ParseStyle("XX"); err == nil {
		t.Fatal("unknown style accepted")
	}
}
