package sim

import (
	"testing"

	"github.com/padraicbc/derbysim/rng"
)

func testParent(name string) Parent {
	return Parent{
		Name: name, Stamina: 30, Speed: 30, Sharp: 30, Affinity: 128,
		Start: 8, Corner: 8, Navigate: 8, Competing: 8, Tenacity: 8, Spurt: 8,
	}
}

func TestBreedInternalsFloorMean(t *testing.T) {
	sire := testParent("sire")
	dam := testParent("dam")
	g := rng.Derive(uint64(42), "BREED", "case")
	foal := Breed(sire, dam, g, DefaultBirthCap, 0, 0)
	if foal.Internals != (Internals{Stamina: 30, Speed: 30, Sharp: 30}) {
		t.Fatalf("internals = %+v, want exact parent mean", foal.Internals)
	}

	sire.Stamina, dam.Stamina = 31, 30
	foal = Breed(sire, dam, rng.Derive(uint64(42), "BREED", "case2"), DefaultBirthCap, 0, 0)
	if foal.Internals.Stamina != 30 {
		t.Fatalf("odd sum must floor: got %d", foal.Internals.Stamina)
	}
}

func TestBreedDeterministic(t *testing.T) {
	sire := testParent("sire")
	sire.Start, sire.Spurt = 14, 12
	dam := testParent("dam")
	dam.Tenacity = 15

	a := Breed(sire, dam, rng.Derive(uint64(7), "BREED", 1), DefaultBirthCap, 2, 1)
	b := Breed(sire, dam, rng.Derive(uint64(7), "BREED", 1), DefaultBirthCap, 2, 1)
	if a != b {
		t.Fatalf("same derived stream diverged:\n%+v\n%+v", a, b)
	}

	c := Breed(sire, dam, rng.Derive(uint64(7), "BREED", 2), DefaultBirthCap, 2, 1)
	if a == c {
		t.Fatal("different stream produced identical foal")
	}
}

func TestBreedExternalBounds(t *testing.T) {
	sire := testParent("sire")
	dam := testParent("dam")
	// Ceiling parents including the pedigree max of 16.
	sire.Start, sire.Corner, sire.Navigate, sire.Competing, sire.Tenacity, sire.Spurt = 16, 16, 16, 16, 16, 16
	dam.Start, dam.Corner, dam.Navigate, dam.Competing, dam.Tenacity, dam.Spurt = 16, 16, 16, 16, 16, 16

	for i := 0; i < 200; i++ {
		foal := Breed(sire, dam, rng.Derive(uint64(99), "BREED", i), DefaultBirthCap, 3, 3)
		for _, v := range externalsToArray(foal.Externals) {
			if v < ExtMin || v > ExtMax {
				t.Fatalf("iter %d: external %d out of [%d,%d]", i, v, ExtMin, ExtMax)
			}
		}
		if foal.Affinity < 0 || foal.Affinity > 255 {
			t.Fatalf("iter %d: affinity %d out of range", i, foal.Affinity)
		}
	}
}

func TestBreedHonorsBirthCap(t *testing.T) {
	sire := testParent("sire")
	dam := testParent("dam")
	sire.Start, sire.Corner, sire.Navigate, sire.Competing, sire.Tenacity, sire.Spurt = 16, 16, 16, 16, 16, 16
	dam.Start, dam.Corner, dam.Navigate, dam.Competing, dam.Tenacity, dam.Spurt = 16, 16, 16, 16, 16, 16

	const cap = 120
	for i := 0; i < 200; i++ {
		foal := Breed(sire, dam, rng.Derive(uint64(5), "CAP", i), cap, 0, 0)
		if s := foal.Externals.Sum(); s > cap {
			t.Fatalf("iter %d: external sum %d exceeds cap %d", i, s, cap)
		}
	}
}

func TestBreedTokensRaiseCap(t *testing.T) {
	sire := testParent("sire")
	dam := testParent("dam")
	sire.Start, sire.Corner, sire.Navigate, sire.Competing, sire.Tenacity, sire.Spurt = 16, 16, 16, 16, 16, 16
	dam.Start, dam.Corner, dam.Navigate, dam.Competing, dam.Tenacity, dam.Spurt = 16, 16, 16, 16, 16, 16

	// With max tokens the effective cap is DefaultBirthCap+20 but never the
	// hard ceiling's worth more.
	for i := 0; i < 200; i++ {
		foal := Breed(sire, dam, rng.Derive(uint64(6), "TOK", i), DefaultBirthCap, 6, 6)
		if s := foal.Externals.Sum(); s > DefaultBirthCap+20 || s > capHardCeiling {
			t.Fatalf("iter %d: tokened sum %d over adjusted cap", i, s)
		}
	}
}

func TestEnforceBirthCap(t *testing.T) {
	out := [6]int{48, 48, 48, 48, 48, 48}
	enforceBirthCap(&out, 160)
	sum := 0
	for _, v := range out {
		if v < ExtMin {
			t.Fatalf("stat driven below floor: %v", out)
		}
		sum += v
	}
	if sum > 160 {
		t.Fatalf("sum %d exceeds cap", sum)
	}

	// Already under cap: untouched.
	out = [6]int{10, 10, 10, 10, 10, 10}
	enforceBirthCap(&out, 160)
	if out != [6]int{10, 10, 10, 10, 10, 10} {
		t.Fatalf("under-cap set modified: %v", out)
	}

	// Cap below the all-floor minimum: converges to the floor, not an
	// infinite loop.
	out = [6]int{48, 48, 48, 48, 48, 48}
	enforceBirthCap(&out, 10)
	for _, v := range out {
		if v != ExtMin {
			t.Fatalf("impossible cap should floor everything: %v", out)
		}
	}
}

func TestDeriveStyle(t *testing.T) {
	cases := []struct {
		name string
		e    Externals
		want Style
	}{
		{"uniform", Externals{20, 20, 20, 20, 20, 20}, Almighty},
		{"spread three", Externals{20, 40, 22, 21, 23, 20}, Almighty},
		{"front runner", Externals{40, 20, 20, 20, 20, 20}, FrontRunner},
		{"start dash", Externals{30, 20, 40, 20, 20, 20}, StartDash},
		{"last spurt", Externals{30, 20, 40, 40, 20, 20}, LastSpurt},
		{"stretch runner", Externals{20, 20, 40, 40, 40, 20}, StretchRunner},
	}
	for _, tc := range cases {
		if got := DeriveStyle(tc.e); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}
