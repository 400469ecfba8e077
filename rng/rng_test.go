package rng

import (
	"math"
	"testing"
)

func TestDeriveSeedStable(t *testing.T) {
	a := DeriveSeed(uint64(42), "ROUND", 3)
	b := DeriveSeed(uint64(42), "ROUND", 3)
	if a != b {
		t.Fatalf("same parts gave %d and %d", a, b)
	}
	if DeriveSeed(uint64(42), "ROUND", 3) == DeriveSeed(uint64(42), "ROUND", 4) {
		t.Fatal("different context collided")
	}
	if DeriveSeed(uint64(42), "ROUND", 3) == DeriveSeed(uint64(43), "ROUND", 3) {
		t.Fatal("different seed collided")
	}
}

func TestDeriveSeedDelimited(t *testing.T) {
	if DeriveSeed("ab", "c") == DeriveSeed("a", "bc") {
		t.Fatal("component boundaries not separated")
	}
}

func TestStreamsIndependent(t *testing.T) {
	g1 := Derive(uint64(7), "A")
	g2 := Derive(uint64(7), "B")
	// Draining one stream must not change what the other produces.
	for i := 0; i < 100; i++ {
		g1.Float64()
	}
	want := Derive(uint64(7), "B")
	for i := 0; i < 10; i++ {
		if got, exp := g2.Float64(), want.Float64(); got != exp {
			t.Fatalf("draw %d: got %v want %v", i, got, exp)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	g := Derive(uint64(1), "RANGE")
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := g.IntRange(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("out of range: %d", v)
		}
		seen[v] = true
	}
	for v := 3; v <= 7; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn", v)
		}
	}
	if v := g.IntRange(5, 5); v != 5 {
		t.Fatalf("degenerate range gave %d", v)
	}
}

func TestGaussCentered(t *testing.T) {
	g := Derive(uint64(1), "GAUSS")
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		sum += g.Gauss(10.0, 2.0)
	}
	mean := sum / n
	if math.Abs(mean-10.0) > 0.1 {
		t.Fatalf("mean drifted: %v", mean)
	}
}

func TestTriNoiseBounds(t *testing.T) {
	g := Derive(uint64(1), "TRI")
	for i := 0; i < 1000; i++ {
		if v := g.TriNoise(); v < -1.0 || v > 1.0 {
			t.Fatalf("TriNoise out of range: %v", v)
		}
		if v := g.TriCentered(); v < -1.5 || v > 1.5 {
			t.Fatalf("TriCentered out of range: %v", v)
		}
	}
}

func TestShufflePermutes(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	g := Derive(uint64(9), "SHUF")
	Shuffle(g, items)
	seen := map[int]bool{}
	for _, v := range items {
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Fatalf("shuffle lost elements: %v", items)
	}
}

func TestSampleDistinct(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	g := Derive(uint64(9), "SAMPLE")
	got := Sample(g, items, 3)
	if len(got) != 3 {
		t.Fatalf("want 3 got %d", len(got))
	}
	seen := map[string]bool{}
	for _, v := range got {
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("sample repeated: %v", got)
	}
	if got := Sample(g, items, 99); len(got) != len(items) {
		t.Fatalf("oversized k: got %d", len(got))
	}
}

func TestWeightedIndex(t *testing.T) {
	g := Derive(uint64(3), "W")
	counts := [3]int{}
	for i := 0; i < 3000; i++ {
		counts[g.WeightedIndex([]float64{0, 1, 3})]++
	}
	if counts[0] != 0 {
		t.Fatalf("zero-weight index drawn %d times", counts[0])
	}
	if counts[2] <= counts[1] {
		t.Fatalf("weights not respected: %v", counts)
	}

	// All-zero weights degrade to uniform.
	if idx := g.WeightedIndex([]float64{0, 0}); idx < 0 || idx > 1 {
		t.Fatalf("uniform fallback out of range: %d", idx)
	}
}
