package sim

import "testing"

func TestPursePayouts(t *testing.T) {
	p := PursePayouts(940_000)
	if p[1] != 940_000 {
		t.Fatalf("winner payout %d", p[1])
	}
	if p[2] != 310_000 {
		t.Fatalf("second payout %d", p[2])
	}
	if p[3] != 160_000 {
		t.Fatalf("third payout %d", p[3])
	}
	if _, ok := p[4]; ok {
		t.Fatal("fourth place paid")
	}
}

func TestPursePayoutsOrdering(t *testing.T) {
	for _, purse := range []int{100_000, 200_000, 500_000, 2_500_000} {
		p := PursePayouts(purse)
		if p[1] < p[2] || p[2] < p[3] || p[3] < 0 {
			t.Fatalf("purse %d payouts out of order: %v", purse, p)
		}
		if p[2]%PurseUnit != 0 || p[3]%PurseUnit != 0 {
			t.Fatalf("purse %d payouts off the unit: %v", purse, p)
		}
	}
}
