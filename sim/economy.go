package sim

import "math"

// PurseUnit is the granularity of minor-place payouts.
const PurseUnit = 10_000

// PursePayouts splits a race purse across the first three finishers: the
// winner takes the advertised purse, second a third of it and third a
// sixth, rounded to the payout unit. Positions past third earn nothing.
func PursePayouts(winnerPurse int) map[int]int {
	roundUnit := func(x float64) int {
		return int(math.Round(x/PurseUnit)) * PurseUnit
	}
	p2 := roundUnit(float64(winnerPurse) / 3.0)
	p3 := roundUnit(float64(winnerPurse) / 6.0)
	if p3 < 0 {
		p3 = 0
	}
	if p2 < p3 {
		p2 = p3
	}
	return map[int]int{1: winnerPurse, 2: p2, 3: p3}
}
