package sim

import "math"

// Rating blend weights: externals slightly outweigh internals.
const (
	ratingExtWeight = 0.55
	ratingIntWeight = 0.45
)

// PoolIntStats returns the mean and standard deviation of internal-stat sums
// across a population. The deviation floors at 1.0 so degenerate pools
// (size <= 1 or zero variance) never divide by zero downstream.
func PoolIntStats(horses []Horse) (mean, sd float64) {
	n := len(horses)
	if n == 0 {
		return 0, 1.0
	}
	var sum float64
	for _, h := range horses {
		sum += float64(h.Internals.Sum())
	}
	mean = sum / float64(n)

	var acc float64
	for _, h := range horses {
		d := float64(h.Internals.Sum()) - mean
		acc += d * d
	}
	variance := acc / float64(n)
	if variance > 1e-9 {
		sd = math.Sqrt(variance)
	} else {
		sd = 1.0
	}
	return mean, sd
}

// Rating normalizes a horse against a population's internal distribution
// into a single comparable score. It blends the externals total as a
// percentage of its possible range with a z-scored, rescaled internal total.
// A rating is only meaningful within the population whose stats are passed
// in; ratings from different pools must not be compared.
func Rating(h Horse, poolIntMean, poolIntSD float64) float64 {
	extPct := float64(h.Externals.Sum()-6*ExtMin) / float64(6*ExtMax-6*ExtMin) * 100.0
	z := (float64(h.Internals.Sum()) - poolIntMean) / poolIntSD
	intScaled := z*15.0 + 50.0
	return ratingExtWeight*extPct + ratingIntWeight*intScaled
}
