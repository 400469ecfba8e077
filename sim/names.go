package sim

import "github.com/padraicbc/derbysim/rng"

// defaultNamePool seeds CPU horse naming when no roster-supplied pool is
// given.
var defaultNamePool = []string{
	"Silver Comet", "Thunder Boy", "Silent Storm", "Timber Country", "Runaway King", "Northern Star",
	"Eastern Legend", "Central Pride", "Western Ace", "Southern Charm", "Harbour Lightning", "Blue Horizon",
	"Golden Derby", "Rapid River", "Midnight Arrow", "Emerald Crown", "Crimson Rocket", "Lucky Stride",
}

var nameSuffixes = []string{"", " II", " III", " IV", " V", " Jr.", " Sr.", " A", " B", " C", " D"}

// RoundNames deterministically assigns poolSize display names for one
// round's generated horses. When the pool wraps, suffixes keep names unique.
func RoundNames(globalSeed uint64, round, poolSize int, basePool []string) []string {
	if len(basePool) == 0 {
		basePool = defaultNamePool
	}
	g := rng.Derive(globalSeed, "CPU_NAMES", round)
	pool := append([]string(nil), basePool...)
	rng.Shuffle(g, pool)

	out := make([]string, 0, poolSize)
	for i := 0; len(out) < poolSize; i++ {
		base := pool[i%len(pool)]
		suf := nameSuffixes[(i/len(pool))%len(nameSuffixes)]
		out = append(out, base+suf)
	}
	return out
}
