// Package sim implements the deterministic racing core: breeding, strength
// rating, round-pool generation, field selection, race simulation and
// time/margin conversion.
//
// Every function is a pure computation over its explicit inputs. The only
// mutable state is the per-pool used-id tracking and the record table, both
// owned by the caller. All randomness is drawn from disposable rng.RNG
// instances derived from the global seed plus full call context, so any
// logical step reproduces exactly.
package sim

import "fmt"

// Sex of a horse.
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
)

// Surface is one of the two track surfaces.
type Surface string

const (
	Turf Surface = "TURF"
	Dirt Surface = "DIRT"
)

// Condition is the track going, ordered from driest to wettest.
type Condition int

const (
	Good Condition = iota
	GoodToSoft
	Soft
	Heavy
)

var conditionNames = [...]string{"GOOD", "GOOD_TO_SOFT", "SOFT", "HEAVY"}

func (c Condition) String() string {
	if c < Good || c > Heavy {
		return fmt.Sprintf("Condition(%d)", int(c))
	}
	return conditionNames[c]
}

// ParseCondition converts a stored condition name back to its enum value.
func ParseCondition(s string) (Condition, error) {
	for i, n := range conditionNames {
		if n == s {
			return Condition(i), nil
		}
	}
	return Good, fmt.Errorf("sim: unknown condition %q", s)
}

// Style is a horse's running-style classification, fixed at birth.
type Style int

const (
	FrontRunner Style = iota // leads from the gate
	StartDash                // early speed, settles just off the lead
	LastSpurt                // saves ground, one late run
	StretchRunner            // far back, sustained late drive
	Almighty                 // no pronounced tempo bias
)

var styleCodes = [...]string{"FR", "SD", "LS", "SR", "AL"}

func (s Style) String() string {
	if s < FrontRunner || s > Almighty {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleCodes[s]
}

// ParseStyle converts a stored style code back to its enum value.
func ParseStyle(code string) (Style, error) {
	for i, c := range styleCodes {
		if c == code {
			return Style(i), nil
		}
	}
	return Almighty, fmt.Errorf("sim: unknown style %q", code)
}

// Internals are the three core, rarely-changing attributes. They have no
// fixed cap at the type level; gameplay bounds them in practice.
type Internals struct {
	Stamina int
	Speed   int
	Sharp   int
}

// Sum returns stamina+speed+sharp.
func (i Internals) Sum() int { return i.Stamina + i.Speed + i.Sharp }

// External stat bounds during a racing career.
const (
	ExtMin = 8
	ExtMax = 48
)

// Externals are the six trainable skill stats, each held in [ExtMin, ExtMax]
// after any mutation.
type Externals struct {
	Start     int // gate break
	Corner    int // cornering
	Navigate  int // finding clear runs in traffic
	Competing int // head-to-head battles
	Tenacity  int // sustained effort
	Spurt     int // finishing kick
}

// Sum returns the total of the six stats.
func (e Externals) Sum() int {
	return e.Start + e.Corner + e.Navigate + e.Competing + e.Tenacity + e.Spurt
}

// Horse is a competitor. Externals mutate over a career, internals rarely
// (post-race growth); style and affinity are fixed at birth.
type Horse struct {
	ID        string
	Name      string
	Sex       Sex
	Style     Style
	Affinity  int // 0..255; low favors turf, high favors dirt
	Internals Internals
	Externals Externals

	// RatingBase is the strength rating computed against the pool this
	// horse was generated in. It is only meaningful relative to that pool.
	RatingBase float64

	// GeneticTokens and G1Wins are breeding/progression currency.
	GeneticTokens int
	G1Wins        int

	// PendingSuperfood marks a freshly minted G1 winner who is owed a
	// guaranteed genetic food at the next feeding.
	PendingSuperfood bool
}

// Parent is an immutable breeding-scale snapshot used only as breeding
// input. Externals here are on the pedigree scale [0,16].
type Parent struct {
	Name      string
	Stamina   int
	Speed     int
	Sharp     int
	Affinity  int
	Start     int
	Corner    int
	Navigate  int
	Competing int
	Tenacity  int
	Spurt     int
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
