package sim

import (
	"fmt"
	"math"
	"sort"
)

// Time conversion constants.
const (
	baselineOverhead  = 2.00 // seconds above record for a par winning run
	secondsPerSD      = 0.55 // time spread per 1 sd of score advantage
	winnerClampBelow  = 0.25 // winner may run at most this far under record
	winnerClampAbove  = 8.00 // ...and this far over it
	maxGapSeconds     = 10.0
	SecondsPerLength  = 0.20
	condStepPer1600   = 0.55 // added seconds per wetness step at a mile
)

// RunnerResult is one competitor's timed finishing line.
type RunnerResult struct {
	Pos           int
	HorseID       string
	HorseName     string
	TimeSeconds   float64
	LengthsBehind float64
}

// TimedRace is a race converted from relative scores to absolute times.
type TimedRace struct {
	Runners      []RunnerResult
	WinnerTime   float64
	RecordBroken bool
	Record       RecordEntry
}

// FormatTime renders seconds as m:ss.hh.
func FormatTime(seconds float64) string {
	m := int(seconds) / 60
	s := seconds - float64(60*m)
	return fmt.Sprintf("%d:%05.2f", m, s)
}

// ConditionTimePenalty is the seconds added to the baseline winning time by
// going, ordered per surface (turf slows from GOOD, dirt from SOFT) and
// scaled by distance.
func ConditionTimePenalty(surface Surface, cond Condition, distance int) float64 {
	var order [4]Condition
	if surface == Turf {
		order = [4]Condition{Good, GoodToSoft, Soft, Heavy}
	} else {
		order = [4]Condition{Soft, Heavy, GoodToSoft, Good}
	}
	step := 0
	for i, c := range order {
		if c == cond {
			step = i
			break
		}
	}
	return float64(step) * condStepPer1600 * (float64(distance) / 1600.0)
}

// ParTimeSeconds synthesizes a baseline record when none is known: roughly
// 17 m/s on turf, 16.6 m/s on dirt.
func ParTimeSeconds(distance int, surface Surface) float64 {
	v := 17.0
	if surface == Dirt {
		v = 16.6
	}
	return float64(distance) / v
}

// TimedResults maps relative race scores onto absolute times and length
// margins anchored to the track record, and updates the record table when a
// record run occurs under the surface's fastest condition. The winner's
// time is clamped to a band around the record and all gaps are re-anchored
// to it, with a cap on the maximum gap.
func TimedResults(race RaceMeta, cond Condition, finishOrder []Horse, scores map[string]float64, records RecordTable) (*TimedRace, error) {
	if len(finishOrder) == 0 {
		return nil, fmt.Errorf("sim: timed results %s %dm: empty finish order", race.CourseCode, race.Distance)
	}

	rec := records.Ensure(race.CourseCode, race.Distance, race.Surface,
		ParTimeSeconds(race.Distance, race.Surface), "N/A")

	fastness := ConditionSpeedScalar(race.Surface, cond)
	base := rec.TimeSeconds + baselineOverhead
	base += ConditionTimePenalty(race.Surface, cond, race.Distance)
	base *= 1.0 - 0.25*fastness

	// Score spread -> time spread.
	var mu float64
	for _, h := range finishOrder {
		mu += scores[h.ID]
	}
	mu /= float64(len(finishOrder))
	var variance float64
	for _, h := range finishOrder {
		d := scores[h.ID] - mu
		variance += d * d
	}
	variance /= float64(len(finishOrder))
	sd := 1.0
	if variance > 1e-9 {
		sd = math.Sqrt(variance)
	}

	type timed struct {
		h Horse
		t float64
	}
	raw := make([]timed, 0, len(finishOrder))
	minT := math.Inf(1)
	for _, h := range finishOrder {
		z := (scores[h.ID] - mu) / sd
		t := base - secondsPerSD*z
		raw = append(raw, timed{h, t})
		if t < minT {
			minT = t
		}
	}

	winnerTime := clampFloat(minT, rec.TimeSeconds-winnerClampBelow, rec.TimeSeconds+winnerClampAbove)

	// Re-anchor so the winner matches the clamped time; compress extremes.
	for i := range raw {
		gap := clampFloat(raw[i].t-minT, 0.0, maxGapSeconds)
		raw[i].t = winnerTime + gap
	}
	sort.SliceStable(raw, func(a, b int) bool { return raw[a].t < raw[b].t })

	runners := make([]RunnerResult, len(raw))
	for i, r := range raw {
		runners[i] = RunnerResult{
			Pos:           i + 1,
			HorseID:       r.h.ID,
			HorseName:     r.h.Name,
			TimeSeconds:   r.t,
			LengthsBehind: (r.t - winnerTime) / SecondsPerLength,
		}
	}

	// Records fall only on the fastest going for the surface; a "record"
	// in the slop would be nonsense.
	broken := false
	entry := rec
	if cond == FastestCondition(race.Surface) {
		broken, entry = records.UpdateIfBroken(race.CourseCode, race.Distance, race.Surface, winnerTime, runners[0].HorseName)
	}

	return &TimedRace{
		Runners:      runners,
		WinnerTime:   winnerTime,
		RecordBroken: broken,
		Record:       entry,
	}, nil
}
