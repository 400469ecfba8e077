package sim

import (
	"strconv"
	"strings"
)

// Slot is a race-difficulty tier within a round's six-race program.
type Slot string

const (
	Slot1R Slot = "1R"
	Slot2R Slot = "2R"
	Slot3R Slot = "3R"
	Slot4R Slot = "4R"
	Slot5R Slot = "5R"
	SlotG1 Slot = "G1"
)

// Slots lists the race program order within a round.
var Slots = []Slot{Slot1R, Slot2R, Slot3R, Slot4R, Slot5R, SlotG1}

// Band returns the percentile window [lo,hi] over a rating-sorted pool from
// which this slot's fields are drawn.
func (s Slot) Band() (lo, hi float64) {
	switch s {
	case Slot1R:
		return 0.20, 0.80
	case Slot2R:
		return 0.25, 0.85
	case Slot3R:
		return 0.50, 0.95
	case Slot4R:
		return 0.30, 0.85
	case Slot5R:
		return 0.40, 0.90
	default: // SlotG1
		return 0.65, 1.00
	}
}

// TrackToCode maps track display names to course codes used as record keys.
var TrackToCode = map[string]string{
	"Central City":  "CC",
	"Eastern City":  "EC",
	"Northern Park": "NP",
	"Southern Park": "SP",
	"Western Hills": "WH",
	"Western Hill":  "WH",
	"Harbour Downs": "HD",
}

// RaceMeta describes one scheduled race. Immutable per race instance.
type RaceMeta struct {
	Round       int
	Slot        Slot
	Track       string
	Distance    int // meters
	WinnerPurse int
	Name        string
	CourseCode  string
	Surface     Surface
}

// RoundCount is the length of the rotating race program.
const RoundCount = 16

// Schedule is the 16-round, 6-races-per-round program. Course codes and
// surfaces are filled in by EnrichSchedule against the known record set.
var Schedule = [][]RaceMeta{
	{
		{Round: 1, Slot: Slot1R, Track: "Central City", Distance: 1200, WinnerPurse: 100_000},
		{Round: 1, Slot: Slot2R, Track: "Eastern City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 1, Slot: Slot3R, Track: "Central City", Distance: 1400, WinnerPurse: 500_000},
		{Round: 1, Slot: Slot4R, Track: "Eastern City", Distance: 2000, WinnerPurse: 200_000},
		{Round: 1, Slot: Slot5R, Track: "Central City", Distance: 3000, WinnerPurse: 200_000},
		{Round: 1, Slot: SlotG1, Track: "Eastern City", Distance: 1600, WinnerPurse: 940_000, Name: "Winter Stakes"},
	},
	{
		{Round: 2, Slot: Slot1R, Track: "Northern Park", Distance: 1800, WinnerPurse: 100_000},
		{Round: 2, Slot: Slot2R, Track: "Southern Park", Distance: 2000, WinnerPurse: 200_000},
		{Round: 2, Slot: Slot3R, Track: "Northern Park", Distance: 1600, WinnerPurse: 500_000},
		{Round: 2, Slot: Slot4R, Track: "Southern Park", Distance: 1700, WinnerPurse: 200_000},
		{Round: 2, Slot: Slot5R, Track: "Northern Park", Distance: 2500, WinnerPurse: 200_000},
		{Round: 2, Slot: SlotG1, Track: "Southern Park", Distance: 1200, WinnerPurse: 940_000, Name: "Sprinters Trophy"},
	},
	{
		{Round: 3, Slot: Slot1R, Track: "Northern Park", Distance: 1600, WinnerPurse: 100_000},
		{Round: 3, Slot: Slot2R, Track: "Western Hills", Distance: 1200, WinnerPurse: 200_000},
		{Round: 3, Slot: Slot3R, Track: "Northern Park", Distance: 1800, WinnerPurse: 500_000},
		{Round: 3, Slot: Slot4R, Track: "Western Hills", Distance: 2200, WinnerPurse: 200_000},
		{Round: 3, Slot: Slot5R, Track: "Northern Park", Distance: 1800, WinnerPurse: 200_000},
		{Round: 3, Slot: SlotG1, Track: "Western Hills", Distance: 1600, WinnerPurse: 890_000, Name: "1000 Guineas"},
	},
	{
		{Round: 4, Slot: Slot1R, Track: "Central City", Distance: 1200, WinnerPurse: 100_000},
		{Round: 4, Slot: Slot2R, Track: "Northern Park", Distance: 2500, WinnerPurse: 200_000},
		{Round: 4, Slot: Slot3R, Track: "Central City", Distance: 2200, WinnerPurse: 500_000},
		{Round: 4, Slot: Slot4R, Track: "Northern Park", Distance: 1800, WinnerPurse: 200_000},
		{Round: 4, Slot: Slot5R, Track: "Central City", Distance: 3000, WinnerPurse: 200_000},
		{Round: 4, Slot: SlotG1, Track: "Northern Park", Distance: 2000, WinnerPurse: 970_000, Name: "2000 Guineas"},
	},
	{
		{Round: 5, Slot: Slot1R, Track: "Eastern City", Distance: 1600, WinnerPurse: 100_000},
		{Round: 5, Slot: Slot2R, Track: "Central City", Distance: 3000, WinnerPurse: 200_000},
		{Round: 5, Slot: Slot3R, Track: "Eastern City", Distance: 2100, WinnerPurse: 500_000},
		{Round: 5, Slot: Slot4R, Track: "Central City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 5, Slot: Slot5R, Track: "Eastern City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 5, Slot: SlotG1, Track: "Central City", Distance: 3200, WinnerPurse: 1_320_000, Name: "Spring Classic"},
	},
	{
		{Round: 6, Slot: Slot1R, Track: "Southern Park", Distance: 1800, WinnerPurse: 100_000},
		{Round: 6, Slot: Slot2R, Track: "Eastern City", Distance: 2400, WinnerPurse: 200_000},
		{Round: 6, Slot: Slot3R, Track: "Southern Park", Distance: 1700, WinnerPurse: 500_000},
		{Round: 6, Slot: Slot4R, Track: "Eastern City", Distance: 1400, WinnerPurse: 200_000},
		{Round: 6, Slot: Slot5R, Track: "Southern Park", Distance: 1200, WinnerPurse: 200_000},
		{Round: 6, Slot: SlotG1, Track: "Eastern City", Distance: 2400, WinnerPurse: 940_000, Name: "American Oaks"},
	},
	{
		{Round: 7, Slot: Slot1R, Track: "Southern Park", Distance: 1800, WinnerPurse: 100_000},
		{Round: 7, Slot: Slot2R, Track: "Eastern City", Distance: 2400, WinnerPurse: 200_000},
		{Round: 7, Slot: Slot3R, Track: "Southern Park", Distance: 1700, WinnerPurse: 500_000},
		{Round: 7, Slot: Slot4R, Track: "Eastern City", Distance: 1400, WinnerPurse: 200_000},
		{Round: 7, Slot: Slot5R, Track: "Southern Park", Distance: 1200, WinnerPurse: 200_000},
		{Round: 7, Slot: SlotG1, Track: "Eastern City", Distance: 2400, WinnerPurse: 920_000, Name: "American Derby"},
	},
	{
		{Round: 8, Slot: Slot1R, Track: "Northern Park", Distance: 1600, WinnerPurse: 100_000},
		{Round: 8, Slot: Slot2R, Track: "Western Hills", Distance: 1400, WinnerPurse: 200_000},
		{Round: 8, Slot: Slot3R, Track: "Northern Park", Distance: 1800, WinnerPurse: 500_000},
		{Round: 8, Slot: Slot4R, Track: "Western Hills", Distance: 2000, WinnerPurse: 200_000},
		{Round: 8, Slot: Slot5R, Track: "Northern Park", Distance: 2500, WinnerPurse: 200_000},
		{Round: 8, Slot: SlotG1, Track: "Western Hills", Distance: 2200, WinnerPurse: 1_320_000, Name: "Summer Grand Prix"},
	},
	{
		{Round: 9, Slot: Slot1R, Track: "Harbour Downs", Distance: 1600, WinnerPurse: 100_000},
		{Round: 9, Slot: Slot2R, Track: "Harbour Downs", Distance: 2400, WinnerPurse: 200_000},
		{Round: 9, Slot: Slot3R, Track: "Harbour Downs", Distance: 1800, WinnerPurse: 500_000},
		{Round: 9, Slot: Slot4R, Track: "Harbour Downs", Distance: 1400, WinnerPurse: 200_000},
		{Round: 9, Slot: Slot5R, Track: "Harbour Downs", Distance: 1800, WinnerPurse: 200_000},
		{Round: 9, Slot: SlotG1, Track: "Harbour Downs", Distance: 2000, WinnerPurse: 1_300_000, Name: "Super Dirt Grand Prix"},
	},
	{
		{Round: 10, Slot: Slot1R, Track: "Western Hill", Distance: 1200, WinnerPurse: 100_000},
		{Round: 10, Slot: Slot2R, Track: "Northern Park", Distance: 2500, WinnerPurse: 200_000},
		{Round: 10, Slot: Slot3R, Track: "Western Hill", Distance: 1400, WinnerPurse: 500_000},
		{Round: 10, Slot: Slot4R, Track: "Northern Park", Distance: 1200, WinnerPurse: 200_000},
		{Round: 10, Slot: Slot5R, Track: "Western Hill", Distance: 2000, WinnerPurse: 200_000},
		{Round: 10, Slot: SlotG1, Track: "Northern Park", Distance: 1200, WinnerPurse: 940_000, Name: "Sprinters Stakes"},
	},
	{
		{Round: 11, Slot: Slot1R, Track: "Western Hill", Distance: 2000, WinnerPurse: 100_000},
		{Round: 11, Slot: Slot2R, Track: "Central City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 11, Slot: Slot3R, Track: "Western Hill", Distance: 2000, WinnerPurse: 500_000},
		{Round: 11, Slot: Slot4R, Track: "Central City", Distance: 1200, WinnerPurse: 200_000},
		{Round: 11, Slot: Slot5R, Track: "Western Hill", Distance: 2200, WinnerPurse: 200_000},
		{Round: 11, Slot: SlotG1, Track: "Central City", Distance: 3000, WinnerPurse: 1_120_000, Name: "Stayers Stakes"},
	},
	{
		{Round: 12, Slot: Slot1R, Track: "Southern Park", Distance: 2000, WinnerPurse: 100_000},
		{Round: 12, Slot: Slot2R, Track: "Central City", Distance: 1400, WinnerPurse: 200_000},
		{Round: 12, Slot: Slot3R, Track: "Southern Park", Distance: 1700, WinnerPurse: 500_000},
		{Round: 12, Slot: Slot4R, Track: "Central City", Distance: 2000, WinnerPurse: 200_000},
		{Round: 12, Slot: Slot5R, Track: "Southern Park", Distance: 1200, WinnerPurse: 200_000},
		{Round: 12, Slot: SlotG1, Track: "Central City", Distance: 2000, WinnerPurse: 1_000_000, Name: "Queen Elizabeth Cup"},
	},
	{
		{Round: 13, Slot: Slot1R, Track: "Eastern City", Distance: 2000, WinnerPurse: 100_000},
		{Round: 13, Slot: Slot2R, Track: "Central City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 13, Slot: Slot3R, Track: "Eastern City", Distance: 1600, WinnerPurse: 500_000},
		{Round: 13, Slot: Slot4R, Track: "Central City", Distance: 2000, WinnerPurse: 200_000},
		{Round: 13, Slot: Slot5R, Track: "Eastern City", Distance: 2400, WinnerPurse: 200_000},
		{Round: 13, Slot: SlotG1, Track: "Central City", Distance: 1600, WinnerPurse: 940_000, Name: "Mile Championship"},
	},
	{
		{Round: 14, Slot: Slot1R, Track: "Western Hill", Distance: 1200, WinnerPurse: 100_000},
		{Round: 14, Slot: Slot2R, Track: "Eastern City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 14, Slot: Slot3R, Track: "Western Hill", Distance: 2000, WinnerPurse: 500_000},
		{Round: 14, Slot: Slot4R, Track: "Eastern City", Distance: 1400, WinnerPurse: 200_000},
		{Round: 14, Slot: Slot5R, Track: "Western Hill", Distance: 1600, WinnerPurse: 200_000},
		{Round: 14, Slot: SlotG1, Track: "Eastern City", Distance: 2100, WinnerPurse: 1_300_000, Name: "Autumn Cup Dirt"},
	},
	{
		{Round: 15, Slot: Slot1R, Track: "Central City", Distance: 1400, WinnerPurse: 100_000},
		{Round: 15, Slot: Slot2R, Track: "Eastern City", Distance: 2100, WinnerPurse: 200_000},
		{Round: 15, Slot: Slot3R, Track: "Central City", Distance: 3200, WinnerPurse: 500_000},
		{Round: 15, Slot: Slot4R, Track: "Eastern City", Distance: 1200, WinnerPurse: 200_000},
		{Round: 15, Slot: Slot5R, Track: "Central City", Distance: 1600, WinnerPurse: 200_000},
		{Round: 15, Slot: SlotG1, Track: "Eastern City", Distance: 2400, WinnerPurse: 2_500_000, Name: "International Cup"},
	},
	{
		{Round: 16, Slot: Slot1R, Track: "Northern Park", Distance: 1800, WinnerPurse: 100_000},
		{Round: 16, Slot: Slot2R, Track: "Eastern City", Distance: 2100, WinnerPurse: 200_000},
		{Round: 16, Slot: Slot3R, Track: "Harbour Downs", Distance: 2000, WinnerPurse: 500_000},
		{Round: 16, Slot: Slot4R, Track: "Harbour Downs", Distance: 1600, WinnerPurse: 200_000},
		{Round: 16, Slot: Slot5R, Track: "Harbour Downs", Distance: 1800, WinnerPurse: 200_000},
		{Round: 16, Slot: SlotG1, Track: "Harbour Downs", Distance: 2400, WinnerPurse: 2_000_000, Name: "Owners Cup"},
	},
}

// RacesForRound returns the program for a 1-based round, wrapping past the
// end so the schedule repeats as a continuous cycle.
func RacesForRound(round int) []RaceMeta {
	idx := (round - 1) % RoundCount
	if idx < 0 {
		idx += RoundCount
	}
	return Schedule[idx]
}

// EnrichSchedule fills course codes and surfaces for a round's program.
// Surface resolution: an explicit override wins; then a "Dirt" race name;
// then a record set listing exactly one surface for (course, distance);
// otherwise turf, the more common surface in the program.
func EnrichSchedule(races []RaceMeta, recordSurfaces map[string][]Surface, overrides map[Slot]Surface) []RaceMeta {
	out := make([]RaceMeta, len(races))
	for i, r := range races {
		r.CourseCode = TrackToCode[r.Track]
		r.Surface = resolveSurface(r, recordSurfaces, overrides)
		out[i] = r
	}
	return out
}

func resolveSurface(r RaceMeta, recordSurfaces map[string][]Surface, overrides map[Slot]Surface) Surface {
	if s, ok := overrides[r.Slot]; ok {
		return s
	}
	if strings.Contains(strings.ToLower(r.Name), "dirt") {
		return Dirt
	}
	key := surfaceKey(TrackToCode[r.Track], r.Distance)
	if surfs, ok := recordSurfaces[key]; ok && len(surfs) == 1 {
		return surfs[0]
	}
	return Turf
}

func surfaceKey(courseCode string, distance int) string {
	return courseCode + "|" + strconv.Itoa(distance)
}
