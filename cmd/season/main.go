// cmd/season/main.go
// Runs a full offline season: builds each round's pool, simulates the
// six-race program and prints the timed race cards. No database needed; a
// built-in roster is used unless -roster-size is changed.
//
// Usage:
//
//	go run ./cmd/season -seed 42 -rounds 16
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/padraicbc/derbysim/rng"
	"github.com/padraicbc/derbysim/sim"
)

func main() {
	seed := flag.Uint64("seed", 42, "global simulation seed")
	rounds := flag.Int("rounds", sim.RoundCount, "number of rounds to run")
	meetIter := flag.Int("meet", 0, "meet iteration (replay index)")
	poolSize := flag.Int("pool-size", sim.DefaultPoolSize, "CPU horses per round")
	fieldSize := flag.Int("field-size", sim.DefaultFieldSize, "runners per race")
	rosterSize := flag.Int("roster-size", 12, "built-in parents per sex")
	flag.Parse()

	sires, dams := builtinRoster(*seed, *rosterSize)
	records := sim.RecordTable{}

	for round := 1; round <= *rounds; round++ {
		pool, err := sim.BuildRoundPool(*seed, round, sires, dams, nil, *poolSize)
		if err != nil {
			log.Fatalf("round %d: build pool: %v", round, err)
		}

		races := sim.EnrichSchedule(sim.RacesForRound(round), records.SurfacesByCourse(), nil)
		for _, race := range races {
			race.Round = round

			field, err := sim.SelectField(*seed, pool, race.Slot, *meetIter, *fieldSize, 0)
			if err != nil {
				log.Fatalf("round %d %s: select field: %v", round, race.Slot, err)
			}
			cond := sim.RollCondition(*seed, round, race.Slot, *meetIter, race.Surface)

			res, err := sim.SimulateRace(*seed, *meetIter, race, cond, field, nil)
			if err != nil {
				log.Fatalf("round %d %s: simulate: %v", round, race.Slot, err)
			}
			timed, err := sim.TimedResults(race, cond, res.Order, res.Scores, records)
			if err != nil {
				log.Fatalf("round %d %s: timing: %v", round, race.Slot, err)
			}

			fmt.Println(renderCard(race, cond, timed, sim.PursePayouts(race.WinnerPurse)))
			fmt.Println()
		}
	}
}

// builtinRoster derives a deterministic synthetic breeding roster so the CLI
// runs standalone.
func builtinRoster(seed uint64, perSex int) (sires, dams []sim.Parent) {
	mk := func(g *rng.RNG, name string) sim.Parent {
		return sim.Parent{
			Name:     name,
			Stamina:  g.IntRange(22, 34),
			Speed:    g.IntRange(22, 34),
			Sharp:    g.IntRange(22, 34),
			Affinity: g.IntRange(0, 255),
			Start:    g.IntRange(4, 14), Corner: g.IntRange(4, 14), Navigate: g.IntRange(4, 14),
			Competing: g.IntRange(4, 14), Tenacity: g.IntRange(4, 14), Spurt: g.IntRange(4, 14),
		}
	}
	g := rng.Derive(seed, "ROSTER")
	for i := 0; i < perSex; i++ {
		sires = append(sires, mk(g, fmt.Sprintf("Foundation Sire %d", i+1)))
		dams = append(dams, mk(g, fmt.Sprintf("Foundation Dam %d", i+1)))
	}
	return sires, dams
}

func renderCard(race sim.RaceMeta, cond sim.Condition, timed *sim.TimedRace, payouts map[int]int) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %s | %s %dm %s (%s)",
		race.Slot, race.Name, race.Track, race.Distance, race.Surface, cond)
	b.WriteString(strings.Join(strings.Fields(title), " "))
	b.WriteByte('\n')

	if timed.Record.Holder != "" && timed.Record.Holder != "N/A" {
		fmt.Fprintf(&b, "Record: %s by %s\n", sim.FormatTime(timed.Record.TimeSeconds), timed.Record.Holder)
	} else {
		fmt.Fprintf(&b, "Record: %s\n", sim.FormatTime(timed.Record.TimeSeconds))
	}
	if timed.RecordBroken {
		fmt.Fprintf(&b, "*** NEW NATIONAL RECORD: %s by %s ***\n",
			sim.FormatTime(timed.WinnerTime), timed.Runners[0].HorseName)
	}

	b.WriteString("\nPos  Horse                         Time     Lgths   Earned\n")
	b.WriteString("---  ----------------------------  -------  -----  --------\n")
	for _, rr := range timed.Runners {
		name := rr.HorseName
		if len(name) > 28 {
			name = name[:28]
		}
		fmt.Fprintf(&b, "%3d  %-28s  %7s  %5.1f  $%8d\n",
			rr.Pos, name, sim.FormatTime(rr.TimeSeconds), rr.LengthsBehind, payouts[rr.Pos])
	}
	return b.String()
}
