package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

type runRaceRequest struct {
	Round    int    `json:"round"`
	Slot     string `json:"slot"`
	MeetIter int    `json:"meetIter"`
	// StableID optionally enters one of the caller's horses in the field.
	StableID int `json:"stableID,omitempty"`
}

type runnerRow struct {
	Pos           int     `json:"pos"`
	HorseID       string  `json:"horseID"`
	Name          string  `json:"name"`
	Gate          int     `json:"gate"`
	Time          string  `json:"time"`
	TimeSeconds   float64 `json:"timeSeconds"`
	LengthsBehind float64 `json:"lengthsBehind"`
	Earned        int     `json:"earned"`
}

type raceCard struct {
	Round        int         `json:"round"`
	Slot         string      `json:"slot"`
	MeetIter     int         `json:"meetIter"`
	Name         string      `json:"name,omitempty"`
	Track        string      `json:"track"`
	CourseCode   string      `json:"courseCode"`
	Distance     int         `json:"distance"`
	Surface      string      `json:"surface"`
	Condition    string      `json:"condition"`
	Record       string      `json:"record"`
	RecordHolder string      `json:"recordHolder,omitempty"`
	RecordBroken bool        `json:"recordBroken"`
	Runners      []runnerRow `json:"runners"`
}

func parseSlot(s string) (sim.Slot, error) {
	slot := sim.Slot(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range sim.Slots {
		if slot == known {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown slot %q", s)
}

// playerBandShift is the difficulty shift a player entry adds to field
// selection. Only the novice slot is handicapped; every other slot already
// prices its field through its percentile band.
func playerBandShift(slot sim.Slot, player sim.Horse, poolHorses []sim.Horse, careerWins int) float64 {
	if slot != sim.Slot1R {
		return 0.0
	}
	return sim.HandicapBandShift(player, poolHorses, careerWins)
}

// firstRun reports whether an insert stored a new row rather than hitting
// the replay constraint.
func firstRun(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RunRace simulates one scheduled race end to end: field selection, going,
// gates, simulation, timing, record and stable updates, and a persisted
// result. The first run for a (round, slot, meetIter) stores the result and
// settles any player entry; re-posting the same key neither overwrites the
// stored row nor settles again.
func (h *Handler) RunRace(c echo.Context) error {
	var req runRaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Round < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "round must be a positive integer")
	}
	slot, err := parseSlot(req.Slot)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MeetIter < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "meetIter must not be negative")
	}

	ctx := c.Request().Context()
	seed := h.cfg.GlobalSeed

	pool, err := h.getOrBuildPool(c, req.Round)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	records, err := h.loadRecords(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	races := sim.EnrichSchedule(sim.RacesForRound(req.Round), records.SurfacesByCourse(), nil)
	var race sim.RaceMeta
	found := false
	for _, r := range races {
		if r.Slot == slot {
			race, found = r, true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusBadRequest, "no race for slot")
	}
	race.Round = req.Round

	// Optional player entry takes one CPU berth and draws a handicap shift.
	var stable *models.Stable
	var player *sim.Horse
	bandShift := 0.0
	cpuN := h.cfg.FieldSize
	if req.StableID != 0 {
		owner, _ := c.Get("username").(string)
		stable = &models.Stable{}
		err := h.db.NewSelect().Model(stable).
			Where("id = ? AND owner = ?", req.StableID, owner).
			Scan(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "stable horse not found")
		}
		if stable.Retired {
			return echo.NewHTTPError(http.StatusBadRequest, "horse is retired")
		}
		ph, err := stableToSim(stable)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		player = &ph
		bandShift = playerBandShift(slot, ph, pool.Horses, stable.CareerWins)
		cpuN--
	}

	field, err := h.selectField(pool, slot, req.MeetIter, cpuN, bandShift)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if player != nil {
		field = append(field, *player)
	}

	cond := sim.RollCondition(seed, req.Round, slot, req.MeetIter, race.Surface)

	res, err := sim.SimulateRace(seed, req.MeetIter, race, cond, field, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	timed, err := sim.TimedResults(race, cond, res.Order, res.Scores, records)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if timed.RecordBroken {
		if err := h.saveRecord(ctx, race.CourseCode, race.Distance, race.Surface, timed.Record); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	payouts := sim.PursePayouts(race.WinnerPurse)

	rows := make([]runnerRow, len(timed.Runners))
	for i, rr := range timed.Runners {
		rows[i] = runnerRow{
			Pos:           rr.Pos,
			HorseID:       rr.HorseID,
			Name:          rr.HorseName,
			Gate:          res.Gates[rr.HorseID],
			Time:          sim.FormatTime(rr.TimeSeconds),
			TimeSeconds:   rr.TimeSeconds,
			LengthsBehind: rr.LengthsBehind,
			Earned:        payouts[rr.Pos],
		}
	}

	runnersJSON, err := json.Marshal(rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	result := &models.RaceResult{
		GlobalSeed:   int64(seed),
		Round:        req.Round,
		Slot:         string(slot),
		MeetIter:     req.MeetIter,
		Name:         race.Name,
		CourseCode:   race.CourseCode,
		Distance:     race.Distance,
		Surface:      string(race.Surface),
		Condition:    cond.String(),
		Runners:      runnersJSON,
		WinnerName:   timed.Runners[0].HorseName,
		WinnerTime:   timed.WinnerTime,
		RecordBroken: timed.RecordBroken,
	}
	stored, err := firstRun(h.db.NewInsert().Model(result).On("CONFLICT DO NOTHING").Exec(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Settle the player's entry only when this run actually persisted the
	// race. Replays return the identical card without paying out, growing
	// or counting the race twice.
	if stored && stable != nil && player != nil {
		if err := h.settlePlayer(c, stable, player, race, req.MeetIter, rows); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, raceCard{
		Round:        req.Round,
		Slot:         string(slot),
		MeetIter:     req.MeetIter,
		Name:         race.Name,
		Track:        race.Track,
		CourseCode:   race.CourseCode,
		Distance:     race.Distance,
		Surface:      string(race.Surface),
		Condition:    cond.String(),
		Record:       sim.FormatTime(timed.Record.TimeSeconds),
		RecordHolder: timed.Record.Holder,
		RecordBroken: timed.RecordBroken,
		Runners:      rows,
	})
}

// settlePlayer applies purse, career counters and post-race growth to the
// entered stable horse.
func (h *Handler) settlePlayer(c echo.Context, stable *models.Stable, player *sim.Horse, race sim.RaceMeta, meetIter int, rows []runnerRow) error {
	pos := 0
	earned := 0
	for _, rr := range rows {
		if rr.HorseID == player.ID {
			pos, earned = rr.Pos, rr.Earned
			break
		}
	}
	if pos == 0 {
		return fmt.Errorf("player %s missing from result rows", player.ID)
	}

	growth := sim.ApplyPostRaceGrowth(h.cfg.GlobalSeed, meetIter, race, player, pos)
	if race.Slot == sim.SlotG1 {
		sim.ApplyG1WinRewards(player, pos)
	}

	stable.CareerRaces++
	if pos == 1 {
		stable.CareerWins++
	}
	stable.Earnings += earned
	simToStable(player, stable)

	if growth.Total() > 0 {
		zap.L().Info("post-race growth",
			zap.String("horse", stable.Name),
			zap.Int("stamina", growth.Stamina),
			zap.Int("speed", growth.Speed),
			zap.Int("sharp", growth.Sharp))
	}

	_, err := h.db.NewUpdate().Model(stable).WherePK().Exec(c.Request().Context())
	return err
}

// Results returns stored race results, optionally filtered by round and slot.
func (h *Handler) Results(c echo.Context) error {
	var results []models.RaceResult
	q := h.db.NewSelect().Model(&results).
		OrderExpr("rr.round ASC, rr.slot ASC, rr.meet_iter ASC")

	if round := c.QueryParam("round"); round != "" {
		q = q.Where("round = ?", round)
	}
	if slot := c.QueryParam("slot"); slot != "" {
		s, err := parseSlot(slot)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		q = q.Where("slot = ?", string(s))
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}
