package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

// gambleFieldSize matches the twelve-horse Gambling Chance card.
const gambleFieldSize = 12

type gambleKey struct {
	round    int
	meetIter int
}

type gambleRequest struct {
	Round    int    `json:"round"`
	MeetIter int    `json:"meetIter"`
	// Pick is a horse id from the offered field. Empty returns the field
	// and odds without settling a bet.
	Pick     string `json:"pick,omitempty"`
	Stake    int    `json:"stake,omitempty"`
	StableID int    `json:"stableID,omitempty"`
}

type gambleRunner struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Style string  `json:"style"`
	Odds  float64 `json:"odds"`
}

// gambleField returns the CPU field for a round's Gambling Chance. The
// field is selected once per (round, meetIter) and cached so the odds
// preview and the settled pick price the same horses.
func (h *Handler) gambleField(c echo.Context, round, meetIter int) ([]sim.Horse, error) {
	pool, err := h.getOrBuildPool(c, round)
	if err != nil {
		return nil, err
	}

	key := gambleKey{round, meetIter}
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.gambles[key]; ok {
		return f, nil
	}
	f, err := sim.SelectField(h.cfg.GlobalSeed, pool, sim.SlotG1, meetIter, gambleFieldSize, 0)
	if err != nil {
		return nil, err
	}
	h.gambles[key] = f
	return f, nil
}

// Gamble runs the Gambling Chance side bet on a round's G1-band CPU field.
// Without a pick it returns the card and odds; with a pick it settles the
// bet and credits any payout to the caller's stable horse.
func (h *Handler) Gamble(c echo.Context) error {
	var req gambleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Round < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "round must be a positive integer")
	}
	if req.MeetIter < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "meetIter must not be negative")
	}

	field, err := h.gambleField(c, req.Round, req.MeetIter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Odds come from the same deterministic roll whichever horse is picked,
	// so pricing the card with a placeholder pick is safe.
	pick := req.Pick
	settling := pick != ""
	if !settling {
		pick = field[0].ID
	}

	res, err := sim.RunGamblingChance(h.cfg.GlobalSeed, req.MeetIter, req.Round, sim.SlotG1, field, pick, req.Stake)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	runners := make([]gambleRunner, len(field))
	for i, hr := range field {
		runners[i] = gambleRunner{
			ID:    hr.ID,
			Name:  hr.Name,
			Style: hr.Style.String(),
			Odds:  res.Odds[hr.ID],
		}
	}

	if !settling {
		return c.JSON(http.StatusOK, map[string]any{
			"round":    req.Round,
			"meetIter": req.MeetIter,
			"runners":  runners,
		})
	}

	if res.Won && res.Payout > 0 && req.StableID != 0 {
		owner, _ := c.Get("username").(string)
		stable := &models.Stable{}
		if err := h.db.NewSelect().Model(stable).
			Where("id = ? AND owner = ?", req.StableID, owner).
			Scan(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "stable horse not found")
		}
		stable.Earnings += res.Payout
		if _, err := h.db.NewUpdate().Model(stable).WherePK().Exec(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"round":    req.Round,
		"meetIter": req.MeetIter,
		"picked":   res.PickedID,
		"winner":   res.WinnerID,
		"won":      res.Won,
		"payout":   res.Payout,
		"runners":  runners,
	})
}
