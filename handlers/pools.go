package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

type poolHorse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Sex      string  `json:"sex"`
	Style    string  `json:"style"`
	Affinity int     `json:"affinity"`
	Rating   float64 `json:"rating"`
}

type poolData struct {
	Round  int         `json:"round"`
	Size   int         `json:"size"`
	Horses []poolHorse `json:"horses"`
}

// getOrBuildPool returns the cached round pool, generating it on first use.
// Generation is deterministic, so concurrent requests for the same round
// always agree; the lock only protects the map and the pool's used-id state.
func (h *Handler) getOrBuildPool(c echo.Context, round int) (*sim.RoundPool, error) {
	h.mu.Lock()
	if p, ok := h.pools[round]; ok {
		h.mu.Unlock()
		return p, nil
	}
	h.mu.Unlock()

	sires, dams, err := h.loadRoster(c.Request().Context())
	if err != nil {
		return nil, err
	}
	p, err := sim.BuildRoundPool(h.cfg.GlobalSeed, round, sires, dams, nil, h.cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// Another request may have built it meanwhile; both are identical.
	if existing, ok := h.pools[round]; ok {
		return existing, nil
	}
	h.pools[round] = p
	return p, nil
}

// selectField draws a race field under the handler lock. SelectField
// mutates the shared pool's used-id maps, so concurrent draws on the same
// pool must be serialized here; the core leaves that to its caller.
func (h *Handler) selectField(pool *sim.RoundPool, slot sim.Slot, meetIter, fieldSize int, bandShift float64) ([]sim.Horse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sim.SelectField(h.cfg.GlobalSeed, pool, slot, meetIter, fieldSize, bandShift)
}

func parseRound(c echo.Context) (int, error) {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "round must be a positive integer")
	}
	return round, nil
}

// Pool returns one round's competitor pool, rating-ordered strongest first.
func (h *Handler) Pool(c echo.Context) error {
	round, err := parseRound(c)
	if err != nil {
		return err
	}

	p, err := h.getOrBuildPool(c, round)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	horses := make([]poolHorse, 0, len(p.SortedIDs))
	for i := len(p.SortedIDs) - 1; i >= 0; i-- {
		hr := p.HorseByID(p.SortedIDs[i])
		horses = append(horses, poolHorse{
			ID:       hr.ID,
			Name:     hr.Name,
			Sex:      string(hr.Sex),
			Style:    hr.Style.String(),
			Affinity: hr.Affinity,
			Rating:   hr.RatingBase,
		})
	}

	return c.JSON(http.StatusOK, poolData{Round: p.Round, Size: len(p.Horses), Horses: horses})
}

// Tracks returns the track registry.
func (h *Handler) Tracks(c echo.Context) error {
	var tracks []models.Track
	if err := h.db.NewSelect().Model(&tracks).
		OrderExpr("t.name ASC").
		Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tracks)
}

// Schedule returns one round's race program with course codes and surfaces
// resolved against the stored record set.
func (h *Handler) Schedule(c echo.Context) error {
	round, err := parseRound(c)
	if err != nil {
		return err
	}

	records, err := h.loadRecords(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	races := sim.EnrichSchedule(sim.RacesForRound(round), records.SurfacesByCourse(), nil)
	return c.JSON(http.StatusOK, races)
}
