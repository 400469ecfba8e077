package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/rng"
	"github.com/padraicbc/derbysim/sim"
)

// stableToSim converts a stored stable row to the sim core's horse type.
func stableToSim(s *models.Stable) (sim.Horse, error) {
	style, err := sim.ParseStyle(s.Style)
	if err != nil {
		return sim.Horse{}, err
	}
	return sim.Horse{
		ID:        s.HorseID,
		Name:      s.Name,
		Sex:       sim.Sex(s.Sex),
		Style:     style,
		Affinity:  s.Affinity,
		Internals: sim.Internals{Stamina: s.Stamina, Speed: s.Speed, Sharp: s.Sharp},
		Externals: sim.Externals{
			Start: s.Start, Corner: s.Corner, Navigate: s.Navigate,
			Competing: s.Competing, Tenacity: s.Tenacity, Spurt: s.Spurt,
		},
		GeneticTokens:    s.GeneticTokens,
		G1Wins:           s.G1Wins,
		PendingSuperfood: s.PendingSuperfood,
	}, nil
}

// simToStable writes the mutable sim state back onto the stable row.
func simToStable(h *sim.Horse, s *models.Stable) {
	s.Stamina, s.Speed, s.Sharp = h.Internals.Stamina, h.Internals.Speed, h.Internals.Sharp
	s.Start, s.Corner, s.Navigate = h.Externals.Start, h.Externals.Corner, h.Externals.Navigate
	s.Competing, s.Tenacity, s.Spurt = h.Externals.Competing, h.Externals.Tenacity, h.Externals.Spurt
	s.GeneticTokens = h.GeneticTokens
	s.G1Wins = h.G1Wins
	s.PendingSuperfood = h.PendingSuperfood
}

func (h *Handler) ownedStable(c echo.Context) (*models.Stable, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	owner, _ := c.Get("username").(string)

	s := &models.Stable{}
	if err := h.db.NewSelect().Model(s).
		Where("id = ? AND owner = ?", id, owner).
		Scan(c.Request().Context()); err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "stable horse not found")
	}
	return s, nil
}

// StableHorses returns all of the caller's horses, active first.
func (h *Handler) StableHorses(c echo.Context) error {
	owner, _ := c.Get("username").(string)

	var horses []models.Stable
	if err := h.db.NewSelect().Model(&horses).
		Where("owner = ?", owner).
		OrderExpr("s.retired ASC, s.id ASC").
		Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, horses)
}

type breedRequest struct {
	SireID int    `json:"sireID"`
	DamID  int    `json:"damID"`
	Name   string `json:"name"`
}

// BreedHorse breeds a new stable horse from two roster parents. The foal is
// deterministic per (owner, name, parents): re-running the request with the
// same inputs yields the same horse, and the unique constraint keeps one row.
func (h *Handler) BreedHorse(c echo.Context) error {
	var req breedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	owner, _ := c.Get("username").(string)
	ctx := c.Request().Context()

	sireRow, err := h.parentByID(ctx, req.SireID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "sire not found")
	}
	damRow, err := h.parentByID(ctx, req.DamID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dam not found")
	}
	if sireRow.Sex != string(sim.Male) || damRow.Sex != string(sim.Female) {
		return echo.NewHTTPError(http.StatusBadRequest, "sire must be male and dam female")
	}

	toSim := func(p *models.Parent) sim.Parent {
		return sim.Parent{
			Name: p.Name, Stamina: p.Stamina, Speed: p.Speed, Sharp: p.Sharp, Affinity: p.Affinity,
			Start: p.Start, Corner: p.Corner, Navigate: p.Navigate,
			Competing: p.Competing, Tenacity: p.Tenacity, Spurt: p.Spurt,
		}
	}

	g := rng.Derive(h.cfg.GlobalSeed, "BREED", owner, req.Name, sireRow.ParentID, damRow.ParentID)
	foal := sim.Breed(toSim(sireRow), toSim(damRow), g, sim.DefaultBirthCap,
		sireRow.GeneticTokens, damRow.GeneticTokens)

	sex := sim.Male
	if g.Float64() < 0.5 {
		sex = sim.Female
	}

	horseID := fmt.Sprintf("PL-%016x", rng.DeriveSeed(h.cfg.GlobalSeed, "HORSE_ID", owner, req.Name))

	row := &models.Stable{
		Owner:   owner,
		HorseID: horseID,
		Name:    req.Name,
		Sex:     string(sex),
		Style:   foal.Style.String(),

		Affinity: foal.Affinity,
		Stamina:  foal.Internals.Stamina,
		Speed:    foal.Internals.Speed,
		Sharp:    foal.Internals.Sharp,

		Start: foal.Externals.Start, Corner: foal.Externals.Corner, Navigate: foal.Externals.Navigate,
		Competing: foal.Externals.Competing, Tenacity: foal.Externals.Tenacity, Spurt: foal.Externals.Spurt,
	}
	if _, err := h.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "horse already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, row)
}

type trainRequest struct {
	Round         int    `json:"round"`
	Slot          string `json:"slot"`
	MeetIter      int    `json:"meetIter"`
	TrainingIndex int    `json:"trainingIndex"`
	PacePlan      string `json:"pacePlan"`
}

type trainResponse struct {
	Grade        string         `json:"grade"`
	Deltas       map[string]int `json:"deltas"`
	FoodsOffered []string       `json:"foodsOffered"`
	Horse        *models.Stable `json:"horse"`
}

// TrainHorse runs one training session for a stable horse and returns the
// food offering the session earned.
func (h *Handler) TrainHorse(c echo.Context) error {
	s, err := h.ownedStable(c)
	if err != nil {
		return err
	}
	if s.Retired {
		return echo.NewHTTPError(http.StatusBadRequest, "horse is retired")
	}

	var req trainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	slot, err := parseSlot(req.Slot)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TrainingIndex < 0 || req.TrainingIndex >= len(sim.Trainings) {
		return echo.NewHTTPError(http.StatusBadRequest, "trainingIndex out of range")
	}

	horse, err := stableToSim(s)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	t := sim.Trainings[req.TrainingIndex]
	g := rng.Derive(h.cfg.GlobalSeed, "TRAIN", req.Round, slot, req.MeetIter, s.HorseID)
	grade := sim.GradeFromMinigame(g, req.PacePlan, sim.PreferredPlans(t, horse.Style))
	res := sim.ApplyTraining(&horse, req.TrainingIndex, grade, g)

	offer := sim.BuildFoodOffering(h.cfg.GlobalSeed, req.MeetIter, req.Round, slot, grade,
		t.Primary, horse, 4)

	simToStable(&horse, s)
	if _, err := h.db.NewUpdate().Model(s).WherePK().Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, trainResponse{
		Grade:        string(res.Grade),
		Deltas:       res.Deltas,
		FoodsOffered: offer,
		Horse:        s,
	})
}

type feedRequest struct {
	Round         int    `json:"round"`
	Slot          string `json:"slot"`
	MeetIter      int    `json:"meetIter"`
	TrainingIndex int    `json:"trainingIndex"`
	Grade         string `json:"grade"`
	Food          string `json:"food"`
}

// FeedHorse feeds a stable horse one item from the offering its last
// training session produced. The offering is recomputed deterministically
// to verify the chosen food was actually on the menu.
func (h *Handler) FeedHorse(c echo.Context) error {
	s, err := h.ownedStable(c)
	if err != nil {
		return err
	}
	if s.Retired {
		return echo.NewHTTPError(http.StatusBadRequest, "horse is retired")
	}

	var req feedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	slot, err := parseSlot(req.Slot)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TrainingIndex < 0 || req.TrainingIndex >= len(sim.Trainings) {
		return echo.NewHTTPError(http.StatusBadRequest, "trainingIndex out of range")
	}
	grade := sim.Grade(req.Grade)

	horse, err := stableToSim(s)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	t := sim.Trainings[req.TrainingIndex]
	offer := sim.BuildFoodOffering(h.cfg.GlobalSeed, req.MeetIter, req.Round, slot, grade,
		t.Primary, horse, 4)
	onMenu := false
	for _, f := range offer {
		if f == req.Food {
			onMenu = true
			break
		}
	}
	if !onMenu {
		return echo.NewHTTPError(http.StatusBadRequest, "food was not offered")
	}

	res := sim.ApplyFeeding(h.cfg.GlobalSeed, req.MeetIter, req.Round, slot, grade,
		t.Primary, t.Secondary, &horse, req.Food, offer)

	simToStable(&horse, s)
	if _, err := h.db.NewUpdate().Model(s).WherePK().Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chosen": res.Chosen,
		"deltas": res.Deltas,
		"notes":  res.Notes,
		"horse":  s,
	})
}

// pedigreeScale maps a racing-scale external (8-48) onto the pedigree scale
// (0-16) used by the breeding roster.
func pedigreeScale(v int) int {
	scaled := int(math.Round(float64(v-sim.ExtMin) / float64(sim.ExtMax-sim.ExtMin) * 16.0))
	if scaled < 0 {
		return 0
	}
	if scaled > 16 {
		return 16
	}
	return scaled
}

// RetireHorse retires a stable horse onto the breeding roster. Its racing
// externals collapse to pedigree scale; genetic tokens carry over.
func (h *Handler) RetireHorse(c echo.Context) error {
	s, err := h.ownedStable(c)
	if err != nil {
		return err
	}
	if s.Retired {
		return echo.NewHTTPError(http.StatusBadRequest, "horse is already retired")
	}
	ctx := c.Request().Context()

	parent := &models.Parent{
		Name: s.Name, Sex: s.Sex,
		Stamina: s.Stamina, Speed: s.Speed, Sharp: s.Sharp, Affinity: s.Affinity,
		Start:         pedigreeScale(s.Start),
		Corner:        pedigreeScale(s.Corner),
		Navigate:      pedigreeScale(s.Navigate),
		Competing:     pedigreeScale(s.Competing),
		Tenacity:      pedigreeScale(s.Tenacity),
		Spurt:         pedigreeScale(s.Spurt),
		GeneticTokens: s.GeneticTokens,
	}
	if _, err := h.db.NewInsert().Model(parent).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s.Retired = true
	if _, err := h.db.NewUpdate().Model(s).WherePK().Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"retired": true, "parent": parent})
}
