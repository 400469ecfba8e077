package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

type createParentRequest struct {
	Name     string `json:"name"`
	Sex      string `json:"sex"`
	Stamina  int    `json:"stamina"`
	Speed    int    `json:"speed"`
	Sharp    int    `json:"sharp"`
	Affinity int    `json:"affinity"`

	Start     int `json:"start"`
	Corner    int `json:"corner"`
	Navigate  int `json:"navigate"`
	Competing int `json:"competing"`
	Tenacity  int `json:"tenacity"`
	Spurt     int `json:"spurt"`

	GeneticTokens int `json:"geneticTokens"`
}

// Parents returns the breeding roster, optionally filtered by sex.
func (h *Handler) Parents(c echo.Context) error {
	sex := strings.ToUpper(strings.TrimSpace(c.QueryParam("sex")))

	var parents []models.Parent
	q := h.db.NewSelect().Model(&parents).OrderExpr("p.name ASC")
	if sex != "" {
		q = q.Where("sex = ?", sex)
	}
	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, parents)
}

// CreateParent inserts a new breeding roster entry.
func (h *Handler) CreateParent(c echo.Context) error {
	var req createParentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Sex = strings.ToUpper(strings.TrimSpace(req.Sex))

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Sex != string(sim.Male) && req.Sex != string(sim.Female) {
		return echo.NewHTTPError(http.StatusBadRequest, "sex must be M or F")
	}
	if req.Affinity < 0 || req.Affinity > 255 {
		return echo.NewHTTPError(http.StatusBadRequest, "affinity must be in 0..255")
	}
	for _, v := range []int{req.Start, req.Corner, req.Navigate, req.Competing, req.Tenacity, req.Spurt} {
		if v < 0 || v > 16 {
			return echo.NewHTTPError(http.StatusBadRequest, "pedigree stats must be in 0..16")
		}
	}

	parent := &models.Parent{
		Name: req.Name, Sex: req.Sex,
		Stamina: req.Stamina, Speed: req.Speed, Sharp: req.Sharp, Affinity: req.Affinity,
		Start: req.Start, Corner: req.Corner, Navigate: req.Navigate,
		Competing: req.Competing, Tenacity: req.Tenacity, Spurt: req.Spurt,
		GeneticTokens: req.GeneticTokens,
	}

	if _, err := h.db.NewInsert().Model(parent).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "parent already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, parent)
}

// loadRoster returns the breeding roster split into sires and dams on the
// sim core's parent type.
func (h *Handler) loadRoster(ctx context.Context) (sires, dams []sim.Parent, err error) {
	var parents []models.Parent
	if err := h.db.NewSelect().Model(&parents).OrderExpr("p.parent_id ASC").Scan(ctx); err != nil {
		return nil, nil, err
	}

	for _, p := range parents {
		sp := sim.Parent{
			Name: p.Name, Stamina: p.Stamina, Speed: p.Speed, Sharp: p.Sharp, Affinity: p.Affinity,
			Start: p.Start, Corner: p.Corner, Navigate: p.Navigate,
			Competing: p.Competing, Tenacity: p.Tenacity, Spurt: p.Spurt,
		}
		if p.Sex == string(sim.Male) {
			sires = append(sires, sp)
		} else {
			dams = append(dams, sp)
		}
	}
	if len(sires) == 0 || len(dams) == 0 {
		return nil, nil, fmt.Errorf("breeding roster needs at least one sire and one dam")
	}
	return sires, dams, nil
}

func (h *Handler) parentByID(ctx context.Context, id int) (*models.Parent, error) {
	p := &models.Parent{}
	if err := h.db.NewSelect().Model(p).Where("parent_id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
