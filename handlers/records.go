package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

// loadRecords materializes the stored national records as the sim core's
// record table.
func (h *Handler) loadRecords(ctx context.Context) (sim.RecordTable, error) {
	var rows []models.TrackRecord
	if err := h.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, err
	}
	table := sim.RecordTable{}
	for _, r := range rows {
		table[sim.RecordKey(r.CourseCode, r.Distance, sim.Surface(r.Surface))] = sim.RecordEntry{
			TimeSeconds: r.TimeSeconds,
			Holder:      r.Holder,
		}
	}
	return table, nil
}

// saveRecord upserts one record row. Called only after UpdateIfBroken (or
// Ensure) accepted the time, so the write is unconditional.
func (h *Handler) saveRecord(ctx context.Context, courseCode string, distance int, surface sim.Surface, e sim.RecordEntry) error {
	row := &models.TrackRecord{
		CourseCode:  courseCode,
		Distance:    distance,
		Surface:     string(surface),
		TimeSeconds: e.TimeSeconds,
		Holder:      e.Holder,
	}
	_, err := h.db.NewInsert().Model(row).
		On("CONFLICT (course_code, distance, surface) DO UPDATE SET time_seconds = EXCLUDED.time_seconds, holder = EXCLUDED.holder").
		Exec(ctx)
	return err
}

// RecordsReset wipes every stored national record. Fresh records are
// synthesized from par times the next time each course is raced. Admin only.
func (h *Handler) RecordsReset(c echo.Context) error {
	requester, _ := c.Get("username").(string)
	if !h.isAdminUser(requester) {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}

	res, err := h.db.NewDelete().Model((*models.TrackRecord)(nil)).Where("1=1").Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	n, _ := res.RowsAffected()
	return c.JSON(http.StatusOK, map[string]int64{"deleted": n})
}

// Records returns all national records, fastest first within each course.
func (h *Handler) Records(c echo.Context) error {
	var rows []models.TrackRecord
	if err := h.db.NewSelect().Model(&rows).
		OrderExpr("tr.course_code ASC, tr.distance ASC, tr.surface ASC").
		Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}
