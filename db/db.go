package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/derbysim/config"
	"github.com/padraicbc/derbysim/models"
	"github.com/padraicbc/derbysim/sim"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Track)(nil),
		(*models.TrackRecord)(nil),
		(*models.Parent)(nil),
		(*models.Stable)(nil),
		(*models.RaceResult)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'track_records_no_dupes') THEN ALTER TABLE track_records ADD CONSTRAINT track_records_no_dupes UNIQUE (course_code, distance, surface); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'stables_no_dupes') THEN ALTER TABLE stables ADD CONSTRAINT stables_no_dupes UNIQUE (owner, horse_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_results_no_dupes') THEN ALTER TABLE race_results ADD CONSTRAINT race_results_no_dupes UNIQUE (global_seed, round, slot, meet_iter); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return seedTracks(ctx, db)
}

// seedTracks fills the track registry from the schedule's track set.
// Idempotent: existing rows are left alone.
func seedTracks(ctx context.Context, db *bun.DB) error {
	tracks := make([]models.Track, 0, len(sim.TrackToCode))
	for name, code := range sim.TrackToCode {
		tracks = append(tracks, models.Track{Name: name, Code: code})
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Name < tracks[j].Name })

	_, err := db.NewInsert().Model(&tracks).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}
