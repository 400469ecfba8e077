package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// RaceResult is one completed simulated race: the full context needed to
// replay it plus the timed outcome. Runners holds the per-horse rows as
// JSON; the handlers own its shape.
type RaceResult struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	ID         int    `bun:"id,pk,autoincrement" json:"id"`
	GlobalSeed int64  `bun:"global_seed,notnull" json:"globalSeed"`
	Round      int    `bun:"round,notnull" json:"round"`
	Slot       string `bun:"slot,notnull" json:"slot"`
	MeetIter   int    `bun:"meet_iter,notnull" json:"meetIter"`

	Name       string `bun:"name" json:"name,omitempty"`
	CourseCode string `bun:"course_code,notnull" json:"courseCode"`
	Distance   int    `bun:"distance,notnull" json:"distance"`
	Surface    string `bun:"surface,notnull" json:"surface"`
	Condition  string `bun:"condition,notnull" json:"condition"`

	Runners      json.RawMessage `bun:"runners,type:jsonb,notnull" json:"runners"`
	WinnerName   string          `bun:"winner_name,notnull" json:"winnerName"`
	WinnerTime   float64         `bun:"winner_time,notnull" json:"winnerTime"`
	RecordBroken bool            `bun:"record_broken,notnull,default:false" json:"recordBroken"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
