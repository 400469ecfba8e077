package models

import "github.com/uptrace/bun"

// TrackRecord is the best known time for one (course, distance, surface)
// combination.
type TrackRecord struct {
	bun.BaseModel `bun:"table:track_records,alias:tr"`

	ID          int     `bun:"id,pk,autoincrement" json:"id"`
	CourseCode  string  `bun:"course_code,notnull" json:"courseCode"`
	Distance    int     `bun:"distance,notnull" json:"distance"`
	Surface     string  `bun:"surface,notnull" json:"surface"`
	TimeSeconds float64 `bun:"time_seconds,notnull" json:"timeSeconds"`
	Holder      string  `bun:"holder,notnull,default:'N/A'" json:"holder"`
}
