package models

import "github.com/uptrace/bun"

// Track is a race course in the national program.
type Track struct {
	bun.BaseModel `bun:"table:tracks,alias:t"`

	TrackID int    `bun:"track_id,pk,autoincrement" json:"trackID"`
	Name    string `bun:"name,notnull,unique" json:"name"`
	Code    string `bun:"code,notnull,unique" json:"code"`
}
