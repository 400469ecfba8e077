package models

import "github.com/uptrace/bun"

// Stable is a player-owned horse and its full mutable career state. One row
// per horse per owner; the sim core reads and writes it through the
// handlers, never directly.
type Stable struct {
	bun.BaseModel `bun:"table:stables,alias:s"`

	ID      int    `bun:"id,pk,autoincrement" json:"id"`
	Owner   string `bun:"owner,notnull" json:"owner"`
	HorseID string `bun:"horse_id,notnull" json:"horseID"`
	Name    string `bun:"name,notnull" json:"name"`
	Sex     string `bun:"sex,notnull" json:"sex"`
	Style   string `bun:"style,notnull" json:"style"`

	Affinity int `bun:"affinity,notnull" json:"affinity"`
	Stamina  int `bun:"stamina,notnull" json:"stamina"`
	Speed    int `bun:"speed,notnull" json:"speed"`
	Sharp    int `bun:"sharp,notnull" json:"sharp"`

	Start     int `bun:"start,notnull" json:"start"`
	Corner    int `bun:"corner,notnull" json:"corner"`
	Navigate  int `bun:"navigate,notnull" json:"navigate"`
	Competing int `bun:"competing,notnull" json:"competing"`
	Tenacity  int `bun:"tenacity,notnull" json:"tenacity"`
	Spurt     int `bun:"spurt,notnull" json:"spurt"`

	GeneticTokens    int  `bun:"genetic_tokens,notnull,default:0" json:"geneticTokens"`
	G1Wins           int  `bun:"g1_wins,notnull,default:0" json:"g1Wins"`
	PendingSuperfood bool `bun:"pending_superfood,notnull,default:false" json:"pendingSuperfood"`

	CareerWins  int  `bun:"career_wins,notnull,default:0" json:"careerWins"`
	CareerRaces int  `bun:"career_races,notnull,default:0" json:"careerRaces"`
	Earnings    int  `bun:"earnings,notnull,default:0" json:"earnings"`
	Retired     bool `bun:"retired,notnull,default:false" json:"retired"`
}
