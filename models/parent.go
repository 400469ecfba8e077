package models

import "github.com/uptrace/bun"

// Parent is a retired horse on the breeding roster. External stats are on
// the pedigree scale (0-16), not the racing scale.
type Parent struct {
	bun.BaseModel `bun:"table:parents,alias:p"`

	ParentID int    `bun:"parent_id,pk,autoincrement" json:"parentID"`
	Name     string `bun:"name,notnull,unique" json:"name"`
	Sex      string `bun:"sex,notnull" json:"sex"`

	Stamina  int `bun:"stamina,notnull" json:"stamina"`
	Speed    int `bun:"speed,notnull" json:"speed"`
	Sharp    int `bun:"sharp,notnull" json:"sharp"`
	Affinity int `bun:"affinity,notnull" json:"affinity"`

	Start     int `bun:"start,notnull" json:"start"`
	Corner    int `bun:"corner,notnull" json:"corner"`
	Navigate  int `bun:"navigate,notnull" json:"navigate"`
	Competing int `bun:"competing,notnull" json:"competing"`
	Tenacity  int `bun:"tenacity,notnull" json:"tenacity"`
	Spurt     int `bun:"spurt,notnull" json:"spurt"`

	GeneticTokens int `bun:"genetic_tokens,notnull,default:0" json:"geneticTokens"`
}
