package models

import "github.com/uptrace/bun"

// User is a stable owner account with a bcrypt-hashed password. The
// username doubles as the owner key on stables and derived horse IDs.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
}
