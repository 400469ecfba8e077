package handlers

import (
	"sync"

	"github.com/uptrace/bun"

	"github.com/padraicbc/derbysim/config"
	"github.com/padraicbc/derbysim/sim"
)

// Handler holds shared dependencies used by all route handlers. Round pools
// are kept in memory: they are cheap to regenerate deterministically from
// the global seed, so nothing here needs persistence. mu guards the pools
// map, the cached gamble fields and every pool's used-id state; all field
// selection goes through selectField, which takes it.
type Handler struct {
	db     *bun.DB
	JWTKey []byte
	cfg    *config.Config

	mu      sync.Mutex
	pools   map[int]*sim.RoundPool
	gambles map[gambleKey][]sim.Horse
}

// New creates a Handler with the given database connection and config.
func New(db *bun.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:      db,
		JWTKey:  cfg.JWTKey(),
		cfg:     cfg,
		pools:   make(map[int]*sim.RoundPool),
		gambles: make(map[gambleKey][]sim.Horse),
	}
}
