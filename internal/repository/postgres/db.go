package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"docsense/internal/config"
)

// connMaxLifetime keeps pool connections younger than typical LB idle
// timeouts. Analyze requests can hold a connection across a long pipeline
// run, so stale connections surface as mid-request failures otherwise.
const connMaxLifetime = 30 * time.Minute

// NewDB opens the connection pool backing the analyses store.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}
