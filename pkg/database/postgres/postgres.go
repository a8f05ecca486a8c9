package postgres

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// Open creates a lazy connection pool for the given DSN. The ping is
// best-effort only: an unreachable store must not prevent startup, it just
// makes queries fail at call time.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("store unreachable at startup: %v (queries will fail until it comes up)", err)
	}

	return db, nil
}

func Close(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Printf("postgres close error: %v", err)
	}
}
