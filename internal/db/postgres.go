package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DB *sqlx.DB

const connectAttempts = 10

// InitPostgres opens the sqlx handle used for raw reads and health checks.
// The database container may still be starting, so the connection is retried.
func InitPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	var err error

	for i := 0; i < connectAttempts; i++ {
		DB, err = sqlx.ConnectContext(ctx, "postgres", dsn)
		if err == nil {
			return DB, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", connectAttempts, err)
}
