package ratelimits

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Increment(ctx context.Context, sourceKey, action string, now, cutoff time.Time) (*models.RateLimitCounter, error) {

	query :=
		`INSERT INTO rate_limits (source_key, action, attempts, window_start, last_attempt_at)
         VALUES ($1, $2, 1, $3, $3)
         ON CONFLICT (source_key, action) DO UPDATE
         SET attempts = CASE WHEN rate_limits.window_start <= $4 THEN 1 ELSE rate_limits.attempts + 1 END,
             window_start = CASE WHEN rate_limits.window_start <= $4 THEN $3 ELSE rate_limits.window_start END,
             last_attempt_at = $3
		 RETURNING attempts, window_start
		 `

	counter := &models.RateLimitCounter{SourceKey: sourceKey, Action: action, LastAttemptAt: now}
	err := r.db.QueryRowContext(ctx, query, sourceKey, action, now, cutoff).
		Scan(&counter.Attempts, &counter.WindowStart)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counter, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, sourceKey, action string) error {
	query :=
		`DELETE FROM rate_limits
		 WHERE source_key = $1 AND action = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, sourceKey, action); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
