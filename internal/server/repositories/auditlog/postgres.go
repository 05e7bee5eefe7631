package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.AuditEvent) error {

	query :=
		`INSERT INTO audit_log (id, actor_id, kind, description, source_addr, user_agent)
         VALUES ($1, $2, $3, $4, $5, $6)
		 `

	// system-initiated events carry no actor
	var actorID any
	if event.ActorID != "" {
		actorID = event.ActorID
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, actorID, string(event.Kind), event.Description,
		event.SourceAddr, event.UserAgent)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*models.AuditEvent, int, error) {

	where := " WHERE 1=1"
	args := []any{}

	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		where += fmt.Sprintf(" AND actor_id = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where += fmt.Sprintf(" AND kind = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_log" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := "SELECT id, actor_id, kind, description, source_addr, user_agent, created_at FROM audit_log" + where
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEvent
	for rows.Next() {
		event := &models.AuditEvent{}
		var kind string
		var actorID sql.NullString
		if err := rows.Scan(&event.ID, &actorID, &kind, &event.Description,
			&event.SourceAddr, &event.UserAgent, &event.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		event.ActorID = actorID.String
		event.Kind = models.EventKind(kind)
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}
