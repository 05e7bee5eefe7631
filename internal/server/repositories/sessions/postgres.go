package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (id, session_id, token, owner_id, csrf_token, expires_at)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.ID, session.SessionID, session.Token, session.OwnerID,
		session.CSRFToken, session.ExpiresAt).Scan(&session.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Find(ctx context.Context, sessionID, token string) (*models.Session, error) {
	query :=
		`SELECT id, session_id, token, owner_id, csrf_token, expires_at, created_at FROM sessions
		 WHERE session_id = $1 AND token = $2
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, sessionID, token).Scan(&session.ID, &session.SessionID,
		&session.Token, &session.OwnerID, &session.CSRFToken, &session.ExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) UpdateCSRFToken(ctx context.Context, id, csrfToken string) error {
	query :=
		`UPDATE sessions SET csrf_token = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, csrfToken)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM sessions
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
