package records

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

func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) (*models.Record, error) {

	query :=
		`INSERT INTO records (id, owner_id, public_field, description, sensitive_ciphertext, integrity_tag)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.OwnerID, record.PublicField, record.Description,
		record.SensitiveCiphertext, record.IntegrityTag).Scan(&record.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Record, error) {
	query :=
		`SELECT id, owner_id, public_field, description, sensitive_ciphertext, integrity_tag, created_at FROM records
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return scanRows(rows)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query :=
		`SELECT id, owner_id, public_field, description, sensitive_ciphertext, integrity_tag, created_at FROM records
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]*models.Record, error) {
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		record := &models.Record{}
		if err := rows.Scan(&record.ID, &record.OwnerID, &record.PublicField, &record.Description,
			&record.SensitiveCiphertext, &record.IntegrityTag, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
