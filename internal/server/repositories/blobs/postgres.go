package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, rec *models.BlobRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blobs (key, content_type, data, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key)
		 DO UPDATE SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = now()`,
		rec.Key, rec.ContentType, rec.Data)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.BlobRecord, error) {
	rec := &models.BlobRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, content_type, data, updated_at FROM blobs WHERE key = $1`, key).
		Scan(&rec.Key, &rec.ContentType, &rec.Data, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return rec, nil
}
