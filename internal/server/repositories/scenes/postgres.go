package scenes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/dbx"
	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, roomID string) (*models.SceneRecord, error) {
	query := `SELECT room_id, fingerprint, payload, updated_at FROM scenes WHERE room_id = $1`

	rec := &models.SceneRecord{}
	var fp int64
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(&rec.RoomID, &fp, &rec.Payload, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	rec.Fingerprint = uint64(fp)
	return rec, nil
}

// Upsert runs the precondition check and the write in one transaction, with
// the current row locked, so concurrent writers serialize on the row and the
// loser sees a clean conflict.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.SceneRecord, expected uint64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		var current uint64
		var fp int64
		err := tx.QueryRowContext(ctx,
			`SELECT fingerprint FROM scenes WHERE room_id = $1 FOR UPDATE`, rec.RoomID).Scan(&fp)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			current = 0
		case err != nil:
			return fmt.Errorf("error performing sql request: %w", err)
		default:
			current = uint64(fp)
		}

		if current != expected {
			return common.ErrVersionConflict
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO scenes (room_id, fingerprint, payload, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (room_id)
			 DO UPDATE SET fingerprint = EXCLUDED.fingerprint, payload = EXCLUDED.payload, updated_at = now()`,
			rec.RoomID, int64(rec.Fingerprint), rec.Payload)
		if err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}

		return nil
	})
}
