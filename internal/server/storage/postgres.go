package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/scenesync/internal/server/migrations"
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/blobs"
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/scenes"
)

type PostgresManager struct {
	db     *sql.DB
	scenes scenes.Repository
	blobs  blobs.Repository
}

func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:     db,
		scenes: scenes.NewPostgresRepository(db),
		blobs:  blobs.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresManager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Scenes() scenes.Repository { return m.scenes }
func (m *PostgresManager) Blobs() blobs.Repository   { return m.blobs }
func (m *PostgresManager) Close() error              { return m.db.Close() }
