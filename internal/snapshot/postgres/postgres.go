// Package postgres stores the snapshot as a single jsonb row, keeping the
// one-key/one-blob contract even on a relational substrate.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dukanpos/internal/domain"
	"dukanpos/internal/snapshot"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pos_snapshot (
			key        text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pos_snapshot: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (domain.DBState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM pos_snapshot WHERE key = $1
	`, snapshot.Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		state := snapshot.DefaultState()
		if err := s.Save(ctx, state); err != nil {
			return domain.DBState{}, err
		}
		return state, nil
	}
	if err != nil {
		return domain.DBState{}, fmt.Errorf("load snapshot: %w", err)
	}

	state, err := snapshot.Import(data)
	if err != nil {
		return domain.DBState{}, err
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state domain.DBState) error {
	data, err := snapshot.Export(state)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pos_snapshot (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, snapshot.Key, data)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
