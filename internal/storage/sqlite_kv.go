package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteKV struct {
	db     *sql.DB
	prefix string
}

func NewSQLiteKV(db *sql.DB, prefix string) *SQLiteKV {
	return &SQLiteKV{db: db, prefix: prefix}
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.prefix+key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return v, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	if err := upsert(ctx, s.db, s.prefix+key, value); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.prefix+key); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Batch(ctx context.Context, muts []Mutation) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, m := range muts {
			if m.Delete {
				if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.prefix+m.Key); err != nil {
					return fmt.Errorf("kv batch delete: %w", err)
				}
				continue
			}
			if err := upsert(ctx, tx, s.prefix+m.Key, m.Value); err != nil {
				return fmt.Errorf("kv batch set: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}
