package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, session string, key Key) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value
		FROM session_kv
		WHERE session_id=$1 AND key=$2
	`, session, string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, session string, key Key, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_kv (session_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
	`, session, string(key), value)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, session string, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM session_kv WHERE session_id=$1 AND key = ANY($2)`, session, names)
	return err
}
