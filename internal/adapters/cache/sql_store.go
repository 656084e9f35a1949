package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"truck-status-service/internal/platform/obs"
)

// SQLStore is a SQL-backed KVStore over the kv_cache table.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Read(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.sql.Read")(&err)

	if s.DB == nil {
		return "", false, errors.New("sql store: db is nil")
	}

	q := `
	SELECT value
    FROM kv_cache
    WHERE key = $1;
	`

	var value string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv cache: query kv_cache key=%q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Write(ctx context.Context, key string, value string) error {
	if s.DB == nil {
		return errors.New("sql store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv cache: empty key")
	}

	q := `
	INSERT INTO kv_cache (key, value, updated_at)
    VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("insert kv cache key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("sql store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_cache WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete kv cache key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) ListKeys(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, "kv.sql.ListKeys")(&err)

	if s.DB == nil {
		return nil, errors.New("sql store: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT key FROM kv_cache ORDER BY key;`)
	if err != nil {
		return nil, fmt.Errorf("list kv cache: query kv_cache table: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0, 16)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list kv cache: scan rows: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list kv cache: row iteration: %w", err)
	}

	return keys, nil
}
