package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Schema holds the settings DDL. One row per key.
const Schema = `
CREATE TABLE IF NOT EXISTS settings (
    key    TEXT PRIMARY KEY,
    value  TEXT NOT NULL
);
`

const (
	keyOracleRef = "oracle_ref"
	keyThreshold = "competency_threshold"
)

// PostgresStore persists settings in PostgreSQL. Missing keys fall back to
// the defaults given at construction.
type PostgresStore struct {
	db               *sql.DB
	defaultRef       string
	defaultThreshold uint32
}

func NewPostgresStore(db *sql.DB, defaultRef string, defaultThreshold uint32) *PostgresStore {
	return &PostgresStore{db: db, defaultRef: defaultRef, defaultThreshold: defaultThreshold}
}

func (s *PostgresStore) SaveOracleRef(ctx context.Context, ref string) error {
	return s.save(ctx, keyOracleRef, ref)
}

func (s *PostgresStore) OracleRef(ctx context.Context) (string, error) {
	value, ok, err := s.load(ctx, keyOracleRef)
	if err != nil {
		return "", err
	}
	if !ok {
		return s.defaultRef, nil
	}
	return value, nil
}

func (s *PostgresStore) SaveThreshold(ctx context.Context, value uint32) error {
	return s.save(ctx, keyThreshold, strconv.FormatUint(uint64(value), 10))
}

func (s *PostgresStore) Threshold(ctx context.Context) (uint32, error) {
	value, ok, err := s.load(ctx, keyThreshold)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.defaultThreshold, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("stored threshold %q is not a uint32: %w", value, err)
	}
	return uint32(parsed), nil
}

func (s *PostgresStore) save(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return value, true, nil
}
