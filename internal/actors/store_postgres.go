package actors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"medgate/pkg/domain"
)

// Schema holds the registry DDL. Applied at startup and by integration
// tests; the position column carries the enumeration order so removal can
// swap the last entry into the freed slot exactly like the in-memory store.
const Schema = `
CREATE TABLE IF NOT EXISTS doctors (
    account            TEXT   PRIMARY KEY,
    specialty          TEXT   NOT NULL,
    price_per_session  BIGINT NOT NULL,
    availability       TEXT   NOT NULL,
    rating_label       TEXT   NOT NULL,
    position           BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS admins (
    account   TEXT   PRIMARY KEY,
    position  BIGINT NOT NULL
);
`

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PostgresDoctorStore persists doctor profiles in PostgreSQL.
type PostgresDoctorStore struct {
	db *sql.DB
}

func NewPostgresDoctorStore(db *sql.DB) *PostgresDoctorStore {
	return &PostgresDoctorStore{db: db}
}

func (s *PostgresDoctorStore) Save(ctx context.Context, doctor Doctor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctors (account, specialty, price_per_session, availability, rating_label, position)
		VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(position) + 1, 0) FROM doctors))`,
		doctor.Account.String(), doctor.Specialty, doctor.PricePerSession, doctor.Availability, doctor.RatingLabel,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("save doctor: %w", err)
	}
	return nil
}

func (s *PostgresDoctorStore) Find(ctx context.Context, account domain.Account) (Doctor, error) {
	var doc Doctor
	var acct string
	err := s.db.QueryRowContext(ctx, `
		SELECT account, specialty, price_per_session, availability, rating_label
		FROM doctors WHERE account = $1`, account.String(),
	).Scan(&acct, &doc.Specialty, &doc.PricePerSession, &doc.Availability, &doc.RatingLabel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Doctor{}, ErrNotFound
		}
		return Doctor{}, fmt.Errorf("find doctor: %w", err)
	}
	doc.Account = domain.Account(acct)
	return doc, nil
}

func (s *PostgresDoctorStore) Delete(ctx context.Context, account domain.Account) error {
	return swapDelete(ctx, s.db, "doctors", account)
}

func (s *PostgresDoctorStore) List(ctx context.Context) ([]domain.Account, error) {
	return listAccounts(ctx, s.db, "doctors")
}

// PostgresAdminStore persists admin profiles in PostgreSQL.
type PostgresAdminStore struct {
	db *sql.DB
}

func NewPostgresAdminStore(db *sql.DB) *PostgresAdminStore {
	return &PostgresAdminStore{db: db}
}

func (s *PostgresAdminStore) Save(ctx context.Context, admin Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (account, position)
		VALUES ($1, (SELECT COALESCE(MAX(position) + 1, 0) FROM admins))`,
		admin.Account.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func (s *PostgresAdminStore) Find(ctx context.Context, account domain.Account) (Admin, error) {
	var acct string
	err := s.db.QueryRowContext(ctx,
		`SELECT account FROM admins WHERE account = $1`, account.String(),
	).Scan(&acct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, fmt.Errorf("find admin: %w", err)
	}
	return Admin{Account: domain.Account(acct)}, nil
}

func (s *PostgresAdminStore) Delete(ctx context.Context, account domain.Account) error {
	return swapDelete(ctx, s.db, "admins", account)
}

func (s *PostgresAdminStore) List(ctx context.Context) ([]domain.Account, error) {
	return listAccounts(ctx, s.db, "admins")
}

// swapDelete removes a row and moves the highest-position row into the freed
// slot, preserving the unordered O(1) enumeration semantics.
func swapDelete(ctx context.Context, db *sql.DB, table string, account domain.Account) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var pos int64
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT position FROM %s WHERE account = $1 FOR UPDATE`, table),
		account.String(),
	).Scan(&pos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("locate %s row: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE account = $1`, table), account.String(),
	); err != nil {
		return fmt.Errorf("delete %s row: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET position = $1
		WHERE position = (SELECT MAX(position) FROM %s) AND position > $1`, table, table),
		pos,
	); err != nil {
		return fmt.Errorf("swap %s position: %w", table, err)
	}

	return tx.Commit()
}

func listAccounts(ctx context.Context, db *sql.DB, table string) ([]domain.Account, error) {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT account FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var acct string
		if err := rows.Scan(&acct); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		accounts = append(accounts, domain.Account(acct))
	}
	return accounts, rows.Err()
}
