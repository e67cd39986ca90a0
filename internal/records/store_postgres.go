package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medgate/pkg/domain"
)

// Schema holds the workflow DDL. The report id sequence is never reset, so
// ids stay strictly increasing and unused ids from discarded rows are
// permanently retired.
const Schema = `
CREATE TABLE IF NOT EXISTS medical_reports (
    id           BIGSERIAL PRIMARY KEY,
    issued_at    TIMESTAMPTZ NOT NULL,
    condition    TEXT        NOT NULL,
    summary      TEXT        NOT NULL DEFAULT '',
    provider     TEXT        NOT NULL,
    requester    TEXT        NOT NULL,
    amount_held  BIGINT      NOT NULL,
    paid         BOOLEAN     NOT NULL,
    fulfilled    BOOLEAN     NOT NULL
);
CREATE TABLE IF NOT EXISTS patients (
    account          TEXT        PRIMARY KEY,
    date_of_birth    TEXT        NOT NULL,
    last_request_at  TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists reports and patients in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, report MedicalReport) (domain.ReportID, error) {
	var id uint64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO medical_reports (issued_at, condition, summary, provider, requester, amount_held, paid, fulfilled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		report.IssuedAt, report.Condition, report.Summary,
		report.Provider.String(), report.Requester.String(),
		report.AmountHeld, report.Paid, report.Fulfilled,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}
	return domain.ReportID(id), nil
}

func (s *PostgresStore) Report(ctx context.Context, id domain.ReportID) (MedicalReport, error) {
	var report MedicalReport
	var rid uint64
	var provider, requester string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, issued_at, condition, summary, provider, requester, amount_held, paid, fulfilled
		FROM medical_reports WHERE id = $1`, uint64(id),
	).Scan(&rid, &report.IssuedAt, &report.Condition, &report.Summary,
		&provider, &requester, &report.AmountHeld, &report.Paid, &report.Fulfilled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MedicalReport{}, ErrRecordNotFound
		}
		return MedicalReport{}, fmt.Errorf("find report: %w", err)
	}
	report.ID = domain.ReportID(rid)
	report.Provider = domain.Account(provider)
	report.Requester = domain.Account(requester)
	return report, nil
}

func (s *PostgresStore) Update(ctx context.Context, report MedicalReport) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE medical_reports
		SET issued_at = $2, summary = $3, amount_held = $4, paid = $5, fulfilled = $6
		WHERE id = $1`,
		uint64(report.ID), report.IssuedAt, report.Summary,
		report.AmountHeld, report.Paid, report.Fulfilled,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PostgresStore) Discard(ctx context.Context, id domain.ReportID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM medical_reports WHERE id = $1`, uint64(id),
	); err != nil {
		return fmt.Errorf("discard report: %w", err)
	}
	return nil
}

func (s *PostgresStore) SavePatient(ctx context.Context, patient Patient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (account, date_of_birth, last_request_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO UPDATE SET last_request_at = EXCLUDED.last_request_at`,
		patient.Account.String(), patient.DateOfBirth, patient.LastRequestAt,
	)
	if err != nil {
		return fmt.Errorf("save patient: %w", err)
	}
	return nil
}

func (s *PostgresStore) Patient(ctx context.Context, account domain.Account) (Patient, error) {
	var patient Patient
	var acct string
	err := s.db.QueryRowContext(ctx, `
		SELECT account, date_of_birth, last_request_at
		FROM patients WHERE account = $1`, account.String(),
	).Scan(&acct, &patient.DateOfBirth, &patient.LastRequestAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Patient{}, ErrPatientNotFound
		}
		return Patient{}, fmt.Errorf("find patient: %w", err)
	}
	patient.Account = domain.Account(acct)
	return patient, nil
}
