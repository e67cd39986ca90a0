package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"medgate/pkg/domain"
)

// Schema holds the custody DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_holds (
    report_id  BIGINT PRIMARY KEY,
    amount     BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger_payouts (
    account  TEXT   PRIMARY KEY,
    amount   BIGINT NOT NULL
);
`

// PostgresBook persists the custody book. Escrow balance is derived:
// sum of holds minus sum of payouts.
type PostgresBook struct {
	db *sql.DB
}

func NewPostgresBook(db *sql.DB) *PostgresBook {
	return &PostgresBook{db: db}
}

func (b *PostgresBook) Hold(ctx context.Context, id domain.ReportID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO ledger_holds (report_id, amount) VALUES ($1, $2)
		ON CONFLICT (report_id) DO UPDATE SET amount = ledger_holds.amount + EXCLUDED.amount`,
		uint64(id), amount,
	)
	if err != nil {
		return fmt.Errorf("record hold: %w", err)
	}
	return nil
}

func (b *PostgresBook) Payout(ctx context.Context, to domain.Account, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT SUM(amount) FROM ledger_holds), 0)
		     - COALESCE((SELECT SUM(amount) FROM ledger_payouts), 0)`,
	).Scan(&balance)
	if err != nil {
		return fmt.Errorf("read escrow balance: %w", err)
	}
	if amount > balance {
		return ErrEscrowUnderflow
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_payouts (account, amount) VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET amount = ledger_payouts.amount + EXCLUDED.amount`,
		to.String(), amount,
	); err != nil {
		return fmt.Errorf("record payout: %w", err)
	}
	return tx.Commit()
}

// EscrowTotal returns the value currently in custody.
func (b *PostgresBook) EscrowTotal(ctx context.Context) (int64, error) {
	var balance int64
	err := b.db.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT SUM(amount) FROM ledger_holds), 0)
		     - COALESCE((SELECT SUM(amount) FROM ledger_payouts), 0)`,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("read escrow balance: %w", err)
	}
	return balance, nil
}
