// Package ledger tracks custody of payment value attached to medical
// reports. Hold moves value into escrow when a record is created; Payout
// transfers it out when funds are released. Real settlement sits behind the
// Payout port; the book only keeps the totals honest.
package ledger

import (
	"context"

	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

// Ledger is the custody port used by the record workflow.
type Ledger interface {
	// Hold takes custody of amount for the given report.
	Hold(ctx context.Context, id domain.ReportID, amount int64) error
	// Payout transfers amount out of escrow to the account. It may fail
	// independently of the caller's state change.
	Payout(ctx context.Context, to domain.Account, amount int64) error
}

// Book failures.
var (
	ErrNonPositiveAmount = dErrors.New(dErrors.CodeValidation, "amount must be positive")
	ErrEscrowUnderflow   = dErrors.New(dErrors.CodeInternal, "payout exceeds escrow balance")
)
