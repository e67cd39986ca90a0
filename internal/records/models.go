// Package records implements the medical report workflow: a patient requests
// a record from a registered doctor with payment attached, the doctor
// fulfills it, and the doctor releases the held funds. Each report moves
// through Requested, Fulfilled, Released exactly once.
package records

import (
	"time"

	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

// MedicalReport is one report in the workflow. IDs are positive, 1-based,
// strictly increasing, and never reused. AmountHeld is the value in escrow;
// it drops to zero exactly once, on release.
type MedicalReport struct {
	ID         domain.ReportID `json:"id"`
	IssuedAt   time.Time       `json:"issued_at"`
	Condition  string          `json:"condition"`
	Summary    string          `json:"summary"`
	Provider   domain.Account  `json:"provider"`
	Requester  domain.Account  `json:"requester"`
	AmountHeld int64           `json:"amount_held"`
	Paid       bool            `json:"paid"`
	Fulfilled  bool            `json:"fulfilled"`
}

// Patient is created lazily on an account's first request and never deleted.
// DateOfBirth is fixed at creation; later requests only touch LastRequestAt.
type Patient struct {
	Account       domain.Account `json:"account"`
	DateOfBirth   string         `json:"date_of_birth"`
	LastRequestAt time.Time      `json:"last_request_at"`
}

// Workflow failures. Each is distinct so callers can tell exactly which
// precondition broke.
var (
	ErrProviderNotFound         = dErrors.New(dErrors.CodeNotFound, "provider has no doctor profile")
	ErrAmountMismatch           = dErrors.New(dErrors.CodeValidation, "amount does not match the provider's price")
	ErrRecordNotFound           = dErrors.New(dErrors.CodeNotFound, "medical report not found")
	ErrRequesterNotFound        = dErrors.New(dErrors.CodeInternal, "report has no requester")
	ErrNotRecordOwner           = dErrors.New(dErrors.CodeForbidden, "caller is not the report's provider")
	ErrInvalidReleaseConditions = dErrors.New(dErrors.CodeConflict, "report is not releasable")
	ErrDoctorRoleRequired       = dErrors.New(dErrors.CodeForbidden, "caller does not hold the doctor role")
	ErrPatientNotFound          = dErrors.New(dErrors.CodeNotFound, "patient not found")
)
