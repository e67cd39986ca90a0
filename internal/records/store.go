package records

import (
	"context"

	"medgate/pkg/domain"
)

// Store persists reports and patient profiles.
//
// Create assigns the next report id atomically with insertion. Discard is
// the compensation path for a failed custody hold immediately after Create;
// the discarded id is never reused.
type Store interface {
	Create(ctx context.Context, report MedicalReport) (domain.ReportID, error)
	Report(ctx context.Context, id domain.ReportID) (MedicalReport, error)
	Update(ctx context.Context, report MedicalReport) error
	Discard(ctx context.Context, id domain.ReportID) error

	SavePatient(ctx context.Context, patient Patient) error
	Patient(ctx context.Context, account domain.Account) (Patient, error)
}
