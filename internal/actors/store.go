package actors

import (
	"context"

	"medgate/pkg/domain"
)

// Stores are interface-driven so the in-memory and postgres implementations
// swap without touching the service.
//
// Save fails with ErrAlreadyExists when a profile is present; Delete fails
// with ErrNotFound when absent. Delete removes the account from the
// enumeration list by swapping the last element into the removed slot, so
// enumeration order is implementation-defined and not stable across
// removals.

type DoctorStore interface {
	Save(ctx context.Context, doctor Doctor) error
	Find(ctx context.Context, account domain.Account) (Doctor, error)
	Delete(ctx context.Context, account domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
}

type AdminStore interface {
	Save(ctx context.Context, admin Admin) error
	Find(ctx context.Context, account domain.Account) (Admin, error)
	Delete(ctx context.Context, account domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
}
