// Package adapters bridges the record workflow's ports onto other modules.
package adapters

import (
	"context"

	"medgate/internal/actors"
	"medgate/pkg/domain"
)

// ActorsDirectory satisfies the workflow's Directory port with the actor
// registry service.
type ActorsDirectory struct {
	registry *actors.Service
}

func NewActorsDirectory(registry *actors.Service) *ActorsDirectory {
	return &ActorsDirectory{registry: registry}
}

// ProviderPrice returns the registered price for a doctor account. Absent
// profiles surface the registry's not-found error.
func (d *ActorsDirectory) ProviderPrice(ctx context.Context, account domain.Account) (int64, error) {
	doctor, err := d.registry.Doctor(ctx, account)
	if err != nil {
		return 0, err
	}
	return doctor.PricePerSession, nil
}

// IsDoctor reports whether the account holds the doctor role.
func (d *ActorsDirectory) IsDoctor(ctx context.Context, account domain.Account) bool {
	return d.registry.IsDoctor(ctx, account)
}
