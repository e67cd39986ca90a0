package ledger

import (
	"context"
	"sync"

	"medgate/pkg/domain"
)

// InMemoryBook keeps escrow and payout totals in memory.
type InMemoryBook struct {
	mu      sync.RWMutex
	escrow  int64
	held    map[domain.ReportID]int64
	payouts map[domain.Account]int64
}

func NewInMemoryBook() *InMemoryBook {
	return &InMemoryBook{
		held:    make(map[domain.ReportID]int64),
		payouts: make(map[domain.Account]int64),
	}
}

func (b *InMemoryBook) Hold(_ context.Context, id domain.ReportID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.escrow += amount
	b.held[id] += amount
	return nil
}

func (b *InMemoryBook) Payout(_ context.Context, to domain.Account, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if amount > b.escrow {
		return ErrEscrowUnderflow
	}
	b.escrow -= amount
	b.payouts[to] += amount
	return nil
}

// EscrowTotal returns the value currently in custody.
func (b *InMemoryBook) EscrowTotal() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.escrow
}

// PaidTo returns the cumulative amount paid out to an account.
func (b *InMemoryBook) PaidTo(account domain.Account) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.payouts[account]
}

// HeldFor returns the amount taken into custody for a report. The figure is
// cumulative; releases do not subtract from it.
func (b *InMemoryBook) HeldFor(id domain.ReportID) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.held[id]
}
