package oracle

import (
	"context"
	"sync"

	"medgate/pkg/domain"
)

// StaticRef is the oracle reference that selects the in-process static
// oracle instead of an HTTP client.
const StaticRef = "static"

// Static is an in-memory oracle for tests and local development. All
// mutators are safe for concurrent use with lookups.
type Static struct {
	mu          sync.RWMutex
	credentials map[domain.Account]bool
	suspended   map[domain.Account]bool
	ratings     map[domain.Account]Rating
}

// NewStatic creates an empty static oracle: no credentials, no suspensions,
// no ratings.
func NewStatic() *Static {
	return &Static{
		credentials: make(map[domain.Account]bool),
		suspended:   make(map[domain.Account]bool),
		ratings:     make(map[domain.Account]Rating),
	}
}

func (s *Static) HoldsCredential(_ context.Context, account domain.Account) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials[account], nil
}

func (s *Static) IsSuspended(_ context.Context, account domain.Account) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suspended[account], nil
}

func (s *Static) CompetencyRating(_ context.Context, account domain.Account) (Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratings[account], nil
}

// GrantCredential marks the account as holding an identity credential.
func (s *Static) GrantCredential(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[account] = true
}

// RevokeCredential removes the account's credential.
func (s *Static) RevokeCredential(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, account)
}

// SetSuspended flips the account's suspension flag.
func (s *Static) SetSuspended(account domain.Account, suspended bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended[account] = suspended
}

// SetRating sets the account's competency rating.
func (s *Static) SetRating(account domain.Account, rating Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[account] = rating
}
