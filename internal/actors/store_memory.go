package actors

import (
	"context"
	"sync"

	"medgate/pkg/domain"
)

// roster keeps a profile map and enumeration slice consistent under one
// lock. Removal is the O(1) unordered delete: the last element is swapped
// into the removed slot.
type roster[T any] struct {
	mu       sync.RWMutex
	profiles map[domain.Account]T
	order    []domain.Account
	index    map[domain.Account]int
}

func newRoster[T any]() *roster[T] {
	return &roster[T]{
		profiles: make(map[domain.Account]T),
		index:    make(map[domain.Account]int),
	}
}

func (r *roster[T]) save(account domain.Account, profile T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[account]; exists {
		return ErrAlreadyExists
	}
	r.profiles[account] = profile
	r.index[account] = len(r.order)
	r.order = append(r.order, account)
	return nil
}

func (r *roster[T]) find(account domain.Account) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[account]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return profile, nil
}

func (r *roster[T]) delete(account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[account]
	if !ok {
		return ErrNotFound
	}
	last := len(r.order) - 1
	moved := r.order[last]
	r.order[pos] = moved
	r.index[moved] = pos
	r.order = r.order[:last]
	delete(r.profiles, account)
	delete(r.index, account)
	return nil
}

func (r *roster[T]) list() []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Account{}, r.order...)
}

// InMemoryDoctorStore keeps doctor profiles in memory.
type InMemoryDoctorStore struct {
	roster *roster[Doctor]
}

func NewInMemoryDoctorStore() *InMemoryDoctorStore {
	return &InMemoryDoctorStore{roster: newRoster[Doctor]()}
}

func (s *InMemoryDoctorStore) Save(_ context.Context, doctor Doctor) error {
	return s.roster.save(doctor.Account, doctor)
}

func (s *InMemoryDoctorStore) Find(_ context.Context, account domain.Account) (Doctor, error) {
	return s.roster.find(account)
}

func (s *InMemoryDoctorStore) Delete(_ context.Context, account domain.Account) error {
	return s.roster.delete(account)
}

func (s *InMemoryDoctorStore) List(_ context.Context) ([]domain.Account, error) {
	return s.roster.list(), nil
}

// InMemoryAdminStore keeps admin profiles in memory.
type InMemoryAdminStore struct {
	roster *roster[Admin]
}

func NewInMemoryAdminStore() *InMemoryAdminStore {
	return &InMemoryAdminStore{roster: newRoster[Admin]()}
}

func (s *InMemoryAdminStore) Save(_ context.Context, admin Admin) error {
	return s.roster.save(admin.Account, admin)
}

func (s *InMemoryAdminStore) Find(_ context.Context, account domain.Account) (Admin, error) {
	return s.roster.find(account)
}

func (s *InMemoryAdminStore) Delete(_ context.Context, account domain.Account) error {
	return s.roster.delete(account)
}

func (s *InMemoryAdminStore) List(_ context.Context) ([]domain.Account, error) {
	return s.roster.list(), nil
}
