package records

import (
	"context"
	"sync"

	"medgate/pkg/domain"
)

// InMemoryStore keeps reports and patients in memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	nextID   domain.ReportID
	reports  map[domain.ReportID]MedicalReport
	patients map[domain.Account]Patient
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:   1,
		reports:  make(map[domain.ReportID]MedicalReport),
		patients: make(map[domain.Account]Patient),
	}
}

func (s *InMemoryStore) Create(_ context.Context, report MedicalReport) (domain.ReportID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report.ID = s.nextID
	s.nextID++
	s.reports[report.ID] = report
	return report.ID, nil
}

func (s *InMemoryStore) Report(_ context.Context, id domain.ReportID) (MedicalReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return MedicalReport{}, ErrRecordNotFound
	}
	return report, nil
}

func (s *InMemoryStore) Update(_ context.Context, report MedicalReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.ID]; !ok {
		return ErrRecordNotFound
	}
	s.reports[report.ID] = report
	return nil
}

func (s *InMemoryStore) Discard(_ context.Context, id domain.ReportID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

func (s *InMemoryStore) SavePatient(_ context.Context, patient Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[patient.Account] = patient
	return nil
}

func (s *InMemoryStore) Patient(_ context.Context, account domain.Account) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patient, ok := s.patients[account]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return patient, nil
}
