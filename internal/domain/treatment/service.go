package treatment

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new treatment record. Derived totals are
// renormalized before the write so that a client can never persist a record
// whose aggregates diverge from its cost lines.
func (s *Service) Create(ctx context.Context, t *Treatment) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Treatment) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Treatment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	return s.repo.List(ctx, limit, offset)
}
