package intake

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/patient"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// LocalCollaborator serves the workflow from this process's own domain
// services, for deployments where the intake service and the practice data
// live in one binary.
type LocalCollaborator struct {
	patients   *patient.Service
	categories *catalog.Service
	treatments *treatment.Service
}

func NewLocalCollaborator(p *patient.Service, c *catalog.Service, t *treatment.Service) *LocalCollaborator {
	return &LocalCollaborator{patients: p, categories: c, treatments: t}
}

func (l *LocalCollaborator) FetchPatients(ctx context.Context) ([]patient.Patient, error) {
	items, _, err := l.patients.Search(ctx, "", candidateListLimit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]patient.Patient, 0, len(items))
	for _, p := range items {
		out = append(out, *p)
	}
	return out, nil
}

func (l *LocalCollaborator) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	items, err := l.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Category, 0, len(items))
	for _, c := range items {
		out = append(out, *c)
	}
	return out, nil
}

func (l *LocalCollaborator) FetchTreatment(ctx context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	return l.treatments.Get(ctx, id)
}

func (l *LocalCollaborator) CreateTreatment(ctx context.Context, t *treatment.Treatment) (*treatment.Treatment, error) {
	if err := l.treatments.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (l *LocalCollaborator) UpdateTreatment(ctx context.Context, id uuid.UUID, t *treatment.Treatment) (*treatment.Treatment, error) {
	t.ID = id
	if err := l.treatments.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
