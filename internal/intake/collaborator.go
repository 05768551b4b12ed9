package intake

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/patient"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// Collaborator is the workflow's only interface to the outside world: the
// practice-management API. Patient and category lists are fetched once per
// workflow and held as immutable in-memory snapshots.
type Collaborator interface {
	FetchPatients(ctx context.Context) ([]patient.Patient, error)
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
	FetchTreatment(ctx context.Context, id uuid.UUID) (*treatment.Treatment, error)
	CreateTreatment(ctx context.Context, t *treatment.Treatment) (*treatment.Treatment, error)
	UpdateTreatment(ctx context.Context, id uuid.UUID, t *treatment.Treatment) (*treatment.Treatment, error)
}

// candidateListLimit caps the one-shot patient fetch at workflow start. The
// selector filters in memory and never pages.
const candidateListLimit = 500
