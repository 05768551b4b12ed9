package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no treatment matches the given identifier.
var ErrNotFound = errors.New("treatment not found")

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	Update(ctx context.Context, t *Treatment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Treatment, int, error)
	List(ctx context.Context, limit, offset int) ([]*Treatment, int, error)
}
