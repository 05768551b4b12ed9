package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no category matches the given identifier.
var ErrNotFound = errors.New("treatment category not found")

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the whole catalog ordered by name. The catalog is small
	// and read as one immutable snapshot per intake session.
	List(ctx context.Context) ([]*Category, error)
}
