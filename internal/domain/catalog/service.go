package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Category) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.BaseCost < 0 {
		return fmt.Errorf("base_cost must not be negative")
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Category) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.BaseCost < 0 {
		return fmt.Errorf("base_cost must not be negative")
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// Seed inserts the default category set if the catalog is empty. Used by the
// seed CLI command and standalone mode.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i := range DefaultCategories {
		c := DefaultCategories[i]
		if err := s.repo.Create(ctx, &c); err != nil {
			return i, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return len(DefaultCategories), nil
}
