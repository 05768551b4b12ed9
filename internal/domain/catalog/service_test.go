package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// =========== Mock Repository ===========

type mockRepo struct {
	store map[uuid.UUID]*Category
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Category)}
}

func (m *mockRepo) Create(_ context.Context, c *Category) error {
	c.ID = uuid.New()
	m.store[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Update(_ context.Context, c *Category) error {
	if _, ok := m.store[c.ID]; !ok {
		return ErrNotFound
	}
	m.store[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Category, error) {
	var result []*Category
	for _, c := range m.store {
		result = append(result, c)
	}
	return result, nil
}

// =========== Tests ===========

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Category{}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &Category{Name: "Filling", BaseCost: -5}); err == nil {
		t.Error("expected error for negative base cost")
	}
	if err := svc.Create(context.Background(), &Category{Name: "Filling", BaseCost: 1500}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_Seed(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	n, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(DefaultCategories) {
		t.Errorf("expected %d seeded, got %d", len(DefaultCategories), n)
	}

	// Seeding is idempotent: a non-empty catalog is left alone.
	n, err = svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on second seed, got %d", n)
	}
	if len(repo.store) != len(DefaultCategories) {
		t.Errorf("expected catalog unchanged, got %d entries", len(repo.store))
	}
}

func TestCategory_Matches(t *testing.T) {
	c := Category{Name: "Root Canal Treatment", Description: "Endodontic treatment"}

	for _, q := range []string{"", "root", "CANAL", "endo"} {
		if !c.Matches(q) {
			t.Errorf("expected match for query %q", q)
		}
	}
	if c.Matches("implant") {
		t.Error("did not expect match for 'implant'")
	}
}
