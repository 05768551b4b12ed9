package treatment

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// =========== Mock Repository ===========

type mockRepo struct {
	store map[uuid.UUID]*Treatment
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Treatment)}
}

func (m *mockRepo) Create(_ context.Context, t *Treatment) error {
	t.ID = uuid.New()
	m.store[t.ID] = t
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Treatment, error) {
	t, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *mockRepo) Update(_ context.Context, t *Treatment) error {
	if _, ok := m.store[t.ID]; !ok {
		return ErrNotFound
	}
	m.store[t.ID] = t
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Treatment, int, error) {
	var result []*Treatment
	for _, t := range m.store {
		if t.PatientID == patientID {
			result = append(result, t)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Treatment, int, error) {
	var result []*Treatment
	for _, t := range m.store {
		result = append(result, t)
	}
	return result, len(result), nil
}

// =========== Tests ===========

func TestService_CreateDefaultsStatus(t *testing.T) {
	svc := NewService(newMockRepo())

	tr := &Treatment{PatientID: uuid.New()}
	if err := svc.Create(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != StatusPending {
		t.Errorf("expected status defaulted to pending, got %q", tr.Status)
	}
	if tr.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
}

func TestService_CreateNormalizes(t *testing.T) {
	svc := NewService(newMockRepo())

	tr := &Treatment{
		PatientID: uuid.New(),
		// Client-supplied aggregates are stale on purpose.
		Cost: 9999,
		TreatmentPlans: []TreatmentPlan{
			{Costs: []CostLine{{BaseCost: 200, Quantity: 2, MaterialCost: 50, TotalCost: 1}}},
		},
	}
	if err := svc.Create(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.TreatmentPlans[0].Costs[0].TotalCost != 450 {
		t.Errorf("expected line total 450, got %v", tr.TreatmentPlans[0].Costs[0].TotalCost)
	}
	if tr.Cost != 450 {
		t.Errorf("expected top-level cost rederived to 450, got %v", tr.Cost)
	}
}

func TestService_CreateValidates(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Treatment{}); err == nil {
		t.Error("expected error for missing patient")
	}
}

func TestService_UpdateAndGet(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	tr := &Treatment{PatientID: uuid.New()}
	svc.Create(context.Background(), tr)

	tr.Name = "Root canal course"
	if err := svc.Update(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Root canal course" {
		t.Errorf("unexpected name %q", got.Name)
	}

	if _, err := svc.Get(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListByPatient(t *testing.T) {
	svc := NewService(newMockRepo())
	pid := uuid.New()

	svc.Create(context.Background(), &Treatment{PatientID: pid})
	svc.Create(context.Background(), &Treatment{PatientID: pid})
	svc.Create(context.Background(), &Treatment{PatientID: uuid.New()})

	items, total, err := svc.ListByPatient(context.Background(), pid, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 treatments for patient, got %d (total %d)", len(items), total)
	}
}
