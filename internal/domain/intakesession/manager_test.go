package intakesession

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/patient"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
	"github.com/dentalpm/dentalpm/internal/intake"
)

// stubCollaborator serves fixed data for session tests.
type stubCollaborator struct {
	patients   []patient.Patient
	categories []catalog.Category
	treatments map[uuid.UUID]*treatment.Treatment
}

func newStubCollaborator() *stubCollaborator {
	return &stubCollaborator{
		patients: []patient.Patient{
			{ID: uuid.New(), FirstName: "Jane", LastName: "Roe"},
		},
		categories: []catalog.Category{
			{ID: uuid.New(), Name: "Filling", BaseCost: 150},
		},
		treatments: map[uuid.UUID]*treatment.Treatment{},
	}
}

func (s *stubCollaborator) FetchPatients(context.Context) ([]patient.Patient, error) {
	return s.patients, nil
}

func (s *stubCollaborator) FetchCategories(context.Context) ([]catalog.Category, error) {
	return s.categories, nil
}

func (s *stubCollaborator) FetchTreatment(_ context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	t, ok := s.treatments[id]
	if !ok {
		return nil, treatment.ErrNotFound
	}
	return t, nil
}

func (s *stubCollaborator) CreateTreatment(_ context.Context, t *treatment.Treatment) (*treatment.Treatment, error) {
	t.ID = uuid.New()
	s.treatments[t.ID] = t
	return t, nil
}

func (s *stubCollaborator) UpdateTreatment(_ context.Context, id uuid.UUID, t *treatment.Treatment) (*treatment.Treatment, error) {
	t.ID = id
	s.treatments[id] = t
	return t, nil
}

func testManager() (*Manager, *stubCollaborator) {
	api := newStubCollaborator()
	return NewManager(zerolog.Nop(), api, time.Hour), api
}

func TestManager_CreateAndGet(t *testing.T) {
	mgr, _ := testManager()

	s := mgr.Create(context.Background())
	if s.ID == uuid.Nil {
		t.Fatal("expected session id assigned")
	}
	if mgr.Count() != 1 {
		t.Errorf("expected 1 live session, got %d", mgr.Count())
	}

	got, err := mgr.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Error("expected same session instance")
	}

	if _, err := mgr.Get(uuid.New()); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	mgr, _ := testManager()
	s := mgr.Create(context.Background())

	mgr.Delete(s.ID)
	if mgr.Count() != 0 {
		t.Errorf("expected 0 sessions, got %d", mgr.Count())
	}
	if _, err := mgr.Get(s.ID); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	api := newStubCollaborator()
	mgr := NewManager(zerolog.Nop(), api, time.Millisecond)

	fresh := mgr.Create(context.Background())
	stale := mgr.Create(context.Background())

	// Age one session past the TTL, keep the other active.
	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-time.Minute)
	stale.mu.Unlock()
	fresh.mu.Lock()
	fresh.lastActive = time.Now().Add(time.Minute)
	fresh.mu.Unlock()

	mgr.sweep()

	if _, err := mgr.Get(stale.ID); err != ErrSessionNotFound {
		t.Error("expected stale session swept")
	}
	if _, err := mgr.Get(fresh.ID); err != nil {
		t.Error("expected fresh session kept")
	}
}

func TestManager_SweepSkipsSubmitting(t *testing.T) {
	api := newStubCollaborator()
	mgr := NewManager(zerolog.Nop(), api, time.Millisecond)

	s := mgr.Create(context.Background())
	s.mu.Lock()
	s.lastActive = time.Now().Add(-time.Minute)
	s.submitting = true
	s.mu.Unlock()

	mgr.sweep()
	if _, err := mgr.Get(s.ID); err != nil {
		t.Error("expected in-flight session kept during sweep")
	}
}

func TestSession_SubmitSingleFlight(t *testing.T) {
	mgr, _ := testManager()
	s := mgr.Create(context.Background())

	s.mu.Lock()
	s.submitting = true
	s.mu.Unlock()

	if _, err := s.Submit(context.Background()); err != ErrSubmitInFlight {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}
}

func TestSession_SubmitFull(t *testing.T) {
	mgr, api := testManager()
	s := mgr.Create(context.Background())

	err := s.Do(func(wf *intake.Workflow) error {
		wf.Selector.Select(api.patients[0])
		d := wf.Composer.OpenNew()
		if err := d.AddCostLine(api.categories[0].ID); err != nil {
			return err
		}
		return wf.Composer.Save()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Cost != 150 {
		t.Errorf("expected cost 150, got %v", saved.Cost)
	}
	if len(api.treatments) != 1 {
		t.Errorf("expected treatment persisted, got %d", len(api.treatments))
	}
}
