package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// =========== Mock Repository ===========

type mockRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.store {
		if p.Matches(query) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

// =========== Tests ===========

func TestService_CreateRequiresFirstName(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Patient{}); err == nil {
		t.Error("expected error for missing first name")
	}
	p := &Patient{FirstName: "Jane"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
}

func TestService_Search(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.Create(context.Background(), &Patient{FirstName: "Jane", LastName: "Roe"})
	svc.Create(context.Background(), &Patient{FirstName: "John", LastName: "Doe"})

	items, total, err := svc.Search(context.Background(), "roe", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got %d (total %d)", len(items), total)
	}

	items, _, _ = svc.Search(context.Background(), "", 20, 0)
	if len(items) != 2 {
		t.Errorf("expected empty query to match all, got %d", len(items))
	}
}

func TestPatient_FullName(t *testing.T) {
	p := Patient{FirstName: "Jane", LastName: "Roe"}
	if got := p.FullName(); got != "Jane Roe" {
		t.Errorf("expected 'Jane Roe', got %q", got)
	}
	only := Patient{FirstName: "Cher"}
	if got := only.FullName(); got != "Cher" {
		t.Errorf("expected trimmed single name, got %q", got)
	}
}

func TestPatient_Matches(t *testing.T) {
	p := Patient{FirstName: "Jane", LastName: "Roe", Phone: "555-0101", Email: "jane@example.com"}

	for _, q := range []string{"", "jane", "ROE", "jane roe", "555-01", "example.com"} {
		if !p.Matches(q) {
			t.Errorf("expected match for query %q", q)
		}
	}
	for _, q := range []string{"john", "556", "gmail"} {
		if p.Matches(q) {
			t.Errorf("did not expect match for query %q", q)
		}
	}
}
