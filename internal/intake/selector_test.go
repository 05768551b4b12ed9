package intake

import (
	"testing"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/patient"
)

func selectorCandidates() []patient.Patient {
	return []patient.Patient{
		{ID: uuid.New(), FirstName: "Jane", LastName: "Roe", Phone: "555-0101"},
		{ID: uuid.New(), FirstName: "John", LastName: "Doe", Email: "john@example.com"},
		{ID: uuid.New(), FirstName: "Janet", LastName: "Smith", Phone: "555-0199"},
	}
}

func TestPatientSelector_Search(t *testing.T) {
	s := NewPatientSelector(NewFormState(), selectorCandidates())

	if got := len(s.Search("")); got != 3 {
		t.Errorf("expected empty query to return all 3, got %d", got)
	}
	if got := len(s.Search("jan")); got != 2 {
		t.Errorf("expected 2 matches for name query, got %d", got)
	}
	if got := len(s.Search("555-01")); got != 2 {
		t.Errorf("expected 2 matches for phone query, got %d", got)
	}
	if got := len(s.Search("john@")); got != 1 {
		t.Errorf("expected 1 match for email query, got %d", got)
	}
	if got := len(s.Search("zzz")); got != 0 {
		t.Errorf("expected no matches, got %d", got)
	}
}

func TestPatientSelector_Select(t *testing.T) {
	form := NewFormState()
	candidates := selectorCandidates()
	s := NewPatientSelector(form, candidates)

	s.Open()
	if !s.IsOpen() {
		t.Fatal("expected selector open")
	}

	s.Select(candidates[0])
	if form.PatientRef.ID != candidates[0].ID {
		t.Error("expected form bound to selected patient")
	}
	if form.PatientRef.DisplayName != "Jane Roe" {
		t.Errorf("unexpected display name %q", form.PatientRef.DisplayName)
	}
	if s.IsOpen() {
		t.Error("expected selector closed after selection")
	}

	// Re-selection replaces the reference.
	s.Select(candidates[1])
	if form.PatientRef.DisplayName != "John Doe" {
		t.Errorf("expected replacement, got %q", form.PatientRef.DisplayName)
	}
}
