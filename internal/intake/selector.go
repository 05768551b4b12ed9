package intake

import (
	"github.com/dentalpm/dentalpm/internal/domain/patient"
)

// PatientSelector binds FormState.PatientRef to exactly one patient. The
// candidate list is fetched once at workflow start and filtered in memory;
// there is no incremental fetch within the selector.
type PatientSelector struct {
	form       *FormState
	candidates []patient.Patient
	open       bool
}

func NewPatientSelector(form *FormState, candidates []patient.Patient) *PatientSelector {
	return &PatientSelector{form: form, candidates: candidates}
}

// Open marks the selector visible. Purely presentational bookkeeping for the
// session API.
func (s *PatientSelector) Open()        { s.open = true }
func (s *PatientSelector) IsOpen() bool { return s.open }

// Candidates returns the full unfiltered list.
func (s *PatientSelector) Candidates() []patient.Patient { return s.candidates }

// Search filters candidates by case-insensitive substring match against full
// name, phone, and email. An empty query returns the full list.
func (s *PatientSelector) Search(query string) []patient.Patient {
	if query == "" {
		return s.candidates
	}
	var matched []patient.Patient
	for _, p := range s.candidates {
		if p.Matches(query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Select sets the form's patient reference and closes the selector.
func (s *PatientSelector) Select(p patient.Patient) {
	s.form.PatientRef = PatientRef{ID: p.ID, DisplayName: p.FullName()}
	s.open = false
}
