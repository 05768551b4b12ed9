package intake

import (
	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// PatientRef binds the form to exactly one patient. DisplayName is
// denormalized for the review step and the submission payload.
type PatientRef struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

// BasicInfo holds the optional free-text header fields of the treatment
// record.
type BasicInfo struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// FormState is the root of one workflow invocation. It is created fresh when
// the workflow starts, lives only in memory, and is exclusively owned by its
// workflow: later steps read but never mutate earlier steps' data. It is
// destroyed on successful submission or operator cancellation.
type FormState struct {
	PatientRef  PatientRef
	BasicInfo   BasicInfo
	Checkup     treatment.DentalCheckup
	Diagnosis   treatment.Diagnosis
	ToothIssues map[int]treatment.ToothIssue
	Plans       []treatment.TreatmentPlan
}

// NewFormState returns an empty form for a new treatment.
func NewFormState() *FormState {
	return &FormState{
		ToothIssues: map[int]treatment.ToothIssue{},
	}
}

// FromTreatment pre-populates a form from an existing record (edit mode).
func FromTreatment(t *treatment.Treatment) *FormState {
	f := NewFormState()
	f.PatientRef = PatientRef{ID: t.PatientID, DisplayName: t.PatientName}
	f.BasicInfo = BasicInfo{Name: t.Name, Description: t.Description, Status: t.Status}
	f.Checkup = t.DentalCheckup
	f.Diagnosis = t.Diagnosis
	for tooth, issue := range t.ToothIssues {
		f.ToothIssues[tooth] = issue
	}
	f.Plans = make([]treatment.TreatmentPlan, 0, len(t.TreatmentPlans))
	for _, p := range t.TreatmentPlans {
		f.Plans = append(f.Plans, p.Clone())
	}
	return f
}

// Snapshot serializes the form into a treatment record, deep-copying every
// nested structure so that edits made after the snapshot (for example while a
// submission is in flight) do not leak into it. Derived totals and the legacy
// top-level cost pair are normalized on the copy.
func (f *FormState) Snapshot(existingID uuid.UUID) *treatment.Treatment {
	t := &treatment.Treatment{
		ID:            existingID,
		PatientID:     f.PatientRef.ID,
		PatientName:   f.PatientRef.DisplayName,
		Name:          f.BasicInfo.Name,
		Description:   f.BasicInfo.Description,
		Status:        f.BasicInfo.Status,
		DentalCheckup: f.Checkup,
		Diagnosis:     f.Diagnosis,
		ToothIssues:   make(map[int]treatment.ToothIssue, len(f.ToothIssues)),
	}
	for tooth, issue := range f.ToothIssues {
		t.ToothIssues[tooth] = issue
	}
	t.TreatmentPlans = make([]treatment.TreatmentPlan, 0, len(f.Plans))
	for _, p := range f.Plans {
		t.TreatmentPlans = append(t.TreatmentPlans, p.Clone())
	}
	t.Normalize()
	return t
}
