package intake

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// ErrAlreadySubmitted is returned by Submit after a submission has succeeded.
// The workflow is finished at that point and holds no further work.
var ErrAlreadySubmitted = errors.New("workflow already submitted")

// ValidationError carries field-level messages from the pre-submission check.
// The transition into review already validated these, so seeing one here means
// the form was mutated through a path that bypassed the wizard.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// Workflow is one treatment intake in progress: the form, the step machine,
// and the three step controllers, all sharing a single FormState. A workflow
// is single-operator; concurrent access is the session layer's problem.
type Workflow struct {
	log  zerolog.Logger
	api  Collaborator
	form *FormState

	// editID is the treatment being edited, or uuid.Nil for a new intake.
	editID    uuid.UUID
	loadErr   error
	submitted bool

	Selector *PatientSelector
	Chart    *ChartEditor
	Composer *PlanComposer
	Wizard   *Wizard
}

// New starts a fresh intake. The patient and category lists are fetched once
// and snapshotted. A failed fetch does not abort the workflow; it mounts with
// an empty list and the error recorded, so the operator sees the form rather
// than nothing.
func New(ctx context.Context, log zerolog.Logger, api Collaborator) *Workflow {
	w := &Workflow{log: log, api: api, form: NewFormState()}
	w.mount(ctx)
	return w
}

// NewForEdit starts an intake pre-populated from an existing treatment. If the
// record cannot be fetched the workflow degrades to an empty new-intake form
// with the error recorded.
func NewForEdit(ctx context.Context, log zerolog.Logger, api Collaborator, id uuid.UUID) *Workflow {
	w := &Workflow{log: log, api: api}
	if t, err := api.FetchTreatment(ctx, id); err != nil {
		log.Error().Err(err).Str("treatment_id", id.String()).Msg("failed to load treatment for edit")
		w.form = NewFormState()
		w.loadErr = err
	} else {
		w.form = FromTreatment(t)
		w.editID = id
	}
	w.mount(ctx)
	return w
}

func (w *Workflow) mount(ctx context.Context) {
	patients, err := w.api.FetchPatients(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to fetch patient candidates")
		w.loadErr = errors.Join(w.loadErr, err)
	}
	categories, err := w.api.FetchCategories(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to fetch treatment categories")
		w.loadErr = errors.Join(w.loadErr, err)
	}

	w.Selector = NewPatientSelector(w.form, patients)
	w.Chart = NewChartEditor(w.form)
	w.Composer = NewPlanComposer(w.form, categories)
	w.Wizard = NewWizard(w.form)
}

// Form exposes the shared form state.
func (w *Workflow) Form() *FormState { return w.form }

// IsEdit reports whether submission will update an existing record.
func (w *Workflow) IsEdit() bool { return w.editID != uuid.Nil }

// LoadErr returns the recorded mount or edit-fetch failure, if any. The
// workflow stays usable regardless.
func (w *Workflow) LoadErr() error { return w.loadErr }

// Submitted reports whether a submission has succeeded.
func (w *Workflow) Submitted() bool { return w.submitted }

// UpdateField routes a dotted-path field write to the form.
func (w *Workflow) UpdateField(path, value string) error {
	return w.form.UpdateField(path, value)
}

// Summary is the read-only review rendering of the form.
type Summary struct {
	PatientName     string          `json:"patientName"`
	PlanCount       int             `json:"planCount"`
	TotalCost       treatment.Money `json:"totalCost"`
	MaterialCost    treatment.Money `json:"materialCost"`
	TeethWithIssues []int           `json:"teethWithIssues"`
}

// Summarize derives the review-step summary from the current form. Totals are
// recomputed from cost lines on every call.
func (w *Workflow) Summarize() Summary {
	s := Summary{
		PatientName: w.form.PatientRef.DisplayName,
		PlanCount:   len(w.form.Plans),
	}
	for _, p := range w.form.Plans {
		for _, l := range p.Costs {
			s.TotalCost += l.TotalCost
			s.MaterialCost += l.MaterialCost
		}
	}
	s.TeethWithIssues = make([]int, 0, len(w.form.ToothIssues))
	for tooth := range w.form.ToothIssues {
		s.TeethWithIssues = append(s.TeethWithIssues, tooth)
	}
	sort.Ints(s.TeethWithIssues)
	return s
}

// TeethLine formats the affected teeth for display, e.g. "Teeth: 18, 55".
// Empty string when no tooth has an issue.
func (s Summary) TeethLine() string {
	if len(s.TeethWithIssues) == 0 {
		return ""
	}
	nums := make([]string, 0, len(s.TeethWithIssues))
	for _, t := range s.TeethWithIssues {
		nums = append(nums, strconv.Itoa(t))
	}
	return "Teeth: " + strings.Join(nums, ", ")
}

// Submit snapshots the form at call time and sends it upstream: create for a
// new intake, update when editing. The form is left intact on failure so the
// operator can retry; edits made between snapshot and response do not bleed
// into the submitted payload.
func (w *Workflow) Submit(ctx context.Context) (*treatment.Treatment, error) {
	if w.submitted {
		return nil, ErrAlreadySubmitted
	}
	if verr := w.precheck(); verr != nil {
		return nil, verr
	}

	snapshot := w.form.Snapshot(w.editID)

	var (
		saved *treatment.Treatment
		err   error
	)
	if w.IsEdit() {
		saved, err = w.api.UpdateTreatment(ctx, w.editID, snapshot)
	} else {
		saved, err = w.api.CreateTreatment(ctx, snapshot)
	}
	if err != nil {
		w.log.Error().Err(err).
			Bool("edit", w.IsEdit()).
			Str("patient_id", w.form.PatientRef.ID.String()).
			Msg("treatment submission failed")
		return nil, fmt.Errorf("submit treatment: %w", err)
	}

	w.submitted = true
	w.log.Info().
		Str("treatment_id", saved.ID.String()).
		Str("patient_id", saved.PatientID.String()).
		Int("plans", len(saved.TreatmentPlans)).
		Msg("treatment submitted")
	return saved, nil
}

// precheck re-runs the step requirements right before the network call. The
// wizard already gates these, but the session API can mutate the form between
// reaching review and submitting.
func (w *Workflow) precheck() *ValidationError {
	fields := map[string]string{}
	if w.form.PatientRef.ID == uuid.Nil {
		fields["patientId"] = msgPatientRequired
	}
	if len(w.form.Plans) == 0 {
		fields["treatmentPlans"] = msgPlansRequired
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
