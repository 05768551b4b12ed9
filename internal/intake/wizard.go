package intake

import "github.com/google/uuid"

// Step identifies one wizard position. Steps are strictly ordered; data flows
// forward by accumulation into the form, never backward.
type Step int

const (
	StepPatient Step = iota + 1
	StepDiagnosis
	StepPlans
	StepReview
)

const firstStep, lastStep = StepPatient, StepReview

// Validation messages, part of the observable contract.
const (
	msgPatientRequired = "Please select a patient"
	msgPlansRequired   = "At least one treatment plan is required"
)

// Wizard is the workflow-level state machine: a linear step sequence where
// advancing requires the current step to validate, while backward and lateral
// movement is always free.
type Wizard struct {
	form      *FormState
	current   Step
	completed map[Step]bool
	errs      map[string]string
}

func NewWizard(form *FormState) *Wizard {
	return &Wizard{
		form:      form,
		current:   firstStep,
		completed: map[Step]bool{},
		errs:      map[string]string{},
	}
}

// Current returns the active step.
func (w *Wizard) Current() Step { return w.current }

// Completed reports whether a step has been validated-and-left at least once.
func (w *Wizard) Completed(s Step) bool { return w.completed[s] }

// Errors returns the field-level messages from the last failed transition.
// Empty after a successful one.
func (w *Wizard) Errors() map[string]string { return w.errs }

// Next validates the current step. On success the step is marked completed
// and the index advances, capped at the review step. On failure the index is
// unchanged and field errors are recorded; validation failures never escape
// as Go errors.
func (w *Wizard) Next() bool {
	w.errs = w.validate(w.current)
	if len(w.errs) > 0 {
		return false
	}
	w.completed[w.current] = true
	if w.current < lastStep {
		w.current++
	}
	return true
}

// Previous always succeeds, moving back exactly one step regardless of the
// current step's validation state. Floored at the first step.
func (w *Wizard) Previous() {
	if w.current > firstStep {
		w.current--
	}
	w.errs = map[string]string{}
}

// JumpTo moves directly to a step. Allowed only backward/lateral or into a
// step already completed; anything else is a no-op so the operator can never
// skip ahead into unvalidated territory.
func (w *Wizard) JumpTo(s Step) bool {
	if s < firstStep || s > lastStep {
		return false
	}
	if s > w.current && !w.completed[s] {
		return false
	}
	w.current = s
	w.errs = map[string]string{}
	return true
}

// Skip leaves the diagnosis step without requiring anything to be filled.
// The step has no validation rules, so this is Next under a different name,
// available only where the wizard offers the "skip this section" affordance.
func (w *Wizard) Skip() bool {
	if w.current != StepDiagnosis {
		return false
	}
	return w.Next()
}

func (w *Wizard) validate(s Step) map[string]string {
	errs := map[string]string{}
	switch s {
	case StepPatient:
		if w.form.PatientRef.ID == uuid.Nil {
			errs["patientId"] = msgPatientRequired
		}
	case StepPlans:
		if len(w.form.Plans) == 0 {
			errs["treatmentPlans"] = msgPlansRequired
		}
	}
	return errs
}
