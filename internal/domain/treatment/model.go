package treatment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Treatment statuses. The same enum applies to the record itself and to each
// of its treatment plans.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

// ValidStatus reports whether s is one of the recognized treatment statuses.
// The empty string is allowed everywhere a status is optional.
func ValidStatus(s string) bool {
	return s == "" || validStatuses[s]
}

// DentalCheckup holds the fixed set of clinical observation fields captured
// during the checkup step. All fields are optional free text.
type DentalCheckup struct {
	OralHygiene    string `db:"oral_hygiene" json:"oralHygiene,omitempty"`
	GingivalStatus string `db:"gingival_status" json:"gingivalStatus,omitempty"`
	PlaqueIndex    string `db:"plaque_index" json:"plaqueIndex,omitempty"`
	BleedingIndex  string `db:"bleeding_index" json:"bleedingIndex,omitempty"`
	Mobility       string `db:"mobility" json:"mobility,omitempty"`
	PocketDepth    string `db:"pocket_depth" json:"pocketDepth,omitempty"`
	Notes          string `db:"notes" json:"notes,omitempty"`
}

// Diagnosis holds the narrative clinical capture fields.
type Diagnosis struct {
	ChiefComplaint   string `db:"chief_complaint" json:"chiefComplaint,omitempty"`
	ClinicalFindings string `db:"clinical_findings" json:"clinicalFindings,omitempty"`
	Diagnosis        string `db:"diagnosis" json:"diagnosis,omitempty"`
	TreatmentPlan    string `db:"treatment_plan" json:"treatmentPlan,omitempty"`
}

// ToothIssue is one entry in the per-tooth issue ledger. The map key is the
// two-digit FDI tooth number; absence of a key means no recorded issue.
type ToothIssue struct {
	Issue   string `json:"issue"`
	Comment string `json:"comment,omitempty"`
}

// CostLine is one billable item within a treatment plan. CategoryID refers to
// the treatment-category catalog but the line is independently editable:
// BaseCost may diverge from the catalog's base price.
type CostLine struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	BaseCost     Money  `json:"baseCost"`
	Quantity     int    `json:"quantity"`
	MaterialCost Money  `json:"materialCost"`
	TotalCost    Money  `json:"totalCost"`
}

// Recalculate restores the line invariant
// totalCost = baseCost*quantity + materialCost
// from the line's current field values. It must be called after every
// mutation of BaseCost, Quantity, or MaterialCost.
func (l *CostLine) Recalculate() {
	l.TotalCost = l.BaseCost*Money(l.Quantity) + l.MaterialCost
}

// TreatmentPlan is a named bundle of cost lines with its own date range and
// status. TotalCost and TotalMaterialCost are derived aggregates; use
// RecalculateTotals rather than setting them directly.
type TreatmentPlan struct {
	Name              string     `json:"name,omitempty"`
	StartDate         string     `json:"startDate,omitempty"`
	EndDate           string     `json:"endDate,omitempty"`
	Status            string     `json:"status,omitempty"`
	Costs             []CostLine `json:"costs"`
	TotalCost         Money      `json:"totalCost"`
	TotalMaterialCost Money      `json:"totalMaterialCost"`
}

// RecalculateTotals re-derives the plan aggregates from the current lines.
// Each line's own invariant is restored first.
func (p *TreatmentPlan) RecalculateTotals() {
	var total, material Money
	for i := range p.Costs {
		p.Costs[i].Recalculate()
		total += p.Costs[i].TotalCost
		material += p.Costs[i].MaterialCost
	}
	p.TotalCost = total
	p.TotalMaterialCost = material
}

// Clone returns a deep copy of the plan.
func (p TreatmentPlan) Clone() TreatmentPlan {
	cp := p
	cp.Costs = make([]CostLine, len(p.Costs))
	copy(cp.Costs, p.Costs)
	return cp
}

// Treatment maps to the treatments table. Nested structures (checkup,
// diagnosis, plans, tooth issues) are stored as JSON documents.
type Treatment struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	PatientID      uuid.UUID          `db:"patient_id" json:"patientId"`
	PatientName    string             `db:"patient_name" json:"patientName"`
	Name           string             `db:"name" json:"name,omitempty"`
	Description    string             `db:"description" json:"description,omitempty"`
	Status         string             `db:"status" json:"status,omitempty"`
	DentalCheckup  DentalCheckup      `db:"dental_checkup" json:"dentalCheckup"`
	Diagnosis      Diagnosis          `db:"diagnosis" json:"diagnosis"`
	TreatmentPlans []TreatmentPlan    `db:"treatment_plans" json:"treatmentPlans"`
	ToothIssues    map[int]ToothIssue `db:"tooth_issues" json:"toothIssues"`
	Cost           Money              `db:"cost" json:"cost"`
	MaterialCost   Money              `db:"material_cost" json:"materialCost"`
	CreatedAt      time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updatedAt"`
}

// Normalize restores every derived value on the record: per-line totals,
// per-plan aggregates, and the legacy top-level cost/materialCost pair,
// which mirror the sums across all plans.
func (t *Treatment) Normalize() {
	var cost, material Money
	for i := range t.TreatmentPlans {
		t.TreatmentPlans[i].RecalculateTotals()
		cost += t.TreatmentPlans[i].TotalCost
		material += t.TreatmentPlans[i].TotalMaterialCost
	}
	t.Cost = cost
	t.MaterialCost = material
	if t.ToothIssues == nil {
		t.ToothIssues = map[int]ToothIssue{}
	}
	if t.TreatmentPlans == nil {
		t.TreatmentPlans = []TreatmentPlan{}
	}
}

// Validate checks the record's enum fields and required references.
func (t *Treatment) Validate() error {
	if t.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if !ValidStatus(t.Status) {
		return fmt.Errorf("invalid treatment status: %s", t.Status)
	}
	for i, p := range t.TreatmentPlans {
		if !ValidStatus(p.Status) {
			return fmt.Errorf("invalid status on treatment plan %d: %s", i, p.Status)
		}
		for j, l := range p.Costs {
			if l.Quantity < 1 {
				return fmt.Errorf("cost line %d of plan %d: quantity must be positive", j, i)
			}
		}
	}
	return nil
}
