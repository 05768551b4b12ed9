package intake

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// DefaultVisibleCategories is how many catalog matches the category picker
// shows before the operator expands it.
const DefaultVisibleCategories = 6

// CostField names an editable cost-line field.
type CostField string

const (
	FieldBaseCost     CostField = "baseCost"
	FieldQuantity     CostField = "quantity"
	FieldMaterialCost CostField = "materialCost"
)

var (
	// ErrUnknownCategory is returned when a cost line references a category
	// missing from the session's catalog snapshot.
	ErrUnknownCategory = errors.New("unknown treatment category")
	// ErrNoDraft is returned by draft operations when no plan editor is open.
	ErrNoDraft = errors.New("no plan editor open")
)

// PlanComposer owns the form's treatmentPlans sequence and the cost
// aggregation rules. It works against an immutable catalog snapshot taken at
// workflow start. At most one plan draft is open at a time.
type PlanComposer struct {
	form    *FormState
	catalog []catalog.Category
	view    CategoryView
	draft   *PlanDraft
}

func NewPlanComposer(form *FormState, cats []catalog.Category) *PlanComposer {
	return &PlanComposer{
		form:    form,
		catalog: cats,
		view:    CategoryView{all: cats},
	}
}

// Plans returns the form's plan sequence. Order is insertion order.
func (pc *PlanComposer) Plans() []treatment.TreatmentPlan { return pc.form.Plans }

// Categories exposes the filtered, truncated catalog view.
func (pc *PlanComposer) Categories() *CategoryView { return &pc.view }

// Draft returns the open plan editor, if any.
func (pc *PlanComposer) Draft() *PlanDraft { return pc.draft }

// OpenNew opens the plan editor with a blank plan.
func (pc *PlanComposer) OpenNew() *PlanDraft {
	pc.draft = &PlanDraft{index: -1, catalog: pc.catalog}
	return pc.draft
}

// OpenEdit opens the plan editor pre-loaded with an existing plan. The draft
// works on a copy; the stored plan is untouched until Save.
func (pc *PlanComposer) OpenEdit(index int) (*PlanDraft, error) {
	if index < 0 || index >= len(pc.form.Plans) {
		return nil, fmt.Errorf("no treatment plan at index %d", index)
	}
	pc.draft = &PlanDraft{index: index, plan: pc.form.Plans[index].Clone(), catalog: pc.catalog}
	return pc.draft, nil
}

// Save commits the open draft: replace at its index for an edit, append for a
// new plan. An empty plan (zero cost lines) is allowed. The editor closes.
func (pc *PlanComposer) Save() error {
	if pc.draft == nil {
		return ErrNoDraft
	}
	d := pc.draft
	d.plan.RecalculateTotals()
	if d.index >= 0 && d.index < len(pc.form.Plans) {
		pc.form.Plans[d.index] = d.plan
	} else {
		pc.form.Plans = append(pc.form.Plans, d.plan)
	}
	pc.draft = nil
	return nil
}

// Cancel discards the open draft without touching the form.
func (pc *PlanComposer) Cancel() { pc.draft = nil }

// Delete removes the plan at the given position. An open edit draft is
// re-pointed: deleting the plan under edit turns the draft into an append,
// deleting an earlier plan shifts the draft's target down with it.
func (pc *PlanComposer) Delete(index int) error {
	if index < 0 || index >= len(pc.form.Plans) {
		return fmt.Errorf("no treatment plan at index %d", index)
	}
	pc.form.Plans = append(pc.form.Plans[:index], pc.form.Plans[index+1:]...)
	if d := pc.draft; d != nil {
		switch {
		case d.index == index:
			d.index = -1
		case d.index > index:
			d.index--
		}
	}
	return nil
}

// PlanTotals re-derives a stored plan's aggregates from its lines. Always
// recomputed on read; never served from a cache that could go stale.
func (pc *PlanComposer) PlanTotals(index int) (total, material treatment.Money, err error) {
	if index < 0 || index >= len(pc.form.Plans) {
		return 0, 0, fmt.Errorf("no treatment plan at index %d", index)
	}
	for _, l := range pc.form.Plans[index].Costs {
		total += l.TotalCost
		material += l.MaterialCost
	}
	return total, material, nil
}

// PlanDraft is one plan under edit. Cost-line mutations restore the line
// invariant immediately; nothing waits for a later recompute pass.
type PlanDraft struct {
	plan    treatment.TreatmentPlan
	index   int
	catalog []catalog.Category
}

// IsNew reports whether saving will append rather than replace.
func (d *PlanDraft) IsNew() bool { return d.index < 0 }

// Plan returns a copy of the draft's current state.
func (d *PlanDraft) Plan() treatment.TreatmentPlan { return d.plan.Clone() }

// SetDetails updates the plan header. Dates are free-text YYYY-MM-DD strings
// and are not format-validated; only the status enum is checked.
func (d *PlanDraft) SetDetails(name, startDate, endDate, status string) error {
	if !treatment.ValidStatus(status) {
		return fmt.Errorf("invalid treatment plan status: %s", status)
	}
	d.plan.Name = name
	d.plan.StartDate = startDate
	d.plan.EndDate = endDate
	d.plan.Status = status
	return nil
}

// AddCostLine appends a line for the given catalog category with quantity 1,
// no material cost, and totalCost equal to the category's base cost. The same
// category may be added any number of times; each addition is an independent
// line.
func (d *PlanDraft) AddCostLine(categoryID uuid.UUID) error {
	for _, c := range d.catalog {
		if c.ID == categoryID {
			line := treatment.CostLine{
				CategoryID:   c.ID.String(),
				CategoryName: c.Name,
				BaseCost:     c.BaseCost,
				Quantity:     1,
			}
			line.Recalculate()
			d.plan.Costs = append(d.plan.Costs, line)
			return nil
		}
	}
	return ErrUnknownCategory
}

// RemoveCostLine removes the line at the given position.
func (d *PlanDraft) RemoveCostLine(index int) error {
	if index < 0 || index >= len(d.plan.Costs) {
		return fmt.Errorf("no cost line at index %d", index)
	}
	d.plan.Costs = append(d.plan.Costs[:index], d.plan.Costs[index+1:]...)
	return nil
}

// UpdateCostLine sets one editable field on a line and immediately recomputes
// that line's totalCost from its current state: the new value for the field
// just changed, the existing values for the other two. Catalog defaults play
// no part in the recompute.
func (d *PlanDraft) UpdateCostLine(index int, field CostField, value float64) error {
	if index < 0 || index >= len(d.plan.Costs) {
		return fmt.Errorf("no cost line at index %d", index)
	}
	line := &d.plan.Costs[index]
	switch field {
	case FieldBaseCost:
		line.BaseCost = treatment.Money(value)
	case FieldQuantity:
		qty := int(value)
		if qty < 1 {
			return fmt.Errorf("quantity must be a positive integer")
		}
		line.Quantity = qty
	case FieldMaterialCost:
		line.MaterialCost = treatment.Money(value)
	default:
		return fmt.Errorf("unknown cost field: %s", field)
	}
	line.Recalculate()
	return nil
}

// Totals returns the draft's live aggregates.
func (d *PlanDraft) Totals() (total, material treatment.Money) {
	for _, l := range d.plan.Costs {
		total += l.TotalCost
		material += l.MaterialCost
	}
	return total, material
}

// CategoryView is the filtered, optionally truncated picker over the catalog
// snapshot: case-insensitive substring match on name or description, first
// DefaultVisibleCategories matches shown until expanded.
type CategoryView struct {
	all     []catalog.Category
	query   string
	showAll bool
}

// SetQuery replaces the filter text and collapses the view again.
func (v *CategoryView) SetQuery(q string) {
	v.query = q
	v.showAll = false
}

func (v *CategoryView) Query() string { return v.query }

// ToggleShowAll flips the expansion state and returns the new value.
func (v *CategoryView) ToggleShowAll() bool {
	v.showAll = !v.showAll
	return v.showAll
}

func (v *CategoryView) ShowAll() bool { return v.showAll }

// Matches returns every category matching the current query.
func (v *CategoryView) Matches() []catalog.Category {
	if v.query == "" {
		return v.all
	}
	var out []catalog.Category
	for _, c := range v.all {
		if c.Matches(v.query) {
			out = append(out, c)
		}
	}
	return out
}

// Displayed returns the matches capped at DefaultVisibleCategories unless the
// view is expanded.
func (v *CategoryView) Displayed() []catalog.Category {
	m := v.Matches()
	if v.showAll || len(m) <= DefaultVisibleCategories {
		return m
	}
	return m[:DefaultVisibleCategories]
}
