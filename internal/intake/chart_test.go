package intake

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

func TestChartEditor_ToggleTooth(t *testing.T) {
	c := NewChartEditor(NewFormState())

	if err := c.ToggleTooth(18); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.ToggleTooth(21); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Selected(); !reflect.DeepEqual(got, []int{18, 21}) {
		t.Errorf("expected selection [18 21], got %v", got)
	}

	// Toggling again deselects.
	if err := c.ToggleTooth(18); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Selected(); !reflect.DeepEqual(got, []int{21}) {
		t.Errorf("expected selection [21], got %v", got)
	}

	// Pediatric tooth is not on the adult chart.
	if err := c.ToggleTooth(55); err == nil {
		t.Error("expected error toggling pediatric tooth on adult chart")
	}
}

func TestChartEditor_CommitIssue(t *testing.T) {
	form := NewFormState()
	c := NewChartEditor(form)

	if err := c.CommitIssue("Caries", ""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}

	c.ToggleTooth(16)
	c.ToggleTooth(17)

	if err := c.CommitIssue("", "note"); !errors.Is(err, ErrIssueRequired) {
		t.Errorf("expected ErrIssueRequired, got %v", err)
	}

	if err := c.CommitIssue("Caries", "distal surface"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tooth := range []int{16, 17} {
		entry, ok := form.ToothIssues[tooth]
		if !ok {
			t.Fatalf("expected ledger entry for tooth %d", tooth)
		}
		if entry.Issue != "Caries" || entry.Comment != "distal surface" {
			t.Errorf("tooth %d: unexpected entry %+v", tooth, entry)
		}
	}

	if len(c.Selected()) != 0 {
		t.Error("expected selection to be cleared after commit")
	}

	// Re-committing the identical value is a no-op on the ledger contents.
	c.ToggleTooth(16)
	if err := c.CommitIssue("Caries", "distal surface"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(form.ToothIssues) != 2 {
		t.Errorf("expected 2 ledger entries, got %d", len(form.ToothIssues))
	}
}

func TestChartEditor_CommitOverwrites(t *testing.T) {
	form := NewFormState()
	form.ToothIssues[24] = treatment.ToothIssue{Issue: "Caries"}
	c := NewChartEditor(form)

	c.ToggleTooth(24)
	if err := c.CommitIssue("Fracture", "vertical"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if form.ToothIssues[24].Issue != "Fracture" {
		t.Errorf("expected overwrite, got %+v", form.ToothIssues[24])
	}
}

func TestChartEditor_OpenEditorPrefill(t *testing.T) {
	form := NewFormState()
	form.ToothIssues[11] = treatment.ToothIssue{Issue: "Caries", Comment: "mesial"}
	form.ToothIssues[12] = treatment.ToothIssue{Issue: "Caries", Comment: "mesial"}
	form.ToothIssues[13] = treatment.ToothIssue{Issue: "Erosion"}
	c := NewChartEditor(form)

	if _, err := c.OpenEditor(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}

	// Single mapped tooth pre-fills with its entry.
	c.ToggleTooth(11)
	prefill, err := c.OpenEditor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefill.Issue != "Caries" || prefill.Comment != "mesial" {
		t.Errorf("unexpected prefill %+v", prefill)
	}

	// Identical group pre-fills with the shared value.
	c.ToggleTooth(12)
	prefill, err = c.OpenEditor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefill.Issue != "Caries" || prefill.Comment != "mesial" {
		t.Errorf("unexpected group prefill %+v", prefill)
	}

	// Divergent group yields blanks.
	c.ToggleTooth(13)
	prefill, err = c.OpenEditor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefill != (IssuePrefill{}) {
		t.Errorf("expected blank prefill for divergent group, got %+v", prefill)
	}

	// A single unmapped tooth also yields blanks.
	c.CancelEditor()
	c.ToggleTooth(14)
	prefill, err = c.OpenEditor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefill != (IssuePrefill{}) {
		t.Errorf("expected blank prefill for unmapped tooth, got %+v", prefill)
	}
}

func TestChartEditor_OpenEditorMixedMappedUnmapped(t *testing.T) {
	form := NewFormState()
	form.ToothIssues[31] = treatment.ToothIssue{Issue: "Caries"}
	c := NewChartEditor(form)

	c.ToggleTooth(31)
	c.ToggleTooth(32)
	prefill, err := c.OpenEditor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefill != (IssuePrefill{}) {
		t.Errorf("expected blank prefill when any tooth is unmapped, got %+v", prefill)
	}
}

func TestChartEditor_RemoveIssue(t *testing.T) {
	form := NewFormState()
	form.ToothIssues[41] = treatment.ToothIssue{Issue: "Caries"}
	c := NewChartEditor(form)

	// Removal skips unmapped teeth silently.
	c.ToggleTooth(41)
	c.ToggleTooth(42)
	if err := c.RemoveIssue(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(form.ToothIssues) != 0 {
		t.Errorf("expected empty ledger, got %v", form.ToothIssues)
	}
	if len(c.Selected()) != 0 {
		t.Error("expected selection cleared after removal")
	}
}

func TestChartEditor_SchemeSwitch(t *testing.T) {
	form := NewFormState()
	c := NewChartEditor(form)

	c.ToggleTooth(18)
	c.CommitIssue("Caries", "")

	if err := c.SetScheme(Scheme("universal")); err == nil {
		t.Error("expected error for unknown scheme")
	}

	c.ToggleTooth(21)
	if err := c.SetScheme(SchemePediatric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Selection dropped, ledger untouched.
	if len(c.Selected()) != 0 {
		t.Error("expected selection cleared on scheme switch")
	}
	if _, ok := form.ToothIssues[18]; !ok {
		t.Error("expected adult-scheme issue to survive scheme switch")
	}

	// Issues under both schemes coexist in one ledger.
	c.ToggleTooth(55)
	c.CommitIssue("Early caries", "")
	if len(form.ToothIssues) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(form.ToothIssues))
	}
	if _, ok := form.ToothIssues[55]; !ok {
		t.Error("expected pediatric entry for tooth 55")
	}

	// Switching back changes nothing in the ledger.
	c.SetScheme(SchemeAdult)
	if len(form.ToothIssues) != 2 {
		t.Errorf("expected 2 ledger entries after switching back, got %d", len(form.ToothIssues))
	}

	// Setting the already-active scheme keeps the selection.
	c.ToggleTooth(11)
	c.SetScheme(SchemeAdult)
	if len(c.Selected()) != 1 {
		t.Error("expected selection kept when scheme is unchanged")
	}
}

func TestChartEditor_CancelEditor(t *testing.T) {
	form := NewFormState()
	form.ToothIssues[26] = treatment.ToothIssue{Issue: "Caries"}
	c := NewChartEditor(form)

	c.ToggleTooth(26)
	c.OpenEditor()
	if !c.EditorOpen() {
		t.Fatal("expected editor open")
	}
	c.CancelEditor()

	if c.EditorOpen() {
		t.Error("expected editor closed after cancel")
	}
	if len(c.Selected()) != 0 {
		t.Error("expected selection cleared after cancel")
	}
	if form.ToothIssues[26].Issue != "Caries" {
		t.Error("expected ledger untouched by cancel")
	}
}

func TestChartEditor_CanOpenEditor(t *testing.T) {
	c := NewChartEditor(NewFormState())
	if c.CanOpenEditor() {
		t.Error("expected editor unavailable with empty selection")
	}
	c.ToggleTooth(34)
	if !c.CanOpenEditor() {
		t.Error("expected editor available with a selection")
	}
}
