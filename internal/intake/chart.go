package intake

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

var (
	// ErrNoSelection is returned when an issue-editor operation needs at
	// least one selected tooth.
	ErrNoSelection = errors.New("no teeth selected")
	// ErrIssueRequired is returned when committing with an empty issue.
	ErrIssueRequired = errors.New("issue is required")
)

// IssuePrefill is what the issue editor opens with. For a single selected
// tooth it mirrors that tooth's existing entry; for a group selection it is
// populated only when every selected tooth already shares an identical
// issue+comment pair.
type IssuePrefill struct {
	Issue   string `json:"issue"`
	Comment string `json:"comment"`
}

// ChartEditor maintains the per-tooth issue ledger on the form plus the
// transient working selection. The selection is UI working state, never part
// of the form, and is cleared after every commit or removal.
type ChartEditor struct {
	form       *FormState
	scheme     Scheme
	selected   map[int]struct{}
	editorOpen bool
}

func NewChartEditor(form *FormState) *ChartEditor {
	return &ChartEditor{
		form:     form,
		scheme:   SchemeAdult,
		selected: map[int]struct{}{},
	}
}

// ActiveScheme returns the numbering scheme the chart currently renders.
func (c *ChartEditor) ActiveScheme() Scheme { return c.scheme }

// SetScheme switches between adult and pediatric numbering. Issues recorded
// under the other scheme stay in the ledger untouched; the current selection
// is dropped because its teeth may not exist on the new chart.
func (c *ChartEditor) SetScheme(s Scheme) error {
	if !ValidScheme(s) {
		return fmt.Errorf("unknown numbering scheme: %s", s)
	}
	if s != c.scheme {
		c.scheme = s
		c.clearSelection()
	}
	return nil
}

// ToggleTooth adds the tooth to the working selection, or removes it if
// already selected. The tooth must exist on the active scheme's chart.
func (c *ChartEditor) ToggleTooth(tooth int) error {
	if !c.scheme.Contains(tooth) {
		return fmt.Errorf("tooth %d is not on the %s chart", tooth, c.scheme)
	}
	if _, ok := c.selected[tooth]; ok {
		delete(c.selected, tooth)
	} else {
		c.selected[tooth] = struct{}{}
	}
	return nil
}

// Selected returns the working selection in ascending order.
func (c *ChartEditor) Selected() []int {
	teeth := make([]int, 0, len(c.selected))
	for t := range c.selected {
		teeth = append(teeth, t)
	}
	sort.Ints(teeth)
	return teeth
}

// CanOpenEditor reports whether the add/edit-issue action is available. With
// nothing selected the action is simply unavailable, not a validation error.
func (c *ChartEditor) CanOpenEditor() bool { return len(c.selected) > 0 }

// OpenEditor opens the issue editor and computes its pre-fill. A single
// selected tooth pre-fills with its existing entry, if any. A group selection
// pre-fills only when all selected teeth share an identical entry; any
// divergence (including unmapped teeth) yields blanks.
func (c *ChartEditor) OpenEditor() (IssuePrefill, error) {
	if len(c.selected) == 0 {
		return IssuePrefill{}, ErrNoSelection
	}
	c.editorOpen = true

	var prefill IssuePrefill
	first := true
	for tooth := range c.selected {
		entry, ok := c.form.ToothIssues[tooth]
		if !ok {
			return IssuePrefill{}, nil
		}
		if first {
			prefill = IssuePrefill{Issue: entry.Issue, Comment: entry.Comment}
			first = false
			continue
		}
		if entry.Issue != prefill.Issue || entry.Comment != prefill.Comment {
			return IssuePrefill{}, nil
		}
	}
	return prefill, nil
}

// EditorOpen reports whether the issue editor is showing.
func (c *ChartEditor) EditorOpen() bool { return c.editorOpen }

// CancelEditor closes the editor and drops the working selection without
// touching the ledger.
func (c *ChartEditor) CancelEditor() {
	c.clearSelection()
}

// CommitIssue writes {issue, comment} to every selected tooth, overwriting
// existing entries. This is the only operation allowed to overwrite ledger
// entries. The write is pure in-memory assignment, so it is atomic across the
// selection. Selection is cleared and the editor closed afterwards.
func (c *ChartEditor) CommitIssue(issue, comment string) error {
	if len(c.selected) == 0 {
		return ErrNoSelection
	}
	if issue == "" {
		return ErrIssueRequired
	}
	for tooth := range c.selected {
		c.form.ToothIssues[tooth] = treatment.ToothIssue{Issue: issue, Comment: comment}
	}
	c.clearSelection()
	return nil
}

// RemoveIssue deletes the ledger entry for every selected tooth. Teeth
// without an entry are skipped silently. Selection is cleared and the editor
// closed afterwards.
func (c *ChartEditor) RemoveIssue() error {
	if len(c.selected) == 0 {
		return ErrNoSelection
	}
	for tooth := range c.selected {
		delete(c.form.ToothIssues, tooth)
	}
	c.clearSelection()
	return nil
}

func (c *ChartEditor) clearSelection() {
	c.selected = map[int]struct{}{}
	c.editorOpen = false
}
