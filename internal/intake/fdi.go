// Package intake implements the multi-step treatment intake workflow: patient
// selection, diagnosis capture with a per-tooth issue ledger, treatment-plan
// composition with live cost aggregation, and review/submit against the
// practice-management API.
package intake

// Scheme selects the active FDI tooth numbering range for the dental chart.
// Switching schemes never invalidates issues recorded under the other scheme;
// the two ranges do not overlap.
type Scheme string

const (
	// SchemeAdult covers permanent dentition: quadrants 1-4, positions 1-8.
	SchemeAdult Scheme = "adult"
	// SchemePediatric covers primary dentition: quadrants 5-8, positions 1-5.
	SchemePediatric Scheme = "pediatric"
)

// ValidScheme reports whether s names a known numbering scheme.
func ValidScheme(s Scheme) bool {
	return s == SchemeAdult || s == SchemePediatric
}

// Contains reports whether the two-digit FDI number falls inside the scheme's
// range.
func (s Scheme) Contains(tooth int) bool {
	quadrant, position := tooth/10, tooth%10
	switch s {
	case SchemeAdult:
		return quadrant >= 1 && quadrant <= 4 && position >= 1 && position <= 8
	case SchemePediatric:
		return quadrant >= 5 && quadrant <= 8 && position >= 1 && position <= 5
	}
	return false
}

// Teeth enumerates the scheme's tooth numbers in quadrant order.
func (s Scheme) Teeth() []int {
	var lo, hi, positions int
	switch s {
	case SchemeAdult:
		lo, hi, positions = 1, 4, 8
	case SchemePediatric:
		lo, hi, positions = 5, 8, 5
	default:
		return nil
	}
	teeth := make([]int, 0, (hi-lo+1)*positions)
	for q := lo; q <= hi; q++ {
		for p := 1; p <= positions; p++ {
			teeth = append(teeth, q*10+p)
		}
	}
	return teeth
}

// ValidTooth reports whether the number is a valid FDI tooth under either
// scheme. Stored ledger keys are checked against this, not against the active
// scheme, so a scheme switch never makes existing entries invalid.
func ValidTooth(tooth int) bool {
	return SchemeAdult.Contains(tooth) || SchemePediatric.Contains(tooth)
}
