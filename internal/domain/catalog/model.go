package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

// Category maps to the treatment_categories table. BaseCost is the default
// price for a cost line created from this category; lines remain editable
// after creation and may diverge from it.
type Category struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	BaseCost    treatment.Money `db:"base_cost" json:"baseCost"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Matches reports whether the category matches a case-insensitive substring
// query against name or description.
func (c *Category) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}
