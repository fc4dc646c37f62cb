package domain

import (
	"context"
	"time"
)

// MovementType distinguishes income from expense records.
type MovementType string

const (
	MovementIncome  MovementType = "income"
	MovementExpense MovementType = "expense"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementExpense
}

// DefaultCurrency is applied when a movement is created without one.
const DefaultCurrency = "$"

// Currencies is the fixed set of accepted currency symbols.
var Currencies = []string{"$", "S/", "€", "£", "R$"}

// ValidCurrency reports whether c is one of the accepted currency symbols.
func ValidCurrency(c string) bool {
	for _, s := range Currencies {
		if c == s {
			return true
		}
	}
	return false
}

// Movement is a single financial transaction owned by one user.
// Amount is strictly positive; Category and Description are optional.
type Movement struct {
	ID          int64
	UserID      int64
	Type        MovementType
	Amount      float64
	Currency    string
	Category    string
	Description string
	Date        time.Time
}

// MovementFilter narrows a movement listing. A zero Year means no date filter;
// a zero Month with a set Year covers the whole year.
type MovementFilter struct {
	Year  int
	Month time.Month
}

// Range returns the inclusive [start, end] interval covered by the filter:
// the whole year, or the single month when Month is set. Year must be non-zero.
func (f MovementFilter) Range() (start, end time.Time) {
	if f.Month != 0 {
		start = time.Date(f.Year, f.Month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return start, end
	}
	start = time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return start, end
}

// MovementPatch holds the updatable movement fields. Nil means "leave as is";
// in particular an absent currency never blanks the stored one.
type MovementPatch struct {
	Type        *MovementType
	Amount      *float64
	Currency    *string
	Category    *string
	Description *string
	Date        *time.Time
}

// MovementRepository defines persistence operations for movements. Reads and
// writes that take a userID are owner-scoped: rows belonging to another user
// are reported as ErrNotFound, never as a permission failure.
type MovementRepository interface {
	Create(ctx context.Context, m *Movement) error
	GetByID(ctx context.Context, userID, id int64) (*Movement, error)
	ListByUser(ctx context.Context, userID int64, filter MovementFilter) ([]Movement, error)
	ListExpensesInRange(ctx context.Context, userID int64, start, end time.Time) ([]Movement, error)
	Update(ctx context.Context, m *Movement) error
	Delete(ctx context.Context, userID, id int64) error
}
