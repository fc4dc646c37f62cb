package domain

import (
	"context"
	"time"
)

// Frequency is the recurrence of a spending alert.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// Alert is a per-user spending-threshold rule. LastSent is nil until the alert
// first fires; it is recorded by the notification dispatcher, not by the
// evaluator.
type Alert struct {
	ID        int64
	UserID    int64
	Threshold float64
	Frequency Frequency
	LastSent  *time.Time
	Active    bool
	CreatedAt time.Time
}

// Period is the time window over which an alert's expenses are summed,
// inclusive on both ends.
type Period struct {
	Start time.Time
	End   time.Time
}

// AlertResult is the outcome of evaluating one alert over a window.
type AlertResult struct {
	Alert         Alert
	Triggered     bool
	TotalExpenses float64
	Period        Period
}

// AlertCheck summarizes an evaluation pass over a user's active alerts.
type AlertCheck struct {
	AlertsChecked   int
	TriggeredAlerts []AlertResult
}

// AlertPatch holds the updatable alert fields. Nil means "leave as is".
type AlertPatch struct {
	Threshold *float64
	Frequency *Frequency
	Active    *bool
}

// AlertRepository defines persistence operations for alerts. Owner-scoped
// operations report another user's rows as ErrNotFound.
type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, userID, id int64) (*Alert, error)
	ListByUser(ctx context.Context, userID int64) ([]Alert, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]Alert, error)
	Update(ctx context.Context, a *Alert) error
	Delete(ctx context.Context, userID, id int64) error
}
