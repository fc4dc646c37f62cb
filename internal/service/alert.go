package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// AlertService evaluates spending alerts and handles their CRUD. Evaluation
// only reports trigger state; recording that a notification went out (the
// LastSent field) is the dispatcher's job, not the evaluator's.
type AlertService struct {
	alerts    domain.AlertRepository
	movements domain.MovementRepository
}

// NewAlertService creates a new AlertService.
func NewAlertService(alerts domain.AlertRepository, movements domain.MovementRepository) *AlertService {
	return &AlertService{alerts: alerts, movements: movements}
}

// ComputeWindow returns the lookback window for a frequency ending at now:
// one day, seven days, or one calendar month back. AddDate handles the
// month and year rollover, so a January evaluation reaches into the prior
// December.
func ComputeWindow(freq domain.Frequency, now time.Time) domain.Period {
	var start time.Time
	switch freq {
	case domain.FrequencyDaily:
		start = now.AddDate(0, 0, -1)
	case domain.FrequencyWeekly:
		start = now.AddDate(0, 0, -7)
	case domain.FrequencyMonthly:
		start = now.AddDate(0, -1, 0)
	default:
		start = now
	}
	return domain.Period{Start: start, End: now}
}

// Evaluate sums the supplied expense movements and reports whether they
// strictly exceed the alert's threshold. Spending exactly at the threshold
// does not trigger. The caller supplies only expense records inside the
// period; Evaluate is pure given that set.
func Evaluate(alert domain.Alert, expenses []domain.Movement, period domain.Period) domain.AlertResult {
	var total float64
	for _, m := range expenses {
		total += m.Amount
	}
	return domain.AlertResult{
		Alert:         alert,
		Triggered:     total > alert.Threshold,
		TotalExpenses: total,
		Period:        period,
	}
}

// CheckAll evaluates every active alert of the user against its own lookback
// window ending at now and collects the triggered subset. Alerts are
// independent; none affects another's evaluation.
func (s *AlertService) CheckAll(ctx context.Context, userID int64, now time.Time) (*domain.AlertCheck, error) {
	alerts, err := s.alerts.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}

	check := &domain.AlertCheck{AlertsChecked: len(alerts)}
	for _, alert := range alerts {
		period := ComputeWindow(alert.Frequency, now)
		expenses, err := s.movements.ListExpensesInRange(ctx, userID, period.Start, period.End)
		if err != nil {
			return nil, fmt.Errorf("list expenses for alert %d: %w", alert.ID, err)
		}
		if result := Evaluate(alert, expenses, period); result.Triggered {
			check.TriggeredAlerts = append(check.TriggeredAlerts, result)
		}
	}
	return check, nil
}

// ShouldSend reports whether a triggered alert is due to notify at now, based
// on when it last fired. Inactive alerts never send; an alert that has never
// sent always does. Daily and monthly alerts compare calendar fields, weekly
// alerts require seven whole days to have elapsed. LastSent is not modified.
func ShouldSend(alert domain.Alert, now time.Time) bool {
	if !alert.Active {
		return false
	}
	if alert.LastSent == nil {
		return true
	}

	last := *alert.LastSent
	switch alert.Frequency {
	case domain.FrequencyDaily:
		return now.Day() != last.Day() ||
			now.Month() != last.Month() ||
			now.Year() != last.Year()
	case domain.FrequencyWeekly:
		weeks := int(now.Sub(last).Hours() / 24 / 7)
		return weeks >= 1
	case domain.FrequencyMonthly:
		return now.Month() != last.Month() || now.Year() != last.Year()
	default:
		return false
	}
}

// Create stores a new alert for the user after validating its invariants.
func (s *AlertService) Create(ctx context.Context, userID int64, threshold float64, freq domain.Frequency) (*domain.Alert, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive", domain.ErrInvalidInput)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: invalid frequency %q", domain.ErrInvalidInput, freq)
	}

	alert := &domain.Alert{
		UserID:    userID,
		Threshold: threshold,
		Frequency: freq,
		Active:    true,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return alert, nil
}

// ListByUser returns all of the user's alerts.
func (s *AlertService) ListByUser(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return s.alerts.ListByUser(ctx, userID)
}

// Update applies the provided fields to the user's alert. Only threshold,
// frequency, and the active flag are mutable; absent fields keep their stored
// values.
func (s *AlertService) Update(ctx context.Context, userID, id int64, patch domain.AlertPatch) (*domain.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Threshold != nil {
		if *patch.Threshold <= 0 {
			return nil, fmt.Errorf("%w: threshold must be positive", domain.ErrInvalidInput)
		}
		alert.Threshold = *patch.Threshold
	}
	if patch.Frequency != nil {
		if !patch.Frequency.Valid() {
			return nil, fmt.Errorf("%w: invalid frequency %q", domain.ErrInvalidInput, *patch.Frequency)
		}
		alert.Frequency = *patch.Frequency
	}
	if patch.Active != nil {
		alert.Active = *patch.Active
	}

	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}
	return alert, nil
}

// Delete removes the user's alert. A foreign or unknown id is ErrNotFound.
func (s *AlertService) Delete(ctx context.Context, userID, id int64) error {
	return s.alerts.Delete(ctx, userID, id)
}
