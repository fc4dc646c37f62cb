package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

func TestComputeWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		freq  domain.Frequency
		start time.Time
	}{
		{domain.FrequencyDaily, time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)},
		{domain.FrequencyWeekly, time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)},
		{domain.FrequencyMonthly, time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(string(tc.freq), func(t *testing.T) {
			period := service.ComputeWindow(tc.freq, now)
			if !period.Start.Equal(tc.start) {
				t.Fatalf("start = %v, want %v", period.Start, tc.start)
			}
			if !period.End.Equal(now) {
				t.Fatalf("end = %v, want %v", period.End, now)
			}
			if !period.Start.Before(period.End) {
				t.Fatal("expected start before end")
			}
		})
	}
}

func TestComputeWindow_JanuaryReachesPriorDecember(t *testing.T) {
	now := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

	period := service.ComputeWindow(domain.FrequencyMonthly, now)
	want := time.Date(2023, time.December, 15, 9, 30, 0, 0, time.UTC)
	if !period.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", period.Start, want)
	}
}

func TestEvaluate(t *testing.T) {
	alert := domain.Alert{ID: 1, Threshold: 1000, Frequency: domain.FrequencyMonthly}
	period := service.ComputeWindow(alert.Frequency, time.Now())

	expenses := func(amounts ...float64) []domain.Movement {
		ms := make([]domain.Movement, len(amounts))
		for i, a := range amounts {
			ms[i] = domain.Movement{Type: domain.MovementExpense, Amount: a}
		}
		return ms
	}

	tests := []struct {
		name      string
		expenses  []domain.Movement
		total     float64
		triggered bool
	}{
		{"no expenses", nil, 0, false},
		{"under threshold", expenses(300, 400), 700, false},
		{"exactly at threshold", expenses(600, 400), 1000, false},
		{"just over threshold", expenses(600, 400.5), 1000.5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := service.Evaluate(alert, tc.expenses, period)
			if result.TotalExpenses != tc.total {
				t.Fatalf("total = %v, want %v", result.TotalExpenses, tc.total)
			}
			if result.Triggered != tc.triggered {
				t.Fatalf("triggered = %v, want %v", result.Triggered, tc.triggered)
			}
			if result.Alert.ID != alert.ID {
				t.Fatal("expected result to carry the evaluated alert")
			}
		})
	}
}

func TestShouldSend(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)
	at := func(y int, m time.Month, d, h int) *time.Time {
		ts := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
		return &ts
	}

	tests := []struct {
		name     string
		freq     domain.Frequency
		active   bool
		lastSent *time.Time
		want     bool
	}{
		{"inactive never sends", domain.FrequencyDaily, false, nil, false},
		{"never sent", domain.FrequencyDaily, true, nil, true},
		{"daily same day", domain.FrequencyDaily, true, at(2024, time.June, 10, 8), false},
		{"daily previous day", domain.FrequencyDaily, true, at(2024, time.June, 9, 23), true},
		{"weekly six days ago", domain.FrequencyWeekly, true, at(2024, time.June, 4, 15), false},
		{"weekly seven days ago", domain.FrequencyWeekly, true, at(2024, time.June, 3, 15), true},
		{"monthly same month", domain.FrequencyMonthly, true, at(2024, time.June, 1, 0), false},
		{"monthly previous month", domain.FrequencyMonthly, true, at(2024, time.May, 31, 23), true},
		{"monthly same month last year", domain.FrequencyMonthly, true, at(2023, time.June, 10, 15), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			alert := domain.Alert{Frequency: tc.freq, Active: tc.active, LastSent: tc.lastSent}
			if got := service.ShouldSend(alert, now); got != tc.want {
				t.Fatalf("ShouldSend = %v, want %v", got, tc.want)
			}
		})
	}
}

func newTestAlerts(t *testing.T) (*service.AlertService, *service.MovementService, int64) {
	t.Helper()
	auth, _, db := newTestAuth(t)
	user, _ := registerTestUser(t, auth, "alerts@example.com")
	alerts := service.NewAlertService(db.Alerts(), db.Movements())
	movements := service.NewMovementService(db.Movements())
	return alerts, movements, user.ID
}

func addExpense(t *testing.T, movements *service.MovementService, userID int64, amount float64, date time.Time) {
	t.Helper()
	m := &domain.Movement{
		Type:     domain.MovementExpense,
		Amount:   amount,
		Category: "Food",
		Date:     date,
	}
	if err := movements.Create(context.Background(), userID, m); err != nil {
		t.Fatalf("create expense: %v", err)
	}
}

func TestAlertService_CheckAll(t *testing.T) {
	alerts, movements, userID := newTestAlerts(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	// Two alerts: the low daily one should trigger, the high monthly one
	// should not.
	low, err := alerts.Create(ctx, userID, 400, domain.FrequencyDaily)
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if _, err := alerts.Create(ctx, userID, 10000, domain.FrequencyMonthly); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	addExpense(t, movements, userID, 500, now.Add(-2*time.Hour))
	// Outside the daily window, inside the monthly one.
	addExpense(t, movements, userID, 50, now.AddDate(0, 0, -3))
	// Income never counts against a threshold.
	income := &domain.Movement{Type: domain.MovementIncome, Amount: 9999, Date: now.Add(-time.Hour)}
	if err := movements.Create(ctx, userID, income); err != nil {
		t.Fatalf("create income: %v", err)
	}

	check, err := alerts.CheckAll(ctx, userID, now)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}

	if check.AlertsChecked != 2 {
		t.Fatalf("alertsChecked = %d, want 2", check.AlertsChecked)
	}
	if len(check.TriggeredAlerts) != 1 {
		t.Fatalf("triggered = %d, want 1", len(check.TriggeredAlerts))
	}

	result := check.TriggeredAlerts[0]
	if result.Alert.ID != low.ID {
		t.Fatalf("triggered alert id = %d, want %d", result.Alert.ID, low.ID)
	}
	if result.TotalExpenses != 500 {
		t.Fatalf("totalExpenses = %v, want 500", result.TotalExpenses)
	}
	if !result.Period.End.Equal(now) {
		t.Fatalf("period end = %v, want %v", result.Period.End, now)
	}
}

func TestAlertService_CheckAll_SkipsInactive(t *testing.T) {
	alerts, movements, userID := newTestAlerts(t)
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := alerts.Create(ctx, userID, 100, domain.FrequencyDaily)
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	inactive := false
	if _, err := alerts.Update(ctx, userID, created.ID, domain.AlertPatch{Active: &inactive}); err != nil {
		t.Fatalf("deactivate alert: %v", err)
	}

	addExpense(t, movements, userID, 500, now.Add(-time.Hour))

	check, err := alerts.CheckAll(ctx, userID, now)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if check.AlertsChecked != 0 {
		t.Fatalf("alertsChecked = %d, want 0", check.AlertsChecked)
	}
	if len(check.TriggeredAlerts) != 0 {
		t.Fatalf("triggered = %d, want 0", len(check.TriggeredAlerts))
	}
}

func TestAlertService_Create_Invalid(t *testing.T) {
	alerts, _, userID := newTestAlerts(t)
	ctx := context.Background()

	if _, err := alerts.Create(ctx, userID, 0, domain.FrequencyDaily); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero threshold, got %v", err)
	}
	if _, err := alerts.Create(ctx, userID, 100, "yearly"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad frequency, got %v", err)
	}
}

func TestAlertService_Update(t *testing.T) {
	alerts, _, userID := newTestAlerts(t)
	ctx := context.Background()

	created, err := alerts.Create(ctx, userID, 300, domain.FrequencyDaily)
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}

	threshold := 750.0
	updated, err := alerts.Update(ctx, userID, created.ID, domain.AlertPatch{Threshold: &threshold})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Threshold != 750 {
		t.Fatalf("threshold = %v, want 750", updated.Threshold)
	}
	// Absent fields are untouched.
	if updated.Frequency != domain.FrequencyDaily {
		t.Fatalf("frequency = %q, want daily", updated.Frequency)
	}
	if !updated.Active {
		t.Fatal("expected alert to stay active")
	}

	bad := -5.0
	if _, err := alerts.Update(ctx, userID, created.ID, domain.AlertPatch{Threshold: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAlertService_OwnershipScoping(t *testing.T) {
	alerts, _, userID := newTestAlerts(t)
	ctx := context.Background()

	created, err := alerts.Create(ctx, userID, 300, domain.FrequencyWeekly)
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}

	otherUser := userID + 100
	threshold := 1.0
	if _, err := alerts.Update(ctx, otherUser, created.ID, domain.AlertPatch{Threshold: &threshold}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := alerts.Delete(ctx, otherUser, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	if err := alerts.Delete(ctx, userID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := alerts.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no alerts after delete, got %d", len(list))
	}
}
