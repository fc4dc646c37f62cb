package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// AlertRepository implements domain.AlertRepository using SQLite.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new SQLite-backed AlertRepository.
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db.SqlDB}
}

func (r *AlertRepository) Create(ctx context.Context, a *domain.Alert) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (user_id, threshold, frequency, last_sent, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Threshold, a.Frequency, nullableTime(a.LastSent), a.Active, now,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, threshold, frequency, last_sent, active, created_at
		 FROM alerts WHERE id = ? AND user_id = ?`, id, userID)

	a, err := scanAlert(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query alert by id: %w", err)
	}
	return a, nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return r.list(ctx,
		`SELECT id, user_id, threshold, frequency, last_sent, active, created_at
		 FROM alerts WHERE user_id = ? ORDER BY created_at, id`, userID)
}

func (r *AlertRepository) ListActiveByUser(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return r.list(ctx,
		`SELECT id, user_id, threshold, frequency, last_sent, active, created_at
		 FROM alerts WHERE user_id = ? AND active = 1 ORDER BY created_at, id`, userID)
}

func (r *AlertRepository) Update(ctx context.Context, a *domain.Alert) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET threshold = ?, frequency = ?, last_sent = ?, active = ?
		 WHERE id = ? AND user_id = ?`,
		a.Threshold, a.Frequency, nullableTime(a.LastSent), a.Active, a.ID, a.UserID,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return requireRow(result)
}

func (r *AlertRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM alerts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return requireRow(result)
}

func (r *AlertRepository) list(ctx context.Context, query string, args ...any) ([]domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func scanAlert(scan func(...any) error) (*domain.Alert, error) {
	a := &domain.Alert{}
	var lastSent sql.NullTime
	if err := scan(&a.ID, &a.UserID, &a.Threshold, &a.Frequency,
		&lastSent, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	if lastSent.Valid {
		t := lastSent.Time
		a.LastSent = &t
	}
	return a, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
