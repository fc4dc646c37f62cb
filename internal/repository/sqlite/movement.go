package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// MovementRepository implements domain.MovementRepository using SQLite.
// Every query is scoped by user_id so another owner's rows are
// indistinguishable from missing ones.
type MovementRepository struct {
	db *sql.DB
}

// NewMovementRepository creates a new SQLite-backed MovementRepository.
func NewMovementRepository(db *DB) *MovementRepository {
	return &MovementRepository{db: db.SqlDB}
}

func (r *MovementRepository) Create(ctx context.Context, m *domain.Movement) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO movements (user_id, type, amount, currency, category, description, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Type, m.Amount, m.Currency, m.Category, m.Description, m.Date.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	m.ID = id
	return nil
}

func (r *MovementRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Movement, error) {
	m := &domain.Movement{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, amount, currency, category, description, date
		 FROM movements WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&m.ID, &m.UserID, &m.Type, &m.Amount, &m.Currency, &m.Category, &m.Description, &m.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query movement by id: %w", err)
	}
	return m, nil
}

// ListByUser returns the user's movements newest first, optionally narrowed to
// a year or a year+month.
func (r *MovementRepository) ListByUser(ctx context.Context, userID int64, filter domain.MovementFilter) ([]domain.Movement, error) {
	query := `SELECT id, user_id, type, amount, currency, category, description, date
	          FROM movements WHERE user_id = ?`
	args := []any{userID}

	if filter.Year != 0 {
		start, end := filter.Range()
		query += " AND date >= ? AND date <= ?"
		args = append(args, start, end)
	}
	query += " ORDER BY date DESC"

	return r.list(ctx, query, args...)
}

// ListExpensesInRange returns the user's expense movements with a date in
// [start, end], both ends inclusive.
func (r *MovementRepository) ListExpensesInRange(ctx context.Context, userID int64, start, end time.Time) ([]domain.Movement, error) {
	return r.list(ctx,
		`SELECT id, user_id, type, amount, currency, category, description, date
		 FROM movements
		 WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?
		 ORDER BY date DESC`,
		userID, domain.MovementExpense, start.UTC(), end.UTC())
}

func (r *MovementRepository) Update(ctx context.Context, m *domain.Movement) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE movements
		 SET type = ?, amount = ?, currency = ?, category = ?, description = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		m.Type, m.Amount, m.Currency, m.Category, m.Description, m.Date.UTC(), m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	return requireRow(result)
}

func (r *MovementRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM movements WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return requireRow(result)
}

func (r *MovementRepository) list(ctx context.Context, query string, args ...any) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var m domain.Movement
		if err := rows.Scan(&m.ID, &m.UserID, &m.Type, &m.Amount, &m.Currency,
			&m.Category, &m.Description, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
