package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/ports/secondary"
)

const planColumns = `id, title, content, status, comment, last_session_id, created_at, updated_at`

// PlanRepository implements secondary.PlanRepository with SQLite.
type PlanRepository struct {
	db Querier
}

// NewPlanRepository creates a new SQLite plan repository.
func NewPlanRepository(db Querier) *PlanRepository {
	return &PlanRepository{db: db}
}

func scanPlan(row rowScanner) (*secondary.PlanRecord, error) {
	var (
		record        secondary.PlanRecord
		comment       sql.NullString
		lastSessionID sql.NullString
	)
	err := row.Scan(&record.ID, &record.Title, &record.Content, &record.Status, &comment, &lastSessionID,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Comment = comment.String
	record.LastSessionID = lastSessionID.String
	return &record, nil
}

func (r *PlanRepository) queryPlans(ctx context.Context, query string, args ...any) ([]*secondary.PlanRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*secondary.PlanRecord
	for rows.Next() {
		record, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, record)
	}
	return plans, rows.Err()
}

// Create persists a new plan.
func (r *PlanRepository) Create(ctx context.Context, plan *secondary.PlanRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (title, content, status, comment, last_session_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.Title, plan.Content, plan.Status, nullString(plan.Comment), nullString(plan.LastSessionID),
		plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read plan id: %w", err)
	}
	plan.ID = id
	return nil
}

// GetByID retrieves a plan by its ID.
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*secondary.PlanRecord, error) {
	record, err := scanPlan(r.db.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM plans WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return record, nil
}

// List retrieves plans matching the given filters.
func (r *PlanRepository) List(ctx context.Context, filters secondary.PlanFilters) ([]*secondary.PlanRecord, error) {
	query := "SELECT " + planColumns + " FROM plans WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY updated_at DESC, id DESC"
	return r.queryPlans(ctx, query, args...)
}

// ListByIDs retrieves the plans with the given IDs, ordered by id.
func (r *PlanRepository) ListByIDs(ctx context.Context, ids []int64) ([]*secondary.PlanRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := inClause(ids)
	return r.queryPlans(ctx, "SELECT "+planColumns+" FROM plans WHERE id IN ("+marks+") ORDER BY id", args...)
}

// Update writes every mutable column of plan.
func (r *PlanRepository) Update(ctx context.Context, plan *secondary.PlanRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE plans SET title = ?, content = ?, status = ?, comment = ?, last_session_id = ?, updated_at = ?
		WHERE id = ?`,
		plan.Title, plan.Content, plan.Status, nullString(plan.Comment), nullString(plan.LastSessionID),
		plan.UpdatedAt, plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return requireAffected(result, "plan", plan.ID)
}

// UpdateStatus sets a plan's status.
func (r *PlanRepository) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE plans SET status = ?, updated_at = ? WHERE id = ?", status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	return requireAffected(result, "plan", id)
}

// Touch records the last session to change the plan.
func (r *PlanRepository) Touch(ctx context.Context, id int64, sessionID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE plans SET last_session_id = ?, updated_at = ? WHERE id = ?", nullString(sessionID), at, id)
	if err != nil {
		return fmt.Errorf("failed to touch plan: %w", err)
	}
	return requireAffected(result, "plan", id)
}

// Delete removes a plan row.
func (r *PlanRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// requireAffected turns a zero-row UPDATE into NotFound ("<kind> id N").
func requireAffected(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("%s id %d", kind, id)
	}
	return nil
}

var _ secondary.PlanRepository = (*PlanRepository)(nil)
