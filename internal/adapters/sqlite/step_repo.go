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

const stepColumns = `id, plan_id, content, status, executor, sort_order, comment, created_at, updated_at`

// StepRepository implements secondary.StepRepository with SQLite.
type StepRepository struct {
	db Querier
}

// NewStepRepository creates a new SQLite step repository.
func NewStepRepository(db Querier) *StepRepository {
	return &StepRepository{db: db}
}

func scanStep(row rowScanner) (*secondary.StepRecord, error) {
	var (
		record  secondary.StepRecord
		comment sql.NullString
	)
	err := row.Scan(&record.ID, &record.PlanID, &record.Content, &record.Status, &record.Executor,
		&record.SortOrder, &comment, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Comment = comment.String
	return &record, nil
}

func (r *StepRepository) querySteps(ctx context.Context, query string, args ...any) ([]*secondary.StepRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*secondary.StepRecord
	for rows.Next() {
		record, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, record)
	}
	return steps, rows.Err()
}

// Create persists a new step.
func (r *StepRepository) Create(ctx context.Context, step *secondary.StepRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO steps (plan_id, content, status, executor, sort_order, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		step.PlanID, step.Content, step.Status, step.Executor, step.SortOrder, nullString(step.Comment),
		step.CreatedAt, step.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read step id: %w", err)
	}
	step.ID = id
	return nil
}

// GetByID retrieves a step by its ID.
func (r *StepRepository) GetByID(ctx context.Context, id int64) (*secondary.StepRecord, error) {
	record, err := scanStep(r.db.QueryRowContext(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("step id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return record, nil
}

// ListByPlan retrieves all steps of a plan in plan order.
func (r *StepRepository) ListByPlan(ctx context.Context, planID int64) ([]*secondary.StepRecord, error) {
	return r.querySteps(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE plan_id = ? ORDER BY sort_order, id", planID)
}

// ListByIDs retrieves the steps with the given IDs, ordered by id.
func (r *StepRepository) ListByIDs(ctx context.Context, ids []int64) ([]*secondary.StepRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := inClause(ids)
	return r.querySteps(ctx, "SELECT "+stepColumns+" FROM steps WHERE id IN ("+marks+") ORDER BY id", args...)
}

func stepWhere(planID int64, filters secondary.StepFilters) (string, []any) {
	where := " WHERE plan_id = ?"
	args := []any{planID}
	if filters.Status != "" {
		where += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Executor != "" {
		where += " AND executor = ?"
		args = append(args, filters.Executor)
	}
	return where, args
}

// List retrieves a filtered, ordered, paginated slice of a plan's steps.
func (r *StepRepository) List(ctx context.Context, planID int64, filters secondary.StepFilters) ([]*secondary.StepRecord, error) {
	where, args := stepWhere(planID, filters)

	dir := "ASC"
	if filters.Desc {
		dir = "DESC"
	}
	var order string
	switch filters.OrderBy {
	case secondary.StepOrderByID:
		order = " ORDER BY id " + dir
	case secondary.StepOrderByCreated:
		order = " ORDER BY created_at " + dir + ", id " + dir
	default:
		order = " ORDER BY sort_order " + dir + ", id " + dir
	}

	page, pageArgs := pageClause(filters.Limit, filters.Offset)
	return r.querySteps(ctx, "SELECT "+stepColumns+" FROM steps"+where+order+page, append(args, pageArgs...)...)
}

// Count returns how many of a plan's steps match filters.
func (r *StepRepository) Count(ctx context.Context, planID int64, filters secondary.StepFilters) (int, error) {
	where, args := stepWhere(planID, filters)
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM steps"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count steps: %w", err)
	}
	return count, nil
}

// NextPending returns the first Todo step of a plan, or nil.
func (r *StepRepository) NextPending(ctx context.Context, planID int64) (*secondary.StepRecord, error) {
	record, err := scanStep(r.db.QueryRowContext(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE plan_id = ? AND status = 'todo' ORDER BY sort_order, id LIMIT 1",
		planID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next step: %w", err)
	}
	return record, nil
}

// Update writes content, status, executor, comment and updated_at.
func (r *StepRepository) Update(ctx context.Context, step *secondary.StepRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE steps SET content = ?, status = ?, executor = ?, comment = ?, updated_at = ? WHERE id = ?`,
		step.Content, step.Status, step.Executor, nullString(step.Comment), step.UpdatedAt, step.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return requireAffected(result, "step", step.ID)
}

// UpdateStatus sets a step's status.
func (r *StepRepository) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE steps SET status = ?, updated_at = ? WHERE id = ?", status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update step status: %w", err)
	}
	return requireAffected(result, "step", id)
}

// UpdateSortOrder sets one step's ordinal.
func (r *StepRepository) UpdateSortOrder(ctx context.Context, id int64, sortOrder int, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE steps SET sort_order = ?, updated_at = ? WHERE id = ?", sortOrder, at, id)
	if err != nil {
		return fmt.Errorf("failed to update step order: %w", err)
	}
	return requireAffected(result, "step", id)
}

// ShiftSortOrder moves every step at or after from down by positions.
func (r *StepRepository) ShiftSortOrder(ctx context.Context, planID int64, from, by int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE steps SET sort_order = sort_order + ?, updated_at = ? WHERE plan_id = ? AND sort_order >= ?",
		by, at, planID, from)
	if err != nil {
		return fmt.Errorf("failed to shift step order: %w", err)
	}
	return nil
}

// DeleteByIDs removes the given steps.
func (r *StepRepository) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks, args := inClause(ids)
	result, err := r.db.ExecContext(ctx, "DELETE FROM steps WHERE id IN ("+marks+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete steps: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteByPlan removes every step of a plan.
func (r *StepRepository) DeleteByPlan(ctx context.Context, planID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM steps WHERE plan_id = ?", planID); err != nil {
		return fmt.Errorf("failed to delete plan steps: %w", err)
	}
	return nil
}

var _ secondary.StepRepository = (*StepRepository)(nil)
