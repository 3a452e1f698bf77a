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

const goalColumns = `id, step_id, content, status, comment, created_at, updated_at`

// GoalRepository implements secondary.GoalRepository with SQLite.
type GoalRepository struct {
	db Querier
}

// NewGoalRepository creates a new SQLite goal repository.
func NewGoalRepository(db Querier) *GoalRepository {
	return &GoalRepository{db: db}
}

func scanGoal(row rowScanner) (*secondary.GoalRecord, error) {
	var (
		record  secondary.GoalRecord
		comment sql.NullString
	)
	err := row.Scan(&record.ID, &record.StepID, &record.Content, &record.Status, &comment,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Comment = comment.String
	return &record, nil
}

func (r *GoalRepository) queryGoals(ctx context.Context, query string, args ...any) ([]*secondary.GoalRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*secondary.GoalRecord
	for rows.Next() {
		record, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, record)
	}
	return goals, rows.Err()
}

// Create persists a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (step_id, content, status, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		goal.StepID, goal.Content, goal.Status, nullString(goal.Comment), goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read goal id: %w", err)
	}
	goal.ID = id
	return nil
}

// GetByID retrieves a goal by its ID.
func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*secondary.GoalRecord, error) {
	record, err := scanGoal(r.db.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("goal id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return record, nil
}

// ListByStep retrieves all goals of a step.
func (r *GoalRepository) ListByStep(ctx context.Context, stepID int64) ([]*secondary.GoalRecord, error) {
	return r.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals WHERE step_id = ? ORDER BY id", stepID)
}

// ListBySteps retrieves the goals of several steps keyed by step id.
func (r *GoalRepository) ListBySteps(ctx context.Context, stepIDs []int64) (map[int64][]*secondary.GoalRecord, error) {
	byStep := make(map[int64][]*secondary.GoalRecord)
	if len(stepIDs) == 0 {
		return byStep, nil
	}
	marks, args := inClause(stepIDs)
	goals, err := r.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals WHERE step_id IN ("+marks+") ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		byStep[g.StepID] = append(byStep[g.StepID], g)
	}
	return byStep, nil
}

// ListByIDs retrieves the goals with the given IDs, ordered by id.
func (r *GoalRepository) ListByIDs(ctx context.Context, ids []int64) ([]*secondary.GoalRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := inClause(ids)
	return r.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals WHERE id IN ("+marks+") ORDER BY id", args...)
}

func goalWhere(stepID int64, filters secondary.GoalFilters) (string, []any) {
	where := " WHERE step_id = ?"
	args := []any{stepID}
	if filters.Status != "" {
		where += " AND status = ?"
		args = append(args, filters.Status)
	}
	return where, args
}

// List retrieves a filtered, paginated slice of a step's goals.
func (r *GoalRepository) List(ctx context.Context, stepID int64, filters secondary.GoalFilters) ([]*secondary.GoalRecord, error) {
	where, args := goalWhere(stepID, filters)
	page, pageArgs := pageClause(filters.Limit, filters.Offset)
	return r.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals"+where+" ORDER BY id"+page, append(args, pageArgs...)...)
}

// Count returns how many of a step's goals match filters.
func (r *GoalRepository) Count(ctx context.Context, stepID int64, filters secondary.GoalFilters) (int, error) {
	where, args := goalWhere(stepID, filters)
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM goals"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return count, nil
}

// NextPending returns the first Todo goal of a step, or nil.
func (r *GoalRepository) NextPending(ctx context.Context, stepID int64) (*secondary.GoalRecord, error) {
	record, err := scanGoal(r.db.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE step_id = ? AND status = 'todo' ORDER BY id LIMIT 1", stepID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next goal: %w", err)
	}
	return record, nil
}

// Update writes content, status, comment and updated_at.
func (r *GoalRepository) Update(ctx context.Context, goal *secondary.GoalRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE goals SET content = ?, status = ?, comment = ?, updated_at = ? WHERE id = ?",
		goal.Content, goal.Status, nullString(goal.Comment), goal.UpdatedAt, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return requireAffected(result, "goal", goal.ID)
}

// UpdateStatus sets the status of the given goals.
func (r *GoalRepository) UpdateStatus(ctx context.Context, ids []int64, status string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	marks, args := inClause(ids)
	_, err := r.db.ExecContext(ctx,
		"UPDATE goals SET status = ?, updated_at = ? WHERE id IN ("+marks+")",
		append([]any{status, at}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}
	return nil
}

// DeleteByIDs removes the given goals.
func (r *GoalRepository) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks, args := inClause(ids)
	result, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id IN ("+marks+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete goals: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteBySteps removes every goal of the given steps.
func (r *GoalRepository) DeleteBySteps(ctx context.Context, stepIDs []int64) error {
	if len(stepIDs) == 0 {
		return nil
	}
	marks, args := inClause(stepIDs)
	if _, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE step_id IN ("+marks+")", args...); err != nil {
		return fmt.Errorf("failed to delete step goals: %w", err)
	}
	return nil
}

var _ secondary.GoalRepository = (*GoalRepository)(nil)
