package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/planpilot/internal/ports/secondary"
)

// ActivePlanRepository implements secondary.ActivePlanRepository with SQLite.
type ActivePlanRepository struct {
	db Querier
}

// NewActivePlanRepository creates a new SQLite active-plan repository.
func NewActivePlanRepository(db Querier) *ActivePlanRepository {
	return &ActivePlanRepository{db: db}
}

func (r *ActivePlanRepository) getOne(ctx context.Context, where string, arg any) (*secondary.ActivePlanRecord, error) {
	var record secondary.ActivePlanRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, session_id, plan_id, updated_at FROM active_plans WHERE "+where, arg,
	).Scan(&record.ID, &record.SessionID, &record.PlanID, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active plan: %w", err)
	}
	return &record, nil
}

// GetBySession returns the binding of a session, or nil.
func (r *ActivePlanRepository) GetBySession(ctx context.Context, sessionID string) (*secondary.ActivePlanRecord, error) {
	return r.getOne(ctx, "session_id = ?", sessionID)
}

// GetByPlan returns the binding referencing a plan, or nil.
func (r *ActivePlanRepository) GetByPlan(ctx context.Context, planID int64) (*secondary.ActivePlanRecord, error) {
	return r.getOne(ctx, "plan_id = ?", planID)
}

// Create inserts a binding.
func (r *ActivePlanRepository) Create(ctx context.Context, binding *secondary.ActivePlanRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO active_plans (session_id, plan_id, updated_at) VALUES (?, ?, ?)",
		binding.SessionID, binding.PlanID, binding.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create active plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read active plan id: %w", err)
	}
	binding.ID = id
	return nil
}

func (r *ActivePlanRepository) deleteWhere(ctx context.Context, where string, arg any) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM active_plans WHERE "+where, arg)
	if err != nil {
		return false, fmt.Errorf("failed to delete active plan: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteBySession removes a session's binding.
func (r *ActivePlanRepository) DeleteBySession(ctx context.Context, sessionID string) (bool, error) {
	return r.deleteWhere(ctx, "session_id = ?", sessionID)
}

// DeleteByPlan removes the binding referencing a plan.
func (r *ActivePlanRepository) DeleteByPlan(ctx context.Context, planID int64) (bool, error) {
	return r.deleteWhere(ctx, "plan_id = ?", planID)
}

var _ secondary.ActivePlanRepository = (*ActivePlanRepository)(nil)
