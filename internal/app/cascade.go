package app

import (
	"context"
	"fmt"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

const reasonPlanDone = "plan marked done"

// recomputeStep derives a step's status from its goals, records any
// transition, then recomputes the owning plan. A step without goals keeps
// its status.
func (m *mutation) recomputeStep(ctx context.Context, stepID int64) error {
	step, err := m.repos.Steps().GetByID(ctx, stepID)
	if err != nil {
		return err
	}
	goals, err := m.repos.Goals().ListByStep(ctx, stepID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	states := make([]string, len(goals))
	for i, g := range goals {
		states[i] = g.Status
	}
	derived := status.Derive(states)
	if derived.Applies && derived.Status != step.Status {
		if err := m.repos.Steps().UpdateStatus(ctx, step.ID, derived.Status, m.at); err != nil {
			return fmt.Errorf("failed to update step status: %w", err)
		}
		change := primary.StepStatusChange{
			StepID: step.ID,
			From:   step.Status,
			To:     derived.Status,
			Reason: derived.Reason("goals"),
		}
		m.changes.Steps = append(m.changes.Steps, change)
		m.logger.Debug("step status derived", "step_id", step.ID, "from", change.From, "to", change.To)
	}

	return m.recomputePlan(ctx, step.PlanID)
}

// recomputePlan derives a plan's status from its steps and records any
// transition. Reaching done releases the plan's active binding.
func (m *mutation) recomputePlan(ctx context.Context, planID int64) error {
	plan, err := m.repos.Plans().GetByID(ctx, planID)
	if err != nil {
		return err
	}
	steps, err := m.repos.Steps().ListByPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}

	states := make([]string, len(steps))
	for i, s := range steps {
		states[i] = s.Status
	}
	derived := status.Derive(states)
	if !derived.Applies || derived.Status == plan.Status {
		return nil
	}

	if err := m.repos.Plans().UpdateStatus(ctx, plan.ID, derived.Status, m.at); err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}
	change := primary.PlanStatusChange{
		PlanID: plan.ID,
		From:   plan.Status,
		To:     derived.Status,
		Reason: derived.Reason("steps"),
	}
	m.changes.Plans = append(m.changes.Plans, change)
	m.logger.Debug("plan status derived", "plan_id", plan.ID, "from", change.From, "to", change.To)

	if derived.Status == status.Done {
		if _, err := m.clearForPlan(ctx, plan.ID, reasonPlanDone); err != nil {
			return err
		}
	}
	return nil
}

// clearForPlan removes the binding referencing planID, whichever session
// holds it. It reports whether the binding belonged to the calling session.
func (m *mutation) clearForPlan(ctx context.Context, planID int64, reason string) (bool, error) {
	binding, err := m.repos.ActivePlans().GetByPlan(ctx, planID)
	if err != nil {
		return false, fmt.Errorf("failed to load active plan: %w", err)
	}
	if binding == nil {
		return false, nil
	}
	if _, err := m.repos.ActivePlans().DeleteByPlan(ctx, planID); err != nil {
		return false, fmt.Errorf("failed to clear active plan: %w", err)
	}

	current := binding.SessionID == m.sessionID
	m.changes.ActivePlansCleared = append(m.changes.ActivePlansCleared, primary.ActivePlanCleared{
		PlanID:         planID,
		SessionID:      binding.SessionID,
		CurrentSession: current,
		Reason:         reason,
	})
	m.logger.Debug("active plan cleared", "plan_id", planID, "session_id", binding.SessionID)
	return current, nil
}

// touchPlan records the calling session as the plan's last editor.
func (m *mutation) touchPlan(ctx context.Context, planID int64) error {
	if err := m.repos.Plans().Touch(ctx, planID, m.sessionID, m.at); err != nil {
		return fmt.Errorf("failed to touch plan: %w", err)
	}
	return nil
}

func (m *mutation) touchPlans(ctx context.Context, planIDs []int64) error {
	for _, id := range planIDs {
		if err := m.touchPlan(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
