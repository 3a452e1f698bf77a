package app

import (
	"context"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
)

// GoalServiceImpl implements the GoalService interface.
type GoalServiceImpl struct {
	*orchestrator
}

// NewGoalService creates a GoalService acting for sessionID.
func NewGoalService(store secondary.Store, sessionID string, opts ...Option) *GoalServiceImpl {
	return &GoalServiceImpl{newOrchestrator(store, sessionID, opts...)}
}

// AddGoals appends goals to a step. New todo goals reopen a done step.
func (s *GoalServiceImpl) AddGoals(ctx context.Context, stepID int64, contents []string) (*primary.AddGoalsResponse, error) {
	for _, c := range contents {
		if err := apperr.RequireText("goal content", c); err != nil {
			return nil, err
		}
	}

	resp := &primary.AddGoalsResponse{}
	log, err := s.mutate(ctx, "add goals", func(ctx context.Context, m *mutation) error {
		step, err := m.repos.Steps().GetByID(ctx, stepID)
		if err != nil {
			return err
		}
		resp.PlanID = step.PlanID
		if len(contents) == 0 {
			return nil
		}

		for _, c := range contents {
			goal, err := m.createGoal(ctx, stepID, c)
			if err != nil {
				return err
			}
			resp.Goals = append(resp.Goals, recordToGoal(goal))
		}
		if err := m.recomputeStep(ctx, stepID); err != nil {
			return err
		}
		return m.touchPlan(ctx, step.PlanID)
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// GetGoalDetail retrieves a goal with its owning step.
func (s *GoalServiceImpl) GetGoalDetail(ctx context.Context, goalID int64) (*primary.GoalDetail, error) {
	goal, err := s.store.Goals().GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	step, err := s.store.Steps().GetByID(ctx, goal.StepID)
	if err != nil {
		return nil, err
	}
	return &primary.GoalDetail{Goal: recordToGoal(goal), Step: recordToStep(step)}, nil
}

// ListGoals lists a step's goals by id.
func (s *GoalServiceImpl) ListGoals(ctx context.Context, stepID int64, filters primary.GoalFilters) ([]*primary.Goal, error) {
	if _, err := s.store.Steps().GetByID(ctx, stepID); err != nil {
		return nil, err
	}
	records, err := s.store.Goals().List(ctx, stepID, toGoalFilters(filters))
	if err != nil {
		return nil, err
	}
	return recordsToGoals(records), nil
}

// CountGoals counts a step's goals matching filters.
func (s *GoalServiceImpl) CountGoals(ctx context.Context, stepID int64, filters primary.GoalFilters) (int, error) {
	if _, err := s.store.Steps().GetByID(ctx, stepID); err != nil {
		return 0, err
	}
	return s.store.Goals().Count(ctx, stepID, toGoalFilters(filters))
}

// UpdateGoal applies a partial update.
func (s *GoalServiceImpl) UpdateGoal(ctx context.Context, goalID int64, changes primary.GoalChanges) (*primary.UpdateGoalResponse, error) {
	if changes.Content != nil {
		if err := apperr.RequireText("goal content", *changes.Content); err != nil {
			return nil, err
		}
	}
	if changes.Comment != nil {
		if err := apperr.RequireText("comment", *changes.Comment); err != nil {
			return nil, err
		}
	}
	var newStatus string
	if changes.Status != nil {
		var err error
		if newStatus, err = status.ParseStatus(*changes.Status); err != nil {
			return nil, err
		}
	}

	resp := &primary.UpdateGoalResponse{}
	log, err := s.mutate(ctx, "update goal", func(ctx context.Context, m *mutation) error {
		goal, err := m.repos.Goals().GetByID(ctx, goalID)
		if err != nil {
			return err
		}
		if changes.Content != nil {
			goal.Content = *changes.Content
		}
		if changes.Comment != nil {
			goal.Comment = *changes.Comment
		}
		if newStatus != "" {
			goal.Status = newStatus
		}
		goal.UpdatedAt = m.at
		if err := m.repos.Goals().Update(ctx, goal); err != nil {
			return err
		}
		resp.Goal = recordToGoal(goal)

		step, err := m.repos.Steps().GetByID(ctx, goal.StepID)
		if err != nil {
			return err
		}
		resp.PlanID = step.PlanID
		if newStatus != "" {
			if err := m.recomputeStep(ctx, step.ID); err != nil {
				return err
			}
		}
		return m.touchPlan(ctx, step.PlanID)
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// SetGoalsStatus sets the status of several goals; every id must exist.
func (s *GoalServiceImpl) SetGoalsStatus(ctx context.Context, goalIDs []int64, st string) (*primary.SetGoalsStatusResponse, error) {
	parsed, err := status.ParseStatus(st)
	if err != nil {
		return nil, err
	}
	resp := &primary.SetGoalsStatusResponse{}
	if len(goalIDs) == 0 {
		return resp, nil
	}

	log, err := s.mutate(ctx, "set goals status", func(ctx context.Context, m *mutation) error {
		planIDs, err := m.setGoalsStatus(ctx, goalIDs, parsed)
		if err != nil {
			return err
		}
		resp.Updated = len(uniqueIDs(goalIDs))
		resp.PlanIDs = planIDs
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// DeleteGoals deletes goals and recomputes their steps. A step left
// without goals keeps its status.
func (s *GoalServiceImpl) DeleteGoals(ctx context.Context, goalIDs []int64) (*primary.DeleteResponse, error) {
	ids := uniqueIDs(goalIDs)
	resp := &primary.DeleteResponse{}
	if len(ids) == 0 {
		return resp, nil
	}

	log, err := s.mutate(ctx, "delete goals", func(ctx context.Context, m *mutation) error {
		_, stepIDs, err := m.requireGoals(ctx, ids)
		if err != nil {
			return err
		}

		deleted, err := m.repos.Goals().DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		resp.Deleted = deleted

		for _, stepID := range stepIDs {
			if err := m.recomputeStep(ctx, stepID); err != nil {
				return err
			}
		}
		planIDs, err := m.plansOfSteps(ctx, stepIDs)
		if err != nil {
			return err
		}
		resp.PlanIDs = planIDs
		return m.touchPlans(ctx, planIDs)
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// CommentGoals sets comments on several goals.
func (s *GoalServiceImpl) CommentGoals(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	entries, err := dedupComments(entries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	var planIDs []int64
	_, err = s.mutate(ctx, "comment goals", func(ctx context.Context, m *mutation) error {
		goals, _, err := m.requireGoals(ctx, commentIDs(entries))
		if err != nil {
			return err
		}
		byID := make(map[int64]*secondary.GoalRecord, len(goals))
		for _, g := range goals {
			byID[g.ID] = g
		}

		var stepIDs []int64
		for _, e := range entries {
			goal := byID[e.ID]
			goal.Comment = e.Comment
			goal.UpdatedAt = m.at
			if err := m.repos.Goals().Update(ctx, goal); err != nil {
				return err
			}
			stepIDs = append(stepIDs, goal.StepID)
		}
		planIDs, err = m.plansOfSteps(ctx, uniqueIDs(stepIDs))
		if err != nil {
			return err
		}
		return m.touchPlans(ctx, planIDs)
	})
	if err != nil {
		return nil, err
	}
	return planIDs, nil
}

// setGoalsStatus writes st to the given goals, recomputes each affected
// step once and touches the affected plans, which it returns.
func (m *mutation) setGoalsStatus(ctx context.Context, goalIDs []int64, st string) ([]int64, error) {
	ids := uniqueIDs(goalIDs)
	_, stepIDs, err := m.requireGoals(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := m.repos.Goals().UpdateStatus(ctx, ids, st, m.at); err != nil {
		return nil, err
	}
	for _, stepID := range stepIDs {
		if err := m.recomputeStep(ctx, stepID); err != nil {
			return nil, err
		}
	}
	planIDs, err := m.plansOfSteps(ctx, stepIDs)
	if err != nil {
		return nil, err
	}
	return planIDs, m.touchPlans(ctx, planIDs)
}

// requireGoals loads the goals with the given ids, failing with every
// missing id, and returns their distinct step ids in first-seen order.
func (m *mutation) requireGoals(ctx context.Context, ids []int64) ([]*secondary.GoalRecord, []int64, error) {
	goals, err := m.repos.Goals().ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	found := make(map[int64]bool, len(goals))
	stepIDs := make([]int64, 0, len(goals))
	for _, g := range goals {
		found[g.ID] = true
		stepIDs = append(stepIDs, g.StepID)
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, nil, apperr.MissingIDs("goal", missing)
	}
	return goals, uniqueIDs(stepIDs), nil
}

// plansOfSteps returns the distinct owning plans of the given steps.
func (m *mutation) plansOfSteps(ctx context.Context, stepIDs []int64) ([]int64, error) {
	if len(stepIDs) == 0 {
		return nil, nil
	}
	steps, err := m.repos.Steps().ListByIDs(ctx, stepIDs)
	if err != nil {
		return nil, err
	}
	return planIDsOf(steps), nil
}

func (m *mutation) createGoal(ctx context.Context, stepID int64, content string) (*secondary.GoalRecord, error) {
	goal := &secondary.GoalRecord{
		StepID:    stepID,
		Content:   content,
		Status:    status.Todo,
		CreatedAt: m.at,
		UpdatedAt: m.at,
	}
	if err := m.repos.Goals().Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func toGoalFilters(f primary.GoalFilters) secondary.GoalFilters {
	return secondary.GoalFilters{Status: f.Status, Limit: f.Limit, Offset: f.Offset}
}

var _ primary.GoalService = (*GoalServiceImpl)(nil)
