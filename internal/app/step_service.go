package app

import (
	"context"
	"fmt"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	corestep "github.com/example/planpilot/internal/core/step"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
)

// StepServiceImpl implements the StepService interface.
type StepServiceImpl struct {
	*orchestrator
}

// NewStepService creates a StepService acting for sessionID.
func NewStepService(store secondary.Store, sessionID string, opts ...Option) *StepServiceImpl {
	return &StepServiceImpl{newOrchestrator(store, sessionID, opts...)}
}

// AddSteps inserts steps at a 1-based position, or appends them.
func (s *StepServiceImpl) AddSteps(ctx context.Context, req primary.AddStepsRequest) (*primary.AddStepsResponse, error) {
	if req.Position != nil && *req.Position < 1 {
		return nil, apperr.InvalidInput("position starts at 1")
	}
	for _, c := range req.Contents {
		if err := apperr.RequireText("step content", c); err != nil {
			return nil, err
		}
	}
	executor, err := status.ParseExecutor(req.Executor)
	if err != nil {
		return nil, err
	}

	resp := &primary.AddStepsResponse{}
	log, err := s.mutate(ctx, "add steps", func(ctx context.Context, m *mutation) error {
		if _, err := m.repos.Plans().GetByID(ctx, req.PlanID); err != nil {
			return err
		}
		if len(req.Contents) == 0 {
			return nil
		}

		existing, _, err := m.normalize(ctx, req.PlanID)
		if err != nil {
			return err
		}
		at := corestep.InsertIndex(req.Position, len(existing))
		if at <= len(existing) {
			if err := m.repos.Steps().ShiftSortOrder(ctx, req.PlanID, at, len(req.Contents), m.at); err != nil {
				return err
			}
		}

		for i, content := range req.Contents {
			step, _, err := m.createStep(ctx, req.PlanID, content, executor, at+i, nil)
			if err != nil {
				return err
			}
			resp.Steps = append(resp.Steps, recordToStep(step))
		}

		if err := m.recomputePlan(ctx, req.PlanID); err != nil {
			return err
		}
		return m.touchPlan(ctx, req.PlanID)
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// AddStepTree appends one step with its goals.
func (s *StepServiceImpl) AddStepTree(ctx context.Context, req primary.AddStepTreeRequest) (*primary.AddStepTreeResponse, error) {
	specs, err := normalizeStepSpecs([]primary.StepSpec{req.Step})
	if err != nil {
		return nil, err
	}
	spec := specs[0]

	resp := &primary.AddStepTreeResponse{}
	log, err := s.mutate(ctx, "add step tree", func(ctx context.Context, m *mutation) error {
		if _, err := m.repos.Plans().GetByID(ctx, req.PlanID); err != nil {
			return err
		}
		existing, _, err := m.normalize(ctx, req.PlanID)
		if err != nil {
			return err
		}

		step, goals, err := m.createStep(ctx, req.PlanID, spec.Content, spec.Executor, len(existing)+1, spec.Goals)
		if err != nil {
			return err
		}
		resp.Step = recordToStep(step)
		resp.Goals = recordsToGoals(goals)

		if err := m.recomputePlan(ctx, req.PlanID); err != nil {
			return err
		}
		return m.touchPlan(ctx, req.PlanID)
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// GetStep retrieves a step by ID.
func (s *StepServiceImpl) GetStep(ctx context.Context, stepID int64) (*primary.Step, error) {
	record, err := s.store.Steps().GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	return recordToStep(record), nil
}

// GetStepDetail retrieves a step with its goals.
func (s *StepServiceImpl) GetStepDetail(ctx context.Context, stepID int64) (*primary.StepDetail, error) {
	record, err := s.store.Steps().GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	goals, err := s.store.Goals().ListByStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	return &primary.StepDetail{Step: recordToStep(record), Goals: recordsToGoals(goals)}, nil
}

// ListSteps lists a plan's steps with their goals.
func (s *StepServiceImpl) ListSteps(ctx context.Context, planID int64, filters primary.StepFilters) ([]*primary.StepDetail, error) {
	if _, err := s.store.Plans().GetByID(ctx, planID); err != nil {
		return nil, err
	}
	records, err := s.store.Steps().List(ctx, planID, toStepFilters(filters))
	if err != nil {
		return nil, err
	}
	return s.withGoals(ctx, records)
}

// CountSteps counts a plan's steps matching filters.
func (s *StepServiceImpl) CountSteps(ctx context.Context, planID int64, filters primary.StepFilters) (int, error) {
	if _, err := s.store.Plans().GetByID(ctx, planID); err != nil {
		return 0, err
	}
	return s.store.Steps().Count(ctx, planID, toStepFilters(filters))
}

// NextStep returns the first pending step of a plan, or nil.
func (s *StepServiceImpl) NextStep(ctx context.Context, planID int64) (*primary.StepDetail, error) {
	if _, err := s.store.Plans().GetByID(ctx, planID); err != nil {
		return nil, err
	}
	record, err := s.store.Steps().NextPending(ctx, planID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	details, err := s.withGoals(ctx, []*secondary.StepRecord{record})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *StepServiceImpl) withGoals(ctx context.Context, records []*secondary.StepRecord) ([]*primary.StepDetail, error) {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	grouped, err := s.store.Goals().ListBySteps(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]*primary.StepDetail, len(records))
	for i, r := range records {
		details[i] = &primary.StepDetail{Step: recordToStep(r), Goals: recordsToGoals(grouped[r.ID])}
	}
	return details, nil
}

// UpdateStep applies a partial update.
func (s *StepServiceImpl) UpdateStep(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.UpdateStepResponse, error) {
	parsed, err := parseStepChanges(changes)
	if err != nil {
		return nil, err
	}

	resp := &primary.UpdateStepResponse{}
	log, err := s.mutate(ctx, "update step", func(ctx context.Context, m *mutation) error {
		step, err := m.updateStep(ctx, stepID, parsed)
		resp.Step = step
		return err
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// CompleteStep marks a step done. With allGoals every goal is completed
// first, so the pending-goal guard always passes.
func (s *StepServiceImpl) CompleteStep(ctx context.Context, stepID int64, allGoals bool) (*primary.UpdateStepResponse, error) {
	done := status.Done
	resp := &primary.UpdateStepResponse{}
	log, err := s.mutate(ctx, "complete step", func(ctx context.Context, m *mutation) error {
		if allGoals {
			if _, err := m.repos.Steps().GetByID(ctx, stepID); err != nil {
				return err
			}
			goals, err := m.repos.Goals().ListByStep(ctx, stepID)
			if err != nil {
				return err
			}
			if len(goals) > 0 {
				ids := make([]int64, len(goals))
				for i, g := range goals {
					ids[i] = g.ID
				}
				if _, err := m.setGoalsStatus(ctx, ids, status.Done); err != nil {
					return err
				}
			}
		}

		step, err := m.updateStep(ctx, stepID, primary.StepChanges{Status: &done})
		resp.Step = step
		return err
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// MoveStep relocates a step and returns the plan's steps in their new order.
func (s *StepServiceImpl) MoveStep(ctx context.Context, stepID int64, to int) ([]*primary.Step, error) {
	if to < 1 {
		return nil, apperr.InvalidInput("position starts at 1")
	}

	var ordered []*primary.Step
	_, err := s.mutate(ctx, "move step", func(ctx context.Context, m *mutation) error {
		target, err := m.repos.Steps().GetByID(ctx, stepID)
		if err != nil {
			return err
		}
		steps, err := m.repos.Steps().ListByPlan(ctx, target.PlanID)
		if err != nil {
			return err
		}

		moved, ok := corestep.Move(placements(steps), stepID, to)
		if !ok {
			return apperr.NotFound("step id %d", stepID)
		}
		if _, err := m.applyOrder(ctx, moved); err != nil {
			return err
		}
		if err := m.touchPlan(ctx, target.PlanID); err != nil {
			return err
		}

		steps, err = m.repos.Steps().ListByPlan(ctx, target.PlanID)
		if err != nil {
			return err
		}
		ordered = recordsToSteps(steps)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ordered, nil
}

// DeleteSteps deletes steps with their goals, closes the ordering gaps and
// recomputes every affected plan.
func (s *StepServiceImpl) DeleteSteps(ctx context.Context, stepIDs []int64) (*primary.DeleteResponse, error) {
	ids := uniqueIDs(stepIDs)
	resp := &primary.DeleteResponse{}
	if len(ids) == 0 {
		return resp, nil
	}

	log, err := s.mutate(ctx, "delete steps", func(ctx context.Context, m *mutation) error {
		steps, err := m.repos.Steps().ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[int64]bool, len(steps))
		for _, st := range steps {
			found[st.ID] = true
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return apperr.MissingIDs("step", missing)
		}
		planIDs := planIDsOf(steps)

		if err := m.repos.Goals().DeleteBySteps(ctx, ids); err != nil {
			return err
		}
		deleted, err := m.repos.Steps().DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		resp.Deleted = deleted

		for _, planID := range planIDs {
			if _, _, err := m.normalize(ctx, planID); err != nil {
				return err
			}
		}
		for _, planID := range planIDs {
			if err := m.recomputePlan(ctx, planID); err != nil {
				return err
			}
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

// CommentSteps sets comments on several steps.
func (s *StepServiceImpl) CommentSteps(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	entries, err := dedupComments(entries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	var planIDs []int64
	_, err = s.mutate(ctx, "comment steps", func(ctx context.Context, m *mutation) error {
		ids := commentIDs(entries)
		steps, err := m.repos.Steps().ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]*secondary.StepRecord, len(steps))
		found := make(map[int64]bool, len(steps))
		for _, st := range steps {
			byID[st.ID] = st
			found[st.ID] = true
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return apperr.MissingIDs("step", missing)
		}

		ordered := make([]*secondary.StepRecord, 0, len(entries))
		for _, e := range entries {
			step := byID[e.ID]
			step.Comment = e.Comment
			step.UpdatedAt = m.at
			if err := m.repos.Steps().Update(ctx, step); err != nil {
				return err
			}
			ordered = append(ordered, step)
		}
		planIDs = planIDsOf(ordered)
		return m.touchPlans(ctx, planIDs)
	})
	if err != nil {
		return nil, err
	}
	return planIDs, nil
}

// updateStep applies already validated changes to one step. A status
// change passes the done/reopen guards and recomputes the plan; every
// update touches the plan.
func (m *mutation) updateStep(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.Step, error) {
	step, err := m.repos.Steps().GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	if changes.Status != nil && *changes.Status != step.Status {
		if err := m.guardStepStatus(ctx, stepID, *changes.Status); err != nil {
			return nil, err
		}
	}

	if changes.Content != nil {
		step.Content = *changes.Content
	}
	if changes.Status != nil {
		step.Status = *changes.Status
	}
	if changes.Executor != nil {
		step.Executor = *changes.Executor
	}
	if changes.Comment != nil {
		step.Comment = *changes.Comment
	}
	step.UpdatedAt = m.at
	if err := m.repos.Steps().Update(ctx, step); err != nil {
		return nil, err
	}

	if changes.Status != nil {
		if err := m.recomputePlan(ctx, step.PlanID); err != nil {
			return nil, err
		}
	}
	if err := m.touchPlan(ctx, step.PlanID); err != nil {
		return nil, err
	}
	return recordToStep(step), nil
}

// guardStepStatus applies the manual done and reopen rules to a step.
func (m *mutation) guardStepStatus(ctx context.Context, stepID int64, to string) error {
	goals, err := m.repos.Goals().ListByStep(ctx, stepID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	if to == status.Done {
		guardCtx := corestep.MarkDoneContext{StepID: stepID, GoalCount: len(goals)}
		for _, g := range goals {
			if g.Status != status.Done {
				guardCtx.PendingGoalID = g.ID
				guardCtx.PendingGoalContent = g.Content
				break
			}
		}
		return corestep.CanMarkDone(guardCtx).Error()
	}

	done := 0
	for _, g := range goals {
		if g.Status == status.Done {
			done++
		}
	}
	return corestep.CanReopen(corestep.ReopenContext{
		StepID:    stepID,
		GoalCount: len(goals),
		DoneGoals: done,
	}).Error()
}

func (m *mutation) createStep(ctx context.Context, planID int64, content, executor string, sortOrder int, goalContents []string) (*secondary.StepRecord, []*secondary.GoalRecord, error) {
	step := &secondary.StepRecord{
		PlanID:    planID,
		Content:   content,
		Status:    status.Todo,
		Executor:  executor,
		SortOrder: sortOrder,
		CreatedAt: m.at,
		UpdatedAt: m.at,
	}
	if err := m.repos.Steps().Create(ctx, step); err != nil {
		return nil, nil, err
	}

	goals := make([]*secondary.GoalRecord, 0, len(goalContents))
	for _, c := range goalContents {
		goal, err := m.createGoal(ctx, step.ID, c)
		if err != nil {
			return nil, nil, err
		}
		goals = append(goals, goal)
	}
	return step, goals, nil
}

// normalizeStepSpecs validates every text of a subtree and resolves the
// executors, before anything is written.
func normalizeStepSpecs(specs []primary.StepSpec) ([]primary.StepSpec, error) {
	out := make([]primary.StepSpec, len(specs))
	for i, spec := range specs {
		if err := apperr.RequireText("step content", spec.Content); err != nil {
			return nil, err
		}
		for _, g := range spec.Goals {
			if err := apperr.RequireText("goal content", g); err != nil {
				return nil, err
			}
		}
		executor, err := status.ParseExecutor(spec.Executor)
		if err != nil {
			return nil, err
		}
		out[i] = primary.StepSpec{Content: spec.Content, Executor: executor, Goals: spec.Goals}
	}
	return out, nil
}

// parseStepChanges validates text fields and normalises enum fields.
func parseStepChanges(changes primary.StepChanges) (primary.StepChanges, error) {
	if changes.Content != nil {
		if err := apperr.RequireText("step content", *changes.Content); err != nil {
			return changes, err
		}
	}
	if changes.Comment != nil {
		if err := apperr.RequireText("comment", *changes.Comment); err != nil {
			return changes, err
		}
	}
	if changes.Status != nil {
		st, err := status.ParseStatus(*changes.Status)
		if err != nil {
			return changes, err
		}
		changes.Status = &st
	}
	if changes.Executor != nil {
		ex, err := status.ParseExecutor(*changes.Executor)
		if err != nil {
			return changes, err
		}
		changes.Executor = &ex
	}
	return changes, nil
}

func toStepFilters(f primary.StepFilters) secondary.StepFilters {
	return secondary.StepFilters{
		Status:   f.Status,
		Executor: f.Executor,
		OrderBy:  f.OrderBy,
		Desc:     f.Desc,
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
}

// planIDsOf returns the distinct plan ids of steps in first-seen order.
func planIDsOf(steps []*secondary.StepRecord) []int64 {
	ids := make([]int64, len(steps))
	for i, st := range steps {
		ids[i] = st.PlanID
	}
	return uniqueIDs(ids)
}

var _ primary.StepService = (*StepServiceImpl)(nil)
