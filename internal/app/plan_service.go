package app

import (
	"context"
	"fmt"

	"github.com/example/planpilot/internal/apperr"
	coreplan "github.com/example/planpilot/internal/core/plan"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
	"github.com/example/planpilot/internal/render"
)

// PlanServiceImpl implements the PlanService interface.
type PlanServiceImpl struct {
	*orchestrator
}

// NewPlanService creates a PlanService acting for sessionID.
func NewPlanService(store secondary.Store, sessionID string, o ...Option) *PlanServiceImpl {
	return &PlanServiceImpl{newOrchestrator(store, sessionID, o...)}
}

// CreatePlan creates a plan without steps.
func (s *PlanServiceImpl) CreatePlan(ctx context.Context, req primary.CreatePlanRequest) (*primary.Plan, error) {
	if err := validatePlanText(req.Title, req.Content); err != nil {
		return nil, err
	}

	var created *secondary.PlanRecord
	_, err := s.mutate(ctx, "create plan", func(ctx context.Context, m *mutation) error {
		var err error
		created, err = m.createPlan(ctx, req.Title, req.Content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recordToPlan(created), nil
}

// CreatePlanTree creates a plan with its steps and goals in one transaction.
func (s *PlanServiceImpl) CreatePlanTree(ctx context.Context, req primary.CreatePlanTreeRequest) (*primary.CreatePlanTreeResponse, error) {
	if err := validatePlanText(req.Title, req.Content); err != nil {
		return nil, err
	}
	specs, err := normalizeStepSpecs(req.Steps)
	if err != nil {
		return nil, err
	}

	resp := &primary.CreatePlanTreeResponse{}
	_, err = s.mutate(ctx, "create plan tree", func(ctx context.Context, m *mutation) error {
		plan, err := m.createPlan(ctx, req.Title, req.Content)
		if err != nil {
			return err
		}
		resp.Plan = recordToPlan(plan)

		for i, spec := range specs {
			_, goals, err := m.createStep(ctx, plan.ID, spec.Content, spec.Executor, i+1, spec.Goals)
			if err != nil {
				return err
			}
			resp.StepCount++
			resp.GoalCount += len(goals)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetPlan retrieves a plan by ID.
func (s *PlanServiceImpl) GetPlan(ctx context.Context, planID int64) (*primary.Plan, error) {
	record, err := s.store.Plans().GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return recordToPlan(record), nil
}

// GetPlanDetail retrieves a plan with its ordered steps and their goals.
func (s *PlanServiceImpl) GetPlanDetail(ctx context.Context, planID int64) (*primary.PlanDetail, error) {
	record, err := s.store.Plans().GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return loadPlanDetail(ctx, s.store, record)
}

// ListPlans lists plans, most recently updated first.
func (s *PlanServiceImpl) ListPlans(ctx context.Context, filters primary.PlanFilters) ([]*primary.PlanDetail, error) {
	records, err := s.store.Plans().List(ctx, secondary.PlanFilters{Status: filters.Status})
	if err != nil {
		return nil, err
	}
	details := make([]*primary.PlanDetail, 0, len(records))
	for _, r := range records {
		d, err := loadPlanDetail(ctx, s.store, r)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// SearchPlans lists plans whose text matches every (or any) term.
func (s *PlanServiceImpl) SearchPlans(ctx context.Context, req primary.SearchPlansRequest) ([]*primary.PlanDetail, error) {
	query, err := coreplan.NewSearchQuery(req.Terms, req.Mode, req.Field, req.MatchCase)
	if err != nil {
		return nil, err
	}
	if !query.HasTerms() {
		return nil, apperr.InvalidInput("plan search requires at least one --search")
	}

	all, err := s.ListPlans(ctx, primary.PlanFilters{Status: req.Status})
	if err != nil {
		return nil, err
	}

	var matched []*primary.PlanDetail
	for _, d := range all {
		if query.Matches(searchDocument(d)) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func searchDocument(d *primary.PlanDetail) coreplan.SearchDocument {
	doc := coreplan.SearchDocument{
		Title:   d.Plan.Title,
		Content: d.Plan.Content,
		Comment: d.Plan.Comment,
	}
	for _, step := range d.Steps {
		doc.Steps = append(doc.Steps, step.Content)
		for _, g := range d.Goals[step.ID] {
			doc.Goals = append(doc.Goals, g.Content)
		}
	}
	return doc
}

// UpdatePlan applies a partial update.
func (s *PlanServiceImpl) UpdatePlan(ctx context.Context, planID int64, changes primary.PlanChanges) (*primary.UpdatePlanResponse, error) {
	if changes.Title != nil {
		if err := apperr.RequireText("plan title", *changes.Title); err != nil {
			return nil, err
		}
	}
	if changes.Content != nil {
		if err := apperr.RequireText("plan content", *changes.Content); err != nil {
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

	resp := &primary.UpdatePlanResponse{}
	log, err := s.mutate(ctx, "update plan", func(ctx context.Context, m *mutation) error {
		plan, err := m.repos.Plans().GetByID(ctx, planID)
		if err != nil {
			return err
		}

		if newStatus != "" && newStatus != plan.Status {
			if err := m.guardPlanStatus(ctx, planID, newStatus); err != nil {
				return err
			}
		}

		if changes.Title != nil {
			plan.Title = *changes.Title
		}
		if changes.Content != nil {
			plan.Content = *changes.Content
		}
		if changes.Comment != nil {
			plan.Comment = *changes.Comment
		}
		if newStatus != "" {
			plan.Status = newStatus
		}
		plan.LastSessionID = m.sessionID
		plan.UpdatedAt = m.at
		if err := m.repos.Plans().Update(ctx, plan); err != nil {
			return err
		}

		if plan.Status == status.Done {
			current, err := m.clearForPlan(ctx, plan.ID, reasonPlanDone)
			if err != nil {
				return err
			}
			resp.ActiveCleared = current
		}
		resp.Plan = recordToPlan(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Changes = log
	return resp, nil
}

// guardPlanStatus applies the manual done and reopen rules to a plan.
func (m *mutation) guardPlanStatus(ctx context.Context, planID int64, to string) error {
	steps, err := m.repos.Steps().ListByPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}

	if to == status.Done {
		guardCtx := coreplan.MarkDoneContext{PlanID: planID, StepCount: len(steps)}
		pending, err := m.repos.Steps().NextPending(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to load next step: %w", err)
		}
		if pending != nil {
			goals, err := m.repos.Goals().ListByStep(ctx, pending.ID)
			if err != nil {
				return fmt.Errorf("failed to load goals: %w", err)
			}
			guardCtx.PendingStepDetail = render.StepDetail(recordToStep(pending), recordsToGoals(goals))
		}
		return coreplan.CanMarkDone(guardCtx).Error()
	}

	done := 0
	for _, s := range steps {
		if s.Status == status.Done {
			done++
		}
	}
	return coreplan.CanReopen(coreplan.ReopenContext{
		PlanID:    planID,
		StepCount: len(steps),
		DoneSteps: done,
	}).Error()
}

// DeletePlan deletes a plan with its active binding, goals and steps.
func (s *PlanServiceImpl) DeletePlan(ctx context.Context, planID int64) error {
	_, err := s.mutate(ctx, "delete plan", func(ctx context.Context, m *mutation) error {
		if _, err := m.repos.ActivePlans().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("failed to clear active plan: %w", err)
		}
		steps, err := m.repos.Steps().ListByPlan(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to load steps: %w", err)
		}
		if len(steps) > 0 {
			ids := make([]int64, len(steps))
			for i, st := range steps {
				ids[i] = st.ID
			}
			if err := m.repos.Goals().DeleteBySteps(ctx, ids); err != nil {
				return err
			}
			if err := m.repos.Steps().DeleteByPlan(ctx, planID); err != nil {
				return err
			}
		}
		deleted, err := m.repos.Plans().Delete(ctx, planID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("plan id %d", planID)
		}
		return nil
	})
	return err
}

// CommentPlans sets comments on several plans.
func (s *PlanServiceImpl) CommentPlans(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	entries, err := dedupComments(entries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	_, err = s.mutate(ctx, "comment plans", func(ctx context.Context, m *mutation) error {
		ids := commentIDs(entries)
		plans, err := m.repos.Plans().ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]*secondary.PlanRecord, len(plans))
		found := make(map[int64]bool, len(plans))
		for _, p := range plans {
			byID[p.ID] = p
			found[p.ID] = true
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return apperr.MissingIDs("plan", missing)
		}

		for _, e := range entries {
			plan := byID[e.ID]
			plan.Comment = e.Comment
			plan.LastSessionID = m.sessionID
			plan.UpdatedAt = m.at
			if err := m.repos.Plans().Update(ctx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commentIDs(entries), nil
}

// ActivatePlan checks a plan out for the calling session.
func (s *PlanServiceImpl) ActivatePlan(ctx context.Context, planID int64, takeover bool) (*primary.Plan, error) {
	var plan *secondary.PlanRecord
	_, err := s.mutate(ctx, "activate plan", func(ctx context.Context, m *mutation) error {
		var err error
		plan, err = m.repos.Plans().GetByID(ctx, planID)
		if err != nil {
			return err
		}

		owner, err := m.repos.ActivePlans().GetByPlan(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to load active plan: %w", err)
		}
		guardCtx := coreplan.ActivateContext{
			PlanID:        planID,
			PlanStatus:    plan.Status,
			CallerSession: m.sessionID,
			Takeover:      takeover,
		}
		if owner != nil {
			guardCtx.OwnerSession = owner.SessionID
		}
		if err := coreplan.CanActivate(guardCtx).Error(); err != nil {
			return err
		}
		if owner != nil && owner.SessionID != m.sessionID {
			m.logger.Debug("active plan taken over", "plan_id", planID, "from_session", owner.SessionID)
		}

		if _, err := m.repos.ActivePlans().DeleteBySession(ctx, m.sessionID); err != nil {
			return fmt.Errorf("failed to clear active plan: %w", err)
		}
		if _, err := m.repos.ActivePlans().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("failed to clear active plan: %w", err)
		}
		if err := m.repos.ActivePlans().Create(ctx, &secondary.ActivePlanRecord{
			SessionID: m.sessionID,
			PlanID:    planID,
			UpdatedAt: m.at,
		}); err != nil {
			return err
		}
		if err := m.touchPlan(ctx, planID); err != nil {
			return err
		}
		plan.LastSessionID = m.sessionID
		plan.UpdatedAt = m.at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recordToPlan(plan), nil
}

// GetActivePlan returns the calling session's binding, or nil.
func (s *PlanServiceImpl) GetActivePlan(ctx context.Context) (*primary.ActivePlan, error) {
	record, err := s.store.ActivePlans().GetBySession(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToActivePlan(record), nil
}

// DeactivatePlan clears the calling session's binding.
func (s *PlanServiceImpl) DeactivatePlan(ctx context.Context) (*primary.ActivePlan, error) {
	var cleared *primary.ActivePlan
	_, err := s.mutate(ctx, "deactivate plan", func(ctx context.Context, m *mutation) error {
		record, err := m.repos.ActivePlans().GetBySession(ctx, m.sessionID)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		if _, err := m.repos.ActivePlans().DeleteBySession(ctx, m.sessionID); err != nil {
			return fmt.Errorf("failed to clear active plan: %w", err)
		}
		cleared = recordToActivePlan(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

func validatePlanText(title, content string) error {
	if err := apperr.RequireText("plan title", title); err != nil {
		return err
	}
	return apperr.RequireText("plan content", content)
}

func (m *mutation) createPlan(ctx context.Context, title, content string) (*secondary.PlanRecord, error) {
	plan := &secondary.PlanRecord{
		Title:         title,
		Content:       content,
		Status:        status.Todo,
		LastSessionID: m.sessionID,
		CreatedAt:     m.at,
		UpdatedAt:     m.at,
	}
	if err := m.repos.Plans().Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// loadPlanDetail reads a plan's steps in order and every step's goals.
func loadPlanDetail(ctx context.Context, repos secondary.Repositories, plan *secondary.PlanRecord) (*primary.PlanDetail, error) {
	steps, err := repos.Steps().ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(steps))
	for i, st := range steps {
		ids[i] = st.ID
	}
	grouped, err := repos.Goals().ListBySteps(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &primary.PlanDetail{
		Plan:  recordToPlan(plan),
		Steps: recordsToSteps(steps),
		Goals: make(map[int64][]*primary.Goal, len(grouped)),
	}
	for stepID, goals := range grouped {
		detail.Goals[stepID] = recordsToGoals(goals)
	}
	return detail, nil
}

var _ primary.PlanService = (*PlanServiceImpl)(nil)
