package cli

import (
	"context"
	"io"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/render"
)

// PlanAdapter is a thin adapter that translates CLI operations to PlanService calls.
// Mutating methods return the IDs of the plans whose documents need a refresh.
type PlanAdapter struct {
	notifier
	service primary.PlanService
	docs    primary.DocumentService
}

// NewPlanAdapter creates a new PlanAdapter.
func NewPlanAdapter(service primary.PlanService, steps primary.StepService, docs primary.DocumentService, out io.Writer, opts Options) *PlanAdapter {
	return &PlanAdapter{
		notifier: notifier{printer: printer{out: out, opts: opts}, steps: steps},
		service:  service,
		docs:     docs,
	}
}

// Add creates a plan without steps.
func (a *PlanAdapter) Add(ctx context.Context, title, content string) ([]int64, error) {
	plan, err := a.service.CreatePlan(ctx, primary.CreatePlanRequest{Title: title, Content: content})
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return []int64{plan.ID}, a.emitJSON(plan)
	}
	a.printf("Created plan ID: %d: %s\n", plan.ID, plan.Title)
	return []int64{plan.ID}, nil
}

// AddTree creates a plan together with its steps and goals.
func (a *PlanAdapter) AddTree(ctx context.Context, title, content string, steps []primary.StepSpec) ([]int64, error) {
	resp, err := a.service.CreatePlanTree(ctx, primary.CreatePlanTreeRequest{
		Title:   title,
		Content: content,
		Steps:   steps,
	})
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Plan.ID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Created plan ID: %d: %s (steps: %d, goals: %d)\n", resp.Plan.ID, resp.Plan.Title, resp.StepCount, resp.GoalCount)
	return ids, nil
}

// List prints plans matching filters.
func (a *PlanAdapter) List(ctx context.Context, filters primary.PlanFilters) error {
	details, err := a.service.ListPlans(ctx, filters)
	if err != nil {
		return err
	}
	return a.printPlans(details)
}

// Search prints plans whose text matches req.
func (a *PlanAdapter) Search(ctx context.Context, req primary.SearchPlansRequest) error {
	details, err := a.service.SearchPlans(ctx, req)
	if err != nil {
		return err
	}
	return a.printPlans(details)
}

func (a *PlanAdapter) printPlans(details []*primary.PlanDetail) error {
	if a.opts.JSON {
		if details == nil {
			details = []*primary.PlanDetail{}
		}
		return a.emitJSON(details)
	}
	if len(details) == 0 {
		a.println("No plans found.")
		return nil
	}
	a.planList(details)
	return nil
}

// Show prints a plan with its steps and goals. With renderMarkdown the plan
// document is rendered for the terminal instead.
func (a *PlanAdapter) Show(ctx context.Context, planID int64, renderMarkdown bool) error {
	if renderMarkdown && !a.opts.JSON {
		return a.render(ctx, planID)
	}
	detail, err := a.service.GetPlanDetail(ctx, planID)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(detail)
	}
	a.println(render.PlanDetail(detail))
	return nil
}

func (a *PlanAdapter) render(ctx context.Context, planID int64) error {
	markdown, err := a.docs.PlanMarkdown(ctx, planID)
	if err != nil {
		return err
	}
	out, err := renderMarkdown(markdown, a.opts.RenderStyle)
	if err != nil {
		return err
	}
	a.printf("%s", out)
	return nil
}

// Export writes a plan's markdown document to path.
func (a *PlanAdapter) Export(ctx context.Context, planID int64, path string) error {
	resp, err := a.docs.ExportPlan(ctx, planID, path)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(resp)
	}
	a.printf("Exported plan ID: %d to %s\n", resp.PlanID, resp.Path)
	return nil
}

// Comment sets comments on several plans.
func (a *PlanAdapter) Comment(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	planIDs, err := a.service.CommentPlans(ctx, entries)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return planIDs, a.emitJSON(map[string][]int64{"plan_ids": planIDs})
	}
	a.commentSummary("plan", planIDs)
	return planIDs, nil
}

// Update applies a partial update to a plan.
func (a *PlanAdapter) Update(ctx context.Context, planID int64, changes primary.PlanChanges) ([]int64, error) {
	resp, err := a.service.UpdatePlan(ctx, planID, changes)
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Plan.ID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Updated plan ID: %d: %s\n", resp.Plan.ID, resp.Plan.Title)
	a.afterUpdate(resp, changes.Status != nil)
	return ids, nil
}

// Done marks a plan done.
func (a *PlanAdapter) Done(ctx context.Context, planID int64) ([]int64, error) {
	done := status.Done
	resp, err := a.service.UpdatePlan(ctx, planID, primary.PlanChanges{Status: &done})
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Plan.ID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Plan ID: %d marked done.\n", resp.Plan.ID)
	a.afterUpdate(resp, true)
	return ids, nil
}

func (a *PlanAdapter) afterUpdate(resp *primary.UpdatePlanResponse, statusSet bool) {
	if resp.ActiveCleared {
		a.println("Active plan deactivated because plan is done.")
	}
	if statusSet && resp.Plan.Status == status.Done {
		a.planCompleted(resp.Plan.ID)
	}
}

// Remove deletes a plan together with its document.
func (a *PlanAdapter) Remove(ctx context.Context, planID int64) error {
	if err := a.service.DeletePlan(ctx, planID); err != nil {
		return err
	}
	if err := a.docs.RemovePlanDocument(ctx, planID); err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(map[string]int64{"removed": planID})
	}
	a.printf("Plan ID: %d removed.\n", planID)
	return nil
}

// Activate checks a plan out for the calling session. The plan the
// session held before is reported as changed too.
func (a *PlanAdapter) Activate(ctx context.Context, planID int64, force bool) ([]int64, error) {
	previous, err := a.service.GetActivePlan(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := a.service.ActivatePlan(ctx, planID, force)
	if err != nil {
		return nil, err
	}
	ids := []int64{plan.ID}
	if previous != nil && previous.PlanID != plan.ID {
		ids = append(ids, previous.PlanID)
	}
	if a.opts.JSON {
		return ids, a.emitJSON(plan)
	}
	a.printf("Active plan set to %d: %s\n", plan.ID, plan.Title)
	return ids, nil
}

// ShowActive prints the calling session's active plan. A binding whose
// plan no longer exists is cleared.
func (a *PlanAdapter) ShowActive(ctx context.Context) error {
	active, err := a.service.GetActivePlan(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		if a.opts.JSON {
			return a.emitJSON(nil)
		}
		a.println("No active plan.")
		return nil
	}

	detail, err := a.service.GetPlanDetail(ctx, active.PlanID)
	if apperr.IsNotFound(err) {
		if _, err := a.service.DeactivatePlan(ctx); err != nil {
			return err
		}
		if a.opts.JSON {
			return a.emitJSON(nil)
		}
		a.printf("Active plan ID: %d not found.\n", active.PlanID)
		return nil
	}
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(detail)
	}
	a.println(render.PlanDetail(detail))
	return nil
}

// Deactivate clears the calling session's active plan.
func (a *PlanAdapter) Deactivate(ctx context.Context) ([]int64, error) {
	cleared, err := a.service.DeactivatePlan(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if cleared != nil {
		ids = []int64{cleared.PlanID}
	}
	if a.opts.JSON {
		return ids, a.emitJSON(cleared)
	}
	a.println("Active plan deactivated.")
	return ids, nil
}
