package cli

import (
	"context"
	"io"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/render"
)

// StepAdapter is a thin adapter that translates CLI operations to StepService calls.
type StepAdapter struct {
	notifier
	service primary.StepService
	plans   primary.PlanService
}

// NewStepAdapter creates a new StepAdapter.
func NewStepAdapter(service primary.StepService, plans primary.PlanService, out io.Writer, opts Options) *StepAdapter {
	return &StepAdapter{
		notifier: notifier{printer: printer{out: out, opts: opts}, steps: service},
		service:  service,
		plans:    plans,
	}
}

// Add inserts steps into a plan.
func (a *StepAdapter) Add(ctx context.Context, req primary.AddStepsRequest) ([]int64, error) {
	resp, err := a.service.AddSteps(ctx, req)
	if err != nil {
		return nil, err
	}
	ids := []int64{req.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	if len(resp.Steps) == 1 {
		a.printf("Created step ID: %d for plan ID: %d\n", resp.Steps[0].ID, resp.Steps[0].PlanID)
	} else {
		a.printf("Created %d steps for plan ID: %d\n", len(resp.Steps), req.PlanID)
	}
	a.statusChanges(resp.Changes)
	return ids, nil
}

// AddTree appends one step with its goals.
func (a *StepAdapter) AddTree(ctx context.Context, planID int64, spec primary.StepSpec) ([]int64, error) {
	resp, err := a.service.AddStepTree(ctx, primary.AddStepTreeRequest{PlanID: planID, Step: spec})
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Step.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Created step ID: %d for plan ID: %d (goals: %d)\n", resp.Step.ID, resp.Step.PlanID, len(resp.Goals))
	return ids, a.followUp(ctx, resp.Changes)
}

// followUp prints the change log and the notices it implies.
func (a *StepAdapter) followUp(ctx context.Context, changes primary.StatusChanges) error {
	a.statusChanges(changes)
	if err := a.afterStepChanges(ctx, changes); err != nil {
		return err
	}
	a.plansCompleted(changes)
	return nil
}

// List prints a plan's steps, or only their number when count is set.
func (a *StepAdapter) List(ctx context.Context, planID int64, filters primary.StepFilters, count bool) error {
	if count {
		total, err := a.service.CountSteps(ctx, planID, filters)
		if err != nil {
			return err
		}
		if a.opts.JSON {
			return a.emitJSON(map[string]int{"total": total})
		}
		a.printf("Total: %d\n", total)
		return nil
	}

	details, err := a.service.ListSteps(ctx, planID, filters)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		if details == nil {
			details = []*primary.StepDetail{}
		}
		return a.emitJSON(details)
	}
	if len(details) == 0 {
		a.printf("No steps found for plan ID: %d.\n", planID)
		return nil
	}
	a.stepList(details)
	return nil
}

// Show prints a step with its goals.
func (a *StepAdapter) Show(ctx context.Context, stepID int64) error {
	detail, err := a.service.GetStepDetail(ctx, stepID)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(detail)
	}
	a.println(render.StepDetail(detail.Step, detail.Goals))
	return nil
}

// ShowNext prints the next pending step of the calling session's active plan.
func (a *StepAdapter) ShowNext(ctx context.Context) error {
	active, err := a.plans.GetActivePlan(ctx)
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
	next, err := a.service.NextStep(ctx, active.PlanID)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(next)
	}
	if next == nil {
		a.println("No pending step.")
		return nil
	}
	a.println(render.StepDetail(next.Step, next.Goals))
	return nil
}

// Update applies a partial update to a step.
func (a *StepAdapter) Update(ctx context.Context, stepID int64, changes primary.StepChanges) ([]int64, error) {
	resp, err := a.service.UpdateStep(ctx, stepID, changes)
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Step.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Updated step ID: %d.\n", resp.Step.ID)
	a.statusChanges(resp.Changes)
	if changes.Status != nil && resp.Step.Status == status.Done {
		if err := a.nextStep(ctx, resp.Step.PlanID); err != nil {
			return ids, err
		}
	}
	a.plansCompleted(resp.Changes)
	return ids, nil
}

// Done marks a step done, optionally completing all of its goals first.
func (a *StepAdapter) Done(ctx context.Context, stepID int64, allGoals bool) ([]int64, error) {
	resp, err := a.service.CompleteStep(ctx, stepID, allGoals)
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.Step.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Step ID: %d marked done.\n", resp.Step.ID)
	a.statusChanges(resp.Changes)
	if err := a.nextStep(ctx, resp.Step.PlanID); err != nil {
		return ids, err
	}
	a.plansCompleted(resp.Changes)
	return ids, nil
}

// Move relocates a step and prints the plan's new order.
func (a *StepAdapter) Move(ctx context.Context, stepID int64, to int) ([]int64, error) {
	steps, err := a.service.MoveStep(ctx, stepID, to)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}
	planID := steps[0].PlanID
	ids := []int64{planID}
	if a.opts.JSON {
		return ids, a.emitJSON(steps)
	}
	details, err := a.service.ListSteps(ctx, planID, primary.StepFilters{})
	if err != nil {
		return ids, err
	}
	a.printf("Reordered steps for plan ID: %d:\n", planID)
	a.stepList(details)
	return ids, nil
}

// Remove deletes steps with their goals.
func (a *StepAdapter) Remove(ctx context.Context, stepIDs []int64) ([]int64, error) {
	resp, err := a.service.DeleteSteps(ctx, stepIDs)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return resp.PlanIDs, a.emitJSON(resp)
	}
	if len(stepIDs) == 1 {
		a.printf("Step ID: %d removed.\n", stepIDs[0])
	} else {
		a.printf("Removed %d steps.\n", resp.Deleted)
	}
	a.statusChanges(resp.Changes)
	return resp.PlanIDs, nil
}

// Comment sets comments on several steps.
func (a *StepAdapter) Comment(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	planIDs, err := a.service.CommentSteps(ctx, entries)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return planIDs, a.emitJSON(map[string][]int64{"plan_ids": planIDs})
	}
	a.commentSummary("step", planIDs)
	return planIDs, nil
}
