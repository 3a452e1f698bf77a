package cli

import (
	"context"
	"io"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/render"
)

// GoalAdapter is a thin adapter that translates CLI operations to GoalService calls.
type GoalAdapter struct {
	notifier
	service primary.GoalService
}

// NewGoalAdapter creates a new GoalAdapter. steps is used for the notices
// printed after goals complete a step.
func NewGoalAdapter(service primary.GoalService, steps primary.StepService, out io.Writer, opts Options) *GoalAdapter {
	return &GoalAdapter{
		notifier: notifier{printer: printer{out: out, opts: opts}, steps: steps},
		service:  service,
	}
}

// Add appends goals to a step.
func (a *GoalAdapter) Add(ctx context.Context, stepID int64, contents []string) ([]int64, error) {
	resp, err := a.service.AddGoals(ctx, stepID, contents)
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	if len(resp.Goals) == 1 {
		a.printf("Created goal ID: %d for step ID: %d\n", resp.Goals[0].ID, resp.Goals[0].StepID)
	} else {
		a.printf("Created %d goals for step ID: %d\n", len(resp.Goals), stepID)
	}
	return ids, a.followUp(ctx, resp.Changes)
}

func (a *GoalAdapter) followUp(ctx context.Context, changes primary.StatusChanges) error {
	a.statusChanges(changes)
	if err := a.afterStepChanges(ctx, changes); err != nil {
		return err
	}
	a.plansCompleted(changes)
	return nil
}

// List prints a step's goals, or only their number when count is set.
func (a *GoalAdapter) List(ctx context.Context, stepID int64, filters primary.GoalFilters, count bool) error {
	if count {
		total, err := a.service.CountGoals(ctx, stepID, filters)
		if err != nil {
			return err
		}
		if a.opts.JSON {
			return a.emitJSON(map[string]int{"total": total})
		}
		a.printf("Total: %d\n", total)
		return nil
	}

	goals, err := a.service.ListGoals(ctx, stepID, filters)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		if goals == nil {
			goals = []*primary.Goal{}
		}
		return a.emitJSON(goals)
	}
	if len(goals) == 0 {
		a.printf("No goals found for step ID: %d.\n", stepID)
		return nil
	}
	a.goalList(goals)
	return nil
}

// Show prints a goal with its step.
func (a *GoalAdapter) Show(ctx context.Context, goalID int64) error {
	detail, err := a.service.GetGoalDetail(ctx, goalID)
	if err != nil {
		return err
	}
	if a.opts.JSON {
		return a.emitJSON(detail)
	}
	a.println(render.GoalDetail(detail.Goal, detail.Step))
	return nil
}

// Update applies a partial update to a goal.
func (a *GoalAdapter) Update(ctx context.Context, goalID int64, changes primary.GoalChanges) ([]int64, error) {
	resp, err := a.service.UpdateGoal(ctx, goalID, changes)
	if err != nil {
		return nil, err
	}
	ids := []int64{resp.PlanID}
	if a.opts.JSON {
		return ids, a.emitJSON(resp)
	}
	a.printf("Updated goal %d.\n", resp.Goal.ID)
	return ids, a.followUp(ctx, resp.Changes)
}

// Done marks goals done.
func (a *GoalAdapter) Done(ctx context.Context, goalIDs []int64) ([]int64, error) {
	resp, err := a.service.SetGoalsStatus(ctx, goalIDs, status.Done)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return resp.PlanIDs, a.emitJSON(resp)
	}
	if len(goalIDs) == 1 {
		a.printf("Goal ID: %d marked done.\n", goalIDs[0])
	} else {
		a.printf("Goals marked done: %d.\n", resp.Updated)
	}
	return resp.PlanIDs, a.followUp(ctx, resp.Changes)
}

// Remove deletes goals.
func (a *GoalAdapter) Remove(ctx context.Context, goalIDs []int64) ([]int64, error) {
	resp, err := a.service.DeleteGoals(ctx, goalIDs)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return resp.PlanIDs, a.emitJSON(resp)
	}
	if len(goalIDs) == 1 {
		a.printf("Goal ID: %d removed.\n", goalIDs[0])
	} else {
		a.printf("Removed %d goals.\n", resp.Deleted)
	}
	return resp.PlanIDs, a.followUp(ctx, resp.Changes)
}

// Comment sets comments on several goals.
func (a *GoalAdapter) Comment(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	planIDs, err := a.service.CommentGoals(ctx, entries)
	if err != nil {
		return nil, err
	}
	if a.opts.JSON {
		return planIDs, a.emitJSON(map[string][]int64{"plan_ids": planIDs})
	}
	a.commentSummary("goal", planIDs)
	return planIDs, nil
}
