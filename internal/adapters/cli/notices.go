package cli

import (
	"context"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/render"
)

// notifier prints the follow-up messages of a mutation: the automatic
// status updates, the next step to work on and plan completions.
type notifier struct {
	printer
	steps primary.StepService
}

func (n notifier) statusChanges(changes primary.StatusChanges) {
	if changes.IsEmpty() {
		return
	}
	n.println("Auto status updates:")
	for _, c := range changes.Steps {
		n.printf("- Step ID: %d status auto-updated from %s to %s (%s).\n", c.StepID, c.From, c.To, c.Reason)
	}
	for _, c := range changes.Plans {
		n.printf("- Plan ID: %d status auto-updated from %s to %s (%s).\n", c.PlanID, c.From, c.To, c.Reason)
	}
	for _, c := range changes.ActivePlansCleared {
		n.printf("- Active plan deactivated for plan ID: %d (%s).\n", c.PlanID, c.Reason)
	}
}

// afterStepChanges announces the next step of every plan in which a step
// was auto-completed.
func (n notifier) afterStepChanges(ctx context.Context, changes primary.StatusChanges) error {
	var planIDs []int64
	seen := make(map[int64]bool)
	for _, c := range changes.Steps {
		if c.To != status.Done {
			continue
		}
		step, err := n.steps.GetStep(ctx, c.StepID)
		if err != nil {
			return err
		}
		if !seen[step.PlanID] {
			seen[step.PlanID] = true
			planIDs = append(planIDs, step.PlanID)
		}
	}
	for _, planID := range planIDs {
		if err := n.nextStep(ctx, planID); err != nil {
			return err
		}
	}
	return nil
}

// plansCompleted announces every plan whose last recorded transition
// ended in done.
func (n notifier) plansCompleted(changes primary.StatusChanges) {
	var order []int64
	final := make(map[int64]string)
	for _, c := range changes.Plans {
		if _, ok := final[c.PlanID]; !ok {
			order = append(order, c.PlanID)
		}
		final[c.PlanID] = c.To
	}
	for _, planID := range order {
		if final[planID] == status.Done {
			n.planCompleted(planID)
		}
	}
}

func (n notifier) planCompleted(planID int64) {
	n.printf("Plan ID: %d is complete. Summarize the completed results to the user, then end this turn.\n", planID)
}

func (n notifier) nextStep(ctx context.Context, planID int64) error {
	next, err := n.steps.NextStep(ctx, planID)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if next.Step.Executor == status.ExecutorAI {
		n.printf("Next step is assigned to ai (step ID: %d). Please end this turn so Planpilot can surface it.\n", next.Step.ID)
		return nil
	}
	n.println("Next step requires human action:")
	n.println(render.StepDetail(next.Step, next.Goals))
	n.println("Tell the user to complete the above step and goals. Confirm each goal when done, then end this turn.")
	return nil
}
