// Package step contains the pure business logic for steps: completion
// guards and the dense 1..N ordering of steps within a plan.
package step

import (
	"fmt"

	"github.com/example/planpilot/internal/apperr"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an InvalidInput error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.InvalidInput("%s", r.Reason)
}

// MarkDoneContext provides context for the manual Done guard.
type MarkDoneContext struct {
	StepID    int64
	GoalCount int
	// PendingGoalID is the first Todo goal by id, zero when none is pending.
	PendingGoalID      int64
	PendingGoalContent string
}

// ReopenContext provides context for moving a step back to Todo.
type ReopenContext struct {
	StepID    int64
	GoalCount int
	DoneGoals int
}

// CanMarkDone evaluates whether a step may be set Done by hand.
func CanMarkDone(ctx MarkDoneContext) GuardResult {
	if ctx.GoalCount > 0 && ctx.PendingGoalID != 0 {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("cannot mark step done; next pending goal: %s (id %d)",
				ctx.PendingGoalContent, ctx.PendingGoalID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanReopen evaluates whether a step may be set back to Todo by hand.
func CanReopen(ctx ReopenContext) GuardResult {
	if ctx.GoalCount > 0 && ctx.DoneGoals == ctx.GoalCount {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot reopen step; all goals are done",
		}
	}
	return GuardResult{Allowed: true}
}
