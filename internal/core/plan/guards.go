// Package plan contains the pure business logic for plan operations.
// Guards are pure functions that evaluate preconditions without side effects.
package plan

import (
	"fmt"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
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
	PlanID    int64
	StepCount int
	// PendingStepDetail is the rendered detail of the first Todo step
	// (by sort order, then id). Empty when no step is pending.
	PendingStepDetail string
}

// ReopenContext provides context for moving a plan back to Todo.
type ReopenContext struct {
	PlanID    int64
	StepCount int
	DoneSteps int
}

// ActivateContext provides context for binding a plan to a session.
type ActivateContext struct {
	PlanID        int64
	PlanStatus    string
	CallerSession string
	// OwnerSession is the session currently holding the plan, if any.
	OwnerSession string
	Takeover     bool
}

// CanMarkDone evaluates whether a plan may be set Done by hand.
// Rules:
// - A plan without steps may always be marked done
// - Otherwise no step may be pending
func CanMarkDone(ctx MarkDoneContext) GuardResult {
	if ctx.StepCount > 0 && ctx.PendingStepDetail != "" {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot mark plan done; next pending step:\n" + ctx.PendingStepDetail,
		}
	}
	return GuardResult{Allowed: true}
}

// CanReopen evaluates whether a plan may be set back to Todo by hand.
// A plan whose steps are all done would be re-completed by the cascade,
// so the request is refused instead.
func CanReopen(ctx ReopenContext) GuardResult {
	if ctx.StepCount > 0 && ctx.DoneSteps == ctx.StepCount {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot reopen plan; all steps are done",
		}
	}
	return GuardResult{Allowed: true}
}

// CanActivate evaluates whether the caller's session may check out a plan.
// Rules:
// - Done plans cannot be activated
// - A plan held by another session needs an explicit takeover
func CanActivate(ctx ActivateContext) GuardResult {
	if ctx.PlanStatus == status.Done {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot activate plan; plan is done",
		}
	}

	if ctx.OwnerSession != "" && ctx.OwnerSession != ctx.CallerSession && !ctx.Takeover {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("plan id %d is already active in session %s (use --force to take over)",
				ctx.PlanID, ctx.OwnerSession),
		}
	}

	return GuardResult{Allowed: true}
}
