package plan

import (
	"testing"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
)

func TestCanMarkDone(t *testing.T) {
	tests := []struct {
		name        string
		ctx         MarkDoneContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "plan without steps can be marked done",
			ctx:         MarkDoneContext{PlanID: 1},
			wantAllowed: true,
		},
		{
			name:        "plan with only done steps can be marked done",
			ctx:         MarkDoneContext{PlanID: 1, StepCount: 2},
			wantAllowed: true,
		},
		{
			name: "plan with pending step cannot be marked done",
			ctx: MarkDoneContext{
				PlanID:            1,
				StepCount:         2,
				PendingStepDetail: "Step ID: 4\nPlan ID: 1",
			},
			wantAllowed: false,
			wantReason:  "cannot mark plan done; next pending step:\nStep ID: 4\nPlan ID: 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanMarkDone(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanReopen(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ReopenContext
		wantAllowed bool
	}{
		{name: "no steps", ctx: ReopenContext{PlanID: 1}, wantAllowed: true},
		{name: "some steps pending", ctx: ReopenContext{PlanID: 1, StepCount: 3, DoneSteps: 2}, wantAllowed: true},
		{name: "all steps done", ctx: ReopenContext{PlanID: 1, StepCount: 3, DoneSteps: 3}, wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanReopen(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestCanActivate(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ActivateContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "unowned todo plan",
			ctx:         ActivateContext{PlanID: 3, PlanStatus: status.Todo, CallerSession: "s1"},
			wantAllowed: true,
		},
		{
			name:        "plan already owned by caller",
			ctx:         ActivateContext{PlanID: 3, PlanStatus: status.Todo, CallerSession: "s1", OwnerSession: "s1"},
			wantAllowed: true,
		},
		{
			name:        "plan owned elsewhere without takeover",
			ctx:         ActivateContext{PlanID: 3, PlanStatus: status.Todo, CallerSession: "s1", OwnerSession: "s2"},
			wantAllowed: false,
			wantReason:  "plan id 3 is already active in session s2 (use --force to take over)",
		},
		{
			name:        "plan owned elsewhere with takeover",
			ctx:         ActivateContext{PlanID: 3, PlanStatus: status.Todo, CallerSession: "s1", OwnerSession: "s2", Takeover: true},
			wantAllowed: true,
		},
		{
			name:        "done plan",
			ctx:         ActivateContext{PlanID: 3, PlanStatus: status.Done, CallerSession: "s1"},
			wantAllowed: false,
			wantReason:  "cannot activate plan; plan is done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanActivate(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	err := GuardResult{Allowed: false, Reason: "nope"}.Error()
	if !apperr.IsInvalidInput(err) {
		t.Errorf("expected InvalidInput, got %v", err)
	}
}
