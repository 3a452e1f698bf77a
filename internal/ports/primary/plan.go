// Package primary defines the primary ports (driving adapters) for the application.
// The CLI drives planpilot exclusively through these interfaces.
package primary

import (
	"context"
	"time"

	"github.com/example/planpilot/internal/core/status"
)

// PlanService defines the primary port for plan operations.
type PlanService interface {
	// CreatePlan creates a plan without steps.
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)

	// CreatePlanTree creates a plan with its ordered steps and their goals
	// in one transaction.
	CreatePlanTree(ctx context.Context, req CreatePlanTreeRequest) (*CreatePlanTreeResponse, error)

	// GetPlan retrieves a plan by ID.
	GetPlan(ctx context.Context, planID int64) (*Plan, error)

	// GetPlanDetail retrieves a plan with its ordered steps and their goals.
	GetPlanDetail(ctx context.Context, planID int64) (*PlanDetail, error)

	// ListPlans lists plans, most recently updated first.
	ListPlans(ctx context.Context, filters PlanFilters) ([]*PlanDetail, error)

	// SearchPlans lists plans whose text matches the request.
	SearchPlans(ctx context.Context, req SearchPlansRequest) ([]*PlanDetail, error)

	// UpdatePlan applies a partial update. Marking done clears any
	// active-plan binding of the plan.
	UpdatePlan(ctx context.Context, planID int64, changes PlanChanges) (*UpdatePlanResponse, error)

	// DeletePlan deletes a plan with its steps, goals and active binding.
	DeletePlan(ctx context.Context, planID int64) error

	// CommentPlans sets comments on several plans at once and returns the
	// affected plan IDs.
	CommentPlans(ctx context.Context, entries []CommentEntry) ([]int64, error)

	// ActivatePlan checks a plan out for the calling session.
	ActivatePlan(ctx context.Context, planID int64, takeover bool) (*Plan, error)

	// GetActivePlan returns the calling session's binding, or nil.
	GetActivePlan(ctx context.Context) (*ActivePlan, error)

	// DeactivatePlan clears the calling session's binding and returns the
	// binding it removed, or nil.
	DeactivatePlan(ctx context.Context) (*ActivePlan, error)
}

// Plan represents a plan entity at the port boundary.
type Plan struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Status        string    `json:"status"`
	Comment       string    `json:"comment,omitempty"`
	LastSessionID string    `json:"last_session_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PlanDetail is a plan with its steps in plan order and each step's goals.
type PlanDetail struct {
	Plan  *Plan             `json:"plan"`
	Steps []*Step           `json:"steps"`
	Goals map[int64][]*Goal `json:"goals"`
}

// StepCounts returns how many of the plan's steps are done, and the total.
func (d *PlanDetail) StepCounts() (done, total int) {
	for _, s := range d.Steps {
		if s.Status == status.Done {
			done++
		}
	}
	return done, len(d.Steps)
}

// ActivePlan is a session's checked-out plan.
type ActivePlan struct {
	SessionID string    `json:"session_id"`
	PlanID    int64     `json:"plan_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePlanRequest contains parameters for creating a plan.
type CreatePlanRequest struct {
	Title   string
	Content string
}

// StepSpec describes one step of a subtree to create.
type StepSpec struct {
	Content  string   `json:"content" yaml:"content"`
	Executor string   `json:"executor,omitempty" yaml:"executor"`
	Goals    []string `json:"goals,omitempty" yaml:"goals"`
}

// CreatePlanTreeRequest contains parameters for creating a plan subtree.
type CreatePlanTreeRequest struct {
	Title   string
	Content string
	Steps   []StepSpec
}

// CreatePlanTreeResponse contains the result of creating a plan subtree.
type CreatePlanTreeResponse struct {
	Plan      *Plan `json:"plan"`
	StepCount int   `json:"step_count"`
	GoalCount int   `json:"goal_count"`
}

// PlanFilters contains filter options for listing plans.
type PlanFilters struct {
	Status string // empty lists every status
}

// SearchPlansRequest contains the parameters of a plan search.
type SearchPlansRequest struct {
	Terms     []string
	Mode      string // any|all, default all
	Field     string // plan|title|content|comment|steps|goals|all, default plan
	MatchCase bool
	Status    string
}

// PlanChanges is a partial plan update; nil fields are left untouched.
type PlanChanges struct {
	Title   *string
	Content *string
	Status  *string
	Comment *string
}

// UpdatePlanResponse contains the result of updating a plan.
type UpdatePlanResponse struct {
	Plan *Plan `json:"plan"`
	// ActiveCleared is true when the update removed the calling session's
	// active binding.
	ActiveCleared bool          `json:"active_cleared"`
	Changes       StatusChanges `json:"changes"`
}

// CommentEntry is one id/comment pair of a comment batch.
type CommentEntry struct {
	ID      int64
	Comment string
}
