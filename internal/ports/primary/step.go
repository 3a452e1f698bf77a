package primary

import (
	"context"
	"time"

	"github.com/example/planpilot/internal/core/status"
)

// StepService defines the primary port for step operations.
type StepService interface {
	// AddSteps inserts steps at an optional 1-based position (nil appends).
	AddSteps(ctx context.Context, req AddStepsRequest) (*AddStepsResponse, error)

	// AddStepTree appends one step with its goals.
	AddStepTree(ctx context.Context, req AddStepTreeRequest) (*AddStepTreeResponse, error)

	// GetStep retrieves a step by ID.
	GetStep(ctx context.Context, stepID int64) (*Step, error)

	// GetStepDetail retrieves a step with its goals.
	GetStepDetail(ctx context.Context, stepID int64) (*StepDetail, error)

	// ListSteps lists a plan's steps with their goals.
	ListSteps(ctx context.Context, planID int64, filters StepFilters) ([]*StepDetail, error)

	// CountSteps counts a plan's steps matching filters.
	CountSteps(ctx context.Context, planID int64, filters StepFilters) (int, error)

	// NextStep returns the first pending step of a plan with its goals, or nil.
	NextStep(ctx context.Context, planID int64) (*StepDetail, error)

	// UpdateStep applies a partial update.
	UpdateStep(ctx context.Context, stepID int64, changes StepChanges) (*UpdateStepResponse, error)

	// CompleteStep marks a step done, first completing every goal when allGoals is set.
	CompleteStep(ctx context.Context, stepID int64, allGoals bool) (*UpdateStepResponse, error)

	// MoveStep relocates a step to a 1-based position and returns the plan's steps in order.
	MoveStep(ctx context.Context, stepID int64, to int) ([]*Step, error)

	// DeleteSteps deletes steps and their goals.
	DeleteSteps(ctx context.Context, stepIDs []int64) (*DeleteResponse, error)

	// CommentSteps sets comments on several steps and returns the affected plan IDs.
	CommentSteps(ctx context.Context, entries []CommentEntry) ([]int64, error)
}

// Step represents a step entity at the port boundary.
type Step struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"plan_id"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	Executor  string    `json:"executor"`
	SortOrder int       `json:"sort_order"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StepDetail is a step with its goals.
type StepDetail struct {
	Step  *Step   `json:"step"`
	Goals []*Goal `json:"goals"`
}

// GoalCounts returns how many of the step's goals are done, and the total.
func (d *StepDetail) GoalCounts() (done, total int) {
	for _, g := range d.Goals {
		if g.Status == status.Done {
			done++
		}
	}
	return done, len(d.Goals)
}

// AddStepsRequest contains parameters for adding steps.
type AddStepsRequest struct {
	PlanID   int64
	Contents []string
	Executor string
	Position *int
}

// AddStepsResponse contains the created steps in insertion order.
type AddStepsResponse struct {
	Steps   []*Step       `json:"steps"`
	Changes StatusChanges `json:"changes"`
}

// AddStepTreeRequest contains parameters for adding one step subtree.
type AddStepTreeRequest struct {
	PlanID int64
	Step   StepSpec
}

// AddStepTreeResponse contains the created step and goals.
type AddStepTreeResponse struct {
	Step    *Step         `json:"step"`
	Goals   []*Goal       `json:"goals"`
	Changes StatusChanges `json:"changes"`
}

// StepFilters contains filter, ordering and paging options for steps.
type StepFilters struct {
	Status   string
	Executor string
	OrderBy  string // order|id|created
	Desc     bool
	Limit    int
	Offset   int
}

// StepChanges is a partial step update; nil fields are left untouched.
type StepChanges struct {
	Content  *string
	Status   *string
	Executor *string
	Comment  *string
}

// UpdateStepResponse contains the result of updating a step.
type UpdateStepResponse struct {
	Step    *Step         `json:"step"`
	Changes StatusChanges `json:"changes"`
}

// DeleteResponse contains the result of a batch delete.
type DeleteResponse struct {
	Deleted int           `json:"deleted"`
	PlanIDs []int64       `json:"plan_ids"`
	Changes StatusChanges `json:"changes"`
}
