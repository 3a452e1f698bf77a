package primary

import (
	"context"
	"time"
)

// GoalService defines the primary port for goal operations.
type GoalService interface {
	// AddGoals appends goals to a step.
	AddGoals(ctx context.Context, stepID int64, contents []string) (*AddGoalsResponse, error)

	// GetGoalDetail retrieves a goal with its owning step.
	GetGoalDetail(ctx context.Context, goalID int64) (*GoalDetail, error)

	// ListGoals lists a step's goals.
	ListGoals(ctx context.Context, stepID int64, filters GoalFilters) ([]*Goal, error)

	// CountGoals counts a step's goals matching filters.
	CountGoals(ctx context.Context, stepID int64, filters GoalFilters) (int, error)

	// UpdateGoal applies a partial update.
	UpdateGoal(ctx context.Context, goalID int64, changes GoalChanges) (*UpdateGoalResponse, error)

	// SetGoalsStatus sets the status of several goals at once.
	SetGoalsStatus(ctx context.Context, goalIDs []int64, status string) (*SetGoalsStatusResponse, error)

	// DeleteGoals deletes goals.
	DeleteGoals(ctx context.Context, goalIDs []int64) (*DeleteResponse, error)

	// CommentGoals sets comments on several goals and returns the affected plan IDs.
	CommentGoals(ctx context.Context, entries []CommentEntry) ([]int64, error)
}

// Goal represents a goal entity at the port boundary.
type Goal struct {
	ID        int64     `json:"id"`
	StepID    int64     `json:"step_id"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoalDetail is a goal with its owning step.
type GoalDetail struct {
	Goal *Goal `json:"goal"`
	Step *Step `json:"step"`
}

// AddGoalsResponse contains the created goals.
type AddGoalsResponse struct {
	Goals   []*Goal       `json:"goals"`
	PlanID  int64         `json:"plan_id"`
	Changes StatusChanges `json:"changes"`
}

// GoalFilters contains filter and paging options for goals.
type GoalFilters struct {
	Status string
	Limit  int
	Offset int
}

// GoalChanges is a partial goal update; nil fields are left untouched.
type GoalChanges struct {
	Content *string
	Status  *string
	Comment *string
}

// UpdateGoalResponse contains the result of updating a goal.
type UpdateGoalResponse struct {
	Goal    *Goal         `json:"goal"`
	PlanID  int64         `json:"plan_id"`
	Changes StatusChanges `json:"changes"`
}

// SetGoalsStatusResponse contains the result of a bulk status change.
type SetGoalsStatusResponse struct {
	Updated int           `json:"updated"`
	PlanIDs []int64       `json:"plan_ids"`
	Changes StatusChanges `json:"changes"`
}
