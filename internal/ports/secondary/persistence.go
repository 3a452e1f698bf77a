// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// Store is the transactional entry point to persistence.
type Store interface {
	Repositories

	// WithinTx runs fn inside one transaction. The Repositories handed to
	// fn are bound to that transaction. A non-nil error from fn rolls the
	// transaction back and is returned unchanged; otherwise it commits.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Repositories groups the four record repositories sharing one connection
// or one transaction.
type Repositories interface {
	Plans() PlanRepository
	Steps() StepRepository
	Goals() GoalRepository
	ActivePlans() ActivePlanRepository
}

// PlanRepository defines the secondary port for plan persistence.
type PlanRepository interface {
	// Create persists a new plan and sets its ID.
	Create(ctx context.Context, plan *PlanRecord) error

	// GetByID retrieves a plan by its ID. Fails with NotFound ("plan id N").
	GetByID(ctx context.Context, id int64) (*PlanRecord, error)

	// List retrieves plans matching the given filters, most recently
	// updated first (id descending breaks ties).
	List(ctx context.Context, filters PlanFilters) ([]*PlanRecord, error)

	// ListByIDs retrieves the plans with the given IDs. Missing IDs are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*PlanRecord, error)

	// Update writes every mutable column of plan.
	Update(ctx context.Context, plan *PlanRecord) error

	// UpdateStatus sets a plan's status and updated_at.
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error

	// Touch records sessionID as the last session to change the plan.
	Touch(ctx context.Context, id int64, sessionID string, at time.Time) error

	// Delete removes a plan row. Returns false when no row matched.
	Delete(ctx context.Context, id int64) (bool, error)
}

// PlanRecord represents a plan as stored in persistence.
type PlanRecord struct {
	ID            int64
	Title         string
	Content       string
	Status        string
	Comment       string // empty means no comment
	LastSessionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlanFilters contains filter options for listing plans.
type PlanFilters struct {
	Status string
}

// StepRepository defines the secondary port for step persistence.
type StepRepository interface {
	// Create persists a new step and sets its ID.
	Create(ctx context.Context, step *StepRecord) error

	// GetByID retrieves a step by its ID. Fails with NotFound ("step id N").
	GetByID(ctx context.Context, id int64) (*StepRecord, error)

	// ListByPlan retrieves all steps of a plan ordered by sort_order, then id.
	ListByPlan(ctx context.Context, planID int64) ([]*StepRecord, error)

	// ListByIDs retrieves the steps with the given IDs. Missing IDs are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*StepRecord, error)

	// List retrieves a filtered, ordered, paginated slice of a plan's steps.
	List(ctx context.Context, planID int64, filters StepFilters) ([]*StepRecord, error)

	// Count returns how many of a plan's steps match filters (paging ignored).
	Count(ctx context.Context, planID int64, filters StepFilters) (int, error)

	// NextPending returns the first Todo step by sort_order then id, or nil.
	NextPending(ctx context.Context, planID int64) (*StepRecord, error)

	// Update writes content, status, executor, comment and updated_at.
	Update(ctx context.Context, step *StepRecord) error

	// UpdateStatus sets a step's status and updated_at.
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error

	// UpdateSortOrder sets one step's ordinal.
	UpdateSortOrder(ctx context.Context, id int64, sortOrder int, at time.Time) error

	// ShiftSortOrder adds by to the ordinal of every step of planID whose
	// ordinal is at least from.
	ShiftSortOrder(ctx context.Context, planID int64, from, by int, at time.Time) error

	// DeleteByIDs removes the given steps and returns how many rows went.
	DeleteByIDs(ctx context.Context, ids []int64) (int, error)

	// DeleteByPlan removes every step of a plan.
	DeleteByPlan(ctx context.Context, planID int64) error
}

// StepRecord represents a step as stored in persistence.
type StepRecord struct {
	ID        int64
	PlanID    int64
	Content   string
	Status    string
	Executor  string
	SortOrder int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Step list orderings.
const (
	StepOrderBySortOrder = "order"
	StepOrderByID        = "id"
	StepOrderByCreated   = "created"
)

// StepFilters contains filter, ordering and paging options for steps.
// Zero values mean "no filter", sort order ascending, no paging.
type StepFilters struct {
	Status   string
	Executor string
	OrderBy  string
	Desc     bool
	Limit    int
	Offset   int
}

// GoalRepository defines the secondary port for goal persistence.
type GoalRepository interface {
	// Create persists a new goal and sets its ID.
	Create(ctx context.Context, goal *GoalRecord) error

	// GetByID retrieves a goal by its ID. Fails with NotFound ("goal id N").
	GetByID(ctx context.Context, id int64) (*GoalRecord, error)

	// ListByStep retrieves all goals of a step ordered by id.
	ListByStep(ctx context.Context, stepID int64) ([]*GoalRecord, error)

	// ListBySteps retrieves the goals of several steps, keyed by step id.
	ListBySteps(ctx context.Context, stepIDs []int64) (map[int64][]*GoalRecord, error)

	// ListByIDs retrieves the goals with the given IDs. Missing IDs are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*GoalRecord, error)

	// List retrieves a filtered, paginated slice of a step's goals by id.
	List(ctx context.Context, stepID int64, filters GoalFilters) ([]*GoalRecord, error)

	// Count returns how many of a step's goals match filters (paging ignored).
	Count(ctx context.Context, stepID int64, filters GoalFilters) (int, error)

	// NextPending returns the first Todo goal of a step by id, or nil.
	NextPending(ctx context.Context, stepID int64) (*GoalRecord, error)

	// Update writes content, status, comment and updated_at.
	Update(ctx context.Context, goal *GoalRecord) error

	// UpdateStatus sets the status of the given goals.
	UpdateStatus(ctx context.Context, ids []int64, status string, at time.Time) error

	// DeleteByIDs removes the given goals and returns how many rows went.
	DeleteByIDs(ctx context.Context, ids []int64) (int, error)

	// DeleteBySteps removes every goal of the given steps.
	DeleteBySteps(ctx context.Context, stepIDs []int64) error
}

// GoalRecord represents a goal as stored in persistence.
type GoalRecord struct {
	ID        int64
	StepID    int64
	Content   string
	Status    string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoalFilters contains filter and paging options for goals.
type GoalFilters struct {
	Status string
	Limit  int
	Offset int
}

// ActivePlanRepository defines the secondary port for session bindings.
type ActivePlanRepository interface {
	// GetBySession returns the binding of a session, or nil.
	GetBySession(ctx context.Context, sessionID string) (*ActivePlanRecord, error)

	// GetByPlan returns the binding referencing a plan, or nil.
	GetByPlan(ctx context.Context, planID int64) (*ActivePlanRecord, error)

	// Create inserts a binding. The store rejects a second row for the
	// same session or the same plan.
	Create(ctx context.Context, binding *ActivePlanRecord) error

	// DeleteBySession removes a session's binding, reporting whether one existed.
	DeleteBySession(ctx context.Context, sessionID string) (bool, error)

	// DeleteByPlan removes the binding referencing a plan, reporting whether one existed.
	DeleteByPlan(ctx context.Context, planID int64) (bool, error)
}

// ActivePlanRecord represents a session's checked-out plan.
type ActivePlanRecord struct {
	ID        int64
	SessionID string
	PlanID    int64
	UpdatedAt time.Time
}
