package app

import (
	"sort"

	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
)

func recordToPlan(r *secondary.PlanRecord) *primary.Plan {
	return &primary.Plan{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Status:        r.Status,
		Comment:       r.Comment,
		LastSessionID: r.LastSessionID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func recordToStep(r *secondary.StepRecord) *primary.Step {
	return &primary.Step{
		ID:        r.ID,
		PlanID:    r.PlanID,
		Content:   r.Content,
		Status:    r.Status,
		Executor:  r.Executor,
		SortOrder: r.SortOrder,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordToGoal(r *secondary.GoalRecord) *primary.Goal {
	return &primary.Goal{
		ID:        r.ID,
		StepID:    r.StepID,
		Content:   r.Content,
		Status:    r.Status,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordsToSteps(records []*secondary.StepRecord) []*primary.Step {
	steps := make([]*primary.Step, len(records))
	for i, r := range records {
		steps[i] = recordToStep(r)
	}
	return steps
}

func recordsToGoals(records []*secondary.GoalRecord) []*primary.Goal {
	goals := make([]*primary.Goal, len(records))
	for i, r := range records {
		goals[i] = recordToGoal(r)
	}
	return goals
}

func recordToActivePlan(r *secondary.ActivePlanRecord) *primary.ActivePlan {
	return &primary.ActivePlan{
		SessionID: r.SessionID,
		PlanID:    r.PlanID,
		UpdatedAt: r.UpdatedAt,
	}
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// missingIDs returns the requested ids absent from found, sorted.
func missingIDs(requested []int64, found map[int64]bool) []int64 {
	var missing []int64
	for _, id := range requested {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
