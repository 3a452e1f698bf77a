package app

import (
	"context"
	"fmt"

	corestep "github.com/example/planpilot/internal/core/step"
	"github.com/example/planpilot/internal/ports/secondary"
)

func placements(steps []*secondary.StepRecord) []corestep.Placement {
	out := make([]corestep.Placement, len(steps))
	for i, s := range steps {
		out[i] = corestep.Placement{ID: s.ID, SortOrder: s.SortOrder}
	}
	return out
}

// applyOrder writes ordinals 1..N following ordered, touching only rows
// whose ordinal changes, and returns how many rows it wrote.
func (m *mutation) applyOrder(ctx context.Context, ordered []corestep.Placement) (int, error) {
	changed := corestep.Renumber(ordered)
	for _, p := range changed {
		if err := m.repos.Steps().UpdateSortOrder(ctx, p.ID, p.SortOrder, m.at); err != nil {
			return 0, fmt.Errorf("failed to reorder steps: %w", err)
		}
	}
	return len(changed), nil
}

// normalize makes a plan's ordinals dense (1..N by sort order, then id).
// It returns the steps in order with their final ordinals.
func (m *mutation) normalize(ctx context.Context, planID int64) ([]*secondary.StepRecord, int, error) {
	steps, err := m.repos.Steps().ListByPlan(ctx, planID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load steps: %w", err)
	}
	written, err := m.applyOrder(ctx, placements(steps))
	if err != nil {
		return nil, 0, err
	}
	for i, s := range steps {
		s.SortOrder = i + 1
	}
	return steps, written, nil
}
