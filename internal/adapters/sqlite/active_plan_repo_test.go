package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/adapters/sqlite"
	"github.com/example/planpilot/internal/ports/secondary"
)

func TestActivePlanRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewActivePlanRepository(db)
	ctx := context.Background()
	p1 := seedPlan(t, db, "p1")
	p2 := seedPlan(t, db, "p2")

	got, err := repo.GetBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Create(ctx, &secondary.ActivePlanRecord{SessionID: "s1", PlanID: p1, UpdatedAt: testTime}))

	got, err = repo.GetBySession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p1, got.PlanID)

	byPlan, err := repo.GetByPlan(ctx, p1)
	require.NoError(t, err)
	require.NotNil(t, byPlan)
	assert.Equal(t, "s1", byPlan.SessionID)

	err = repo.Create(ctx, &secondary.ActivePlanRecord{SessionID: "s1", PlanID: p2, UpdatedAt: testTime})
	assert.Error(t, err, "session uniqueness enforced by the store")

	err = repo.Create(ctx, &secondary.ActivePlanRecord{SessionID: "s2", PlanID: p1, UpdatedAt: testTime})
	assert.Error(t, err, "plan uniqueness enforced by the store")

	removed, err := repo.DeleteByPlan(ctx, p1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteBySession(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, removed)
}
