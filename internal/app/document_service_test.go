package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/apperr"
)

// memoryDocs is an in-memory PlanDocumentStore.
type memoryDocs struct {
	written  map[int64]string
	exported map[string]string
	removed  []int64
}

func newMemoryDocs() *memoryDocs {
	return &memoryDocs{written: map[int64]string{}, exported: map[string]string{}}
}

func (d *memoryDocs) Write(ctx context.Context, planID int64, markdown string) error {
	d.written[planID] = markdown
	return nil
}

func (d *memoryDocs) Remove(ctx context.Context, planID int64) error {
	delete(d.written, planID)
	d.removed = append(d.removed, planID)
	return nil
}

func (d *memoryDocs) Export(ctx context.Context, path, markdown string) error {
	d.exported[path] = markdown
	return nil
}

func (d *memoryDocs) PathFor(planID int64) string {
	return "plans/plan_" + itoa(planID) + ".md"
}

func TestDocumentService_SyncPlans(t *testing.T) {
	svc, env := newTestServices(t)
	docs := newMemoryDocs()
	documents := NewDocumentService(env.store, docs, "s1", WithClock(env.tick))
	ctx := context.Background()

	detail := createTree(t, svc, stepSpec("Build", "compiles"))
	planID := detail.Plan.ID

	require.NoError(t, documents.SyncPlans(ctx, []int64{planID, planID}))
	require.Contains(t, docs.written, planID)
	assert.Contains(t, docs.written[planID], "- **Active:** `false`")
	assert.Contains(t, docs.written[planID], "- **Steps:** 0/1")

	_, err := svc.Plans.ActivatePlan(ctx, planID, false)
	require.NoError(t, err)
	require.NoError(t, documents.SyncPlans(ctx, []int64{planID}))
	assert.Contains(t, docs.written[planID], "- **Active:** `true`")
	assert.Contains(t, docs.written[planID], "- **Activated:** ")
}

func TestDocumentService_SyncPlans_RemovesDeletedPlan(t *testing.T) {
	svc, env := newTestServices(t)
	docs := newMemoryDocs()
	documents := NewDocumentService(env.store, docs, "s1")
	ctx := context.Background()

	detail := createTree(t, svc, stepSpec("Build"))
	require.NoError(t, documents.SyncPlans(ctx, []int64{detail.Plan.ID}))
	require.NoError(t, svc.Plans.DeletePlan(ctx, detail.Plan.ID))

	require.NoError(t, documents.SyncPlans(ctx, []int64{detail.Plan.ID}))
	assert.NotContains(t, docs.written, detail.Plan.ID)
	assert.Equal(t, []int64{detail.Plan.ID}, docs.removed)
}

func TestDocumentService_ExportPlan(t *testing.T) {
	svc, env := newTestServices(t)
	docs := newMemoryDocs()
	documents := NewDocumentService(env.store, docs, "s1")
	ctx := context.Background()

	detail := createTree(t, svc, stepSpec("Build"))
	resp, err := documents.ExportPlan(ctx, detail.Plan.ID, "out/plan.md")
	require.NoError(t, err)
	assert.Equal(t, "out/plan.md", resp.Path)
	assert.Contains(t, docs.exported["out/plan.md"], "## Plan: Plan")

	_, err = documents.ExportPlan(ctx, 999, "out/missing.md")
	assert.True(t, apperr.IsNotFound(err))

	_, err = documents.ExportPlan(ctx, detail.Plan.ID, "  ")
	assert.True(t, apperr.IsInvalidInput(err))
}
