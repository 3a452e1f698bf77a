package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/adapters/filesystem"
)

func TestPlanDocumentStore_WriteAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewPlanDocumentStore(dir)
	ctx := context.Background()

	path := store.PathFor(7)
	assert.Equal(t, filepath.Join(dir, "plans", "plan_7.md"), path)

	require.NoError(t, store.Write(ctx, 7, "# Plan\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", string(data))

	require.NoError(t, store.Write(ctx, 7, "# Plan v2\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Plan v2\n", string(data))

	require.NoError(t, store.Remove(ctx, 7))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// removing again is fine
	require.NoError(t, store.Remove(ctx, 7))
}

func TestPlanDocumentStore_Export(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewPlanDocumentStore(dir)

	target := filepath.Join(dir, "out", "nested", "plan.md")
	require.NoError(t, store.Export(context.Background(), target, "content"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
