package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/apperr"
)

// execute runs the root command against dataDir and returns stdout.
func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--session-id", "s1", "--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRoot_PlanLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "plan", "add-tree", "Ship it", "Release the thing",
		"--step", "Build", "--goal", "compiles", "--goal", "tests pass",
		"--step", "Announce", "--executor", "human")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan ID: 1: Ship it (steps: 2, goals: 2)")

	_, err = os.Stat(filepath.Join(dir, "plans", "plan_1.md"))
	require.NoError(t, err)

	out, err = execute(t, dir, "plan", "activate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Active plan set to 1: Ship it")

	out, err = execute(t, dir, "goal", "done", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Goals marked done: 2.")
	assert.Contains(t, out, "Auto status updates:")
	assert.Contains(t, out, "Step ID: 1 status auto-updated from todo to done")

	out, err = execute(t, dir, "step", "list", "1", "--count")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1")

	out, err = execute(t, dir, "step", "done", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Step ID: 2 marked done.")
	assert.Contains(t, out, "Plan ID: 1 status auto-updated from todo to done")

	out, err = execute(t, dir, "plan", "show-active")
	require.NoError(t, err)
	assert.Contains(t, out, "No active plan")
}

func TestRoot_RequiresSession(t *testing.T) {
	t.Setenv("PLANPILOT_SESSION_ID", "")
	root := NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--data-dir", t.TempDir(), "plan", "list"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "--session-id is required")
}

func TestRoot_ValidationErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad plan id", []string{"plan", "show", "abc"}, "invalid plan id 'abc'"},
		{"step add without content", []string{"step", "add", "1"}, "no contents provided"},
		{"move to zero", []string{"step", "move", "1", "--to", "0"}, "position starts at 1"},
		{"bad order", []string{"step", "list", "1", "--order", "random"}, "invalid value 'random' for --order"},
		{"goal remove without ids", []string{"goal", "remove"}, "no goal ids provided"},
		{"missing plan", []string{"plan", "show", "42"}, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
