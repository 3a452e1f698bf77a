package treefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/ports/primary"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`title: Release 1.2
content: Ship the release.
steps:
  - content: Tag the build
    goals: [CI green, changelog]
  - content: Announce
    executor: human
`), 0o644))

	tree, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Release 1.2", tree.Title)
	assert.Equal(t, "Ship the release.", tree.Content)
	assert.Equal(t, []primary.StepSpec{
		{Content: "Tag the build", Goals: []string{"CI green", "changelog"}},
		{Content: "Announce", Executor: "human"},
	}, tree.Steps)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "Invalid input: tree file is empty"},
		{"no steps", "title: x\ncontent: y\n", "Invalid input: plan add-tree requires at least one --step"},
		{"unknown key", "title: x\nsteps:\n  - content: a\n    owner: me\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, apperr.IsInvalidInput(err))
			if tt.want != "" {
				assert.Equal(t, tt.want, err.Error())
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, apperr.IsInvalidInput(err))
}
