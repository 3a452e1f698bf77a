package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/apperr"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		children    []string
		wantApplies bool
		wantStatus  string
		wantReason  string
	}{
		{
			name:        "no children never derives",
			children:    nil,
			wantApplies: false,
		},
		{
			name:        "all done",
			children:    []string{Done, Done},
			wantApplies: true,
			wantStatus:  Done,
			wantReason:  "all goals are done (2/2)",
		},
		{
			name:        "partially done",
			children:    []string{Done, Todo, Todo},
			wantApplies: true,
			wantStatus:  Todo,
			wantReason:  "goals done 1/3",
		},
		{
			name:        "none done",
			children:    []string{Todo},
			wantApplies: true,
			wantStatus:  Todo,
			wantReason:  "goals done 0/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.children)
			assert.Equal(t, tt.wantApplies, got.Applies)
			if !tt.wantApplies {
				return
			}
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReason, got.Reason("goals"))
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" DONE ")
	require.NoError(t, err)
	assert.Equal(t, Done, got)

	_, err = ParseStatus("finished")
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestParseExecutor(t *testing.T) {
	got, err := ParseExecutor("")
	require.NoError(t, err)
	assert.Equal(t, ExecutorAI, got)

	got, err = ParseExecutor("Human")
	require.NoError(t, err)
	assert.Equal(t, ExecutorHuman, got)

	_, err = ParseExecutor("robot")
	assert.EqualError(t, err, "Invalid input: invalid executor 'robot', expected ai|human")
}
