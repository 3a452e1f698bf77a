package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestInsertIndex(t *testing.T) {
	tests := []struct {
		name     string
		position *int
		count    int
		want     int
	}{
		{name: "append when unset", position: nil, count: 3, want: 4},
		{name: "front", position: intPtr(1), count: 3, want: 1},
		{name: "middle", position: intPtr(2), count: 3, want: 2},
		{name: "just past end", position: intPtr(4), count: 3, want: 4},
		{name: "far past end clamps", position: intPtr(99), count: 3, want: 4},
		{name: "zero clamps to front", position: intPtr(0), count: 3, want: 1},
		{name: "empty plan", position: intPtr(5), count: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertIndex(tt.position, tt.count))
		})
	}
}

func TestRenumber(t *testing.T) {
	ordered := []Placement{{ID: 10, SortOrder: 1}, {ID: 11, SortOrder: 3}, {ID: 12, SortOrder: 7}}
	changed := Renumber(ordered)
	assert.Equal(t, []Placement{{ID: 11, SortOrder: 2}, {ID: 12, SortOrder: 3}}, changed)

	dense := []Placement{{ID: 10, SortOrder: 1}, {ID: 11, SortOrder: 2}, {ID: 12, SortOrder: 3}}
	assert.Empty(t, Renumber(dense))
}

func TestMove(t *testing.T) {
	abc := []Placement{{ID: 1, SortOrder: 1}, {ID: 2, SortOrder: 2}, {ID: 3, SortOrder: 3}}

	got, ok := Move(abc, 3, 1)
	require.True(t, ok)
	assert.Equal(t, []int64{3, 1, 2}, ids(got))

	got, ok = Move(got, 3, 99)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))

	got, ok = Move(abc, 1, 2)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 1, 3}, ids(got))

	_, ok = Move(abc, 42, 1)
	assert.False(t, ok)

	single := []Placement{{ID: 5, SortOrder: 1}}
	got, ok = Move(single, 5, 3)
	require.True(t, ok)
	assert.Equal(t, []int64{5}, ids(got))
}

func ids(ps []Placement) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
