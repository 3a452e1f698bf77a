package app

import (
	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/ports/primary"
)

// dedupComments keeps the last comment given for each id, at the position
// where the id first appeared, and rejects blank comments.
func dedupComments(entries []primary.CommentEntry) ([]primary.CommentEntry, error) {
	index := make(map[int64]int, len(entries))
	var out []primary.CommentEntry
	for _, e := range entries {
		if err := apperr.RequireText("comment", e.Comment); err != nil {
			return nil, err
		}
		if i, ok := index[e.ID]; ok {
			out[i].Comment = e.Comment
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	return out, nil
}

func commentIDs(entries []primary.CommentEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
