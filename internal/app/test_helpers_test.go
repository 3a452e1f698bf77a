package app

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/adapters/sqlite"
	"github.com/example/planpilot/internal/db"
	"github.com/example/planpilot/internal/ports/primary"
)

// testEnv is a database shared by any number of sessions.
type testEnv struct {
	t     *testing.T
	db    *sql.DB
	store *sqlite.Store
	clock time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "planpilot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testEnv{
		t:     t,
		db:    conn,
		store: sqlite.NewStore(conn),
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the shared clock one second per call so updated_at orders
// are deterministic.
func (e *testEnv) tick() time.Time {
	e.clock = e.clock.Add(time.Second)
	return e.clock
}

func (e *testEnv) services(sessionID string) *Services {
	return NewServices(e.store, sessionID, WithClock(e.tick))
}

// newTestServices opens a fresh database with one session, "s1".
func newTestServices(t *testing.T) (*Services, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return env.services("s1"), env
}

// createTree builds a plan from step specs and returns the detail.
func createTree(t *testing.T, svc *Services, steps ...primary.StepSpec) *primary.PlanDetail {
	t.Helper()
	ctx := context.Background()
	resp, err := svc.Plans.CreatePlanTree(ctx, primary.CreatePlanTreeRequest{
		Title:   "Plan",
		Content: "Plan content",
		Steps:   steps,
	})
	require.NoError(t, err)
	detail, err := svc.Plans.GetPlanDetail(ctx, resp.Plan.ID)
	require.NoError(t, err)
	return detail
}

func stepSpec(content string, goals ...string) primary.StepSpec {
	return primary.StepSpec{Content: content, Goals: goals}
}

func stepIDs(steps []*primary.Step) []int64 {
	ids := make([]int64, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func sortOrders(steps []*primary.Step) []int {
	orders := make([]int, len(steps))
	for i, s := range steps {
		orders[i] = s.SortOrder
	}
	return orders
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
