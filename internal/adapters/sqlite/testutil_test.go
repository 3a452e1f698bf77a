// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is opened through db.Open so the tests run against
// the authoritative schema. Do not hardcode CREATE TABLE statements here;
// use setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/db"
)

var testTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// setupTestDB opens a fresh database file in a temp directory.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "planpilot.db"))
	require.NoError(t, err, "failed to open test db")

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedPlan inserts a todo plan and returns its ID.
func seedPlan(t *testing.T, testDB *sql.DB, title string) int64 {
	t.Helper()
	result, err := testDB.Exec(
		"INSERT INTO plans (title, content, status, created_at, updated_at) VALUES (?, ?, 'todo', ?, ?)",
		title, title+" content", testTime, testTime)
	require.NoError(t, err, "failed to seed plan")
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedStep inserts a step and returns its ID.
func seedStep(t *testing.T, testDB *sql.DB, planID int64, content string, sortOrder int, status string) int64 {
	t.Helper()
	result, err := testDB.Exec(
		`INSERT INTO steps (plan_id, content, status, executor, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, 'ai', ?, ?, ?)`,
		planID, content, status, sortOrder, testTime, testTime)
	require.NoError(t, err, "failed to seed step")
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedGoal inserts a goal and returns its ID.
func seedGoal(t *testing.T, testDB *sql.DB, stepID int64, content, status string) int64 {
	t.Helper()
	result, err := testDB.Exec(
		"INSERT INTO goals (step_id, content, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		stepID, content, status, testTime, testTime)
	require.NoError(t, err, "failed to seed goal")
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}
