package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the version recorded for SchemaSQL.
const SchemaVersion = 1

// SchemaSQL is the complete schema for planpilot databases.
//
// This is the single source of truth for the schema. Tests open databases
// through Open, so repository code that drifts from it fails with
// "no such column" at test time.
//
// sort_order is intentionally not unique: the ordering engine shifts rows
// and the dense 1..N rule is enforced in code.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('todo', 'done')) DEFAULT 'todo',
	comment TEXT,
	last_session_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	plan_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('todo', 'done')) DEFAULT 'todo',
	executor TEXT NOT NULL CHECK(executor IN ('ai', 'human')) DEFAULT 'ai',
	sort_order INTEGER NOT NULL,
	comment TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (plan_id) REFERENCES plans(id)
);

CREATE INDEX IF NOT EXISTS idx_steps_plan_order ON steps(plan_id, sort_order);

CREATE TABLE IF NOT EXISTS goals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	step_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('todo', 'done')) DEFAULT 'todo',
	comment TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (step_id) REFERENCES steps(id)
);

CREATE INDEX IF NOT EXISTS idx_goals_step ON goals(step_id);

CREATE TABLE IF NOT EXISTS active_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	plan_id INTEGER NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (plan_id) REFERENCES plans(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_active_plans_session ON active_plans(session_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_active_plans_plan ON active_plans(plan_id);
`

// InitSchema creates the schema on a fresh database and records its
// version. Databases already at SchemaVersion are left untouched.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	err = database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}
	if current != 0 {
		return fmt.Errorf("unsupported schema version %d", current)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	if _, err := tx.Exec(SchemaSQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL.
func GetSchemaSQL() string {
	return SchemaSQL
}
