// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/planpilot/internal/ports/secondary"
)

// Querier is the statement surface shared by *sql.DB and *sql.Tx, so every
// repository runs unchanged against the plain connection or an open
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// repositories binds the four repositories to one Querier.
type repositories struct {
	plans       *PlanRepository
	steps       *StepRepository
	goals       *GoalRepository
	activePlans *ActivePlanRepository
}

func newRepositories(q Querier) *repositories {
	return &repositories{
		plans:       NewPlanRepository(q),
		steps:       NewStepRepository(q),
		goals:       NewGoalRepository(q),
		activePlans: NewActivePlanRepository(q),
	}
}

func (r *repositories) Plans() secondary.PlanRepository             { return r.plans }
func (r *repositories) Steps() secondary.StepRepository             { return r.steps }
func (r *repositories) Goals() secondary.GoalRepository             { return r.goals }
func (r *repositories) ActivePlans() secondary.ActivePlanRepository { return r.activePlans }

// Store implements secondary.Store over a *sql.DB.
type Store struct {
	*repositories
	db *sql.DB
}

// NewStore creates a Store whose non-transactional repositories use db directly.
func NewStore(db *sql.DB) *Store {
	return &Store{repositories: newRepositories(db), db: db}
}

// WithinTx runs fn in a single transaction, committing on success and
// rolling back on any error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos secondary.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ secondary.Store = (*Store)(nil)
