// Package app implements the primary ports. Every mutating call runs in a
// single store transaction and reports the automatic status transitions it
// caused.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
)

// orchestrator holds what every service shares: the store, the calling
// session and the clock.
type orchestrator struct {
	store     secondary.Store
	sessionID string
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures the services built by this package.
type Option func(*orchestrator)

// WithLogger sets the logger transactions and transitions are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces the wall clock used to stamp writes.
func WithClock(now func() time.Time) Option {
	return func(o *orchestrator) {
		o.now = now
	}
}

func newOrchestrator(store secondary.Store, sessionID string, opts ...Option) *orchestrator {
	o := &orchestrator{
		store:     store,
		sessionID: sessionID,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// mutation is the state of one transactional call: the repositories bound
// to the transaction, its timestamp and the change log built so far.
type mutation struct {
	repos     secondary.Repositories
	sessionID string
	at        time.Time
	changes   primary.StatusChanges
	logger    *slog.Logger
}

// mutate runs fn in one transaction and returns the change log it built.
func (o *orchestrator) mutate(ctx context.Context, op string, fn func(ctx context.Context, m *mutation) error) (primary.StatusChanges, error) {
	var m *mutation
	err := o.store.WithinTx(ctx, func(ctx context.Context, repos secondary.Repositories) error {
		m = &mutation{
			repos:     repos,
			sessionID: o.sessionID,
			at:        o.now(),
			logger:    o.logger,
		}
		return fn(ctx, m)
	})
	if err != nil {
		o.logger.Debug("transaction rolled back", "op", op, "error", err)
		return primary.StatusChanges{}, err
	}
	o.logger.Debug("transaction committed", "op", op,
		"step_changes", len(m.changes.Steps),
		"plan_changes", len(m.changes.Plans),
		"active_cleared", len(m.changes.ActivePlansCleared))
	return m.changes, nil
}

// Services bundles the three primary services over one orchestrator.
type Services struct {
	Plans *PlanServiceImpl
	Steps *StepServiceImpl
	Goals *GoalServiceImpl
}

// NewServices creates the plan, step and goal services acting for sessionID.
func NewServices(store secondary.Store, sessionID string, opts ...Option) *Services {
	o := newOrchestrator(store, sessionID, opts...)
	return &Services{
		Plans: &PlanServiceImpl{o},
		Steps: &StepServiceImpl{o},
		Goals: &GoalServiceImpl{o},
	}
}
