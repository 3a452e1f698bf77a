// Package wire provides dependency injection for one planpilot invocation.
// Open takes the process lock, opens the database and builds the services;
// Close releases both.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cliadapter "github.com/example/planpilot/internal/adapters/cli"
	"github.com/example/planpilot/internal/adapters/filesystem"
	"github.com/example/planpilot/internal/adapters/sqlite"
	"github.com/example/planpilot/internal/app"
	"github.com/example/planpilot/internal/config"
	"github.com/example/planpilot/internal/db"
	"github.com/example/planpilot/internal/lockfile"
	"github.com/example/planpilot/internal/ports/primary"
)

// App holds the services of one invocation.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Plans     primary.PlanService
	Steps     primary.StepService
	Goals     primary.GoalService
	Documents primary.DocumentService

	lock *lockfile.Lock
	db   *sql.DB
}

// NewLogger returns the text logger written to logOut.
func NewLogger(logOut io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
}

// Open wires the application for cfg. The data directory is locked until
// Close so concurrent invocations run one after another.
func Open(cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := NewLogger(logOut, cfg.LogLevel)

	lock, err := lockfile.Acquire(cfg.LockPath())
	if err != nil {
		return nil, fmt.Errorf("failed to lock data directory: %w", err)
	}
	logger.Debug("data directory locked", "path", cfg.LockPath())

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		lock.Release()
		return nil, err
	}

	store := sqlite.NewStore(database)
	opts := []app.Option{app.WithLogger(logger)}
	services := app.NewServices(store, cfg.SessionID, opts...)
	documents := app.NewDocumentService(store, filesystem.NewPlanDocumentStore(cfg.DataDir), cfg.SessionID, opts...)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Plans:     services.Plans,
		Steps:     services.Steps,
		Goals:     services.Goals,
		Documents: documents,
		lock:      lock,
		db:        database,
	}, nil
}

// Close closes the database and releases the lock.
func (a *App) Close() error {
	return errors.Join(a.db.Close(), a.lock.Release())
}

// SyncDocuments refreshes the markdown documents of planIDs when
// sync_markdown is enabled.
func (a *App) SyncDocuments(ctx context.Context, planIDs []int64) error {
	if !a.Config.SyncMarkdown || len(planIDs) == 0 {
		return nil
	}
	return a.Documents.SyncPlans(ctx, planIDs)
}

func (a *App) adapterOptions(jsonOutput bool) cliadapter.Options {
	return cliadapter.Options{JSON: jsonOutput, RenderStyle: a.Config.RenderStyle}
}

// PlanAdapter returns a PlanAdapter writing to out.
func (a *App) PlanAdapter(out io.Writer, jsonOutput bool) *cliadapter.PlanAdapter {
	return cliadapter.NewPlanAdapter(a.Plans, a.Steps, a.Documents, out, a.adapterOptions(jsonOutput))
}

// StepAdapter returns a StepAdapter writing to out.
func (a *App) StepAdapter(out io.Writer, jsonOutput bool) *cliadapter.StepAdapter {
	return cliadapter.NewStepAdapter(a.Steps, a.Plans, out, a.adapterOptions(jsonOutput))
}

// GoalAdapter returns a GoalAdapter writing to out.
func (a *App) GoalAdapter(out io.Writer, jsonOutput bool) *cliadapter.GoalAdapter {
	return cliadapter.NewGoalAdapter(a.Goals, a.Steps, out, a.adapterOptions(jsonOutput))
}
