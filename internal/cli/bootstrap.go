// Package cli provides the cobra commands of the planpilot CLI.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/planpilot/internal/config"
	"github.com/example/planpilot/internal/wire"
)

// Global flag names.
const (
	flagSessionID = "session-id"
	flagDataDir   = "data-dir"
	flagLogLevel  = "log-level"
	flagJSON      = "json"
)

// NewRootCmd builds the planpilot command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "planpilot",
		Short:   "Planpilot - plan, step and goal tracking for agent sessions",
		Version: version,
		Long: `Planpilot keeps plans made of ordered steps, each with goals, in a local
SQLite ledger. Completing goals completes their step, completing steps
completes their plan, and each session can check out one active plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(flagSessionID, "", "session acting on the ledger (env PLANPILOT_SESSION_ID)")
	flags.String(flagDataDir, "", "data directory (default ~/.planpilot, env PLANPILOT_DATA_DIR)")
	flags.String(flagLogLevel, "", "log level: debug, info, warn, error (default warn)")
	flags.Bool(flagJSON, false, "print responses as JSON")

	root.AddCommand(PlanCmd())
	root.AddCommand(StepCmd())
	root.AddCommand(GoalCmd())
	return root
}

// invocation is what a command body works with.
type invocation struct {
	ctx  context.Context
	app  *wire.App
	out  io.Writer
	json bool
}

// run resolves the configuration, opens the application for the duration
// of fn and refreshes the documents of the plans fn reports as changed.
func run(cmd *cobra.Command, fn func(inv *invocation) ([]int64, error)) (err error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool(flagJSON)

	a, err := wire.Open(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	planIDs, err := fn(&invocation{ctx: ctx, app: a, out: cmd.OutOrStdout(), json: jsonOutput})
	if err != nil {
		return err
	}
	return a.SyncDocuments(ctx, planIDs)
}

// query runs a command that changes nothing.
func query(cmd *cobra.Command, fn func(inv *invocation) error) error {
	return run(cmd, func(inv *invocation) ([]int64, error) {
		return nil, fn(inv)
	})
}
