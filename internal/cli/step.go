package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

// StepCmd returns the step command group.
func StepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage the steps of a plan",
	}
	cmd.AddCommand(
		stepAddCmd(),
		stepAddTreeCmd(),
		stepListCmd(),
		stepShowCmd(),
		stepShowNextCmd(),
		stepCommentCmd(),
		stepUpdateCmd(),
		stepDoneCmd(),
		stepMoveCmd(),
		stepRemoveCmd(),
	)
	return cmd
}

func stepAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <plan-id> <content>...",
		Short: "Add steps to a plan, appended or at --at",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			contents := args[1:]
			if err := requireContents("step content", contents); err != nil {
				return err
			}
			executor, _ := cmd.Flags().GetString("executor")
			req := primary.AddStepsRequest{PlanID: planID, Contents: contents, Executor: executor}
			if cmd.Flags().Changed("at") {
				at, _ := cmd.Flags().GetInt("at")
				if at < 1 {
					return apperr.InvalidInput("position starts at 1")
				}
				req.Position = &at
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Add(inv.ctx, req)
			})
		},
	}
	cmd.Flags().String("executor", status.ExecutorAI, "ai|human")
	cmd.Flags().Int("at", 0, "1-based position to insert at")
	return cmd
}

func stepAddTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-tree <plan-id> <content>",
		Short: "Append one step with its goals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			if err := apperr.RequireText("step content", args[1]); err != nil {
				return err
			}
			executor, _ := cmd.Flags().GetString("executor")
			goals, _ := cmd.Flags().GetStringArray("goal")
			for _, g := range goals {
				if err := apperr.RequireText("goal content", g); err != nil {
					return err
				}
			}
			spec := primary.StepSpec{Content: args[1], Executor: executor, Goals: goals}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).AddTree(inv.ctx, planID, spec)
			})
		},
	}
	cmd.Flags().String("executor", status.ExecutorAI, "ai|human")
	cmd.Flags().StringArray("goal", nil, "goal of the step (repeatable)")
	return cmd
}

func stepListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <plan-id>",
		Short: "List a plan's steps (todo only unless --all or --status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			filters, err := stepFilters(cmd)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetBool("count")
			return query(cmd, func(inv *invocation) error {
				return inv.app.StepAdapter(inv.out, inv.json).List(inv.ctx, planID, filters, count)
			})
		},
	}
	flags := cmd.Flags()
	flags.Bool("all", false, "include every status")
	flags.String("status", "", "todo|done")
	flags.String("executor", "", "ai|human")
	flags.Int("limit", 0, "maximum number of steps")
	flags.Int("offset", 0, "steps to skip")
	flags.String("order", "", "order|id|created (default order)")
	flags.Bool("desc", false, "reverse the order")
	flags.Bool("count", false, "print only the number of matching steps")
	return cmd
}

func stepFilters(cmd *cobra.Command) (primary.StepFilters, error) {
	flags := cmd.Flags()
	all, _ := flags.GetBool("all")
	statusFlag, _ := flags.GetString("status")
	executorFlag, _ := flags.GetString("executor")
	orderFlag, _ := flags.GetString("order")

	var filters primary.StepFilters
	var err error
	switch {
	case all:
	case statusFlag != "":
		if filters.Status, err = optionalStatus(statusFlag); err != nil {
			return filters, err
		}
	default:
		filters.Status = status.Todo
	}
	if filters.Executor, err = parseChoice("executor", executorFlag, status.ExecutorAI, status.ExecutorHuman); err != nil {
		return filters, err
	}
	if filters.OrderBy, err = parseChoice("order", orderFlag, "order", "id", "created"); err != nil {
		return filters, err
	}
	filters.Desc, _ = flags.GetBool("desc")
	filters.Limit, _ = flags.GetInt("limit")
	filters.Offset, _ = flags.GetInt("offset")
	return filters, nil
}

func stepShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a step with its goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			return query(cmd, func(inv *invocation) error {
				return inv.app.StepAdapter(inv.out, inv.json).Show(inv.ctx, id)
			})
		},
	}
}

func stepShowNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-next",
		Short: "Show the next pending step of the active plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, func(inv *invocation) error {
				return inv.app.StepAdapter(inv.out, inv.json).ShowNext(inv.ctx)
			})
		},
	}
}

func stepCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <comment> [<id> <comment>]...",
		Short: "Set comments on steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseCommentPairs("step", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Comment(inv.ctx, entries)
			})
		},
	}
}

func stepUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a step's content, status, executor or comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			changes := primary.StepChanges{
				Content:  changedString(cmd, "content"),
				Status:   changedString(cmd, "status"),
				Executor: changedString(cmd, "executor"),
				Comment:  changedString(cmd, "comment"),
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Update(inv.ctx, id, changes)
			})
		},
	}
	cmd.Flags().String("content", "", "new content")
	cmd.Flags().String("status", "", "todo|done")
	cmd.Flags().String("executor", "", "ai|human")
	cmd.Flags().String("comment", "", "new comment")
	return cmd
}

func stepDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a step done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			allGoals, _ := cmd.Flags().GetBool("all-goals")
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Done(inv.ctx, id, allGoals)
			})
		},
	}
	cmd.Flags().Bool("all-goals", false, "mark every goal of the step done first")
	return cmd
}

func stepMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> --to <position>",
		Short: "Move a step to a 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetInt("to")
			if to < 1 {
				return apperr.InvalidInput("position starts at 1")
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Move(inv.ctx, id, to)
			})
		},
	}
	cmd.Flags().Int("to", 0, "1-based target position")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func stepRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove steps with their goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("step", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.StepAdapter(inv.out, inv.json).Remove(inv.ctx, ids)
			})
		},
	}
}
