package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

// GoalCmd returns the goal command group.
func GoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the goals of a step",
	}
	cmd.AddCommand(
		goalAddCmd(),
		goalListCmd(),
		goalShowCmd(),
		goalCommentCmd(),
		goalUpdateCmd(),
		goalDoneCmd(),
		goalRemoveCmd(),
	)
	return cmd
}

func goalAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <step-id> <content>...",
		Short: "Add goals to a step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepID, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			contents := args[1:]
			if err := requireContents("goal content", contents); err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.GoalAdapter(inv.out, inv.json).Add(inv.ctx, stepID, contents)
			})
		},
	}
}

func goalListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <step-id>",
		Short: "List a step's goals (todo only unless --all or --status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepID, err := parseID("step", args[0])
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")
			statusFlag, _ := cmd.Flags().GetString("status")
			var filters primary.GoalFilters
			switch {
			case all:
			case statusFlag != "":
				if filters.Status, err = optionalStatus(statusFlag); err != nil {
					return err
				}
			default:
				filters.Status = status.Todo
			}
			filters.Limit, _ = cmd.Flags().GetInt("limit")
			filters.Offset, _ = cmd.Flags().GetInt("offset")
			count, _ := cmd.Flags().GetBool("count")
			return query(cmd, func(inv *invocation) error {
				return inv.app.GoalAdapter(inv.out, inv.json).List(inv.ctx, stepID, filters, count)
			})
		},
	}
	cmd.Flags().Bool("all", false, "include every status")
	cmd.Flags().String("status", "", "todo|done")
	cmd.Flags().Int("limit", 0, "maximum number of goals")
	cmd.Flags().Int("offset", 0, "goals to skip")
	cmd.Flags().Bool("count", false, "print only the number of matching goals")
	return cmd
}

func goalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a goal with its step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("goal", args[0])
			if err != nil {
				return err
			}
			return query(cmd, func(inv *invocation) error {
				return inv.app.GoalAdapter(inv.out, inv.json).Show(inv.ctx, id)
			})
		},
	}
}

func goalCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <comment> [<id> <comment>]...",
		Short: "Set comments on goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseCommentPairs("goal", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.GoalAdapter(inv.out, inv.json).Comment(inv.ctx, entries)
			})
		},
	}
}

func goalUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a goal's content, status or comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("goal", args[0])
			if err != nil {
				return err
			}
			changes := primary.GoalChanges{
				Content: changedString(cmd, "content"),
				Status:  changedString(cmd, "status"),
				Comment: changedString(cmd, "comment"),
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.GoalAdapter(inv.out, inv.json).Update(inv.ctx, id, changes)
			})
		},
	}
	cmd.Flags().String("content", "", "new content")
	cmd.Flags().String("status", "", "todo|done")
	cmd.Flags().String("comment", "", "new comment")
	return cmd
}

func goalDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark goals done",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("goal", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.GoalAdapter(inv.out, inv.json).Done(inv.ctx, ids)
			})
		},
	}
}

func goalRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("goal", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.GoalAdapter(inv.out, inv.json).Remove(inv.ctx, ids)
			})
		},
	}
}
