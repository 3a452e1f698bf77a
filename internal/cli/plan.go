package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/treefile"
)

// PlanCmd returns the plan command group.
func PlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
		Long:  "Create, search, activate and complete plans in the planpilot ledger",
	}
	cmd.AddCommand(
		planAddCmd(),
		planAddTreeCmd(),
		planListCmd(),
		planSearchCmd(),
		planShowCmd(),
		planExportCmd(),
		planCommentCmd(),
		planUpdateCmd(),
		planDoneCmd(),
		planRemoveCmd(),
		planActivateCmd(),
		planShowActiveCmd(),
		planDeactivateCmd(),
	)
	return cmd
}

func planAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <content>",
		Short: "Create a plan without steps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Add(inv.ctx, args[0], args[1])
			})
		},
	}
}

func planAddTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-tree <title> <content> --step <content> [--executor ai|human] [--goal <goal>]...",
		Short: "Create a plan with its steps and goals in one transaction",
		Long: `Create a plan with its steps and goals in one transaction.

Steps follow the title and content, each introduced by --step and
optionally followed by --executor and any number of --goal. Alternatively
--file reads the whole tree from YAML; positional title and content then
override the file's.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			title, content, steps, err := planTreeArgs(path, args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).AddTree(inv.ctx, title, content, steps)
			})
		},
	}
	// Everything after the title belongs to the step grammar.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().String("file", "", "read the plan tree from a YAML file")
	return cmd
}

// planTreeArgs resolves the title, content and steps of plan add-tree.
func planTreeArgs(path string, args []string) (string, string, []primary.StepSpec, error) {
	if path != "" {
		tree, err := treefile.Load(path)
		if err != nil {
			return "", "", nil, err
		}
		if len(args) > 2 {
			return "", "", nil, apperr.InvalidInput("plan add-tree unexpected argument: %s", args[2])
		}
		if len(args) > 0 {
			tree.Title = args[0]
		}
		if len(args) > 1 {
			tree.Content = args[1]
		}
		if err := requirePlanText(tree.Title, tree.Content); err != nil {
			return "", "", nil, err
		}
		return tree.Title, tree.Content, tree.Steps, nil
	}

	if len(args) < 2 {
		return "", "", nil, apperr.InvalidInput("plan add-tree requires <title> <content>")
	}
	if err := requirePlanText(args[0], args[1]); err != nil {
		return "", "", nil, err
	}
	steps, err := parseTreeSteps(args[2:])
	if err != nil {
		return "", "", nil, err
	}
	return args[0], args[1], steps, nil
}

func requirePlanText(title, content string) error {
	if err := apperr.RequireText("plan title", title); err != nil {
		return err
	}
	return apperr.RequireText("plan content", content)
}

func planListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans (todo only unless --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := primary.PlanFilters{Status: planStatusFilter(cmd)}
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).List(inv.ctx, filters)
			})
		},
	}
	cmd.Flags().Bool("all", false, "include done plans")
	return cmd
}

func planStatusFilter(cmd *cobra.Command) string {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return ""
	}
	return status.Todo
}

func planSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search --search <term> [--search <term>]...",
		Short: "Search plans by text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, _ := cmd.Flags().GetStringArray("search")
			modeFlag, _ := cmd.Flags().GetString("search-mode")
			fieldFlag, _ := cmd.Flags().GetString("search-field")
			matchCase, _ := cmd.Flags().GetBool("match-case")

			mode, err := parseChoice("search-mode", modeFlag, "any", "all")
			if err != nil {
				return err
			}
			field, err := parseChoice("search-field", fieldFlag, "plan", "title", "content", "comment", "steps", "goals", "all")
			if err != nil {
				return err
			}
			req := primary.SearchPlansRequest{
				Terms:     terms,
				Mode:      mode,
				Field:     field,
				MatchCase: matchCase,
				Status:    planStatusFilter(cmd),
			}
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).Search(inv.ctx, req)
			})
		},
	}
	cmd.Flags().StringArray("search", nil, "search term (repeatable)")
	cmd.Flags().String("search-mode", "", "any|all (default all)")
	cmd.Flags().String("search-field", "", "plan|title|content|comment|steps|goals|all (default plan)")
	cmd.Flags().Bool("match-case", false, "match case")
	cmd.Flags().Bool("all", false, "include done plans")
	return cmd
}

func planShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a plan with its steps and goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			rendered, _ := cmd.Flags().GetBool("render")
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).Show(inv.ctx, id, rendered)
			})
		},
	}
	cmd.Flags().Bool("render", false, "render the plan document as formatted markdown")
	return cmd
}

func planExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <path>",
		Short: "Write a plan's markdown document to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).Export(inv.ctx, id, args[1])
			})
		},
	}
}

func planCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <comment> [<id> <comment>]...",
		Short: "Set comments on plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseCommentPairs("plan", args)
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Comment(inv.ctx, entries)
			})
		},
	}
}

func planUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a plan's title, content, status or comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			changes := primary.PlanChanges{
				Title:   changedString(cmd, "title"),
				Content: changedString(cmd, "content"),
				Status:  changedString(cmd, "status"),
				Comment: changedString(cmd, "comment"),
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Update(inv.ctx, id, changes)
			})
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("content", "", "new content")
	cmd.Flags().String("status", "", "todo|done")
	cmd.Flags().String("comment", "", "new comment")
	return cmd
}

// changedString returns the flag's value when it was given, else nil.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func planDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a plan done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Done(inv.ctx, id)
			})
		},
	}
}

func planRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a plan with its steps and goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).Remove(inv.ctx, id)
			})
		},
	}
}

func planActivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate <id>",
		Short: "Make a plan the session's active plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Activate(inv.ctx, id, force)
			})
		},
	}
	cmd.Flags().Bool("force", false, "take the plan over from another session")
	return cmd
}

func planShowActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-active",
		Short: "Show the session's active plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, func(inv *invocation) error {
				return inv.app.PlanAdapter(inv.out, inv.json).ShowActive(inv.ctx)
			})
		},
	}
}

func planDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Clear the session's active plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(inv *invocation) ([]int64, error) {
				return inv.app.PlanAdapter(inv.out, inv.json).Deactivate(inv.ctx)
			})
		},
	}
}
