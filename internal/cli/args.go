package cli

import (
	"strconv"
	"strings"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

// parseTreeSteps reads the step grammar of plan add-tree:
//
//	--step <content> [--executor ai|human] [--goal <goal>]...
//
// repeated once per step.
func parseTreeSteps(args []string) ([]primary.StepSpec, error) {
	if len(args) == 0 {
		return nil, apperr.InvalidInput("plan add-tree requires at least one --step")
	}

	var steps []primary.StepSpec
	var current *primary.StepSpec
	flush := func() {
		if current != nil {
			steps = append(steps, *current)
			current = nil
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			continue
		}
		if arg != "--step" && arg != "--executor" && arg != "--goal" {
			return nil, apperr.InvalidInput("plan add-tree unexpected argument: %s", arg)
		}
		if i+1 >= len(args) {
			return nil, apperr.InvalidInput("plan add-tree %s requires a value", arg)
		}
		i++
		value := args[i]

		switch arg {
		case "--step":
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return nil, apperr.InvalidInput("plan add-tree --step cannot be empty")
			}
			if strings.HasPrefix(trimmed, "{") {
				return nil, apperr.InvalidInput("plan add-tree no longer accepts JSON step specs; use --step <content> [--executor ai|human] [--goal <goal> ...]")
			}
			flush()
			current = &primary.StepSpec{Content: value}
		case "--executor":
			executor, err := status.ParseExecutor(value)
			if err != nil || strings.TrimSpace(value) == "" {
				return nil, apperr.InvalidInput("invalid executor '%s', expected ai|human", value)
			}
			if current == nil {
				return nil, apperr.InvalidInput("plan add-tree --executor must follow a --step")
			}
			current.Executor = executor
		case "--goal":
			if current == nil {
				return nil, apperr.InvalidInput("plan add-tree --goal must follow a --step")
			}
			current.Goals = append(current.Goals, value)
		}
	}
	flush()

	if len(steps) == 0 {
		return nil, apperr.InvalidInput("plan add-tree requires at least one --step")
	}
	return steps, nil
}

// parseCommentPairs reads "<id> <comment>" pairs.
func parseCommentPairs(kind string, args []string) ([]primary.CommentEntry, error) {
	if len(args) == 0 {
		return nil, apperr.InvalidInput("%s comment requires <id> <comment> pairs", kind)
	}
	if len(args)%2 != 0 {
		return nil, apperr.InvalidInput("%s comment expects <id> <comment> pairs", kind)
	}

	entries := make([]primary.CommentEntry, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		id, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return nil, apperr.InvalidInput("%s comment id '%s' is invalid", kind, args[i])
		}
		if err := apperr.RequireText("comment", args[i+1]); err != nil {
			return nil, err
		}
		entries = append(entries, primary.CommentEntry{ID: id, Comment: args[i+1]})
	}
	return entries, nil
}

// parseID reads one numeric id argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("invalid %s id '%s'", kind, arg)
	}
	return id, nil
}

// parseIDs reads a non-empty list of ids.
func parseIDs(kind string, args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, apperr.InvalidInput("no %s ids provided", kind)
	}
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(kind, arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// requireContents rejects an empty list and blank entries.
func requireContents(label string, contents []string) error {
	if len(contents) == 0 {
		return apperr.InvalidInput("no contents provided")
	}
	for _, c := range contents {
		if err := apperr.RequireText(label, c); err != nil {
			return err
		}
	}
	return nil
}

// parseChoice accepts one of choices, ignoring case. Blank stays blank.
func parseChoice(flag, value string, choices ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", nil
	}
	for _, c := range choices {
		if v == c {
			return c, nil
		}
	}
	return "", apperr.InvalidInput("invalid value '%s' for --%s, expected %s", value, flag, strings.Join(choices, "|"))
}

// optionalStatus parses a status filter; blank means no filter.
func optionalStatus(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return status.ParseStatus(value)
}
