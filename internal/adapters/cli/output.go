// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting and the
// follow-up notices printed after a mutation, but delegate business logic
// to services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

// Options configures how adapters write their output.
type Options struct {
	// JSON prints every response DTO as indented JSON instead of text.
	JSON bool
	// RenderStyle is the glamour style used by rendered markdown views.
	RenderStyle string
}

// printer is the output half every adapter shares.
type printer struct {
	out  io.Writer
	opts Options
}

func (p printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p printer) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p printer) emitJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

var (
	doneColor  = color.New(color.FgGreen)
	todoColor  = color.New(color.FgYellow)
	humanColor = color.New(color.FgMagenta)
)

// statusCell pads s to width before colouring so columns stay aligned.
func statusCell(s string, width int) string {
	cell := fmt.Sprintf("%-*s", width, s)
	switch s {
	case status.Done:
		return doneColor.Sprint(cell)
	case status.Todo:
		return todoColor.Sprint(cell)
	}
	return cell
}

func executorCell(s string, width int) string {
	cell := fmt.Sprintf("%-*s", width, s)
	if s == status.ExecutorHuman {
		return humanColor.Sprint(cell)
	}
	return cell
}

func (p printer) planList(details []*primary.PlanDetail) {
	p.printf("%-4s %-6s %-7s %-30s %s\n", "ID", "STAT", "STEPS", "TITLE", "COMMENT")
	for _, d := range details {
		done, total := d.StepCounts()
		p.printf("%-4d %s %-7s %-30s %s\n",
			d.Plan.ID, statusCell(d.Plan.Status, 6), fmt.Sprintf("%d/%d", done, total), d.Plan.Title, d.Plan.Comment)
	}
}

func (p printer) stepList(details []*primary.StepDetail) {
	p.printf("%-4s %-6s %-6s %-9s %-30s %s\n", "ID", "STAT", "EXEC", "GOALS", "CONTENT", "COMMENT")
	for _, d := range details {
		done, total := d.GoalCounts()
		p.printf("%-4d %s %s %-9s %-30s %s\n",
			d.Step.ID, statusCell(d.Step.Status, 6), executorCell(d.Step.Executor, 6),
			fmt.Sprintf("%d/%d", done, total), d.Step.Content, d.Step.Comment)
	}
}

func (p printer) goalList(goals []*primary.Goal) {
	p.printf("%-4s %-6s %-30s %s\n", "ID", "STAT", "CONTENT", "COMMENT")
	for _, g := range goals {
		p.printf("%-4d %s %-30s %s\n", g.ID, statusCell(g.Status, 6), g.Content, g.Comment)
	}
}

// commentSummary prints the outcome of a comment batch.
func (p printer) commentSummary(kind string, planIDs []int64) {
	if len(planIDs) == 1 {
		if kind == "plan" {
			p.printf("Updated plan comment for plan ID: %d.\n", planIDs[0])
			return
		}
		p.printf("Updated %s comments for plan ID: %d.\n", kind, planIDs[0])
		return
	}
	p.printf("Updated %s comments for %d plans.\n", kind, len(planIDs))
}
