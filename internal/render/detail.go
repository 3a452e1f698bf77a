// Package render produces the plain-text and markdown views of plans,
// steps and goals.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/planpilot/internal/ports/primary"
)

// DateTimeLayout is the timestamp layout used in every view.
const DateTimeLayout = "2006-01-02 15:04"

// DateTime formats t in UTC.
func DateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// StepDetail renders a step followed by its goals.
func StepDetail(step *primary.Step, goals []*primary.Goal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step ID: %d\n", step.ID)
	fmt.Fprintf(&b, "Plan ID: %d\n", step.PlanID)
	fmt.Fprintf(&b, "Status: %s\n", step.Status)
	fmt.Fprintf(&b, "Executor: %s\n", step.Executor)
	fmt.Fprintf(&b, "Content: %s\n", step.Content)
	if hasText(step.Comment) {
		fmt.Fprintf(&b, "Comment: %s\n", step.Comment)
	}
	fmt.Fprintf(&b, "Created: %s\n", DateTime(step.CreatedAt))
	fmt.Fprintf(&b, "Updated: %s\n", DateTime(step.UpdatedAt))
	b.WriteString("\n")

	if len(goals) == 0 {
		b.WriteString("Goals: (none)")
		return b.String()
	}
	b.WriteString("Goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- [%s] %s (goal id %d)\n", g.Status, g.Content, g.ID)
		if hasText(g.Comment) {
			fmt.Fprintf(&b, "  Comment: %s\n", g.Comment)
		}
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}

// GoalDetail renders a goal followed by a summary of its step.
func GoalDetail(goal *primary.Goal, step *primary.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal ID: %d\n", goal.ID)
	fmt.Fprintf(&b, "Step ID: %d\n", goal.StepID)
	fmt.Fprintf(&b, "Plan ID: %d\n", step.PlanID)
	fmt.Fprintf(&b, "Status: %s\n", goal.Status)
	fmt.Fprintf(&b, "Content: %s\n", goal.Content)
	if hasText(goal.Comment) {
		fmt.Fprintf(&b, "Comment: %s\n", goal.Comment)
	}
	fmt.Fprintf(&b, "Created: %s\n", DateTime(goal.CreatedAt))
	fmt.Fprintf(&b, "Updated: %s\n", DateTime(goal.UpdatedAt))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Step Status: %s\n", step.Status)
	fmt.Fprintf(&b, "Step Executor: %s\n", step.Executor)
	fmt.Fprintf(&b, "Step Content: %s\n", step.Content)
	if hasText(step.Comment) {
		fmt.Fprintf(&b, "Step Comment: %s\n", step.Comment)
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}

// PlanDetail renders a plan with its steps and their goals.
func PlanDetail(detail *primary.PlanDetail) string {
	plan := detail.Plan
	var b strings.Builder
	fmt.Fprintf(&b, "Plan ID: %d\n", plan.ID)
	fmt.Fprintf(&b, "Title: %s\n", plan.Title)
	fmt.Fprintf(&b, "Status: %s\n", plan.Status)
	fmt.Fprintf(&b, "Content: %s\n", plan.Content)
	if hasText(plan.Comment) {
		fmt.Fprintf(&b, "Comment: %s\n", plan.Comment)
	}
	fmt.Fprintf(&b, "Created: %s\n", DateTime(plan.CreatedAt))
	fmt.Fprintf(&b, "Updated: %s\n", DateTime(plan.UpdatedAt))
	b.WriteString("\n")

	if len(detail.Steps) == 0 {
		b.WriteString("Steps: (none)")
		return b.String()
	}
	b.WriteString("Steps:\n")
	for _, step := range detail.Steps {
		goals := detail.Goals[step.ID]
		if len(goals) > 0 {
			sd := primary.StepDetail{Step: step, Goals: goals}
			done, total := sd.GoalCounts()
			fmt.Fprintf(&b, "- [%s] %s (step id %d, exec %s, goals %d/%d)\n",
				step.Status, step.Content, step.ID, step.Executor, done, total)
		} else {
			fmt.Fprintf(&b, "- [%s] %s (step id %d, exec %s)\n", step.Status, step.Content, step.ID, step.Executor)
		}
		if hasText(step.Comment) {
			fmt.Fprintf(&b, "  Comment: %s\n", step.Comment)
		}
		for _, g := range goals {
			fmt.Fprintf(&b, "  - [%s] %s (goal id %d)\n", g.Status, g.Content, g.ID)
			if hasText(g.Comment) {
				fmt.Fprintf(&b, "    Comment: %s\n", g.Comment)
			}
		}
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}
