package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/planpilot/internal/core/status"
	"github.com/example/planpilot/internal/ports/primary"
)

// PlanDocument carries what the plan markdown view needs beyond the plan
// detail itself.
type PlanDocument struct {
	Detail *primary.PlanDetail
	Active bool
	// ActivatedAt is set only when Active is true.
	ActivatedAt *time.Time
}

type mdWriter struct {
	lines []string
}

func (w *mdWriter) line(indent int, text string) {
	w.lines = append(w.lines, strings.Repeat(" ", indent)+text)
}

func (w *mdWriter) blank(indent int) {
	w.lines = append(w.lines, strings.Repeat(" ", indent))
}

func (w *mdWriter) String() string {
	return strings.TrimRight(strings.Join(w.lines, "\n"), " \t\r\n")
}

func checkbox(s string) string {
	if s == status.Done {
		return "x"
	}
	return " "
}

// headingText joins the non-blank lines of a title with " / ".
func headingText(text string) string {
	var parts []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	if len(parts) == 0 {
		return "(untitled)"
	}
	return strings.Join(parts, " / ")
}

// splitTask returns the first non-blank line of text and the lines after it.
func splitTask(text string) (string, []string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return l, lines[i+1:]
		}
	}
	return "(empty)", nil
}

// PlanMarkdown renders the markdown document kept for each plan.
func PlanMarkdown(doc PlanDocument) string {
	plan := doc.Detail.Plan
	w := &mdWriter{}

	w.line(0, "# Plan")
	w.blank(0)
	w.line(0, "## Plan: "+headingText(plan.Title))
	w.blank(0)

	w.line(0, fmt.Sprintf("- **Active:** `%t`", doc.Active))
	w.line(0, fmt.Sprintf("- **Plan ID:** `%d`", plan.ID))
	w.line(0, fmt.Sprintf("- **Status:** `%s`", plan.Status))
	if hasText(plan.Comment) {
		w.line(0, "- **Comment:** "+plan.Comment)
	}
	if doc.Active && doc.ActivatedAt != nil {
		w.line(0, "- **Activated:** "+DateTime(*doc.ActivatedAt))
	}
	w.line(0, "- **Created:** "+DateTime(plan.CreatedAt))
	w.line(0, "- **Updated:** "+DateTime(plan.UpdatedAt))
	done, total := doc.Detail.StepCounts()
	w.line(0, fmt.Sprintf("- **Steps:** %d/%d", done, total))
	w.blank(0)

	w.line(0, "### Plan Content")
	w.blank(0)
	if strings.TrimSpace(plan.Content) == "" {
		w.line(0, "*No content*")
	} else {
		content := strings.TrimRight(strings.ReplaceAll(plan.Content, "\r\n", "\n"), "\n")
		for _, l := range strings.Split(content, "\n") {
			if l == "" {
				w.line(0, ">")
			} else {
				w.line(0, "> "+l)
			}
		}
	}
	w.blank(0)

	w.line(0, "### Steps")
	w.blank(0)
	if len(doc.Detail.Steps) == 0 {
		w.line(0, "*No steps*")
		return w.String()
	}

	for i, step := range doc.Detail.Steps {
		first, rest := splitTask(step.Content)
		w.line(0, fmt.Sprintf("- [%s] **%s** *(id: %d, exec: %s, order: %d)*",
			checkbox(step.Status), first, step.ID, step.Executor, step.SortOrder))
		for _, l := range rest {
			if strings.TrimSpace(l) == "" {
				continue
			}
			w.blank(2)
			w.line(2, l)
		}

		w.blank(2)
		w.line(2, "- Created: "+DateTime(step.CreatedAt))
		w.line(2, "- Updated: "+DateTime(step.UpdatedAt))
		if hasText(step.Comment) {
			w.line(2, "- Comment: "+step.Comment)
		}

		goals := doc.Detail.Goals[step.ID]
		if len(goals) == 0 {
			w.line(2, "- Goals: 0/0")
			w.blank(2)
			w.line(2, "- (none)")
		} else {
			sd := primary.StepDetail{Step: step, Goals: goals}
			gDone, gTotal := sd.GoalCounts()
			w.line(2, fmt.Sprintf("- Goals: %d/%d", gDone, gTotal))
			for _, g := range goals {
				gFirst, gRest := splitTask(g.Content)
				w.blank(2)
				w.line(2, fmt.Sprintf("- [%s] %s *(id: %d)*", checkbox(g.Status), gFirst, g.ID))
				for _, l := range gRest {
					if strings.TrimSpace(l) == "" {
						continue
					}
					w.blank(4)
					w.line(4, l)
				}
				if hasText(g.Comment) {
					w.blank(4)
					w.line(4, "Comment: "+g.Comment)
				}
			}
		}

		if i+1 < len(doc.Detail.Steps) {
			w.blank(0)
		}
	}

	return w.String()
}
