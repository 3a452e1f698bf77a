// Package status holds the completion vocabulary shared by plans, steps
// and goals, and the rule that derives a parent's status from its children.
package status

import (
	"fmt"
	"strings"

	"github.com/example/planpilot/internal/apperr"
)

// Completion states.
const (
	Todo = "todo"
	Done = "done"
)

// Step executors.
const (
	ExecutorAI    = "ai"
	ExecutorHuman = "human"
)

// ParseStatus normalises a user-supplied status.
func ParseStatus(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case Todo:
		return Todo, nil
	case Done:
		return Done, nil
	}
	return "", apperr.InvalidInput("invalid status '%s', expected todo|done", value)
}

// ParseExecutor normalises a user-supplied executor. Blank means ai.
func ParseExecutor(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ExecutorAI:
		return ExecutorAI, nil
	case ExecutorHuman:
		return ExecutorHuman, nil
	}
	return "", apperr.InvalidInput("invalid executor '%s', expected ai|human", value)
}

// Derived is the outcome of recomputing a parent from its children.
type Derived struct {
	// Applies is false when the parent has no children; such parents are
	// never transitioned automatically.
	Applies bool
	Status  string
	Done    int
	Total   int
}

// Derive computes the status a parent should hold given its children's states.
func Derive(children []string) Derived {
	d := Derived{Total: len(children)}
	if d.Total == 0 {
		return d
	}
	for _, s := range children {
		if s == Done {
			d.Done++
		}
	}
	d.Applies = true
	d.Status = Todo
	if d.Done == d.Total {
		d.Status = Done
	}
	return d
}

// Reason renders the change-log reason for a transition, naming the child
// kind ("goals" or "steps").
func (d Derived) Reason(children string) string {
	if d.Done == d.Total {
		return fmt.Sprintf("all %s are done (%d/%d)", children, d.Done, d.Total)
	}
	return fmt.Sprintf("%s done %d/%d", children, d.Done, d.Total)
}
