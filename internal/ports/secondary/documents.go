package secondary

import "context"

// PlanDocumentStore defines the secondary port for rendered plan documents.
type PlanDocumentStore interface {
	// Write stores the rendered markdown of a plan at its canonical location.
	Write(ctx context.Context, planID int64, markdown string) error

	// Remove deletes a plan's document. A missing document is not an error.
	Remove(ctx context.Context, planID int64) error

	// Export writes markdown to an arbitrary path, creating parent directories.
	Export(ctx context.Context, path, markdown string) error

	// PathFor returns the canonical document path of a plan.
	PathFor(planID int64) string
}
