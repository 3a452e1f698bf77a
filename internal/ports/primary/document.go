package primary

import "context"

// DocumentService defines the primary port for the markdown documents
// mirrored from plans.
type DocumentService interface {
	// SyncPlans rewrites the documents of the given plans. Plans that no
	// longer exist have their document removed.
	SyncPlans(ctx context.Context, planIDs []int64) error

	// RemovePlanDocument deletes a plan's document.
	RemovePlanDocument(ctx context.Context, planID int64) error

	// ExportPlan writes a plan's document to an arbitrary path.
	ExportPlan(ctx context.Context, planID int64, path string) (*ExportPlanResponse, error)

	// PlanMarkdown returns the rendered document of a plan without writing it.
	PlanMarkdown(ctx context.Context, planID int64) (string, error)
}

// ExportPlanResponse contains the result of exporting a plan document.
type ExportPlanResponse struct {
	PlanID int64  `json:"plan_id"`
	Path   string `json:"path"`
}
