package app

import (
	"context"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/ports/primary"
	"github.com/example/planpilot/internal/ports/secondary"
	"github.com/example/planpilot/internal/render"
)

// DocumentServiceImpl implements primary.DocumentService.
type DocumentServiceImpl struct {
	*orchestrator
	docs secondary.PlanDocumentStore
}

// NewDocumentService creates a document service writing through docs.
func NewDocumentService(store secondary.Store, docs secondary.PlanDocumentStore, sessionID string, opts ...Option) *DocumentServiceImpl {
	return &DocumentServiceImpl{orchestrator: newOrchestrator(store, sessionID, opts...), docs: docs}
}

// SyncPlans rewrites the documents of planIDs, once per plan.
func (s *DocumentServiceImpl) SyncPlans(ctx context.Context, planIDs []int64) error {
	for _, planID := range uniqueIDs(planIDs) {
		markdown, err := s.PlanMarkdown(ctx, planID)
		if apperr.IsNotFound(err) {
			if err := s.docs.Remove(ctx, planID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := s.docs.Write(ctx, planID, markdown); err != nil {
			return err
		}
		s.logger.Debug("plan document written", "plan_id", planID, "path", s.docs.PathFor(planID))
	}
	return nil
}

// RemovePlanDocument deletes a plan's document.
func (s *DocumentServiceImpl) RemovePlanDocument(ctx context.Context, planID int64) error {
	return s.docs.Remove(ctx, planID)
}

// ExportPlan writes a plan's document to path.
func (s *DocumentServiceImpl) ExportPlan(ctx context.Context, planID int64, path string) (*primary.ExportPlanResponse, error) {
	if err := apperr.RequireText("export path", path); err != nil {
		return nil, err
	}
	markdown, err := s.PlanMarkdown(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.docs.Export(ctx, path, markdown); err != nil {
		return nil, err
	}
	return &primary.ExportPlanResponse{PlanID: planID, Path: path}, nil
}

// PlanMarkdown renders a plan's document. The active marker reflects the
// binding held on the plan by any session.
func (s *DocumentServiceImpl) PlanMarkdown(ctx context.Context, planID int64) (string, error) {
	record, err := s.store.Plans().GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	detail, err := loadPlanDetail(ctx, s.store, record)
	if err != nil {
		return "", err
	}
	binding, err := s.store.ActivePlans().GetByPlan(ctx, planID)
	if err != nil {
		return "", err
	}

	doc := render.PlanDocument{Detail: detail}
	if binding != nil {
		at := binding.UpdatedAt
		doc.Active = true
		doc.ActivatedAt = &at
	}
	return render.PlanMarkdown(doc), nil
}

var _ primary.DocumentService = (*DocumentServiceImpl)(nil)
