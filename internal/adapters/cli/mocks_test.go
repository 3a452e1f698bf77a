package cli

import (
	"context"

	"github.com/fatih/color"

	"github.com/example/planpilot/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// ============================================================================
// Mock PlanService
// ============================================================================

type mockPlanService struct {
	createPlanFn     func(ctx context.Context, req primary.CreatePlanRequest) (*primary.Plan, error)
	createPlanTreeFn func(ctx context.Context, req primary.CreatePlanTreeRequest) (*primary.CreatePlanTreeResponse, error)
	getPlanDetailFn  func(ctx context.Context, planID int64) (*primary.PlanDetail, error)
	listPlansFn      func(ctx context.Context, filters primary.PlanFilters) ([]*primary.PlanDetail, error)
	searchPlansFn    func(ctx context.Context, req primary.SearchPlansRequest) ([]*primary.PlanDetail, error)
	updatePlanFn     func(ctx context.Context, planID int64, changes primary.PlanChanges) (*primary.UpdatePlanResponse, error)
	deletePlanFn     func(ctx context.Context, planID int64) error
	commentPlansFn   func(ctx context.Context, entries []primary.CommentEntry) ([]int64, error)
	activatePlanFn   func(ctx context.Context, planID int64, takeover bool) (*primary.Plan, error)
	getActivePlanFn  func(ctx context.Context) (*primary.ActivePlan, error)
	deactivatePlanFn func(ctx context.Context) (*primary.ActivePlan, error)

	lastCreateTreeReq primary.CreatePlanTreeRequest
	lastListFilters   primary.PlanFilters
	lastChanges       primary.PlanChanges
	deactivateCalls   int
}

func (m *mockPlanService) CreatePlan(ctx context.Context, req primary.CreatePlanRequest) (*primary.Plan, error) {
	if m.createPlanFn != nil {
		return m.createPlanFn(ctx, req)
	}
	return &primary.Plan{ID: 1, Title: req.Title, Content: req.Content, Status: "todo"}, nil
}

func (m *mockPlanService) CreatePlanTree(ctx context.Context, req primary.CreatePlanTreeRequest) (*primary.CreatePlanTreeResponse, error) {
	m.lastCreateTreeReq = req
	if m.createPlanTreeFn != nil {
		return m.createPlanTreeFn(ctx, req)
	}
	return nil, nil
}

func (m *mockPlanService) GetPlan(ctx context.Context, planID int64) (*primary.Plan, error) {
	return &primary.Plan{ID: planID}, nil
}

func (m *mockPlanService) GetPlanDetail(ctx context.Context, planID int64) (*primary.PlanDetail, error) {
	if m.getPlanDetailFn != nil {
		return m.getPlanDetailFn(ctx, planID)
	}
	return nil, nil
}

func (m *mockPlanService) ListPlans(ctx context.Context, filters primary.PlanFilters) ([]*primary.PlanDetail, error) {
	m.lastListFilters = filters
	if m.listPlansFn != nil {
		return m.listPlansFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockPlanService) SearchPlans(ctx context.Context, req primary.SearchPlansRequest) ([]*primary.PlanDetail, error) {
	if m.searchPlansFn != nil {
		return m.searchPlansFn(ctx, req)
	}
	return nil, nil
}

func (m *mockPlanService) UpdatePlan(ctx context.Context, planID int64, changes primary.PlanChanges) (*primary.UpdatePlanResponse, error) {
	m.lastChanges = changes
	if m.updatePlanFn != nil {
		return m.updatePlanFn(ctx, planID, changes)
	}
	return nil, nil
}

func (m *mockPlanService) DeletePlan(ctx context.Context, planID int64) error {
	if m.deletePlanFn != nil {
		return m.deletePlanFn(ctx, planID)
	}
	return nil
}

func (m *mockPlanService) CommentPlans(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	if m.commentPlansFn != nil {
		return m.commentPlansFn(ctx, entries)
	}
	return nil, nil
}

func (m *mockPlanService) ActivatePlan(ctx context.Context, planID int64, takeover bool) (*primary.Plan, error) {
	if m.activatePlanFn != nil {
		return m.activatePlanFn(ctx, planID, takeover)
	}
	return nil, nil
}

func (m *mockPlanService) GetActivePlan(ctx context.Context) (*primary.ActivePlan, error) {
	if m.getActivePlanFn != nil {
		return m.getActivePlanFn(ctx)
	}
	return nil, nil
}

func (m *mockPlanService) DeactivatePlan(ctx context.Context) (*primary.ActivePlan, error) {
	m.deactivateCalls++
	if m.deactivatePlanFn != nil {
		return m.deactivatePlanFn(ctx)
	}
	return nil, nil
}

// ============================================================================
// Mock StepService
// ============================================================================

type mockStepService struct {
	addStepsFn      func(ctx context.Context, req primary.AddStepsRequest) (*primary.AddStepsResponse, error)
	addStepTreeFn   func(ctx context.Context, req primary.AddStepTreeRequest) (*primary.AddStepTreeResponse, error)
	getStepFn       func(ctx context.Context, stepID int64) (*primary.Step, error)
	getStepDetailFn func(ctx context.Context, stepID int64) (*primary.StepDetail, error)
	listStepsFn     func(ctx context.Context, planID int64, filters primary.StepFilters) ([]*primary.StepDetail, error)
	countStepsFn    func(ctx context.Context, planID int64, filters primary.StepFilters) (int, error)
	nextStepFn      func(ctx context.Context, planID int64) (*primary.StepDetail, error)
	updateStepFn    func(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.UpdateStepResponse, error)
	completeStepFn  func(ctx context.Context, stepID int64, allGoals bool) (*primary.UpdateStepResponse, error)
	moveStepFn      func(ctx context.Context, stepID int64, to int) ([]*primary.Step, error)
	deleteStepsFn   func(ctx context.Context, stepIDs []int64) (*primary.DeleteResponse, error)
	commentStepsFn  func(ctx context.Context, entries []primary.CommentEntry) ([]int64, error)

	lastAddReq   primary.AddStepsRequest
	lastFilters  primary.StepFilters
	lastAllGoals bool
	nextStepIDs  []int64
}

func (m *mockStepService) AddSteps(ctx context.Context, req primary.AddStepsRequest) (*primary.AddStepsResponse, error) {
	m.lastAddReq = req
	if m.addStepsFn != nil {
		return m.addStepsFn(ctx, req)
	}
	return nil, nil
}

func (m *mockStepService) AddStepTree(ctx context.Context, req primary.AddStepTreeRequest) (*primary.AddStepTreeResponse, error) {
	if m.addStepTreeFn != nil {
		return m.addStepTreeFn(ctx, req)
	}
	return nil, nil
}

func (m *mockStepService) GetStep(ctx context.Context, stepID int64) (*primary.Step, error) {
	if m.getStepFn != nil {
		return m.getStepFn(ctx, stepID)
	}
	return &primary.Step{ID: stepID, PlanID: 1}, nil
}

func (m *mockStepService) GetStepDetail(ctx context.Context, stepID int64) (*primary.StepDetail, error) {
	if m.getStepDetailFn != nil {
		return m.getStepDetailFn(ctx, stepID)
	}
	return nil, nil
}

func (m *mockStepService) ListSteps(ctx context.Context, planID int64, filters primary.StepFilters) ([]*primary.StepDetail, error) {
	m.lastFilters = filters
	if m.listStepsFn != nil {
		return m.listStepsFn(ctx, planID, filters)
	}
	return nil, nil
}

func (m *mockStepService) CountSteps(ctx context.Context, planID int64, filters primary.StepFilters) (int, error) {
	m.lastFilters = filters
	if m.countStepsFn != nil {
		return m.countStepsFn(ctx, planID, filters)
	}
	return 0, nil
}

func (m *mockStepService) NextStep(ctx context.Context, planID int64) (*primary.StepDetail, error) {
	m.nextStepIDs = append(m.nextStepIDs, planID)
	if m.nextStepFn != nil {
		return m.nextStepFn(ctx, planID)
	}
	return nil, nil
}

func (m *mockStepService) UpdateStep(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.UpdateStepResponse, error) {
	if m.updateStepFn != nil {
		return m.updateStepFn(ctx, stepID, changes)
	}
	return nil, nil
}

func (m *mockStepService) CompleteStep(ctx context.Context, stepID int64, allGoals bool) (*primary.UpdateStepResponse, error) {
	m.lastAllGoals = allGoals
	if m.completeStepFn != nil {
		return m.completeStepFn(ctx, stepID, allGoals)
	}
	return nil, nil
}

func (m *mockStepService) MoveStep(ctx context.Context, stepID int64, to int) ([]*primary.Step, error) {
	if m.moveStepFn != nil {
		return m.moveStepFn(ctx, stepID, to)
	}
	return nil, nil
}

func (m *mockStepService) DeleteSteps(ctx context.Context, stepIDs []int64) (*primary.DeleteResponse, error) {
	if m.deleteStepsFn != nil {
		return m.deleteStepsFn(ctx, stepIDs)
	}
	return nil, nil
}

func (m *mockStepService) CommentSteps(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	if m.commentStepsFn != nil {
		return m.commentStepsFn(ctx, entries)
	}
	return nil, nil
}

// ============================================================================
// Mock GoalService
// ============================================================================

type mockGoalService struct {
	addGoalsFn       func(ctx context.Context, stepID int64, contents []string) (*primary.AddGoalsResponse, error)
	getGoalDetailFn  func(ctx context.Context, goalID int64) (*primary.GoalDetail, error)
	listGoalsFn      func(ctx context.Context, stepID int64, filters primary.GoalFilters) ([]*primary.Goal, error)
	countGoalsFn     func(ctx context.Context, stepID int64, filters primary.GoalFilters) (int, error)
	updateGoalFn     func(ctx context.Context, goalID int64, changes primary.GoalChanges) (*primary.UpdateGoalResponse, error)
	setGoalsStatusFn func(ctx context.Context, goalIDs []int64, status string) (*primary.SetGoalsStatusResponse, error)
	deleteGoalsFn    func(ctx context.Context, goalIDs []int64) (*primary.DeleteResponse, error)
	commentGoalsFn   func(ctx context.Context, entries []primary.CommentEntry) ([]int64, error)
}

func (m *mockGoalService) AddGoals(ctx context.Context, stepID int64, contents []string) (*primary.AddGoalsResponse, error) {
	if m.addGoalsFn != nil {
		return m.addGoalsFn(ctx, stepID, contents)
	}
	return nil, nil
}

func (m *mockGoalService) GetGoalDetail(ctx context.Context, goalID int64) (*primary.GoalDetail, error) {
	if m.getGoalDetailFn != nil {
		return m.getGoalDetailFn(ctx, goalID)
	}
	return nil, nil
}

func (m *mockGoalService) ListGoals(ctx context.Context, stepID int64, filters primary.GoalFilters) ([]*primary.Goal, error) {
	if m.listGoalsFn != nil {
		return m.listGoalsFn(ctx, stepID, filters)
	}
	return nil, nil
}

func (m *mockGoalService) CountGoals(ctx context.Context, stepID int64, filters primary.GoalFilters) (int, error) {
	if m.countGoalsFn != nil {
		return m.countGoalsFn(ctx, stepID, filters)
	}
	return 0, nil
}

func (m *mockGoalService) UpdateGoal(ctx context.Context, goalID int64, changes primary.GoalChanges) (*primary.UpdateGoalResponse, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(ctx, goalID, changes)
	}
	return nil, nil
}

func (m *mockGoalService) SetGoalsStatus(ctx context.Context, goalIDs []int64, status string) (*primary.SetGoalsStatusResponse, error) {
	if m.setGoalsStatusFn != nil {
		return m.setGoalsStatusFn(ctx, goalIDs, status)
	}
	return nil, nil
}

func (m *mockGoalService) DeleteGoals(ctx context.Context, goalIDs []int64) (*primary.DeleteResponse, error) {
	if m.deleteGoalsFn != nil {
		return m.deleteGoalsFn(ctx, goalIDs)
	}
	return nil, nil
}

func (m *mockGoalService) CommentGoals(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
	if m.commentGoalsFn != nil {
		return m.commentGoalsFn(ctx, entries)
	}
	return nil, nil
}

// ============================================================================
// Mock DocumentService
// ============================================================================

type mockDocumentService struct {
	planMarkdownFn func(ctx context.Context, planID int64) (string, error)
	exportPlanFn   func(ctx context.Context, planID int64, path string) (*primary.ExportPlanResponse, error)

	removed []int64
	synced  []int64
}

func (m *mockDocumentService) SyncPlans(ctx context.Context, planIDs []int64) error {
	m.synced = append(m.synced, planIDs...)
	return nil
}

func (m *mockDocumentService) RemovePlanDocument(ctx context.Context, planID int64) error {
	m.removed = append(m.removed, planID)
	return nil
}

func (m *mockDocumentService) ExportPlan(ctx context.Context, planID int64, path string) (*primary.ExportPlanResponse, error) {
	if m.exportPlanFn != nil {
		return m.exportPlanFn(ctx, planID, path)
	}
	return &primary.ExportPlanResponse{PlanID: planID, Path: path}, nil
}

func (m *mockDocumentService) PlanMarkdown(ctx context.Context, planID int64) (string, error) {
	if m.planMarkdownFn != nil {
		return m.planMarkdownFn(ctx, planID)
	}
	return "", nil
}
