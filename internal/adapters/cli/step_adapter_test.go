package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planpilot/internal/ports/primary"
)

func newStepAdapterForTest(steps *mockStepService, plans *mockPlanService, opts Options) (*StepAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewStepAdapter(steps, plans, &buf, opts), &buf
}

func TestStepAdapter_Add_Single(t *testing.T) {
	steps := &mockStepService{
		addStepsFn: func(ctx context.Context, req primary.AddStepsRequest) (*primary.AddStepsResponse, error) {
			return &primary.AddStepsResponse{Steps: []*primary.Step{{ID: 7, PlanID: req.PlanID}}}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	pos := 2
	ids, err := adapter.Add(context.Background(), primary.AddStepsRequest{PlanID: 3, Contents: []string{"a"}, Executor: "human", Position: &pos})

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
	assert.Equal(t, "human", steps.lastAddReq.Executor)
	assert.Equal(t, &pos, steps.lastAddReq.Position)
	assert.Equal(t, "Created step ID: 7 for plan ID: 3\n", buf.String())
}

func TestStepAdapter_Add_ReopensPlan(t *testing.T) {
	steps := &mockStepService{
		addStepsFn: func(ctx context.Context, req primary.AddStepsRequest) (*primary.AddStepsResponse, error) {
			return &primary.AddStepsResponse{
				Steps: []*primary.Step{{ID: 7, PlanID: 3}, {ID: 8, PlanID: 3}},
				Changes: primary.StatusChanges{Plans: []primary.PlanStatusChange{
					{PlanID: 3, From: "done", To: "todo", Reason: "steps done 1/3"},
				}},
			}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	_, err := adapter.Add(context.Background(), primary.AddStepsRequest{PlanID: 3, Contents: []string{"a", "b"}})

	require.NoError(t, err)
	assert.Equal(t, "Created 2 steps for plan ID: 3\n"+
		"Auto status updates:\n"+
		"- Plan ID: 3 status auto-updated from done to todo (steps done 1/3).\n", buf.String())
}

func TestStepAdapter_AddTree(t *testing.T) {
	steps := &mockStepService{
		addStepTreeFn: func(ctx context.Context, req primary.AddStepTreeRequest) (*primary.AddStepTreeResponse, error) {
			return &primary.AddStepTreeResponse{
				Step:  &primary.Step{ID: 4, PlanID: req.PlanID},
				Goals: []*primary.Goal{{ID: 1}, {ID: 2}},
			}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	ids, err := adapter.AddTree(context.Background(), 2, primary.StepSpec{Content: "Build", Goals: []string{"a", "b"}})

	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
	assert.Equal(t, "Created step ID: 4 for plan ID: 2 (goals: 2)\n", buf.String())
}

func TestStepAdapter_List(t *testing.T) {
	steps := &mockStepService{
		listStepsFn: func(ctx context.Context, planID int64, filters primary.StepFilters) ([]*primary.StepDetail, error) {
			return []*primary.StepDetail{{
				Step:  &primary.Step{ID: 10, PlanID: planID, Content: "Build", Status: "todo", Executor: "ai"},
				Goals: []*primary.Goal{{ID: 1, Status: "done"}, {ID: 2, Status: "todo"}},
			}}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	require.NoError(t, adapter.List(context.Background(), 1, primary.StepFilters{Status: "todo"}, false))
	assert.Equal(t, "todo", steps.lastFilters.Status)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "STAT", "EXEC", "GOALS", "CONTENT", "COMMENT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"10", "todo", "ai", "1/2", "Build"}, strings.Fields(lines[1]))
	assert.Equal(t, strings.Index(lines[0], "CONTENT"), strings.Index(lines[1], "Build"))
}

func TestStepAdapter_List_EmptyAndCount(t *testing.T) {
	steps := &mockStepService{
		countStepsFn: func(ctx context.Context, planID int64, filters primary.StepFilters) (int, error) {
			return 4, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	require.NoError(t, adapter.List(context.Background(), 6, primary.StepFilters{}, false))
	require.NoError(t, adapter.List(context.Background(), 6, primary.StepFilters{}, true))
	assert.Equal(t, "No steps found for plan ID: 6.\nTotal: 4\n", buf.String())
}

func TestStepAdapter_ShowNext(t *testing.T) {
	t.Run("no active plan", func(t *testing.T) {
		adapter, buf := newStepAdapterForTest(&mockStepService{}, &mockPlanService{}, Options{})
		require.NoError(t, adapter.ShowNext(context.Background()))
		assert.Equal(t, "No active plan.\n", buf.String())
	})

	t.Run("no pending step", func(t *testing.T) {
		plans := &mockPlanService{
			getActivePlanFn: func(ctx context.Context) (*primary.ActivePlan, error) {
				return &primary.ActivePlan{PlanID: 2}, nil
			},
		}
		steps := &mockStepService{}
		adapter, buf := newStepAdapterForTest(steps, plans, Options{})
		require.NoError(t, adapter.ShowNext(context.Background()))
		assert.Equal(t, []int64{2}, steps.nextStepIDs)
		assert.Equal(t, "No pending step.\n", buf.String())
	})

	t.Run("pending step", func(t *testing.T) {
		plans := &mockPlanService{
			getActivePlanFn: func(ctx context.Context) (*primary.ActivePlan, error) {
				return &primary.ActivePlan{PlanID: 2}, nil
			},
		}
		steps := &mockStepService{
			nextStepFn: func(ctx context.Context, planID int64) (*primary.StepDetail, error) {
				return &primary.StepDetail{Step: &primary.Step{ID: 5, PlanID: planID, Content: "Deploy", Status: "todo", Executor: "ai"}}, nil
			},
		}
		adapter, buf := newStepAdapterForTest(steps, plans, Options{})
		require.NoError(t, adapter.ShowNext(context.Background()))
		assert.True(t, strings.HasPrefix(buf.String(), "Step ID: 5\nPlan ID: 2\n"))
		assert.True(t, strings.HasSuffix(buf.String(), "Goals: (none)\n"))
	})
}

func TestStepAdapter_Done_NextHumanStepAndPlanComplete(t *testing.T) {
	steps := &mockStepService{
		completeStepFn: func(ctx context.Context, stepID int64, allGoals bool) (*primary.UpdateStepResponse, error) {
			return &primary.UpdateStepResponse{
				Step: &primary.Step{ID: stepID, PlanID: 1, Status: "done"},
				Changes: primary.StatusChanges{
					Steps: []primary.StepStatusChange{},
					Plans: []primary.PlanStatusChange{{PlanID: 1, From: "todo", To: "done", Reason: "all steps are done (2/2)"}},
					ActivePlansCleared: []primary.ActivePlanCleared{
						{PlanID: 1, SessionID: "s1", CurrentSession: true, Reason: "plan marked done"},
					},
				},
			}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	ids, err := adapter.Done(context.Background(), 9, true)

	require.NoError(t, err)
	assert.True(t, steps.lastAllGoals)
	assert.Equal(t, []int64{1}, ids)
	assert.Equal(t, "Step ID: 9 marked done.\n"+
		"Auto status updates:\n"+
		"- Plan ID: 1 status auto-updated from todo to done (all steps are done (2/2)).\n"+
		"- Active plan deactivated for plan ID: 1 (plan marked done).\n"+
		"Plan ID: 1 is complete. Summarize the completed results to the user, then end this turn.\n", buf.String())
}

func TestStepAdapter_Done_AnnouncesHumanStep(t *testing.T) {
	steps := &mockStepService{
		completeStepFn: func(ctx context.Context, stepID int64, allGoals bool) (*primary.UpdateStepResponse, error) {
			return &primary.UpdateStepResponse{Step: &primary.Step{ID: stepID, PlanID: 1, Status: "done"}}, nil
		},
		nextStepFn: func(ctx context.Context, planID int64) (*primary.StepDetail, error) {
			return &primary.StepDetail{
				Step:  &primary.Step{ID: 12, PlanID: planID, Content: "Sign off", Status: "todo", Executor: "human"},
				Goals: []*primary.Goal{{ID: 30, StepID: 12, Content: "Approve", Status: "todo"}},
			}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	_, err := adapter.Done(context.Background(), 11, false)

	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Step ID: 11 marked done.\nNext step requires human action:\nStep ID: 12\n"))
	assert.Contains(t, out, "- [todo] Approve (goal id 30)\n")
	assert.True(t, strings.HasSuffix(out, "Tell the user to complete the above step and goals. Confirm each goal when done, then end this turn.\n"))
}

func TestStepAdapter_Update_StatusDoneAnnouncesAIStep(t *testing.T) {
	steps := &mockStepService{
		updateStepFn: func(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.UpdateStepResponse, error) {
			return &primary.UpdateStepResponse{Step: &primary.Step{ID: stepID, PlanID: 1, Status: *changes.Status}}, nil
		},
		nextStepFn: func(ctx context.Context, planID int64) (*primary.StepDetail, error) {
			return &primary.StepDetail{Step: &primary.Step{ID: 13, PlanID: planID, Executor: "ai"}}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	done := "done"
	_, err := adapter.Update(context.Background(), 12, primary.StepChanges{Status: &done})

	require.NoError(t, err)
	assert.Equal(t, "Updated step ID: 12.\n"+
		"Next step is assigned to ai (step ID: 13). Please end this turn so Planpilot can surface it.\n", buf.String())
}

func TestStepAdapter_Update_ContentOnlySkipsNotice(t *testing.T) {
	steps := &mockStepService{
		updateStepFn: func(ctx context.Context, stepID int64, changes primary.StepChanges) (*primary.UpdateStepResponse, error) {
			return &primary.UpdateStepResponse{Step: &primary.Step{ID: stepID, PlanID: 1, Status: "done"}}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	content := "new"
	_, err := adapter.Update(context.Background(), 12, primary.StepChanges{Content: &content})

	require.NoError(t, err)
	assert.Empty(t, steps.nextStepIDs)
	assert.Equal(t, "Updated step ID: 12.\n", buf.String())
}

func TestStepAdapter_Move(t *testing.T) {
	steps := &mockStepService{
		moveStepFn: func(ctx context.Context, stepID int64, to int) ([]*primary.Step, error) {
			return []*primary.Step{{ID: 2, PlanID: 1}, {ID: 1, PlanID: 1}}, nil
		},
		listStepsFn: func(ctx context.Context, planID int64, filters primary.StepFilters) ([]*primary.StepDetail, error) {
			return []*primary.StepDetail{
				{Step: &primary.Step{ID: 2, PlanID: 1, Content: "b", Status: "todo", Executor: "ai"}},
				{Step: &primary.Step{ID: 1, PlanID: 1, Content: "a", Status: "done", Executor: "ai"}},
			}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	ids, err := adapter.Move(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
	assert.Equal(t, "", steps.lastFilters.Status)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Reordered steps for plan ID: 1:", lines[0])
	assert.Equal(t, "2", strings.Fields(lines[2])[0])
	assert.Equal(t, "1", strings.Fields(lines[3])[0])
}

func TestStepAdapter_Remove(t *testing.T) {
	steps := &mockStepService{
		deleteStepsFn: func(ctx context.Context, stepIDs []int64) (*primary.DeleteResponse, error) {
			return &primary.DeleteResponse{Deleted: len(stepIDs), PlanIDs: []int64{1}}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	ids, err := adapter.Remove(context.Background(), []int64{4})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
	_, err = adapter.Remove(context.Background(), []int64{5, 6})
	require.NoError(t, err)

	assert.Equal(t, "Step ID: 4 removed.\nRemoved 2 steps.\n", buf.String())
}

func TestStepAdapter_Comment(t *testing.T) {
	steps := &mockStepService{
		commentStepsFn: func(ctx context.Context, entries []primary.CommentEntry) ([]int64, error) {
			return []int64{1}, nil
		},
	}
	adapter, buf := newStepAdapterForTest(steps, &mockPlanService{}, Options{})

	_, err := adapter.Comment(context.Background(), []primary.CommentEntry{{ID: 4, Comment: "x"}, {ID: 5, Comment: "y"}})
	require.NoError(t, err)
	assert.Equal(t, "Updated step comments for plan ID: 1.\n", buf.String())
}
