// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, env *testEnv, userId string, req *model.CreateTaskReq) *model.Task {
	t.Helper()
	task, err := env.svc.Task.CreateTask(context.Background(), userId, req)
	require.NoError(t, err)
	return task
}

func TestTask_CreatePosition(t *testing.T) {
	env := newTestEnv(t)
	ws := env.createWorkspace(t, "user-1")

	first := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})
	second := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "b", WorkspaceId: ws.Id})
	other := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "c", WorkspaceId: ws.Id, Status: string(model.TaskStatusInProgress)})

	assert.Equal(t, model.TaskStatusTodo, first.Status)
	assert.Equal(t, 1000, first.Position)
	assert.Equal(t, 2000, second.Position)
	assert.Equal(t, 1000, other.Position)

	// 排序键取同列最大值之后
	_, err := env.svc.Task.BulkReorder(context.Background(), "user-1", []model.ReorderItem{
		{Id: first.Id, Status: model.TaskStatusTodo, Position: 2000},
		{Id: second.Id, Status: model.TaskStatusTodo, Position: 1000},
	})
	require.NoError(t, err)
	third := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "d", WorkspaceId: ws.Id})
	assert.Equal(t, 3000, third.Position)
}

func TestTask_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	otherWs := env.createWorkspace(t, "user-9")
	foreign, err := env.svc.Project.CreateProject(ctx, "user-9", &model.CreateProjectReq{Name: "x", WorkspaceId: otherWs.Id})
	require.NoError(t, err)

	_, err = env.svc.Task.CreateTask(ctx, "user-1", &model.CreateTaskReq{Name: "  ", WorkspaceId: ws.Id})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.svc.Task.CreateTask(ctx, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id, Status: "BLOCKED"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.svc.Task.CreateTask(ctx, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id, ProjectId: foreign.Id})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.svc.Task.CreateTask(ctx, "user-2", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})
	assert.ErrorIs(t, err, errs.Unauthorized(errs.ReasonNotMember, ""))

	_, err = env.svc.Task.CreateTask(ctx, "user-1", &model.CreateTaskReq{
		Name:        "a",
		WorkspaceId: ws.Id,
		Assignee:    &model.AssigneeRef{Kind: model.AssigneeByUser, Id: "user-9"},
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTask_AssigneeByMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	dev := env.createUser(t, "dev")
	ws := env.createWorkspace(t, owner.Id)
	devMember := env.join(t, ws, dev.Id)

	task := createTask(t, env, owner.Id, &model.CreateTaskReq{
		Name:        "a",
		WorkspaceId: ws.Id,
		Assignee:    &model.AssigneeRef{Kind: model.AssigneeByMember, Id: devMember.Id},
	})
	assert.Equal(t, dev.Id, task.AssigneeId)

	resp, err := env.svc.Task.GetTask(ctx, owner.Id, task.Id)
	require.NoError(t, err)
	require.NotNil(t, resp.Assignee)
	assert.Equal(t, "dev", resp.Assignee.Name)
	assert.Equal(t, "dev@example.com", resp.Assignee.Email)

	// 空 id 取消分配
	updated, err := env.svc.Task.UpdateTask(ctx, owner.Id, task.Id, &model.UpdateTaskReq{
		Assignee: &model.AssigneeRef{Kind: model.AssigneeByMember},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.AssigneeId)
}

func TestTask_DependencyCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")

	a := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})
	b := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "b", WorkspaceId: ws.Id, DependsOn: []string{a.Id, a.Id, "elsewhere"}})
	assert.Equal(t, []string{a.Id, "elsewhere"}, []string(b.DependsOn))

	deps := []string{b.Id}
	_, err := env.svc.Task.UpdateTask(ctx, "user-1", a.Id, &model.UpdateTaskReq{DependsOn: &deps})
	assert.ErrorIs(t, err, errs.Conflict(errs.ReasonDependencyCycle, ""))

	self := []string{a.Id}
	_, err = env.svc.Task.UpdateTask(ctx, "user-1", a.Id, &model.UpdateTaskReq{DependsOn: &self})
	assert.ErrorIs(t, err, errs.Conflict(errs.ReasonDependencyCycle, ""))

	none := []string{}
	updated, err := env.svc.Task.UpdateTask(ctx, "user-1", b.Id, &model.UpdateTaskReq{DependsOn: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.DependsOn)

	_, err = env.svc.Task.UpdateTask(ctx, "user-1", a.Id, &model.UpdateTaskReq{DependsOn: &deps})
	require.NoError(t, err)
}

func TestTask_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	task := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})

	name := "renamed"
	status := string(model.TaskStatusInReview)
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	updated, err := env.svc.Task.UpdateTask(ctx, "user-1", task.Id, &model.UpdateTaskReq{Name: &name, Status: &status, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, model.TaskStatusInReview, updated.Status)
	assert.True(t, due.Equal(updated.DueDate.UTC()))

	bad := "DONE?"
	_, err = env.svc.Task.UpdateTask(ctx, "user-1", task.Id, &model.UpdateTaskReq{Status: &bad})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.svc.Task.UpdateTask(ctx, "user-2", task.Id, &model.UpdateTaskReq{Name: &name})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	require.NoError(t, env.svc.Task.DeleteTask(ctx, "user-1", task.Id))
	_, err = env.svc.Task.GetTask(ctx, "user-1", task.Id)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTask_ListTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	project, err := env.svc.Project.CreateProject(ctx, "user-1", &model.CreateProjectReq{Name: "P", WorkspaceId: ws.Id})
	require.NoError(t, err)
	createTask(t, env, "user-1", &model.CreateTaskReq{Name: "write docs", WorkspaceId: ws.Id, ProjectId: project.Id})
	createTask(t, env, "user-1", &model.CreateTaskReq{Name: "fix bug", WorkspaceId: ws.Id, Status: string(model.TaskStatusDone)})

	all, err := env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{WorkspaceId: ws.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	done, err := env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{WorkspaceId: ws.Id, Status: string(model.TaskStatusDone)})
	require.NoError(t, err)
	require.Len(t, done.Documents, 1)
	assert.Equal(t, "fix bug", done.Documents[0].Name)
	assert.Nil(t, done.Documents[0].Project)

	docs, err := env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{WorkspaceId: ws.Id, Search: "docs"})
	require.NoError(t, err)
	require.Len(t, docs.Documents, 1)
	require.NotNil(t, docs.Documents[0].Project)
	assert.Equal(t, project.Id, docs.Documents[0].Project.Id)

	_, err = env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{})
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{WorkspaceId: ws.Id, Status: "nope"})
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = env.svc.Task.ListTasks(ctx, "user-1", &model.TaskQuery{WorkspaceId: ws.Id, DueDate: "tomorrow"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTask_BulkReorder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	otherWs := env.createWorkspace(t, "user-1")
	a := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})
	b := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "b", WorkspaceId: ws.Id})
	c := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "c", WorkspaceId: otherWs.Id})

	_, err := env.svc.Task.BulkReorder(ctx, "user-1", []model.ReorderItem{
		{Id: a.Id, Status: model.TaskStatusDone, Position: 1000},
		{Id: c.Id, Status: model.TaskStatusDone, Position: 2000},
	})
	assert.ErrorIs(t, err, errs.New(errs.KindValidation, errs.ReasonMixedWorkspaces, ""))

	// 整批拒绝，a 保持不变
	got, err := env.repos.Task.GetTaskById(ctx, a.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, got.Status)

	_, err = env.svc.Task.BulkReorder(ctx, "user-2", []model.ReorderItem{
		{Id: a.Id, Status: model.TaskStatusDone, Position: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = env.svc.Task.BulkReorder(ctx, "user-1", []model.ReorderItem{
		{Id: a.Id, Status: model.TaskStatusDone, Position: 1000},
		{Id: "missing", Status: model.TaskStatusDone, Position: 2000},
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	moved, err := env.svc.Task.BulkReorder(ctx, "user-1", []model.ReorderItem{
		{Id: a.Id, Status: model.TaskStatusDone, Position: 1000},
		{Id: b.Id, Status: model.TaskStatusInProgress, Position: 5000},
	})
	require.NoError(t, err)
	require.Len(t, moved, 2)
	byId := map[string]model.Task{}
	for _, task := range moved {
		byId[task.Id] = task
	}
	assert.Equal(t, model.TaskStatusDone, byId[a.Id].Status)
	assert.Equal(t, 5000, byId[b.Id].Position)
}

func TestTask_Recommend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	dev := env.join(t, ws, "user-2")
	task := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "a", WorkspaceId: ws.Id})

	// 没有成员填写技能时不调用 AI 服务
	rec, err := env.svc.Task.Recommend(ctx, "user-1", task.Id)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, env.ai.calls)

	_, err = env.svc.Member.ReplaceSkills(ctx, "user-2", dev.Id, &model.ReplaceSkillsReq{Skills: []model.SkillInput{
		{Name: "Go", Category: "backend", ExperienceYears: 2, ProficiencyScore: 70},
	}})
	require.NoError(t, err)
	env.ai.matches[task.Id] = []aiclient.UserMatch{{UserId: dev.Id, MatchScore: 0.8, SkillCoverage: 0.5}}

	rec, err = env.svc.Task.Recommend(ctx, "user-1", task.Id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "user-2", rec.SuggestedAssigneeId)
	assert.Equal(t, dev.Id, rec.SuggestedMemberId)
	assert.Equal(t, []string{aiclient.EndpointIndexUsers, aiclient.EndpointMatchUserForTask}, env.ai.calls)
	require.Len(t, env.ai.indexed, 1)
	assert.Equal(t, dev.Id, env.ai.indexed[0].Id)

	_, err = env.svc.Task.Recommend(ctx, "user-3", task.Id)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestTask_RecommendBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.createWorkspace(t, "user-1")
	dev := env.join(t, ws, "user-2")
	_, err := env.svc.Member.ReplaceSkills(ctx, "user-2", dev.Id, &model.ReplaceSkillsReq{Skills: []model.SkillInput{
		{Name: "Go", Category: "backend", ExperienceYears: 2, ProficiencyScore: 70},
	}})
	require.NoError(t, err)
	project, err := env.svc.Project.CreateProject(ctx, "user-1", &model.CreateProjectReq{Name: "P", WorkspaceId: ws.Id})
	require.NoError(t, err)

	open := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "open", WorkspaceId: ws.Id, ProjectId: project.Id})
	done := createTask(t, env, "user-1", &model.CreateTaskReq{Name: "done", WorkspaceId: ws.Id, ProjectId: project.Id, Status: string(model.TaskStatusDone)})
	env.ai.matches[open.Id] = []aiclient.UserMatch{{UserId: dev.Id, MatchScore: 0.7, SkillCoverage: 0.7}}
	env.ai.matches[done.Id] = []aiclient.UserMatch{{UserId: dev.Id, MatchScore: 0.7, SkillCoverage: 0.7}}

	recs, err := env.svc.Task.RecommendBatch(ctx, "user-1", &model.BatchRecommendReq{ProjectId: project.Id})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "user-2", recs[open.Id].SuggestedAssigneeId)
	assert.Equal(t, dev.Id, recs[open.Id].SuggestedMemberId)

	recs, err = env.svc.Task.RecommendBatch(ctx, "user-1", &model.BatchRecommendReq{ProjectId: project.Id, TaskIds: []string{done.Id}})
	require.NoError(t, err)
	assert.Contains(t, recs, done.Id)

	_, err = env.svc.Task.RecommendBatch(ctx, "user-1", &model.BatchRecommendReq{ProjectId: project.Id, TaskIds: []string{"missing"}})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.svc.Task.RecommendBatch(ctx, "user-1", &model.BatchRecommendReq{})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
