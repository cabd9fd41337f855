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

package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (*Repositories, database.IDatabase) {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), database.Database{MaxOpenConns: 1})
	require.NoError(t, err)
	idb := database.NewGormDB(db)
	require.NoError(t, AutoMigrate(idb))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepositories(idb), idb
}

func seedWorkspace(t *testing.T, repos *Repositories, name, ownerId string) (*model.Workspace, *model.Member) {
	t.Helper()
	ws := &model.Workspace{Name: name, InviteCode: name + "-code", UserId: ownerId}
	owner := &model.Member{}
	require.NoError(t, repos.Workspace.CreateWorkspace(context.Background(), ws, owner))
	return ws, owner
}

func TestWorkspaceRepo_CreateWithOwner(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	ws, owner := seedWorkspace(t, repos, "alpha", "user-1")
	assert.NotEmpty(t, ws.Id)
	assert.Equal(t, ws.Id, owner.WorkspaceId)
	assert.Equal(t, model.RoleAdmin, owner.Role)

	got, err := repos.Member.GetMember(ctx, ws.Id, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, owner.Id, got.Id)

	byCode, err := repos.Workspace.GetWorkspaceByInviteCode(ctx, "alpha-code")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, ws.Id, byCode.Id)

	missing, err := repos.Workspace.GetWorkspaceByInviteCode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemberRepo_NotAMemberIsNil(t *testing.T) {
	repos, _ := newTestRepos(t)
	ws, _ := seedWorkspace(t, repos, "alpha", "user-1")

	member, err := repos.Member.GetMember(context.Background(), ws.Id, "stranger")
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestMemberRepo_Counts(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	ws, _ := seedWorkspace(t, repos, "alpha", "user-1")

	require.NoError(t, repos.Member.CreateMember(ctx, &model.Member{WorkspaceId: ws.Id, UserId: "user-2", Role: model.RoleMember}))
	require.NoError(t, repos.Member.CreateMember(ctx, &model.Member{WorkspaceId: ws.Id, UserId: "user-3", Role: model.RoleMember}))

	total, err := repos.Member.CountMembers(ctx, ws.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	admins, err := repos.Member.CountAdmins(ctx, ws.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)

	members, err := repos.Member.ListMembersByWorkspace(ctx, ws.Id)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	// 同一用户在同一工作空间只能有一条成员记录
	err = repos.Member.CreateMember(ctx, &model.Member{WorkspaceId: ws.Id, UserId: "user-2", Role: model.RoleMember})
	assert.Error(t, err)
}

func TestMemberRepo_ListBeyondDefaultLimit(t *testing.T) {
	repos, idb := newTestRepos(t)
	ctx := context.Background()
	ws, _ := seedWorkspace(t, repos, "alpha", "user-0")

	extra := make([]model.Member, 0, defaultListLimit+5)
	for i := 1; i <= defaultListLimit+5; i++ {
		extra = append(extra, model.Member{WorkspaceId: ws.Id, UserId: fmt.Sprintf("user-%d", i), Role: model.RoleMember})
	}
	require.NoError(t, idb.Database().CreateInBatches(extra, 200).Error)

	members, err := repos.Member.ListMembersByWorkspace(ctx, ws.Id)
	require.NoError(t, err)
	assert.Len(t, members, defaultListLimit+6)
}

func TestSkillRepo_ReplaceSkills(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	ws, owner := seedWorkspace(t, repos, "alpha", "user-1")

	_, err := repos.Skill.ReplaceSkills(ctx, owner.Id, ws.Id, []model.Skill{
		{Name: "go", Category: "backend", ExperienceYears: 3, ProficiencyScore: 80},
		{Name: "sql", Category: "backend", ExperienceYears: 2, ProficiencyScore: 60},
	})
	require.NoError(t, err)

	saved, err := repos.Skill.ReplaceSkills(ctx, owner.Id, ws.Id, []model.Skill{
		{Name: "rust", Category: "systems", ExperienceYears: 1, ProficiencyScore: 40},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	skills, err := repos.Skill.ListSkills(ctx, owner.Id)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "rust", skills[0].Name)
	assert.Equal(t, ws.Id, skills[0].WorkspaceId)

	cleared, err := repos.Skill.ReplaceSkills(ctx, owner.Id, ws.Id, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)
	skills, err = repos.Skill.ListSkills(ctx, owner.Id)
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestTaskRepo_ListTasks(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	ws, _ := seedWorkspace(t, repos, "alpha", "user-1")

	for _, task := range []model.Task{
		{Name: "Write parser", WorkspaceId: ws.Id, ProjectId: "p1", Status: model.TaskStatusTodo, AssigneeId: "user-1", Position: 1000},
		{Name: "Review parser", WorkspaceId: ws.Id, ProjectId: "p1", Status: model.TaskStatusInReview, Position: 1000},
		{Name: "Deploy", WorkspaceId: ws.Id, ProjectId: "p2", Status: model.TaskStatusTodo, Position: 2000, DependsOn: []string{"x"}},
	} {
		task := task
		require.NoError(t, repos.Task.CreateTask(ctx, &task))
	}

	tasks, total, err := repos.Task.ListTasks(ctx, &model.TaskQuery{WorkspaceId: ws.Id})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, tasks, 3)

	tasks, total, err = repos.Task.ListTasks(ctx, &model.TaskQuery{WorkspaceId: ws.Id, Search: "parser"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	tasks, _, err = repos.Task.ListTasks(ctx, &model.TaskQuery{WorkspaceId: ws.Id, ProjectId: "p1", Status: "TODO"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write parser", tasks[0].Name)
	assert.Empty(t, tasks[0].DependsOn)

	byStatus, err := repos.Task.ListTasksByStatus(ctx, ws.Id, model.TaskStatusTodo)
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	_, _, err = repos.Task.ListTasks(ctx, &model.TaskQuery{WorkspaceId: ws.Id, DueDate: "tomorrow"})
	assert.True(t, errs.KindOf(err) == errs.KindValidation)
}

func TestTaskRepo_BulkReorder(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	ws, _ := seedWorkspace(t, repos, "alpha", "user-1")

	a := &model.Task{Name: "a", WorkspaceId: ws.Id, Status: model.TaskStatusTodo, Position: 1000}
	b := &model.Task{Name: "b", WorkspaceId: ws.Id, Status: model.TaskStatusTodo, Position: 2000}
	require.NoError(t, repos.Task.CreateTask(ctx, a))
	require.NoError(t, repos.Task.CreateTask(ctx, b))

	updated, err := repos.Task.BulkReorder(ctx, []model.ReorderItem{
		{Id: a.Id, Status: model.TaskStatusInProgress, Position: 3000},
		{Id: b.Id, Status: model.TaskStatusTodo, Position: 1000},
	})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	got, err := repos.Task.GetTaskById(ctx, a.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)
	assert.Equal(t, 3000, got.Position)

	// 含不存在的任务时整批不生效
	_, err = repos.Task.BulkReorder(ctx, []model.ReorderItem{
		{Id: b.Id, Status: model.TaskStatusDone, Position: 5000},
		{Id: "missing", Status: model.TaskStatusDone, Position: 6000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	got, err = repos.Task.GetTaskById(ctx, b.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, got.Status)
	assert.Equal(t, 1000, got.Position)
}

func TestWorkspaceRepo_DeleteCascades(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	ws, owner := seedWorkspace(t, repos, "alpha", "user-1")
	other, _ := seedWorkspace(t, repos, "beta", "user-1")

	project := &model.Project{Name: "p", WorkspaceId: ws.Id}
	require.NoError(t, repos.Project.CreateProject(ctx, project))
	require.NoError(t, repos.Task.CreateTask(ctx, &model.Task{Name: "t", WorkspaceId: ws.Id, ProjectId: project.Id}))
	require.NoError(t, repos.Task.CreateTask(ctx, &model.Task{Name: "keep", WorkspaceId: other.Id}))
	_, err := repos.Skill.ReplaceSkills(ctx, owner.Id, ws.Id, []model.Skill{{Name: "go"}})
	require.NoError(t, err)

	require.NoError(t, repos.Workspace.DeleteWorkspace(ctx, ws.Id))

	gone, err := repos.Workspace.GetWorkspaceById(ctx, ws.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	tasks, err := repos.Task.ListTasksByWorkspace(ctx, ws.Id)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	skills, err := repos.Skill.ListSkills(ctx, owner.Id)
	require.NoError(t, err)
	assert.Empty(t, skills)

	kept, err := repos.Task.ListTasksByWorkspace(ctx, other.Id)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestStore_AnyOfEmptyMatchesNothing(t *testing.T) {
	_, idb := newTestRepos(t)
	ctx := context.Background()
	store := NewStore[model.User](idb)
	require.NoError(t, store.Create(ctx, &model.User{Email: "a@example.com", Name: "A"}))

	users, err := store.Find(ctx, Filter{"id": AnyOf[string]()}, "")
	require.NoError(t, err)
	assert.Empty(t, users)

	users, total, err := store.List(ctx, Filter{"email": "a@example.com"}, ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].Id)
	assert.False(t, users[0].CreatedAt.IsZero())
}
