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
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/dag"
	"github.com/go-arcade/planboard/pkg/id"
	"github.com/go-arcade/planboard/pkg/log"
	"gorm.io/datatypes"
)

type TaskService struct {
	taskRepo    repo.ITaskRepository
	projectRepo repo.IProjectRepository
	membership  *MembershipService
	recommend   *RecommendService
	profiles    *UserProfiles
	board       optimize.Board
}

func NewTaskService(
	taskRepo repo.ITaskRepository,
	projectRepo repo.IProjectRepository,
	membership *MembershipService,
	recommend *RecommendService,
	profiles *UserProfiles,
	board optimize.Board,
) *TaskService {
	board.SetDefaults()
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		membership:  membership,
		recommend:   recommend,
		profiles:    profiles,
		board:       board,
	}
}

// ListTasks 按条件查询工作空间内的任务，附带项目和负责人信息
func (s *TaskService) ListTasks(ctx context.Context, userId string, query *model.TaskQuery) (*model.ListResp[model.TaskResp], error) {
	if query.WorkspaceId == "" {
		return nil, errs.Validation("workspaceId is required")
	}
	if query.Status != "" {
		if _, err := model.ParseTaskStatus(query.Status); err != nil {
			return nil, errs.Validation("%v", err)
		}
	}
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: query.WorkspaceId}, userId); err != nil {
		return nil, err
	}

	tasks, total, err := s.taskRepo.ListTasks(ctx, query)
	if err != nil {
		if errs.KindOf(err) == errs.KindValidation {
			return nil, err
		}
		log.Errorw("list tasks failed", "workspaceId", query.WorkspaceId, "error", err)
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	docs, err := s.populate(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return &model.ListResp[model.TaskResp]{Documents: docs, Total: total}, nil
}

func (s *TaskService) GetTask(ctx context.Context, userId, taskId string) (*model.TaskResp, error) {
	task, err := s.authorizeTask(ctx, userId, taskId)
	if err != nil {
		return nil, err
	}
	docs, err := s.populate(ctx, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// CreateTask 新任务排在同一状态列的末尾
func (s *TaskService) CreateTask(ctx context.Context, userId string, req *model.CreateTaskReq) (*model.Task, error) {
	// 1. 校验参数
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("task name is required")
	}
	if req.WorkspaceId == "" {
		return nil, errs.Validation("workspaceId is required")
	}
	status := model.TaskStatusTodo
	if req.Status != "" {
		parsed, err := model.ParseTaskStatus(req.Status)
		if err != nil {
			return nil, errs.Validation("%v", err)
		}
		status = parsed
	}

	// 2. 校验成员身份
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: req.WorkspaceId}, userId); err != nil {
		return nil, err
	}

	// 3. 项目与负责人
	if err := s.checkProject(ctx, req.WorkspaceId, req.ProjectId); err != nil {
		return nil, err
	}
	assigneeId, err := s.membership.ResolveAssignee(ctx, req.WorkspaceId, req.Assignee)
	if err != nil {
		return nil, err
	}

	// 4. 依赖不能成环
	taskId := id.GetUUID()
	dependsOn, err := s.checkDependencies(ctx, req.WorkspaceId, taskId, req.DependsOn)
	if err != nil {
		return nil, err
	}

	// 5. 计算排序键
	sameStatus, err := s.taskRepo.ListTasksByStatus(ctx, req.WorkspaceId, status)
	if err != nil {
		log.Errorw("list tasks by status failed", "workspaceId", req.WorkspaceId, "status", status, "error", err)
		return nil, fmt.Errorf("list tasks by status failed: %w", err)
	}

	task := &model.Task{
		BaseModel:   model.BaseModel{Id: taskId},
		Name:        name,
		Description: req.Description,
		Status:      status,
		WorkspaceId: req.WorkspaceId,
		ProjectId:   req.ProjectId,
		AssigneeId:  assigneeId,
		Position:    s.board.NextPosition(sameStatus),
		DueDate:     req.DueDate,
		DependsOn:   dependsOn,
	}
	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		log.Errorw("create task failed", "workspaceId", req.WorkspaceId, "error", err)
		return nil, fmt.Errorf("create task failed: %w", err)
	}
	log.Infow("success create task", "taskId", task.Id, "workspaceId", task.WorkspaceId)
	return task, nil
}

// UpdateTask 部分更新
func (s *TaskService) UpdateTask(ctx context.Context, userId, taskId string, req *model.UpdateTaskReq) (*model.Task, error) {
	existing, err := s.authorizeTask(ctx, userId, taskId)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("task name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		status, err := model.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, errs.Validation("%v", err)
		}
		updates["status"] = status
	}
	if req.ProjectId != nil {
		if err := s.checkProject(ctx, existing.WorkspaceId, *req.ProjectId); err != nil {
			return nil, err
		}
		updates["project_id"] = *req.ProjectId
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Assignee != nil {
		assigneeId, err := s.membership.ResolveAssignee(ctx, existing.WorkspaceId, req.Assignee)
		if err != nil {
			return nil, err
		}
		updates["assignee_id"] = assigneeId
	}
	if req.DependsOn != nil {
		dependsOn, err := s.checkDependencies(ctx, existing.WorkspaceId, taskId, *req.DependsOn)
		if err != nil {
			return nil, err
		}
		updates["depends_on"] = datatypes.JSONSlice[string](dependsOn)
	}

	task, err := s.taskRepo.UpdateTask(ctx, taskId, updates)
	if err != nil {
		log.Errorw("update task failed", "taskId", taskId, "error", err)
		return nil, fmt.Errorf("update task failed: %w", err)
	}
	if task == nil {
		return nil, errs.NotFound("task %s not found", taskId)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userId, taskId string) error {
	if _, err := s.authorizeTask(ctx, userId, taskId); err != nil {
		return err
	}
	if err := s.taskRepo.DeleteTask(ctx, taskId); err != nil {
		log.Errorw("delete task failed", "taskId", taskId, "error", err)
		return fmt.Errorf("delete task failed: %w", err)
	}
	return nil
}

// BulkReorder 批量拖拽排序：先整体校验，再在一个事务内写入
func (s *TaskService) BulkReorder(ctx context.Context, userId string, items []model.ReorderItem) ([]model.Task, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	existing, err := s.taskRepo.GetTasksByIds(ctx, ids)
	if err != nil {
		log.Errorw("get tasks failed", "count", len(ids), "error", err)
		return nil, fmt.Errorf("get tasks failed: %w", err)
	}

	workspaceId, err := s.board.ValidateReorder(items, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: workspaceId}, userId); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.BulkReorder(ctx, items)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, err
		}
		log.Errorw("bulk reorder failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("bulk reorder failed: %w", err)
	}
	return tasks, nil
}

// Recommend 单个任务的负责人建议，没有匹配时返回 nil
func (s *TaskService) Recommend(ctx context.Context, userId, taskId string) (*model.Recommendation, error) {
	task, err := s.getTask(ctx, taskId)
	if err != nil {
		return nil, err
	}
	member, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: task.WorkspaceId}, userId)
	if err != nil {
		return nil, err
	}
	return s.recommend.RecommendTask(ctx, task, member.Id)
}

// RecommendBatch 项目内多个任务的负责人建议；不指定任务时取全部未完成任务
func (s *TaskService) RecommendBatch(ctx context.Context, userId string, req *model.BatchRecommendReq) (map[string]*model.Recommendation, error) {
	if req.ProjectId == "" {
		return nil, errs.Validation("projectId is required")
	}
	member, err := s.membership.RequireMember(ctx, Scope{ProjectId: req.ProjectId}, userId)
	if err != nil {
		return nil, err
	}

	projectTasks, err := s.taskRepo.ListTasksByProject(ctx, req.ProjectId)
	if err != nil {
		log.Errorw("list project tasks failed", "projectId", req.ProjectId, "error", err)
		return nil, fmt.Errorf("list project tasks failed: %w", err)
	}
	tasks, err := selectTasks(projectTasks, req.TaskIds)
	if err != nil {
		return nil, err
	}

	pool, err := s.recommend.Pool(ctx, member.WorkspaceId)
	if err != nil {
		return nil, err
	}
	return s.recommend.RecommendTasks(ctx, pool, tasks, req.ProjectId, member.Id), nil
}

func selectTasks(projectTasks []model.Task, taskIds []string) ([]model.Task, error) {
	if len(taskIds) == 0 {
		out := make([]model.Task, 0, len(projectTasks))
		for _, t := range projectTasks {
			if t.Status != model.TaskStatusDone {
				out = append(out, t)
			}
		}
		return out, nil
	}
	byId := make(map[string]model.Task, len(projectTasks))
	for _, t := range projectTasks {
		byId[t.Id] = t
	}
	out := make([]model.Task, 0, len(taskIds))
	for _, taskId := range taskIds {
		t, ok := byId[taskId]
		if !ok {
			return nil, errs.NotFound("task %s not found in project", taskId)
		}
		out = append(out, t)
	}
	return out, nil
}

// checkDependencies 去重后校验整个工作空间的依赖图无环，未知 id 允许存在
func (s *TaskService) checkDependencies(ctx context.Context, workspaceId, taskId string, deps []string) ([]string, error) {
	cleaned := make([]string, 0, len(deps))
	seen := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		cleaned = append(cleaned, dep)
	}
	if len(cleaned) == 0 {
		return cleaned, nil
	}

	tasks, err := s.taskRepo.ListTasksByWorkspace(ctx, workspaceId)
	if err != nil {
		return nil, fmt.Errorf("list workspace tasks failed: %w", err)
	}
	nodes := make([]dag.NamedNode, 0, len(tasks)+1)
	nodes = append(nodes, dag.SimpleNode{Name: taskId, Prev: cleaned})
	for _, t := range tasks {
		if t.Id == taskId {
			continue
		}
		nodes = append(nodes, dag.SimpleNode{Name: t.Id, Prev: t.DependsOn})
	}
	if err := dag.Validate(nodes, dag.WithAllowDanglingEdges(true)); err != nil {
		if errors.Is(err, dag.ErrCycle) {
			return nil, errs.Conflict(errs.ReasonDependencyCycle, "Task dependencies form a cycle")
		}
		return nil, errs.Validation("invalid dependencies: %v", err)
	}
	return cleaned, nil
}

func (s *TaskService) checkProject(ctx context.Context, workspaceId, projectId string) error {
	if projectId == "" {
		return nil
	}
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		return fmt.Errorf("get project failed: %w", err)
	}
	if project == nil || project.WorkspaceId != workspaceId {
		return errs.Validation("project %s does not belong to this workspace", projectId)
	}
	return nil
}

func (s *TaskService) authorizeTask(ctx context.Context, userId, taskId string) (*model.Task, error) {
	task, err := s.getTask(ctx, taskId)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: task.WorkspaceId}, userId); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) getTask(ctx context.Context, taskId string) (*model.Task, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		log.Errorw("get task failed", "taskId", taskId, "error", err)
		return nil, fmt.Errorf("get task failed: %w", err)
	}
	if task == nil {
		return nil, errs.NotFound("task %s not found", taskId)
	}
	return task, nil
}

// populate 批量补充项目和负责人信息
func (s *TaskService) populate(ctx context.Context, tasks []model.Task) ([]model.TaskResp, error) {
	projectIds := make([]string, 0, len(tasks))
	assigneeIds := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectId != "" {
			projectIds = append(projectIds, t.ProjectId)
		}
		if t.HasAssignee() {
			assigneeIds = append(assigneeIds, t.AssigneeId)
		}
	}

	projects, err := s.projectRepo.GetProjectsByIds(ctx, projectIds)
	if err != nil {
		return nil, fmt.Errorf("get projects failed: %w", err)
	}
	projectById := make(map[string]*model.Project, len(projects))
	for i := range projects {
		projectById[projects[i].Id] = &projects[i]
	}
	profiles := s.profiles.Many(ctx, assigneeIds)

	docs := make([]model.TaskResp, 0, len(tasks))
	for _, t := range tasks {
		resp := model.TaskResp{Task: t, Project: projectById[t.ProjectId]}
		if p, ok := profiles[t.AssigneeId]; ok {
			resp.Assignee = &model.AssigneeDTO{Id: t.AssigneeId, Name: p.Name, Email: p.Email}
		}
		docs = append(docs, resp)
	}
	return docs, nil
}
