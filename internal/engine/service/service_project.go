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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/id"
	"github.com/go-arcade/planboard/pkg/log"
)

const hoursPerDay = 8

type ProjectService struct {
	projectRepo repo.IProjectRepository
	taskRepo    repo.ITaskRepository
	membership  *MembershipService
	recommend   *RecommendService
	ai          aiclient.IClient
	board       optimize.Board
	now         func() time.Time
}

func NewProjectService(
	projectRepo repo.IProjectRepository,
	taskRepo repo.ITaskRepository,
	membership *MembershipService,
	recommend *RecommendService,
	ai aiclient.IClient,
	board optimize.Board,
) *ProjectService {
	board.SetDefaults()
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		membership:  membership,
		recommend:   recommend,
		ai:          ai,
		board:       board,
		now:         time.Now,
	}
}

// CreateProject 创建项目；AI 生成类型会继续生成任务并分配负责人，
// 生成过程中的任何失败只记录日志，项目本身保留。
func (s *ProjectService) CreateProject(ctx context.Context, userId string, req *model.CreateProjectReq) (*model.Project, error) {
	// 1. 校验参数
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("project name is required")
	}
	genType, err := model.ParseGenerationType(req.GenerationType)
	if err != nil {
		return nil, errs.Validation("%v", err)
	}

	// 2. 校验成员身份
	member, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: req.WorkspaceId}, userId)
	if err != nil {
		return nil, err
	}

	// 3. 保存项目
	project := &model.Project{
		Name:           name,
		ImageUrl:       req.ImageUrl,
		WorkspaceId:    req.WorkspaceId,
		GenerationType: genType,
		Prompt:         req.Prompt,
	}
	if err := s.projectRepo.CreateProject(ctx, project); err != nil {
		log.Errorw("create project failed", "workspaceId", req.WorkspaceId, "error", err)
		return nil, fmt.Errorf("create project failed: %w", err)
	}
	log.Infow("success create project", "projectId", project.Id, "workspaceId", project.WorkspaceId)

	// 4. AI 生成任务
	if genType == model.GenerationAIGenerated && strings.TrimSpace(req.Prompt) != "" {
		created, err := s.generateTasks(ctx, project, member)
		if err != nil {
			log.WithContext(ctx).Warnw("generate AI tasks failed, project kept", "projectId", project.Id, "error", err)
		} else {
			log.Infow("AI tasks generated", "projectId", project.Id, "count", created)
		}
	}
	return project, nil
}

// generateTasks 生成任务、建立索引、匹配候选人，再由优化器选出负责人
func (s *ProjectService) generateTasks(ctx context.Context, project *model.Project, manager *model.Member) (int, error) {
	pool, err := s.recommend.Pool(ctx, project.WorkspaceId)
	if err != nil {
		return 0, err
	}

	aiTasks, err := s.ai.GenerateTasks(ctx, project.Prompt, project.Id, manager.Id)
	if err != nil {
		return 0, err
	}
	if len(aiTasks) == 0 {
		return 0, nil
	}

	if len(pool.Profiles) > 0 {
		if err := s.ai.IndexUsers(ctx, pool.Profiles, project.Id, manager.Id); err != nil {
			log.WithContext(ctx).Warnw("index users failed, continuing", "projectId", project.Id, "error", err)
		}
	}
	if err := s.ai.IndexTasks(ctx, aiTasks, project.Id, manager.Id); err != nil {
		log.WithContext(ctx).Warnw("index tasks failed, continuing", "projectId", project.Id, "error", err)
	}
	matched, err := s.ai.MatchUsersForTasks(ctx, aiTasks, project.Id, manager.Id)
	if err != nil {
		log.WithContext(ctx).Warnw("match users for tasks failed, treated as no matches", "projectId", project.Id, "error", err)
		matched = aiTasks
	}

	// 新任务排在 TODO 列已有任务之后
	todo, err := s.taskRepo.ListTasksByStatus(ctx, project.WorkspaceId, model.TaskStatusTodo)
	if err != nil {
		return 0, fmt.Errorf("list todo tasks failed: %w", err)
	}
	tasks, matchesByTask := s.buildTasks(project, matched, pool, s.board.NextPosition(todo))
	recs := optimizeAssignees(tasks, matchesByTask, pool)
	for i := range tasks {
		if rec, ok := recs[tasks[i].Id]; ok {
			tasks[i].AssigneeId = rec.SuggestedAssigneeId
		} else {
			tasks[i].AssigneeId = manager.UserId
		}
	}

	if err := s.taskRepo.CreateTasks(ctx, tasks); err != nil {
		return 0, fmt.Errorf("create generated tasks failed: %w", err)
	}
	return len(tasks), nil
}

// buildTasks 预先分配任务 id，并把 AI 任务之间的依赖改写为新 id
func (s *ProjectService) buildTasks(project *model.Project, aiTasks []aiclient.Task, pool *CandidatePool, base int) ([]model.Task, map[string][]model.Match) {
	now := s.now()
	idByAITask := make(map[string]string, len(aiTasks))
	for _, t := range aiTasks {
		if t.TaskId != "" {
			idByAITask[t.TaskId] = id.GetUUID()
		}
	}

	tasks := make([]model.Task, 0, len(aiTasks))
	matchesByTask := make(map[string][]model.Match, len(aiTasks))
	for i, t := range aiTasks {
		taskId, ok := idByAITask[t.TaskId]
		if !ok {
			taskId = id.GetUUID()
		}

		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Task %d", i+1)
		}
		description := t.Description
		if description == "" {
			description = fmt.Sprintf("Complexity: %d/10, Estimated: %gh", t.Complexity, t.EstimatedHours)
		}
		dependsOn := make([]string, 0, len(t.DependsOn))
		for _, dep := range t.DependsOn {
			if mapped, ok := idByAITask[dep]; ok {
				dependsOn = append(dependsOn, mapped)
			}
		}

		matches := pool.Matches(t.MatchedUsers)
		suggested := make([]string, 0, len(matches))
		for _, m := range matches {
			suggested = append(suggested, m.CandidateId)
		}
		matchesByTask[taskId] = matches

		days := int(math.Ceil(t.EstimatedHours / hoursPerDay))
		tasks = append(tasks, model.Task{
			BaseModel:            model.BaseModel{Id: taskId},
			Name:                 name,
			Description:          description,
			Status:               model.TaskStatusTodo,
			WorkspaceId:          project.WorkspaceId,
			ProjectId:            project.Id,
			Position:             base + i*s.board.Step,
			DueDate:              now.AddDate(0, 0, days),
			DependsOn:            dependsOn,
			AISuggestedAssignees: suggested,
		})
	}
	return tasks, matchesByTask
}

func optimizeAssignees(tasks []model.Task, matchesByTask map[string][]model.Match, pool *CandidatePool) map[string]*model.Recommendation {
	recs := optimize.RecommendBatch(tasks, matchesByTask, pool.UserIds)
	for i := range tasks {
		record(recs[tasks[i].Id], &tasks[i], tasks)
	}
	return recs
}

func (s *ProjectService) ListProjects(ctx context.Context, userId, workspaceId string) (*model.ListResp[model.Project], error) {
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: workspaceId}, userId); err != nil {
		return nil, err
	}
	projects, total, err := s.projectRepo.ListProjects(ctx, workspaceId)
	if err != nil {
		log.Errorw("list projects failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return &model.ListResp[model.Project]{Documents: projects, Total: total}, nil
}

func (s *ProjectService) GetProject(ctx context.Context, userId, projectId string) (*model.Project, error) {
	project, err := s.getProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: project.WorkspaceId}, userId); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, userId, projectId string, req *model.UpdateProjectReq) (*model.Project, error) {
	if _, err := s.GetProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("project name cannot be empty")
		}
		updates["name"] = name
	}
	if req.ImageUrl != nil {
		updates["image_url"] = *req.ImageUrl
	}

	project, err := s.projectRepo.UpdateProject(ctx, projectId, updates)
	if err != nil {
		log.Errorw("update project failed", "projectId", projectId, "error", err)
		return nil, fmt.Errorf("update project failed: %w", err)
	}
	return project, nil
}

// DeleteProject 同时删除项目下的任务
func (s *ProjectService) DeleteProject(ctx context.Context, userId, projectId string) error {
	if _, err := s.GetProject(ctx, userId, projectId); err != nil {
		return err
	}
	if err := s.projectRepo.DeleteProject(ctx, projectId); err != nil {
		log.Errorw("delete project failed", "projectId", projectId, "error", err)
		return fmt.Errorf("delete project failed: %w", err)
	}
	log.Infow("success delete project", "projectId", projectId, "userId", userId)
	return nil
}

func (s *ProjectService) getProject(ctx context.Context, projectId string) (*model.Project, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		log.Errorw("get project failed", "projectId", projectId, "error", err)
		return nil, fmt.Errorf("get project failed: %w", err)
	}
	if project == nil {
		return nil, errs.NotFound("project %s not found", projectId)
	}
	return project, nil
}
