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

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/go-arcade/planboard/pkg/metrics"
)

const (
	// 单任务匹配时 AI 服务需要的默认估算
	defaultComplexity     = 5
	defaultEstimatedHours = 8
)

// CandidatePool 工作空间成员快照。AI 服务使用成员 id，任务负责人使用用户 id，
// 两者只在这里互相转换。
type CandidatePool struct {
	UserIds      []string // 候选人用户 id，按成员加入顺序
	Profiles     []aiclient.UserWithSkills
	userByMember map[string]string
	memberByUser map[string]string
}

// Matches 把 AI 返回的成员匹配转换为用户 id，丢弃不在工作空间内的候选人
func (p *CandidatePool) Matches(users []aiclient.UserMatch) []model.Match {
	matches := make([]model.Match, 0, len(users))
	for _, u := range users {
		userId, ok := p.userByMember[u.UserId]
		if !ok {
			continue
		}
		matches = append(matches, model.Match{
			CandidateId:   userId,
			Name:          u.Name,
			MatchScore:    u.MatchScore,
			SkillCoverage: u.SkillCoverage,
		})
	}
	return matches
}

// MemberOf 用户 id 对应的成员 id
func (p *CandidatePool) MemberOf(userId string) string {
	return p.memberByUser[userId]
}

// withSkills 只保留填写了技能的成员
func (p *CandidatePool) withSkills() []aiclient.UserWithSkills {
	out := make([]aiclient.UserWithSkills, 0, len(p.Profiles))
	for _, u := range p.Profiles {
		if len(u.Skills) > 0 {
			out = append(out, u)
		}
	}
	return out
}

type RecommendService struct {
	ai         aiclient.IClient
	memberRepo repo.IMemberRepository
	skillRepo  repo.ISkillRepository
	taskRepo   repo.ITaskRepository
	profiles   *UserProfiles
}

func NewRecommendService(
	ai aiclient.IClient,
	memberRepo repo.IMemberRepository,
	skillRepo repo.ISkillRepository,
	taskRepo repo.ITaskRepository,
	profiles *UserProfiles,
) *RecommendService {
	return &RecommendService{
		ai:         ai,
		memberRepo: memberRepo,
		skillRepo:  skillRepo,
		taskRepo:   taskRepo,
		profiles:   profiles,
	}
}

// Pool 读取工作空间成员、技能和名称
func (s *RecommendService) Pool(ctx context.Context, workspaceId string) (*CandidatePool, error) {
	members, err := s.memberRepo.ListMembersByWorkspace(ctx, workspaceId)
	if err != nil {
		log.Errorw("list members failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("list members failed: %w", err)
	}

	memberIds := make([]string, 0, len(members))
	for _, m := range members {
		memberIds = append(memberIds, m.Id)
	}
	skills, err := s.skillRepo.ListSkillsByMembers(ctx, memberIds)
	if err != nil {
		log.Errorw("list skills failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("list skills failed: %w", err)
	}
	skillsByMember := make(map[string][]aiclient.UserSkill, len(members))
	for _, sk := range skills {
		skillsByMember[sk.MemberId] = append(skillsByMember[sk.MemberId], aiclient.UserSkill{
			Name:             sk.Name,
			Category:         sk.Category,
			ExperienceYears:  sk.ExperienceYears,
			ProficiencyScore: sk.ProficiencyScore,
		})
	}

	pool := &CandidatePool{
		UserIds:      make([]string, 0, len(members)),
		Profiles:     make([]aiclient.UserWithSkills, 0, len(members)),
		userByMember: make(map[string]string, len(members)),
		memberByUser: make(map[string]string, len(members)),
	}
	userIds := make([]string, 0, len(members))
	for _, m := range members {
		userIds = append(userIds, m.UserId)
	}
	names := s.profiles.Many(ctx, userIds)
	for _, m := range members {
		pool.UserIds = append(pool.UserIds, m.UserId)
		pool.userByMember[m.Id] = m.UserId
		pool.memberByUser[m.UserId] = m.Id
		userSkills := skillsByMember[m.Id]
		if userSkills == nil {
			userSkills = []aiclient.UserSkill{}
		}
		pool.Profiles = append(pool.Profiles, aiclient.UserWithSkills{
			Id:     m.Id,
			Name:   names[m.UserId].Name,
			Skills: userSkills,
		})
	}
	return pool, nil
}

// RecommendTask 为单个任务推荐负责人；AI 服务失败按无匹配处理，返回 nil
func (s *RecommendService) RecommendTask(ctx context.Context, task *model.Task, managerId string) (*model.Recommendation, error) {
	pool, err := s.Pool(ctx, task.WorkspaceId)
	if err != nil {
		return nil, err
	}
	allTasks, err := s.taskRepo.ListTasksByWorkspace(ctx, task.WorkspaceId)
	if err != nil {
		log.Errorw("list workspace tasks failed", "workspaceId", task.WorkspaceId, "error", err)
		return nil, fmt.Errorf("list workspace tasks failed: %w", err)
	}

	var matches []model.Match
	if users := pool.withSkills(); len(users) > 0 {
		if err := s.ai.IndexUsers(ctx, users, task.ProjectId, managerId); err != nil {
			log.WithContext(ctx).Warnw("index users failed, continuing", "taskId", task.Id, "error", err)
		}
		found, err := s.ai.MatchUserForTask(ctx, toAITask(task, managerId), task.ProjectId, managerId)
		if err != nil {
			log.WithContext(ctx).Warnw("match users for task failed, treated as no matches", "taskId", task.Id, "error", err)
		} else {
			matches = pool.Matches(found)
		}
	}

	rec := optimize.Recommend(task, matches, allTasks, pool.UserIds)
	record(rec, task, allTasks)
	if rec != nil {
		rec.SuggestedMemberId = pool.MemberOf(rec.SuggestedAssigneeId)
	}
	return rec, nil
}

// RecommendTasks 批量推荐，tasks 同时作为负载快照
func (s *RecommendService) RecommendTasks(ctx context.Context, pool *CandidatePool, tasks []model.Task, projectId, managerId string) map[string]*model.Recommendation {
	matchesByTask := make(map[string][]model.Match, len(tasks))
	if users := pool.withSkills(); len(users) > 0 && len(tasks) > 0 {
		if err := s.ai.IndexUsers(ctx, users, projectId, managerId); err != nil {
			log.WithContext(ctx).Warnw("index users failed, continuing", "projectId", projectId, "error", err)
		}
		aiTasks := make([]aiclient.Task, 0, len(tasks))
		for i := range tasks {
			aiTasks = append(aiTasks, toAITask(&tasks[i], managerId))
		}
		matched, err := s.ai.MatchUsersForTasks(ctx, aiTasks, projectId, managerId)
		if err != nil {
			log.WithContext(ctx).Warnw("match users for tasks failed, treated as no matches", "projectId", projectId, "error", err)
		}
		for _, t := range matched {
			matchesByTask[t.TaskId] = pool.Matches(t.MatchedUsers)
		}
	}

	recs := optimize.RecommendBatch(tasks, matchesByTask, pool.UserIds)
	for i := range tasks {
		rec := recs[tasks[i].Id]
		record(rec, &tasks[i], tasks)
		if rec != nil {
			rec.SuggestedMemberId = pool.MemberOf(rec.SuggestedAssigneeId)
		}
	}
	return recs
}

func record(rec *model.Recommendation, task *model.Task, allTasks []model.Task) {
	switch {
	case rec == nil:
		metrics.RecordRecommendation(metrics.OutcomeNoMatches, 0)
	case !optimize.IsReady(task, allTasks):
		metrics.RecordRecommendation(metrics.OutcomeNotReady, rec.Confidence)
	default:
		metrics.RecordRecommendation(metrics.OutcomeRecommended, rec.Confidence)
	}
}

func toAITask(task *model.Task, managerId string) aiclient.Task {
	return aiclient.Task{
		TaskId:         task.Id,
		Name:           task.Name,
		Description:    task.Description,
		Complexity:     defaultComplexity,
		EstimatedHours: defaultEstimatedHours,
		RequiredSkills: []aiclient.Skill{},
		DependsOn:      task.DependsOn,
		ProjectId:      task.ProjectId,
		ManagerId:      managerId,
	}
}
