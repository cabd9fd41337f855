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
	"strings"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/policy"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/log"
)

type MemberService struct {
	memberRepo    repo.IMemberRepository
	workspaceRepo repo.IWorkspaceRepository
	skillRepo     repo.ISkillRepository
	membership    *MembershipService
	profiles      *UserProfiles
}

func NewMemberService(
	memberRepo repo.IMemberRepository,
	workspaceRepo repo.IWorkspaceRepository,
	skillRepo repo.ISkillRepository,
	membership *MembershipService,
	profiles *UserProfiles,
) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		workspaceRepo: workspaceRepo,
		skillRepo:     skillRepo,
		membership:    membership,
		profiles:      profiles,
	}
}

// ListMembers 列出 scope 所属工作空间的成员，附带用户名称和邮箱
func (s *MemberService) ListMembers(ctx context.Context, userId string, scope Scope) (*model.ListResp[model.MemberResp], error) {
	if _, err := s.membership.RequireMember(ctx, scope, userId); err != nil {
		return nil, err
	}
	workspaceId, err := s.membership.WorkspaceOf(ctx, scope)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListMembersByWorkspace(ctx, workspaceId)
	if err != nil {
		log.Errorw("list members failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("list members failed: %w", err)
	}

	userIds := make([]string, 0, len(members))
	for _, m := range members {
		userIds = append(userIds, m.UserId)
	}
	profiles := s.profiles.Many(ctx, userIds)

	docs := make([]model.MemberResp, 0, len(members))
	for _, m := range members {
		p := profiles[m.UserId]
		docs = append(docs, model.MemberResp{Member: m, Name: p.Name, Email: p.Email})
	}
	return &model.ListResp[model.MemberResp]{Documents: docs, Total: int64(len(docs))}, nil
}

// RemoveMember 管理员移除成员，或成员自己退出
func (s *MemberService) RemoveMember(ctx context.Context, userId, memberId string) error {
	in, err := s.policyInput(ctx, userId, memberId)
	if err != nil {
		return err
	}
	if err := policy.Check(policy.ActionRemoveMember, in); err != nil {
		return err
	}
	if err := s.memberRepo.DeleteMember(ctx, memberId); err != nil {
		log.Errorw("delete member failed", "memberId", memberId, "error", err)
		return fmt.Errorf("delete member failed: %w", err)
	}
	log.Infow("member removed", "memberId", memberId, "workspaceId", in.Target.WorkspaceId, "by", userId)
	return nil
}

// ChangeRole 修改成员角色，规则基于刚读取的成员数和管理员数
func (s *MemberService) ChangeRole(ctx context.Context, userId, memberId string, role string) (*model.Member, error) {
	in, err := s.policyInput(ctx, userId, memberId)
	if err != nil {
		return nil, err
	}
	in.NewRole = model.Role(role)
	if err := policy.Check(policy.ActionChangeRole, in); err != nil {
		return nil, err
	}
	if in.Target.Role == in.NewRole {
		return in.Target, nil
	}

	updated, err := s.memberRepo.UpdateMemberRole(ctx, memberId, in.NewRole)
	if err != nil {
		log.Errorw("update member role failed", "memberId", memberId, "role", role, "error", err)
		return nil, fmt.Errorf("update member role failed: %w", err)
	}
	log.Infow("member role changed", "memberId", memberId, "role", role, "by", userId)
	return updated, nil
}

// GetSkills 本人或管理员可读
func (s *MemberService) GetSkills(ctx context.Context, userId, memberId string) (*model.ListResp[model.Skill], error) {
	target, err := s.authorizeSkills(ctx, policy.ActionReadSkills, userId, memberId)
	if err != nil {
		return nil, err
	}
	skills, err := s.skillRepo.ListSkills(ctx, target.Id)
	if err != nil {
		log.Errorw("list skills failed", "memberId", memberId, "error", err)
		return nil, fmt.Errorf("list skills failed: %w", err)
	}
	return &model.ListResp[model.Skill]{Documents: skills, Total: int64(len(skills))}, nil
}

// ReplaceSkills 整体覆盖技能集合，不做差量合并
func (s *MemberService) ReplaceSkills(ctx context.Context, userId, memberId string, req *model.ReplaceSkillsReq) (*model.ListResp[model.Skill], error) {
	skills, err := validateSkills(req.Skills)
	if err != nil {
		return nil, err
	}
	target, err := s.authorizeSkills(ctx, policy.ActionWriteSkills, userId, memberId)
	if err != nil {
		return nil, err
	}

	saved, err := s.skillRepo.ReplaceSkills(ctx, target.Id, target.WorkspaceId, skills)
	if err != nil {
		log.Errorw("replace skills failed", "memberId", memberId, "error", err)
		return nil, fmt.Errorf("replace skills failed: %w", err)
	}
	return &model.ListResp[model.Skill]{Documents: saved, Total: int64(len(saved))}, nil
}

func (s *MemberService) authorizeSkills(ctx context.Context, action policy.Action, userId, memberId string) (*model.Member, error) {
	target, err := s.getMember(ctx, memberId)
	if err != nil {
		return nil, err
	}
	actor, err := s.membership.Resolve(ctx, Scope{WorkspaceId: target.WorkspaceId}, userId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(action, policy.Input{Actor: actor, Target: target}); err != nil {
		return nil, err
	}
	return target, nil
}

// policyInput 读取规则需要的最新状态，不使用缓存
func (s *MemberService) policyInput(ctx context.Context, userId, memberId string) (policy.Input, error) {
	target, err := s.getMember(ctx, memberId)
	if err != nil {
		return policy.Input{}, err
	}
	ws, err := s.workspaceRepo.GetWorkspaceById(ctx, target.WorkspaceId)
	if err != nil {
		return policy.Input{}, fmt.Errorf("get workspace failed: %w", err)
	}
	if ws == nil {
		return policy.Input{}, errs.NotFound("workspace %s not found", target.WorkspaceId)
	}
	actor, err := s.membership.Resolve(ctx, Scope{WorkspaceId: target.WorkspaceId}, userId)
	if err != nil {
		return policy.Input{}, err
	}
	memberCount, err := s.memberRepo.CountMembers(ctx, target.WorkspaceId)
	if err != nil {
		return policy.Input{}, fmt.Errorf("count members failed: %w", err)
	}
	adminCount, err := s.memberRepo.CountAdmins(ctx, target.WorkspaceId)
	if err != nil {
		return policy.Input{}, fmt.Errorf("count admins failed: %w", err)
	}
	return policy.Input{
		Actor:       actor,
		Target:      target,
		OwnerId:     ws.UserId,
		MemberCount: memberCount,
		AdminCount:  adminCount,
	}, nil
}

func (s *MemberService) getMember(ctx context.Context, memberId string) (*model.Member, error) {
	member, err := s.memberRepo.GetMemberById(ctx, memberId)
	if err != nil {
		log.Errorw("get member failed", "memberId", memberId, "error", err)
		return nil, fmt.Errorf("get member failed: %w", err)
	}
	if member == nil {
		return nil, errs.NotFound("member %s not found", memberId)
	}
	return member, nil
}

func validateSkills(inputs []model.SkillInput) ([]model.Skill, error) {
	skills := make([]model.Skill, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, errs.Validation("skills[%d]: name is required", i)
		}
		if in.ExperienceYears < 0 || in.ExperienceYears > model.MaxExperienceYears {
			return nil, errs.Validation("skills[%d]: experience_years must be between 0 and %d", i, model.MaxExperienceYears)
		}
		if in.ProficiencyScore < 0 || in.ProficiencyScore > model.MaxProficiency {
			return nil, errs.Validation("skills[%d]: proficiency_score must be between 0 and %d", i, model.MaxProficiency)
		}
		skills = append(skills, model.Skill{
			Name:             name,
			Category:         strings.TrimSpace(in.Category),
			ExperienceYears:  in.ExperienceYears,
			ProficiencyScore: in.ProficiencyScore,
		})
	}
	return skills, nil
}
