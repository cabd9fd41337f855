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
	"github.com/go-arcade/planboard/pkg/id"
	"github.com/go-arcade/planboard/pkg/log"
)

type WorkspaceService struct {
	workspaceRepo repo.IWorkspaceRepository
	memberRepo    repo.IMemberRepository
	membership    *MembershipService
}

func NewWorkspaceService(workspaceRepo repo.IWorkspaceRepository, memberRepo repo.IMemberRepository, membership *MembershipService) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		membership:    membership,
	}
}

// CreateWorkspace 创建工作空间，创建者成为管理员
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, userId string, req *model.CreateWorkspaceReq) (*model.Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("workspace name is required")
	}

	ws := &model.Workspace{
		Name:       name,
		ImageUrl:   req.ImageUrl,
		InviteCode: id.InviteCode(id.InviteCodeLength),
		UserId:     userId,
	}
	if err := s.workspaceRepo.CreateWorkspace(ctx, ws, &model.Member{}); err != nil {
		log.Errorw("create workspace failed", "name", name, "userId", userId, "error", err)
		return nil, fmt.Errorf("create workspace failed: %w", err)
	}
	log.Infow("success create workspace", "workspaceId", ws.Id, "userId", userId)
	return ws, nil
}

// ListWorkspaces 调用者加入的全部工作空间
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, userId string) (*model.ListResp[model.Workspace], error) {
	members, err := s.memberRepo.ListMembersByUser(ctx, userId)
	if err != nil {
		log.Errorw("list memberships failed", "userId", userId, "error", err)
		return nil, fmt.Errorf("list memberships failed: %w", err)
	}
	if len(members) == 0 {
		return &model.ListResp[model.Workspace]{Documents: []model.Workspace{}}, nil
	}

	workspaceIds := make([]string, 0, len(members))
	for _, m := range members {
		workspaceIds = append(workspaceIds, m.WorkspaceId)
	}
	workspaces, total, err := s.workspaceRepo.ListWorkspacesByIds(ctx, workspaceIds)
	if err != nil {
		log.Errorw("list workspaces failed", "userId", userId, "error", err)
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return &model.ListResp[model.Workspace]{Documents: workspaces, Total: total}, nil
}

// GetWorkspace 仅成员可见
func (s *WorkspaceService) GetWorkspace(ctx context.Context, userId, workspaceId string) (*model.Workspace, error) {
	ws, err := s.getWorkspace(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireMember(ctx, Scope{WorkspaceId: workspaceId}, userId); err != nil {
		return nil, err
	}
	return ws, nil
}

// UpdateWorkspace 仅管理员可修改
func (s *WorkspaceService) UpdateWorkspace(ctx context.Context, userId, workspaceId string, req *model.UpdateWorkspaceReq) (*model.Workspace, error) {
	if _, err := s.authorizeManage(ctx, userId, workspaceId); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("workspace name cannot be empty")
		}
		updates["name"] = name
	}
	if req.ImageUrl != nil {
		updates["image_url"] = *req.ImageUrl
	}

	ws, err := s.workspaceRepo.UpdateWorkspace(ctx, workspaceId, updates)
	if err != nil {
		log.Errorw("update workspace failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("update workspace failed: %w", err)
	}
	return ws, nil
}

// DeleteWorkspace 仅管理员可删除，级联删除成员、项目和任务
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, userId, workspaceId string) error {
	if _, err := s.authorizeManage(ctx, userId, workspaceId); err != nil {
		return err
	}
	if err := s.workspaceRepo.DeleteWorkspace(ctx, workspaceId); err != nil {
		log.Errorw("delete workspace failed", "workspaceId", workspaceId, "error", err)
		return fmt.Errorf("delete workspace failed: %w", err)
	}
	log.Infow("success delete workspace", "workspaceId", workspaceId, "userId", userId)
	return nil
}

// ResetInviteCode 重新生成邀请码，旧邀请码立即失效
func (s *WorkspaceService) ResetInviteCode(ctx context.Context, userId, workspaceId string) (*model.Workspace, error) {
	if _, err := s.authorizeManage(ctx, userId, workspaceId); err != nil {
		return nil, err
	}
	ws, err := s.workspaceRepo.UpdateWorkspace(ctx, workspaceId, map[string]any{
		"invite_code": id.InviteCode(id.InviteCodeLength),
	})
	if err != nil {
		log.Errorw("reset invite code failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("reset invite code failed: %w", err)
	}
	return ws, nil
}

// JoinWorkspace 通过邀请码加入，新成员角色为 MEMBER
func (s *WorkspaceService) JoinWorkspace(ctx context.Context, userId, workspaceId, inviteCode string) (*model.Workspace, error) {
	ws, err := s.getWorkspace(ctx, workspaceId)
	if err != nil {
		return nil, err
	}

	existing, err := s.membership.Resolve(ctx, Scope{WorkspaceId: workspaceId}, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict(errs.ReasonAlreadyMember, "You are already a member of this workspace")
	}
	if inviteCode == "" || ws.InviteCode != inviteCode {
		return nil, errs.New(errs.KindValidation, errs.ReasonInvalidInvite, "Invalid invite code")
	}

	member := &model.Member{WorkspaceId: workspaceId, UserId: userId, Role: model.RoleMember}
	if err := s.memberRepo.CreateMember(ctx, member); err != nil {
		log.Errorw("join workspace failed", "workspaceId", workspaceId, "userId", userId, "error", err)
		return nil, fmt.Errorf("join workspace failed: %w", err)
	}
	log.Infow("user joined workspace", "workspaceId", workspaceId, "userId", userId, "memberId", member.Id)
	return ws, nil
}

func (s *WorkspaceService) getWorkspace(ctx context.Context, workspaceId string) (*model.Workspace, error) {
	ws, err := s.workspaceRepo.GetWorkspaceById(ctx, workspaceId)
	if err != nil {
		log.Errorw("get workspace failed", "workspaceId", workspaceId, "error", err)
		return nil, fmt.Errorf("get workspace failed: %w", err)
	}
	if ws == nil {
		return nil, errs.NotFound("workspace %s not found", workspaceId)
	}
	return ws, nil
}

func (s *WorkspaceService) authorizeManage(ctx context.Context, userId, workspaceId string) (*model.Workspace, error) {
	ws, err := s.getWorkspace(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	actor, err := s.membership.Resolve(ctx, Scope{WorkspaceId: workspaceId}, userId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.ActionManageWorkspace, policy.Input{Actor: actor, OwnerId: ws.UserId}); err != nil {
		return nil, err
	}
	return ws, nil
}
