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
	"github.com/go-arcade/planboard/internal/engine/policy"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/log"
)

// Scope 成员身份的查询范围，WorkspaceId 与 ProjectId 必须且只能给一个
type Scope struct {
	WorkspaceId string
	ProjectId   string
}

type MembershipService struct {
	memberRepo  repo.IMemberRepository
	projectRepo repo.IProjectRepository
	userRepo    repo.IUserRepository
}

func NewMembershipService(memberRepo repo.IMemberRepository, projectRepo repo.IProjectRepository, userRepo repo.IUserRepository) *MembershipService {
	return &MembershipService{
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Resolve 返回用户在 scope 所属工作空间内的成员身份。
// 不是成员时返回 nil, nil，这是常规的权限判断路径而不是错误。
func (s *MembershipService) Resolve(ctx context.Context, scope Scope, userId string) (*model.Member, error) {
	workspaceId, err := s.WorkspaceOf(ctx, scope)
	if err != nil {
		return nil, err
	}
	member, err := s.memberRepo.GetMember(ctx, workspaceId, userId)
	if err != nil {
		log.Errorw("resolve membership failed", "workspaceId", workspaceId, "userId", userId, "error", err)
		return nil, fmt.Errorf("resolve membership failed: %w", err)
	}
	return member, nil
}

// RequireMember 与 Resolve 相同，但不是成员时返回 Unauthorized
func (s *MembershipService) RequireMember(ctx context.Context, scope Scope, userId string) (*model.Member, error) {
	member, err := s.Resolve(ctx, scope, userId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.ActionViewWorkspace, policy.Input{Actor: member}); err != nil {
		return nil, err
	}
	return member, nil
}

// WorkspaceOf 项目范围按项目所属的工作空间解析
func (s *MembershipService) WorkspaceOf(ctx context.Context, scope Scope) (string, error) {
	switch {
	case scope.WorkspaceId != "" && scope.ProjectId != "":
		return "", errs.Validation("only one of workspaceId or projectId may be given")
	case scope.WorkspaceId != "":
		return scope.WorkspaceId, nil
	case scope.ProjectId != "":
		project, err := s.projectRepo.GetProjectById(ctx, scope.ProjectId)
		if err != nil {
			log.Errorw("get project failed", "projectId", scope.ProjectId, "error", err)
			return "", fmt.Errorf("get project failed: %w", err)
		}
		if project == nil {
			return "", errs.NotFound("project %s not found", scope.ProjectId)
		}
		return project.WorkspaceId, nil
	default:
		return "", errs.Validation("either workspaceId or projectId is required")
	}
}

// ResolveAssignee 把负责人引用转换为用户 id，并确认其属于该工作空间。
// 返回空字符串表示不分配。
func (s *MembershipService) ResolveAssignee(ctx context.Context, workspaceId string, ref *model.AssigneeRef) (string, error) {
	if ref == nil || ref.IsClear() {
		return "", nil
	}
	if err := ref.Validate(); err != nil {
		return "", errs.Validation("%v", err)
	}

	switch ref.Kind {
	case model.AssigneeByMember:
		member, err := s.memberRepo.GetMemberById(ctx, ref.Id)
		if err != nil {
			return "", fmt.Errorf("get assignee member failed: %w", err)
		}
		if member == nil || member.WorkspaceId != workspaceId {
			return "", errs.Validation("Assignee is not a member of this workspace")
		}
		return member.UserId, nil
	default:
		user, err := s.userRepo.GetUserById(ctx, ref.Id)
		if err != nil {
			return "", fmt.Errorf("get assignee user failed: %w", err)
		}
		if user == nil {
			return "", errs.Validation("Assignee with ID %s not found", ref.Id)
		}
		member, err := s.memberRepo.GetMember(ctx, workspaceId, user.Id)
		if err != nil {
			return "", fmt.Errorf("get assignee member failed: %w", err)
		}
		if member == nil {
			return "", errs.Validation("Assignee is not a member of this workspace")
		}
		return user.Id, nil
	}
}
