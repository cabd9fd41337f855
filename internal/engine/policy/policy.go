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

// Package policy 成员与角色相关的权限规则，全部是纯函数
package policy

import (
	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/metrics"
)

type Action string

const (
	ActionViewWorkspace   Action = "view_workspace"
	ActionManageWorkspace Action = "manage_workspace"
	ActionRemoveMember    Action = "remove_member"
	ActionChangeRole      Action = "change_role"
	ActionReadSkills      Action = "read_skills"
	ActionWriteSkills     Action = "write_skills"
)

// Input 规则的输入，必须来自刚读取的数据，不能使用缓存
type Input struct {
	Actor       *model.Member // 调用者，nil 表示不是该工作空间成员
	Target      *model.Member // 被操作的成员
	OwnerId     string        // 工作空间所有者的用户 id
	MemberCount int64
	AdminCount  int64
	NewRole     model.Role
}

type Rule func(in Input) error

var rules = map[Action]Rule{
	ActionViewWorkspace:   RequireMember,
	ActionManageWorkspace: CanManageWorkspace,
	ActionRemoveMember:    CanRemoveMember,
	ActionChangeRole:      CanChangeRole,
	ActionReadSkills:      CanAccessSkills,
	ActionWriteSkills:     CanAccessSkills,
}

// Check 执行 action 对应的规则，被拒绝时记录指标
func Check(action Action, in Input) error {
	rule, ok := rules[action]
	if !ok {
		return errs.Internal(nil, "unknown policy action "+string(action))
	}
	if err := rule(in); err != nil {
		metrics.RecordPolicyDenial(string(action), string(errs.ReasonOf(err)))
		return err
	}
	return nil
}

func RequireMember(in Input) error {
	if in.Actor == nil {
		return errs.Unauthorized(errs.ReasonNotMember, "You are not a member of this workspace")
	}
	return nil
}

func CanManageWorkspace(in Input) error {
	if err := RequireMember(in); err != nil {
		return err
	}
	if !in.Actor.Role.IsAdmin() {
		return errs.Unauthorized(errs.ReasonNotAdmin, "Only administrators can manage the workspace")
	}
	return nil
}

func isSelf(in Input) bool {
	return in.Target != nil && in.Actor.Id == in.Target.Id
}

// CanRemoveMember 管理员可移除他人，成员可移除自己；
// 唯一成员的判断放在角色判断之前，保证单成员工作空间总是返回 Conflict
func CanRemoveMember(in Input) error {
	if err := RequireMember(in); err != nil {
		return err
	}
	if in.MemberCount <= 1 {
		return errs.Conflict(errs.ReasonSoleMember, "Cannot delete the only member of the workspace")
	}
	if !isSelf(in) && !in.Actor.Role.IsAdmin() {
		return errs.Unauthorized(errs.ReasonNotAdmin, "Only administrators can remove other members")
	}
	if in.Target != nil && in.Target.UserId == in.OwnerId {
		return errs.Conflict(errs.ReasonIsOwner, "Cannot delete the owner of the workspace")
	}
	return nil
}

// CanChangeRole 只有管理员可以改角色；所有者和最后一个管理员不能降级
func CanChangeRole(in Input) error {
	if err := RequireMember(in); err != nil {
		return err
	}
	if _, err := model.ParseRole(string(in.NewRole)); err != nil {
		return errs.Validation("%v", err)
	}
	demote := !in.NewRole.IsAdmin()
	if demote && in.MemberCount <= 1 {
		return errs.Conflict(errs.ReasonSoleMember, "Cannot downgrade the only member of the workspace")
	}
	if !in.Actor.Role.IsAdmin() {
		return errs.Unauthorized(errs.ReasonNotAdmin, "Only administrators can change member roles")
	}
	if in.Target == nil {
		return errs.NotFound("member not found")
	}
	if !demote {
		if in.Target.Role.IsAdmin() {
			if isSelf(in) {
				return errs.Conflict(errs.ReasonAlreadyAdmin, "You are already an administrator")
			}
			return errs.Conflict(errs.ReasonAlreadyAdmin, "Member is already an administrator")
		}
		return nil
	}
	if in.Target.UserId == in.OwnerId {
		return errs.Conflict(errs.ReasonIsOwner, "Cannot downgrade the owner of the workspace")
	}
	if in.Target.Role.IsAdmin() && in.AdminCount <= 1 {
		return errs.Conflict(errs.ReasonLastAdmin, "Cannot downgrade the last administrator")
	}
	return nil
}

// CanAccessSkills 本人或管理员可以读写技能
func CanAccessSkills(in Input) error {
	if err := RequireMember(in); err != nil {
		return err
	}
	if !isSelf(in) && !in.Actor.Role.IsAdmin() {
		return errs.Unauthorized(errs.ReasonNotSelf, "You can only manage your own skills")
	}
	return nil
}
