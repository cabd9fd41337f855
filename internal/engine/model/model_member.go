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

package model

import "fmt"

/**
 * @file: model_member.go
 * @description: 工作空间成员模型
 */

// Role 成员角色，只允许 ADMIN / MEMBER
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Member 用户在某个工作空间内的成员身份，与用户 id 属于不同的 id 空间
type Member struct {
	BaseModel
	WorkspaceId string `gorm:"column:workspace_id;not null;size:36;index:idx_member_user_workspace,unique,priority:2;index" json:"workspaceId"`
	UserId      string `gorm:"column:user_id;not null;size:36;index:idx_member_user_workspace,unique,priority:1" json:"userId"`
	Role        Role   `gorm:"column:role;not null;size:16;default:MEMBER" json:"role"`
}

func (Member) TableName() string {
	return "t_member"
}

// MemberResp 成员列表项，带用户名称和邮箱
type MemberResp struct {
	Member
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateRoleReq struct {
	Role string `json:"role"`
}
