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
	"errors"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/pkg/database"
	"gorm.io/gorm"
)

type IMemberRepository interface {
	CreateMember(ctx context.Context, member *model.Member) error
	GetMemberById(ctx context.Context, memberId string) (*model.Member, error)
	GetMember(ctx context.Context, workspaceId, userId string) (*model.Member, error)
	ListMembersByWorkspace(ctx context.Context, workspaceId string) ([]model.Member, error)
	ListMembersByUser(ctx context.Context, userId string) ([]model.Member, error)
	CountMembers(ctx context.Context, workspaceId string) (int64, error)
	CountAdmins(ctx context.Context, workspaceId string) (int64, error)
	UpdateMemberRole(ctx context.Context, memberId string, role model.Role) (*model.Member, error)
	DeleteMember(ctx context.Context, memberId string) error
}

type MemberRepo struct {
	*Store[model.Member]
}

func NewMemberRepo(db database.IDatabase) IMemberRepository {
	return &MemberRepo{Store: NewStore[model.Member](db)}
}

func (r *MemberRepo) CreateMember(ctx context.Context, member *model.Member) error {
	return r.Create(ctx, member)
}

func (r *MemberRepo) GetMemberById(ctx context.Context, memberId string) (*model.Member, error) {
	return r.Get(ctx, memberId)
}

// GetMember 查询用户在工作空间内的成员身份，不是成员时返回 nil, nil
func (r *MemberRepo) GetMember(ctx context.Context, workspaceId, userId string) (*model.Member, error) {
	var member model.Member
	err := r.db(ctx).Where("workspace_id = ? AND user_id = ?", workspaceId, userId).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByWorkspace 按加入时间排序，不分页
func (r *MemberRepo) ListMembersByWorkspace(ctx context.Context, workspaceId string) ([]model.Member, error) {
	return r.Find(ctx, Filter{"workspace_id": workspaceId}, "created_at ASC")
}

func (r *MemberRepo) ListMembersByUser(ctx context.Context, userId string) ([]model.Member, error) {
	return r.Find(ctx, Filter{"user_id": userId}, "created_at DESC")
}

func (r *MemberRepo) CountMembers(ctx context.Context, workspaceId string) (int64, error) {
	return r.Count(ctx, Filter{"workspace_id": workspaceId})
}

func (r *MemberRepo) CountAdmins(ctx context.Context, workspaceId string) (int64, error) {
	return r.Count(ctx, Filter{"workspace_id": workspaceId, "role": model.RoleAdmin})
}

func (r *MemberRepo) UpdateMemberRole(ctx context.Context, memberId string, role model.Role) (*model.Member, error) {
	return r.Update(ctx, memberId, map[string]any{"role": role})
}

// DeleteMember 删除成员及其技能
func (r *MemberRepo) DeleteMember(ctx context.Context, memberId string) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberId).Delete(&model.Skill{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", memberId).Delete(&model.Member{}).Error
	})
}
