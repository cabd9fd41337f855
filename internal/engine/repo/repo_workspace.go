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

type IWorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, ws *model.Workspace, owner *model.Member) error
	GetWorkspaceById(ctx context.Context, workspaceId string) (*model.Workspace, error)
	GetWorkspaceByInviteCode(ctx context.Context, code string) (*model.Workspace, error)
	ListWorkspacesByIds(ctx context.Context, workspaceIds []string) ([]model.Workspace, int64, error)
	UpdateWorkspace(ctx context.Context, workspaceId string, updates map[string]any) (*model.Workspace, error)
	DeleteWorkspace(ctx context.Context, workspaceId string) error
}

type WorkspaceRepo struct {
	*Store[model.Workspace]
}

func NewWorkspaceRepo(db database.IDatabase) IWorkspaceRepository {
	return &WorkspaceRepo{Store: NewStore[model.Workspace](db)}
}

// CreateWorkspace 创建工作空间，并在同一事务内写入创建者的管理员成员身份
func (r *WorkspaceRepo) CreateWorkspace(ctx context.Context, ws *model.Workspace, owner *model.Member) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		owner.WorkspaceId = ws.Id
		owner.UserId = ws.UserId
		owner.Role = model.RoleAdmin
		return tx.Create(owner).Error
	})
}

func (r *WorkspaceRepo) GetWorkspaceById(ctx context.Context, workspaceId string) (*model.Workspace, error) {
	return r.Get(ctx, workspaceId)
}

// GetWorkspaceByInviteCode 不存在时返回 nil, nil
func (r *WorkspaceRepo) GetWorkspaceByInviteCode(ctx context.Context, code string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.db(ctx).Where("invite_code = ?", code).First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListWorkspacesByIds 按创建时间倒序
func (r *WorkspaceRepo) ListWorkspacesByIds(ctx context.Context, workspaceIds []string) ([]model.Workspace, int64, error) {
	return r.List(ctx, Filter{"id": AnyOf(workspaceIds...)}, ListOptions{Sort: "created_at DESC"})
}

func (r *WorkspaceRepo) UpdateWorkspace(ctx context.Context, workspaceId string, updates map[string]any) (*model.Workspace, error) {
	return r.Update(ctx, workspaceId, updates)
}

// DeleteWorkspace 级联删除成员、技能、项目和任务
func (r *WorkspaceRepo) DeleteWorkspace(ctx context.Context, workspaceId string) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.Task{}, &model.Project{}, &model.Skill{}, &model.Member{}} {
			if err := tx.Where("workspace_id = ?", workspaceId).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", workspaceId).Delete(&model.Workspace{}).Error
	})
}
