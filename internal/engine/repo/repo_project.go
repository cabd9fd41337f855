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

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/pkg/database"
	"gorm.io/gorm"
)

type IProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectById(ctx context.Context, projectId string) (*model.Project, error)
	GetProjectsByIds(ctx context.Context, projectIds []string) ([]model.Project, error)
	ListProjects(ctx context.Context, workspaceId string) ([]model.Project, int64, error)
	UpdateProject(ctx context.Context, projectId string, updates map[string]any) (*model.Project, error)
	DeleteProject(ctx context.Context, projectId string) error
}

type ProjectRepo struct {
	*Store[model.Project]
}

func NewProjectRepo(db database.IDatabase) IProjectRepository {
	return &ProjectRepo{Store: NewStore[model.Project](db)}
}

func (r *ProjectRepo) CreateProject(ctx context.Context, project *model.Project) error {
	return r.Create(ctx, project)
}

func (r *ProjectRepo) GetProjectById(ctx context.Context, projectId string) (*model.Project, error) {
	return r.Get(ctx, projectId)
}

func (r *ProjectRepo) GetProjectsByIds(ctx context.Context, projectIds []string) ([]model.Project, error) {
	if len(projectIds) == 0 {
		return []model.Project{}, nil
	}
	return r.Find(ctx, Filter{"id": AnyOf(projectIds...)}, "")
}

// ListProjects 按创建时间倒序
func (r *ProjectRepo) ListProjects(ctx context.Context, workspaceId string) ([]model.Project, int64, error) {
	return r.List(ctx, Filter{"workspace_id": workspaceId}, ListOptions{Sort: "created_at DESC"})
}

func (r *ProjectRepo) UpdateProject(ctx context.Context, projectId string, updates map[string]any) (*model.Project, error) {
	return r.Update(ctx, projectId, updates)
}

// DeleteProject 同时删除项目下的任务
func (r *ProjectRepo) DeleteProject(ctx context.Context, projectId string) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectId).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", projectId).Delete(&model.Project{}).Error
	})
}
