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
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/database"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

type ITaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	CreateTasks(ctx context.Context, tasks []model.Task) error
	GetTaskById(ctx context.Context, taskId string) (*model.Task, error)
	GetTasksByIds(ctx context.Context, taskIds []string) ([]model.Task, error)
	ListTasks(ctx context.Context, query *model.TaskQuery) ([]model.Task, int64, error)
	ListTasksByWorkspace(ctx context.Context, workspaceId string) ([]model.Task, error)
	ListTasksByProject(ctx context.Context, projectId string) ([]model.Task, error)
	ListTasksByStatus(ctx context.Context, workspaceId string, status model.TaskStatus) ([]model.Task, error)
	ListTasksCreatedBetween(ctx context.Context, filter Filter, start, end time.Time) ([]model.Task, error)
	UpdateTask(ctx context.Context, taskId string, updates map[string]any) (*model.Task, error)
	DeleteTask(ctx context.Context, taskId string) error
	BulkReorder(ctx context.Context, items []model.ReorderItem) ([]model.Task, error)
}

type TaskRepo struct {
	*Store[model.Task]
}

func NewTaskRepo(db database.IDatabase) ITaskRepository {
	return &TaskRepo{Store: NewStore[model.Task](db)}
}

func (r *TaskRepo) CreateTask(ctx context.Context, task *model.Task) error {
	normalizeTask(task)
	return r.Create(ctx, task)
}

// CreateTasks 批量创建，用于 AI 生成项目
func (r *TaskRepo) CreateTasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return r.db(ctx).Create(&tasks).Error
}

func (r *TaskRepo) GetTaskById(ctx context.Context, taskId string) (*model.Task, error) {
	return r.Get(ctx, taskId)
}

func (r *TaskRepo) GetTasksByIds(ctx context.Context, taskIds []string) ([]model.Task, error) {
	if len(taskIds) == 0 {
		return []model.Task{}, nil
	}
	return r.Find(ctx, Filter{"id": AnyOf(taskIds...)}, "")
}

// ListTasks 按条件分页查询，search 对名称做模糊匹配，dueDate 匹配当天
func (r *TaskRepo) ListTasks(ctx context.Context, query *model.TaskQuery) ([]model.Task, int64, error) {
	filter := Filter{"workspace_id": query.WorkspaceId}
	if query.ProjectId != "" {
		filter["project_id"] = query.ProjectId
	}
	if query.AssigneeId != "" {
		filter["assignee_id"] = query.AssigneeId
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}

	tx := applyFilter(r.db(ctx).Model(&model.Task{}), filter)
	if query.Search != "" {
		tx = tx.Where("name LIKE ?", "%"+query.Search+"%")
	}
	if query.DueDate != "" {
		day, err := time.ParseInLocation(dueDateLayout, query.DueDate, time.Local)
		if err != nil {
			return nil, 0, errs.Validation("invalid dueDate %q, expected YYYY-MM-DD", query.DueDate)
		}
		tx = tx.Where("due_date >= ? AND due_date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tasks := make([]model.Task, 0)
	if total == 0 {
		return tasks, 0, nil
	}

	opts := ListOptions{Sort: "created_at DESC"}
	if query.PageSize > 0 {
		opts.Limit = query.PageSize
		if query.Page > 1 {
			opts.Offset = (query.Page - 1) * query.PageSize
		}
	}
	if err := applyOptions(tx, opts).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepo) ListTasksByWorkspace(ctx context.Context, workspaceId string) ([]model.Task, error) {
	return r.Find(ctx, Filter{"workspace_id": workspaceId}, "position ASC")
}

func (r *TaskRepo) ListTasksByProject(ctx context.Context, projectId string) ([]model.Task, error) {
	return r.Find(ctx, Filter{"project_id": projectId}, "position ASC")
}

// ListTasksByStatus 同一看板列的任务，用于计算新任务位置
func (r *TaskRepo) ListTasksByStatus(ctx context.Context, workspaceId string, status model.TaskStatus) ([]model.Task, error) {
	return r.Find(ctx, Filter{"workspace_id": workspaceId, "status": status}, "position ASC")
}

// ListTasksCreatedBetween 创建时间落在 [start, end) 内的任务
func (r *TaskRepo) ListTasksCreatedBetween(ctx context.Context, filter Filter, start, end time.Time) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	err := applyFilter(r.db(ctx).Model(&model.Task{}), filter).
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepo) UpdateTask(ctx context.Context, taskId string, updates map[string]any) (*model.Task, error) {
	return r.Update(ctx, taskId, updates)
}

func (r *TaskRepo) DeleteTask(ctx context.Context, taskId string) error {
	return r.Delete(ctx, taskId)
}

// BulkReorder 在一个事务内写入全部 (status, position)，任一任务不存在则整体回滚
func (r *TaskRepo) BulkReorder(ctx context.Context, items []model.ReorderItem) ([]model.Task, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	err := r.db(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := applyFilter(tx.Model(&model.Task{}), Filter{"id": AnyOf(ids...)}).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(ids)) {
			return errs.NotFound("some tasks to reorder were not found")
		}
		for _, item := range items {
			err := tx.Model(&model.Task{}).Where("id = ?", item.Id).Updates(map[string]any{
				"status":   item.Status,
				"position": item.Position,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetTasksByIds(ctx, ids)
}

// normalizeTask JSON 列统一写入数组，避免 NULL
func normalizeTask(task *model.Task) {
	if task.DependsOn == nil {
		task.DependsOn = []string{}
	}
	if task.AISuggestedAssignees == nil {
		task.AISuggestedAssignees = []string{}
	}
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}
}
