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

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

/**
 * @file: model_task.go
 * @description: 任务模型
 */

// TaskStatus 看板列，顺序只由工作流语义决定
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BACKLOG"
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("invalid task status %q", s)
}

type Task struct {
	BaseModel
	Name                 string                      `gorm:"column:name;not null" json:"name"`
	Description          string                      `gorm:"column:description;type:text" json:"description"`
	Status               TaskStatus                  `gorm:"column:status;not null;size:16;default:TODO;index:idx_task_workspace_status,priority:2" json:"status"`
	WorkspaceId          string                      `gorm:"column:workspace_id;not null;size:36;index:idx_task_workspace_status,priority:1" json:"workspaceId"`
	ProjectId            string                      `gorm:"column:project_id;size:36;index" json:"projectId"`
	AssigneeId           string                      `gorm:"column:assignee_id;size:36;index" json:"assigneeId"` // 用户 id，不是成员 id
	Position             int                         `gorm:"column:position;not null;default:0" json:"position"`
	DueDate              time.Time                   `gorm:"column:due_date;index" json:"dueDate"`
	DependsOn            datatypes.JSONSlice[string] `gorm:"column:depends_on" json:"dependsOn"`
	AISuggestedAssignees datatypes.JSONSlice[string] `gorm:"column:ai_suggested_assignees" json:"aiSuggestedAssignees"`
}

func (Task) TableName() string {
	return "t_task"
}

// HasAssignee 是否已分配
func (t *Task) HasAssignee() bool {
	return t.AssigneeId != ""
}

// TaskResp 任务详情，带项目和负责人
type TaskResp struct {
	Task
	Project  *Project     `json:"project"`
	Assignee *AssigneeDTO `json:"assignee"`
}

type AssigneeDTO struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateTaskReq struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	WorkspaceId string       `json:"workspaceId"`
	ProjectId   string       `json:"projectId"`
	DueDate     time.Time    `json:"dueDate"`
	Assignee    *AssigneeRef `json:"assignee"`
	DependsOn   []string     `json:"dependsOn"`
}

// UpdateTaskReq 部分更新；Assignee 非空且 Id 为空表示取消分配
type UpdateTaskReq struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	ProjectId   *string      `json:"projectId"`
	DueDate     *time.Time   `json:"dueDate"`
	Assignee    *AssigneeRef `json:"assignee"`
	DependsOn   *[]string    `json:"dependsOn"`
}

type TaskQuery struct {
	WorkspaceId string `query:"workspaceId"`
	ProjectId   string `query:"projectId"`
	AssigneeId  string `query:"assigneeId"`
	Status      string `query:"status"`
	Search      string `query:"search"`
	DueDate     string `query:"dueDate"` // YYYY-MM-DD
	Page        int    `query:"page"`
	PageSize    int    `query:"pageSize"`
}

// ReorderItem 批量拖拽排序的一项
type ReorderItem struct {
	Id       string     `json:"id"`
	Status   TaskStatus `json:"status"`
	Position int        `json:"position"`
}

type BulkReorderReq struct {
	Tasks []ReorderItem `json:"tasks"`
}

type BatchRecommendReq struct {
	ProjectId string   `json:"projectId"`
	TaskIds   []string `json:"taskIds"`
}
