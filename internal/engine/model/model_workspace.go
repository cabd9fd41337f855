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

/**
 * @file: model_workspace.go
 * @description: 工作空间模型
 */

type Workspace struct {
	BaseModel
	Name       string `gorm:"column:name;not null" json:"name"`
	ImageUrl   string `gorm:"column:image_url" json:"imageUrl"`
	InviteCode string `gorm:"column:invite_code;not null;size:16;index" json:"inviteCode"`
	UserId     string `gorm:"column:user_id;not null;size:36;index" json:"userId"` // 创建者即所有者
}

func (Workspace) TableName() string {
	return "t_workspace"
}

type CreateWorkspaceReq struct {
	Name     string `json:"name"`
	ImageUrl string `json:"imageUrl"`
}

type UpdateWorkspaceReq struct {
	Name     *string `json:"name"`
	ImageUrl *string `json:"imageUrl"`
}

type JoinWorkspaceReq struct {
	InviteCode string `json:"code"`
}

// Analytics 本月与上月的任务统计
type Analytics struct {
	TaskCount                int `json:"taskCount"`
	TaskDifference           int `json:"taskDifference"`
	AssignedTaskCount        int `json:"assignedTaskCount"`
	AssignedTaskDifference   int `json:"assignedTaskDifference"`
	IncompleteTaskCount      int `json:"incompleteTaskCount"`
	IncompleteTaskDifference int `json:"incompleteTaskDifference"`
	CompleteTaskCount        int `json:"completeTaskCount"`
	CompleteTaskDifference   int `json:"completeTaskDifference"`
	OverdueTaskCount         int `json:"overdueTaskCount"`
	OverdueTaskDifference    int `json:"overdueTaskDifference"`
}
