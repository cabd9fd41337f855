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
	"time"

	"github.com/go-arcade/planboard/pkg/id"
	"gorm.io/gorm"
)

/**
 * @file: model.go
 * @description: base model
 */

type BaseModel struct {
	Id        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate 创建前生成 uuid
func (m *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if m.Id == "" {
		m.Id = id.GetUUID()
	}
	return nil
}

// ListResp 列表响应
type ListResp[T any] struct {
	Documents []T   `json:"documents"`
	Total     int64 `json:"total"`
}

// All 返回迁移需要的全部模型
func All() []any {
	return []any{
		&User{},
		&Workspace{},
		&Member{},
		&Project{},
		&Task{},
		&Skill{},
	}
}
