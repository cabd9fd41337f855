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
 * @file: model_project.go
 * @description: 项目模型
 */

type GenerationType string

const (
	GenerationManual      GenerationType = "manual"
	GenerationAIGenerated GenerationType = "ai_generated"
)

func ParseGenerationType(s string) (GenerationType, error) {
	switch GenerationType(s) {
	case "":
		return GenerationManual, nil
	case GenerationManual, GenerationAIGenerated:
		return GenerationType(s), nil
	}
	return "", fmt.Errorf("invalid generation type %q", s)
}

type Project struct {
	BaseModel
	Name           string         `gorm:"column:name;not null" json:"name"`
	ImageUrl       string         `gorm:"column:image_url" json:"imageUrl"`
	WorkspaceId    string         `gorm:"column:workspace_id;not null;size:36;index" json:"workspaceId"`
	GenerationType GenerationType `gorm:"column:generation_type;size:16;default:manual" json:"generationType"`
	Prompt         string         `gorm:"column:prompt;type:text" json:"prompt"`
}

func (Project) TableName() string {
	return "t_project"
}

type CreateProjectReq struct {
	Name           string `json:"name"`
	ImageUrl       string `json:"imageUrl"`
	WorkspaceId    string `json:"workspaceId"`
	GenerationType string `json:"generationType"`
	Prompt         string `json:"prompt"`
}

type UpdateProjectReq struct {
	Name     *string `json:"name"`
	ImageUrl *string `json:"imageUrl"`
}
