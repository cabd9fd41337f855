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
 * @file: model_skill.go
 * @description: 成员技能模型
 */

const (
	MaxExperienceYears = 50
	MaxProficiency     = 100
)

// Skill 成员技能，更新时整体替换
type Skill struct {
	BaseModel
	MemberId         string  `gorm:"column:member_id;not null;size:36;index:idx_skill_member_workspace,priority:1" json:"memberId"`
	WorkspaceId      string  `gorm:"column:workspace_id;not null;size:36;index:idx_skill_member_workspace,priority:2" json:"workspaceId"`
	Name             string  `gorm:"column:name;not null" json:"name"`
	Category         string  `gorm:"column:category;not null;size:64;index" json:"category"`
	ExperienceYears  float64 `gorm:"column:experience_years;not null;default:0" json:"experienceYears"`
	ProficiencyScore int     `gorm:"column:proficiency_score;not null;default:0" json:"proficiencyScore"`
}

func (Skill) TableName() string {
	return "t_skill"
}

type SkillInput struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	ExperienceYears  float64 `json:"experience_years"`
	ProficiencyScore int     `json:"proficiency_score"`
}

type ReplaceSkillsReq struct {
	Skills []SkillInput `json:"skills"`
}
