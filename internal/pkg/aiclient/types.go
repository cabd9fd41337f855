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

package aiclient

/**
 * @file: types.go
 * @description: AI 匹配服务请求响应结构，字段使用 snake_case
 */

type Skill struct {
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	PreferredExperience float64 `json:"preferred_experience"`
	RequiredProficiency int     `json:"required_proficiency"`
}

type Task struct {
	TaskId         string      `json:"task_id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Complexity     int         `json:"complexity"`
	EstimatedHours float64     `json:"estimated_hours"`
	RequiredSkills []Skill     `json:"required_skills"`
	DependsOn      []string    `json:"depends_on,omitempty"`
	ProjectId      string      `json:"project_id,omitempty"`
	ManagerId      string      `json:"manager_id,omitempty"`
	MatchedUsers   []UserMatch `json:"matched_users,omitempty"`
}

type UserSkill struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	ExperienceYears  float64 `json:"experience_years"`
	ProficiencyScore int     `json:"proficiency_score"`
}

// UserWithSkills Id 是成员 id
type UserWithSkills struct {
	Id            string      `json:"id"`
	Name          string      `json:"name"`
	PrimaryDomain string      `json:"primary_domain,omitempty"`
	Skills        []UserSkill `json:"skills"`
}

// UserMatch UserId 与建索引时提交的 UserWithSkills.Id 一致
type UserMatch struct {
	UserId        string  `json:"user_id"`
	Name          string  `json:"name"`
	MatchScore    float64 `json:"match_score"`
	SkillCoverage float64 `json:"skill_coverage"`
}

type generateReq struct {
	ProjectDescription string `json:"project_description"`
	ProjectId          string `json:"project_id"`
	ManagerId          string `json:"manager_id"`
}

type usersReq struct {
	Users     []UserWithSkills `json:"users"`
	ProjectId string           `json:"project_id"`
	ManagerId string           `json:"manager_id"`
}

type tasksReq struct {
	Tasks     []Task `json:"tasks"`
	ProjectId string `json:"project_id"`
	ManagerId string `json:"manager_id"`
}

type taskReq struct {
	Task      Task   `json:"task"`
	ProjectId string `json:"project_id"`
	ManagerId string `json:"manager_id"`
}

type tasksResp struct {
	Tasks []Task `json:"tasks"`
}

type matchedUsersResp struct {
	Task         Task        `json:"task"`
	MatchedUsers []UserMatch `json:"matched_users"`
}
