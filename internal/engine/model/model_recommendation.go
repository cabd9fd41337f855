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
 * @file: model_recommendation.go
 * @description: 分配建议，按需计算不落库
 */

// Match AI 服务给出的候选人匹配结果，CandidateId 已在边界处转换为用户 id
type Match struct {
	CandidateId   string  `json:"candidateId"`
	Name          string  `json:"name"`
	MatchScore    float64 `json:"matchScore"`
	SkillCoverage float64 `json:"skillCoverage"`
}

type Recommendation struct {
	TaskId              string  `json:"taskId"`
	SuggestedAssigneeId string  `json:"suggestedAssigneeId"`
	SuggestedMemberId   string  `json:"suggestedMemberId,omitempty"`
	Confidence          float64 `json:"confidence"`
	Reason              string  `json:"reason"`
}

type AssigneeKind string

const (
	AssigneeByMember AssigneeKind = "member"
	AssigneeByUser   AssigneeKind = "user"
)

// AssigneeRef 负责人引用，必须显式声明是成员 id 还是用户 id
type AssigneeRef struct {
	Kind AssigneeKind `json:"kind"`
	Id   string       `json:"id"`
}

func (a *AssigneeRef) Validate() error {
	switch a.Kind {
	case AssigneeByMember, AssigneeByUser:
		return nil
	}
	return fmt.Errorf("invalid assignee kind %q", a.Kind)
}

// IsClear 空 id 表示取消分配
func (a *AssigneeRef) IsClear() bool {
	return a.Id == ""
}
