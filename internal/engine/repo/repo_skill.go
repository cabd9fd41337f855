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

type ISkillRepository interface {
	ListSkills(ctx context.Context, memberId string) ([]model.Skill, error)
	ListSkillsByMembers(ctx context.Context, memberIds []string) ([]model.Skill, error)
	ReplaceSkills(ctx context.Context, memberId, workspaceId string, skills []model.Skill) ([]model.Skill, error)
}

type SkillRepo struct {
	*Store[model.Skill]
}

func NewSkillRepo(db database.IDatabase) ISkillRepository {
	return &SkillRepo{Store: NewStore[model.Skill](db)}
}

func (r *SkillRepo) ListSkills(ctx context.Context, memberId string) ([]model.Skill, error) {
	return r.Find(ctx, Filter{"member_id": memberId}, "created_at ASC")
}

func (r *SkillRepo) ListSkillsByMembers(ctx context.Context, memberIds []string) ([]model.Skill, error) {
	if len(memberIds) == 0 {
		return []model.Skill{}, nil
	}
	return r.Find(ctx, Filter{"member_id": AnyOf(memberIds...)}, "created_at ASC")
}

// ReplaceSkills 整体替换成员技能：同一事务内先删后插，读者不会看到中间状态
func (r *SkillRepo) ReplaceSkills(ctx context.Context, memberId, workspaceId string, skills []model.Skill) ([]model.Skill, error) {
	err := r.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberId).Delete(&model.Skill{}).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			return nil
		}
		for i := range skills {
			skills[i].Id = ""
			skills[i].MemberId = memberId
			skills[i].WorkspaceId = workspaceId
		}
		return tx.Create(&skills).Error
	})
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	return skills, nil
}
