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
	"fmt"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/pkg/database"
)

// Repositories 统一管理所有 repository
type Repositories struct {
	User      IUserRepository
	Workspace IWorkspaceRepository
	Member    IMemberRepository
	Project   IProjectRepository
	Task      ITaskRepository
	Skill     ISkillRepository
}

// NewRepositories 初始化所有 repository
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		User:      NewUserRepo(db),
		Workspace: NewWorkspaceRepo(db),
		Member:    NewMemberRepo(db),
		Project:   NewProjectRepo(db),
		Task:      NewTaskRepo(db),
		Skill:     NewSkillRepo(db),
	}
}

// AutoMigrate 创建或更新全部表结构
func AutoMigrate(db database.IDatabase) error {
	if err := db.Database().AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
