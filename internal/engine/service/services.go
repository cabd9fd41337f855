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

package service

import (
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/pkg/cache"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/redis/go-redis/v9"
)

// Services 统一管理所有 service
type Services struct {
	Auth       *AuthService
	Membership *MembershipService
	Workspace  *WorkspaceService
	Member     *MemberService
	Project    *ProjectService
	Task       *TaskService
	Analytics  *AnalyticsService
	Recommend  *RecommendService
	Profiles   *UserProfiles
}

// NewServices 初始化所有 service
func NewServices(
	repos *repo.Repositories,
	c cache.ICache,
	client redis.Cmdable,
	auth httpx.Auth,
	ai aiclient.IClient,
	board optimize.Board,
) *Services {
	// 基础服务
	profiles := NewUserProfiles(repos.User, c)
	membership := NewMembershipService(repos.Member, repos.Project, repos.User)
	authService := NewAuthService(repos.User, client, auth)

	// 推荐服务被项目和任务共用
	recommend := NewRecommendService(ai, repos.Member, repos.Skill, repos.Task, profiles)

	return &Services{
		Auth:       authService,
		Membership: membership,
		Workspace:  NewWorkspaceService(repos.Workspace, repos.Member, membership),
		Member:     NewMemberService(repos.Member, repos.Workspace, repos.Skill, membership, profiles),
		Project:    NewProjectService(repos.Project, repos.Task, membership, recommend, ai, board),
		Task:       NewTaskService(repos.Task, repos.Project, membership, recommend, profiles, board),
		Analytics:  NewAnalyticsService(repos.Task, membership),
		Recommend:  recommend,
		Profiles:   profiles,
	}
}
