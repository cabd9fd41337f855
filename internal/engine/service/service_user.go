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
	"context"
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/pkg/cache"
	"github.com/go-arcade/planboard/pkg/log"
	"golang.org/x/sync/errgroup"
)

const (
	userProfileKeyPrefix = "planboard:user:profile:"
	userProfileTTL       = 10 * time.Minute
	unknownUserName      = "Unknown"
	profileLookupLimit   = 8
)

// UserProfiles 用户名称与邮箱的只读缓存，只用于展示，权限判断不走缓存
type UserProfiles struct {
	query *cache.CachedQuery[model.Identity]
}

func NewUserProfiles(userRepo repo.IUserRepository, c cache.ICache) *UserProfiles {
	keyFunc := func(params ...any) string {
		return userProfileKeyPrefix + params[0].(string)
	}
	queryFunc := func(ctx context.Context, params ...any) (model.Identity, error) {
		userId := params[0].(string)
		user, err := userRepo.GetUserById(ctx, userId)
		if err != nil {
			return model.Identity{}, err
		}
		if user == nil {
			return model.Identity{Id: userId, Name: unknownUserName}, nil
		}
		return identityOf(user), nil
	}
	return &UserProfiles{
		query: cache.NewCachedQuery[model.Identity](c, keyFunc, queryFunc,
			cache.WithTTL[model.Identity](userProfileTTL),
			cache.WithLogPrefix[model.Identity]("[UserProfiles]"),
		),
	}
}

// Get 查询失败时降级为 Unknown，不影响列表接口
func (p *UserProfiles) Get(ctx context.Context, userId string) model.Identity {
	identity, err := p.query.Get(ctx, userId)
	if err != nil {
		log.Warnw("load user profile failed", "userId", userId, "error", err)
		return model.Identity{Id: userId, Name: unknownUserName}
	}
	return identity
}

// Many 按 id 去重后并发查询，单个失败同样降级为 Unknown
func (p *UserProfiles) Many(ctx context.Context, userIds []string) map[string]model.Identity {
	unique := make([]string, 0, len(userIds))
	seen := make(map[string]struct{}, len(userIds))
	for _, userId := range userIds {
		if userId == "" {
			continue
		}
		if _, ok := seen[userId]; ok {
			continue
		}
		seen[userId] = struct{}{}
		unique = append(unique, userId)
	}

	results := make([]model.Identity, len(unique))
	var g errgroup.Group
	g.SetLimit(profileLookupLimit)
	for i, userId := range unique {
		g.Go(func() error {
			results[i] = p.Get(ctx, userId)
			return nil
		})
	}
	// Get 不返回错误
	_ = g.Wait()

	out := make(map[string]model.Identity, len(unique))
	for i, userId := range unique {
		out[userId] = results[i]
	}
	return out
}

func identityOf(user *model.User) model.Identity {
	return model.Identity{
		Id:       user.Id,
		Email:    user.Email,
		Name:     user.DisplayName(),
		Verified: user.EmailVerified,
	}
}
