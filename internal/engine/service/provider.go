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
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(ProvideServices)

// ProvideServices 提供统一的 Services 实例
func ProvideServices(
	repos *repo.Repositories,
	c cache.ICache,
	client redis.Cmdable,
	auth httpx.Auth,
	ai aiclient.IClient,
	board optimize.Board,
) *Services {
	return NewServices(repos, c, client, auth, ai, board)
}
