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

package cache

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供缓存依赖（Redis + 本地 FastCache）
var ProviderSet = wire.NewSet(
	ProvideRedis,
	ProvideRedisCmdable,
	ProvideICache,
)

// ProvideRedis 提供 Redis 实例，cleanup 关闭连接
func ProvideRedis(conf Redis) (*redis.Client, func(), error) {
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRedisCmdable 以接口形式暴露 Redis 客户端
func ProvideRedisCmdable(client *redis.Client) redis.Cmdable {
	return client
}

// ProvideICache 提供两级缓存，LocalMaxBytes 为 0 时只使用 Redis
func ProvideICache(conf Redis, client redis.Cmdable) ICache {
	var local *FastCache
	if conf.LocalMaxBytes > 0 {
		local = NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes})
	}
	return NewHybridCache(local, NewRedisCache(client), HybridCacheConfig{
		LocalTTLRatio: conf.LocalTTLRatio,
	})
}
