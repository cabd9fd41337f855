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
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/redis/go-redis/v9"
)

// HybridCacheConfig holds hybrid cache configuration
type HybridCacheConfig struct {
	LocalTTLRatio float64 // 本地 TTL 相对远端的比例 (0.0-1.0)
}

// HybridCache 本地 fastcache + 远端 Redis 两级缓存
// 读：先本地后远端，远端命中时回填本地；写与删除同时作用于两级
type HybridCache struct {
	local  *FastCache
	remote ICache
	config HybridCacheConfig
}

// NewHybridCache creates a new HybridCache instance; local may be nil
func NewHybridCache(local *FastCache, remote ICache, config HybridCacheConfig) *HybridCache {
	return &HybridCache{
		local:  local,
		remote: remote,
		config: config,
	}
}

func (hc *HybridCache) localTTL(remoteTTL time.Duration) time.Duration {
	if hc.config.LocalTTLRatio > 0 && hc.config.LocalTTLRatio < 1.0 {
		return time.Duration(float64(remoteTTL) * hc.config.LocalTTLRatio)
	}
	return remoteTTL
}

// Get retrieves a value, local first
func (hc *HybridCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if hc.local != nil {
		if cmd := hc.local.Get(ctx, key); cmd.Err() == nil {
			log.Debugw("hybrid cache hit (local)", "key", key)
			return cmd
		}
	}

	cmd := hc.remote.Get(ctx, key)
	if cmd.Err() != nil {
		if !errors.Is(cmd.Err(), redis.Nil) {
			log.Warnw("hybrid cache remote get failed", "key", key, "error", cmd.Err())
		}
		return cmd
	}

	if hc.local != nil {
		ttl := time.Hour
		if remaining, err := hc.remote.TTL(ctx, key).Result(); err == nil && remaining > 0 {
			ttl = remaining
		}
		hc.local.Set(ctx, key, cmd.Val(), hc.localTTL(ttl))
	}
	log.Debugw("hybrid cache hit (remote)", "key", key)
	return cmd
}

// Set sets a value in both levels
func (hc *HybridCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	var valueStr string
	switch v := value.(type) {
	case string:
		valueStr = v
	case []byte:
		valueStr = string(v)
	default:
		var err error
		valueStr, err = sonic.MarshalString(v)
		if err != nil {
			cmd := redis.NewStatusCmd(ctx, "set", key)
			cmd.SetErr(err)
			return cmd
		}
	}

	if hc.local != nil {
		hc.local.Set(ctx, key, valueStr, hc.localTTL(expiration))
	}
	return hc.remote.Set(ctx, key, valueStr, expiration)
}

// Del deletes keys from both levels
func (hc *HybridCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if hc.local != nil {
		hc.local.Del(ctx, keys...)
	}
	return hc.remote.Del(ctx, keys...)
}

// Expire sets the expiration time in both levels
func (hc *HybridCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if hc.local != nil {
		hc.local.Expire(ctx, key, hc.localTTL(expiration))
	}
	return hc.remote.Expire(ctx, key, expiration)
}

// TTL 以远端为准
func (hc *HybridCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return hc.remote.TTL(ctx, key)
}
