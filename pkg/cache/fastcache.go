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
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is a local in-process cache on top of VictoriaMetrics fastcache.
// fastcache has no TTL, so expirations are tracked aside and checked on read.
type FastCache struct {
	cache *fastcache.Cache
	mu    sync.RWMutex
	ttls  map[string]time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		ttls:  make(map[string]time.Time),
	}
}

func (fc *FastCache) expired(key string, now time.Time) bool {
	exp, ok := fc.ttls[key]
	return ok && now.After(exp)
}

// Get returns the value for the given key, redis.Nil on miss
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)

	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if fc.expired(key, time.Now()) {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	value, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

// Set sets the value for the given key with expiration
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Set([]byte(key), valueBytes)
	if expiration > 0 {
		fc.ttls[key] = time.Now().Add(expiration)
	} else {
		delete(fc.ttls, key)
	}
	cmd.SetVal("OK")
	return cmd
}

// Del deletes the given keys
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")

	fc.mu.Lock()
	defer fc.mu.Unlock()

	now := time.Now()
	var count int64
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) && !fc.expired(key, now) {
			count++
		}
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
	}
	cmd.SetVal(count)
	return cmd
}

// Expire sets the expiration time for a key
func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if !fc.cache.Has([]byte(key)) || fc.expired(key, time.Now()) {
		cmd.SetVal(false)
		return cmd
	}
	fc.ttls[key] = time.Now().Add(expiration)
	cmd.SetVal(true)
	return cmd
}

// TTL follows redis semantics: -2 missing, -1 no expiration
func (fc *FastCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)

	fc.mu.RLock()
	defer fc.mu.RUnlock()

	now := time.Now()
	if !fc.cache.Has([]byte(key)) || fc.expired(key, now) {
		cmd.SetVal(-2)
		return cmd
	}
	exp, ok := fc.ttls[key]
	if !ok {
		cmd.SetVal(-1)
		return cmd
	}
	cmd.SetVal(exp.Sub(now))
	return cmd
}

// Clear 清空本地缓存
func (fc *FastCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Reset()
	fc.ttls = make(map[string]time.Time)
}
