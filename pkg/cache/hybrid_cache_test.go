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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFastCache_SetGetDel(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	ctx := context.Background()

	assert.ErrorIs(t, fc.Get(ctx, "missing").Err(), redis.Nil)
	assert.Equal(t, time.Duration(-2), fc.TTL(ctx, "missing").Val())

	require.NoError(t, fc.Set(ctx, "k", "v", 0).Err())
	assert.Equal(t, "v", fc.Get(ctx, "k").Val())
	assert.Equal(t, time.Duration(-1), fc.TTL(ctx, "k").Val())

	require.NoError(t, fc.Set(ctx, "obj", TestData{ID: 1, Name: "x"}, time.Hour).Err())
	assert.JSONEq(t, `{"id":1,"name":"x"}`, fc.Get(ctx, "obj").Val())
	assert.Greater(t, fc.TTL(ctx, "obj").Val(), time.Duration(0))

	assert.Equal(t, int64(2), fc.Del(ctx, "k", "obj", "missing").Val())
	assert.ErrorIs(t, fc.Get(ctx, "k").Err(), redis.Nil)

	fc.Set(ctx, "a", "1", 0)
	fc.Clear()
	assert.ErrorIs(t, fc.Get(ctx, "a").Err(), redis.Nil)
}

func TestFastCache_Expiration(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "short", "value", 20*time.Millisecond)
	assert.Equal(t, "value", fc.Get(ctx, "short").Val())

	time.Sleep(40 * time.Millisecond)
	assert.ErrorIs(t, fc.Get(ctx, "short").Err(), redis.Nil)
	assert.False(t, fc.Expire(ctx, "short", time.Hour).Val())
}

func TestHybridCache_RemoteHitFillsLocal(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	local := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	hc := NewHybridCache(local, NewRedisCache(client), HybridCacheConfig{LocalTTLRatio: 0.5})

	require.NoError(t, mr.Set("profile:1", `{"id":1}`))
	mr.SetTTL("profile:1", time.Minute)

	assert.Equal(t, `{"id":1}`, hc.Get(ctx, "profile:1").Val())
	assert.Equal(t, `{"id":1}`, local.Get(ctx, "profile:1").Val())

	// 远端删除后本地仍可命中
	mr.Del("profile:1")
	assert.Equal(t, `{"id":1}`, hc.Get(ctx, "profile:1").Val())
}

func TestHybridCache_SetAndDelBothLevels(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	local := NewFastCache(FastCacheConfig{})
	hc := NewHybridCache(local, NewRedisCache(client), HybridCacheConfig{})

	require.NoError(t, hc.Set(ctx, "k", TestData{ID: 3}, time.Minute).Err())
	remote, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":""}`, remote)
	assert.Equal(t, remote, local.Get(ctx, "k").Val())

	assert.Equal(t, int64(1), hc.Del(ctx, "k").Val())
	assert.ErrorIs(t, hc.Get(ctx, "k").Err(), redis.Nil)
	assert.False(t, mr.Exists("k"))
}

func TestHybridCache_WithoutLocal(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	hc := NewHybridCache(nil, NewRedisCache(client), HybridCacheConfig{})
	require.NoError(t, hc.Set(ctx, "k", "v", time.Minute).Err())
	assert.Equal(t, "v", hc.Get(ctx, "k").Val())
	assert.True(t, hc.Expire(ctx, "k", time.Hour).Val())
	assert.Greater(t, hc.TTL(ctx, "k").Val(), time.Minute)
}

func TestCachedQuery_OverHybridCache(t *testing.T) {
	_, client := newTestRedis(t)
	hc := NewHybridCache(NewFastCache(FastCacheConfig{}), NewRedisCache(client), HybridCacheConfig{})

	calls := 0
	cq := NewCachedQuery(hc, testKey, func(ctx context.Context, params ...any) (TestData, error) {
		calls++
		return TestData{ID: 5, Name: "db"}, nil
	})

	for i := 0; i < 3; i++ {
		result, err := cq.Get(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, "db", result.Name)
	}
	assert.Equal(t, 1, calls)
}

func TestNewRedis_UnsupportedMode(t *testing.T) {
	_, err := NewRedis(Redis{Mode: "cluster-x"})
	assert.Error(t, err)
}

func TestNewRedis_Single(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(Redis{Mode: "single", Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
