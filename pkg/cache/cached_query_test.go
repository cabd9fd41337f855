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
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCache is a simple mock implementation of ICache for testing
type mockCache struct {
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string]string),
	}
}

func (m *mockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	val, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = value.(string)
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	count := int64(0)
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			count++
		}
	}
	cmd := redis.NewIntCmd(ctx, "del", keys)
	cmd.SetVal(count)
	return cmd
}

func (m *mockCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key, expiration)
	_, ok := m.data[key]
	cmd.SetVal(ok)
	return cmd
}

func (m *mockCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)
	cmd.SetVal(-1)
	return cmd
}

type TestData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func testKey(params ...any) string {
	return "test:" + params[0].(string)
}

func TestCachedQuery_Get_CacheHit(t *testing.T) {
	mockCache := newMockCache()
	ctx := context.Background()
	mockCache.Set(ctx, "test:1", `{"id":1,"name":"test"}`, time.Hour)

	queryFunc := func(ctx context.Context, params ...any) (TestData, error) {
		t.Error("queryFunc should not be called on cache hit")
		return TestData{}, nil
	}

	cq := NewCachedQuery(mockCache, testKey, queryFunc, WithLogPrefix[TestData]("[Test]"))

	result, err := cq.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, TestData{ID: 1, Name: "test"}, result)
}

func TestCachedQuery_Get_CacheMiss(t *testing.T) {
	mockCache := newMockCache()
	ctx := context.Background()

	var gotParam string
	queryFunc := func(ctx context.Context, params ...any) (TestData, error) {
		gotParam = params[0].(string)
		return TestData{ID: 2, Name: "from_db"}, nil
	}

	cq := NewCachedQuery(mockCache, testKey, queryFunc, WithTTL[TestData](time.Minute))

	result, err := cq.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "2", gotParam)
	assert.Equal(t, TestData{ID: 2, Name: "from_db"}, result)

	cached, err := mockCache.Get(ctx, "test:2").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"name":"from_db"}`, cached)
}

func TestCachedQuery_Get_QueryErrorIsNotCached(t *testing.T) {
	mockCache := newMockCache()
	ctx := context.Background()
	dbErr := errors.New("database error")

	queryFunc := func(ctx context.Context, params ...any) (TestData, error) {
		return TestData{}, dbErr
	}

	cq := NewCachedQuery(mockCache, testKey, queryFunc)

	_, err := cq.Get(ctx, "3")
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, mockCache.data)
}

func TestCachedQuery_Invalidate(t *testing.T) {
	mockCache := newMockCache()
	ctx := context.Background()
	mockCache.Set(ctx, "test:1", `{"id":1,"name":"test"}`, time.Hour)

	calls := 0
	queryFunc := func(ctx context.Context, params ...any) (TestData, error) {
		calls++
		return TestData{ID: 1, Name: "fresh"}, nil
	}

	cq := NewCachedQuery(mockCache, testKey, queryFunc)
	require.NoError(t, cq.Invalidate(ctx, "1"))

	result, err := cq.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fresh", result.Name)
}

func TestCachedQuery_NilCache(t *testing.T) {
	calls := 0
	cq := NewCachedQuery[TestData](nil, testKey, func(ctx context.Context, params ...any) (TestData, error) {
		calls++
		return TestData{ID: 9}, nil
	})

	for i := 0; i < 2; i++ {
		result, err := cq.Get(context.Background(), "9")
		require.NoError(t, err)
		assert.Equal(t, 9, result.ID)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, cq.Invalidate(context.Background(), "9"))
}
