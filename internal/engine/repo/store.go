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
	"errors"
	"fmt"
	"sort"

	"github.com/go-arcade/planboard/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/**
 * @file: store.go
 * @description: 通用存储，按模型对应的表执行增删改查
 */

// Filter 列名到值的映射；值为 AnyOf 时按 IN 查询，否则按相等查询
type Filter map[string]any

type anyOf []any

// AnyOf 构造 IN 条件，空集合不会匹配任何记录
func AnyOf[T any](values ...T) any {
	set := make(anyOf, 0, len(values))
	for _, v := range values {
		set = append(set, v)
	}
	return set
}

type ListOptions struct {
	Limit  int
	Offset int
	Sort   string // 例如 "created_at DESC"
}

const defaultListLimit = 1000

type Store[T any] struct {
	database.IDatabase
}

func NewStore[T any](db database.IDatabase) *Store[T] {
	return &Store[T]{IDatabase: db}
}

func (s *Store[T]) db(ctx context.Context) *gorm.DB {
	return s.Database().WithContext(ctx)
}

// Create 写入记录，id 和时间戳由模型钩子生成
func (s *Store[T]) Create(ctx context.Context, record *T) error {
	return s.db(ctx).Create(record).Error
}

// Get 不存在时返回 nil, nil
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	var record T
	err := s.db(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update 部分更新，记录不存在时返回 nil, nil
func (s *Store[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) > 0 {
		var zero T
		result := s.db(ctx).Model(&zero).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
	}
	return s.Get(ctx, id)
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	var zero T
	return s.db(ctx).Where("id = ?", id).Delete(&zero).Error
}

// List 返回一页记录和过滤后的总数
func (s *Store[T]) List(ctx context.Context, filter Filter, opts ListOptions) ([]T, int64, error) {
	var zero T
	query := applyFilter(s.db(ctx).Model(&zero), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	records := make([]T, 0)
	if total == 0 {
		return records, 0, nil
	}
	if err := applyOptions(query, opts).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Find 不分页地返回全部匹配记录
func (s *Store[T]) Find(ctx context.Context, filter Filter, sortBy string) ([]T, error) {
	var zero T
	records := make([]T, 0)
	query := applyFilter(s.db(ctx).Model(&zero), filter)
	if sortBy != "" {
		query = query.Order(sortBy)
	}
	err := query.Find(&records).Error
	return records, err
}

func (s *Store[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	var zero T
	var total int64
	err := applyFilter(s.db(ctx).Model(&zero), filter).Count(&total).Error
	return total, err
}

func applyFilter(tx *gorm.DB, filter Filter) *gorm.DB {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		column := clause.Column{Name: k}
		switch v := filter[k].(type) {
		case anyOf:
			tx = tx.Where(clause.IN{Column: column, Values: v})
		default:
			tx = tx.Where(clause.Eq{Column: column, Value: v})
		}
	}
	return tx
}

func applyOptions(tx *gorm.DB, opts ListOptions) *gorm.DB {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	tx = tx.Limit(limit)
	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}
	if opts.Sort != "" {
		tx = tx.Order(opts.Sort)
	}
	return tx
}
