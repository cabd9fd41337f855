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

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/pkg/database"
	"gorm.io/gorm"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserById(ctx context.Context, userId string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsersByIds(ctx context.Context, userIds []string) ([]model.User, error)
}

type UserRepo struct {
	*Store[model.User]
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{Store: NewStore[model.User](db)}
}

// CreateUser 创建用户
func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return r.Create(ctx, user)
}

// GetUserById 不存在时返回 nil, nil
func (r *UserRepo) GetUserById(ctx context.Context, userId string) (*model.User, error) {
	return r.Get(ctx, userId)
}

// GetUserByEmail 不存在时返回 nil, nil
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIds 批量查询用户
func (r *UserRepo) GetUsersByIds(ctx context.Context, userIds []string) ([]model.User, error) {
	if len(userIds) == 0 {
		return []model.User{}, nil
	}
	return r.Find(ctx, Filter{"id": AnyOf(userIds...)}, "")
}
