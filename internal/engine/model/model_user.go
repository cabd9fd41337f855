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

package model

/**
 * @file: model_user.go
 * @description: 用户模型
 */

type User struct {
	BaseModel
	Email         string `gorm:"column:email;not null;size:191;uniqueIndex" json:"email"`
	Name          string `gorm:"column:name" json:"name"`
	Password      string `gorm:"column:password;not null" json:"-"`
	EmailVerified bool   `gorm:"column:email_verified;not null;default:false" json:"emailVerified"`
}

func (User) TableName() string {
	return "t_user"
}

// DisplayName 没有名称时回退到邮箱
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Identity 认证后的调用者身份
type Identity struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"emailVerified"`
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	Identity Identity `json:"user"`
	Token    any      `json:"token"`
}
