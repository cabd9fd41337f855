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
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/jwt"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService struct {
	userRepo repo.IUserRepository
	redis    redis.Cmdable
	auth     httpx.Auth
}

func NewAuthService(userRepo repo.IUserRepository, client redis.Cmdable, auth httpx.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		redis:    client,
		auth:     auth,
	}
}

// Register 注册并直接登录
func (s *AuthService) Register(ctx context.Context, req *model.RegisterReq) (*model.LoginResp, error) {
	// 1. 校验参数
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Validation("invalid email %q", req.Email)
	}
	if len(req.Password) < minPasswordLength {
		return nil, errs.Validation("password must be at least %d characters", minPasswordLength)
	}

	// 2. 检查邮箱是否已注册
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Errorw("get user by email failed", "email", email, "error", err)
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}
	if existing != nil {
		return nil, errs.Conflict(errs.ReasonEmailTaken, "User already exists")
	}

	// 3. 保存用户
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}
	user := &model.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hashed),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		log.Errorw("create user failed", "email", email, "error", err)
		return nil, fmt.Errorf("create user failed: %w", err)
	}
	log.Infow("user registered", "userId", user.Id)

	return s.issueSession(ctx, user)
}

// Login 邮箱密码登录，邮箱不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errs.Validation("email and password are required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Errorw("get user by email failed", "email", email, "error", err)
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, errs.Unauthorized(errs.ReasonBadCredentials, "Invalid email or password")
	}
	return s.issueSession(ctx, user)
}

// Logout 删除 Redis 中的会话，已签发的 token 随即失效
func (s *AuthService) Logout(ctx context.Context, userId string) error {
	if err := s.redis.Del(ctx, s.sessionKey(userId)).Err(); err != nil {
		log.Errorw("delete session failed", "userId", userId, "error", err)
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

// Refresh 用 refresh token 换取新的 token 对，会话已登出时拒绝
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	pair, userId, err := jwt.RefreshToken(s.auth.SecretKey, s.auth.AccessExpire, s.auth.RefreshExpire, refreshToken)
	if err != nil {
		return nil, errs.Unauthorized(errs.ReasonInvalidToken, "Invalid refresh token")
	}
	exists, err := s.redis.Exists(ctx, s.sessionKey(userId)).Result()
	if err != nil {
		return nil, fmt.Errorf("check session failed: %w", err)
	}
	if exists == 0 {
		return nil, errs.Unauthorized(errs.ReasonInvalidToken, "Session has expired")
	}
	if err := s.storeSession(ctx, userId, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// CurrentUser 当前登录用户
func (s *AuthService) CurrentUser(ctx context.Context, userId string) (*model.Identity, error) {
	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	if user == nil {
		return nil, errs.NotFound("user %s not found", userId)
	}
	identity := identityOf(user)
	return &identity, nil
}

// Authenticate 校验 access token 与会话，返回调用者身份
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := jwt.ParseToken(strings.TrimPrefix(token, "Bearer "), s.auth.SecretKey)
	if err != nil {
		return nil, errs.Unauthorized(errs.ReasonInvalidToken, "Invalid token")
	}
	ttl, err := s.redis.TTL(ctx, s.sessionKey(claims.UserId)).Result()
	if err != nil {
		return nil, fmt.Errorf("check session failed: %w", err)
	}
	// -2 表示 key 不存在
	if ttl == -2 || ttl == 0 {
		return nil, errs.Unauthorized(errs.ReasonInvalidToken, "Session has expired")
	}
	identity, err := s.CurrentUser(ctx, claims.UserId)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Unauthorized(errs.ReasonInvalidToken, "User no longer exists")
	}
	return identity, err
}

func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*model.LoginResp, error) {
	pair, err := jwt.GenToken(user.Id, []byte(s.auth.SecretKey), s.auth.AccessExpire, s.auth.RefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("generate token failed: %w", err)
	}
	if err := s.storeSession(ctx, user.Id, pair.AccessToken); err != nil {
		return nil, err
	}
	return &model.LoginResp{Identity: identityOf(user), Token: pair}, nil
}

// storeSession 会话与 refresh token 同时过期
func (s *AuthService) storeSession(ctx context.Context, userId, accessToken string) error {
	ttl := s.auth.RefreshExpire * time.Minute
	if err := s.redis.Set(ctx, s.sessionKey(userId), accessToken, ttl).Err(); err != nil {
		log.Errorw("store session failed", "userId", userId, "error", err)
		return fmt.Errorf("store session failed: %w", err)
	}
	return nil
}

func (s *AuthService) sessionKey(userId string) string {
	return s.auth.RedisKeyPrefix + userId
}
