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

package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/jwt"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// AuthorizationMiddleware 认证中间件
// 校验 Bearer access token，并确认 Redis 中仍存在该用户的会话
func AuthorizationMiddleware(auth http.Auth, client redis.Cmdable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.AuthorizationEmpty.Code, http.AuthorizationEmpty.Msg)
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.AuthorizationIncorrect.Code, http.AuthorizationIncorrect.Msg)
		}

		claims, err := jwt.ParseToken(parts[1], auth.SecretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.TokenExpired.Code, http.TokenExpired.Msg)
			}
			log.Debugw("parse token failed", "error", err)
			return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.InvalidToken.Code, http.InvalidToken.Msg)
		}

		// 会话在 Redis 中被删除（登出）或过期时拒绝，-2 表示 key 不存在
		tokenKey := auth.RedisKeyPrefix + claims.UserId
		ttl, err := client.TTL(c.UserContext(), tokenKey).Result()
		if err != nil {
			log.Errorw("redis check session TTL failed", "user_id", claims.UserId, "error", err)
			return http.WithRepErrStatus(c, fiber.StatusInternalServerError, http.InternalError.Code, http.InternalError.Msg)
		}
		if ttl == -2 || ttl == 0 {
			log.Debugw("session has expired in redis", "user_id", claims.UserId)
			return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.TokenExpired.Code, http.TokenExpired.Msg)
		}

		c.Locals(CLAIMS, claims)
		return c.Next()
	}
}

// GetClaims 取出认证中间件写入的 claims
func GetClaims(c *fiber.Ctx) (*jwt.AuthClaims, bool) {
	claims, ok := c.Locals(CLAIMS).(*jwt.AuthClaims)
	return claims, ok && claims != nil
}
