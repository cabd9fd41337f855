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

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/planboard/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

type AuthClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair access_token 与 refresh_token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var (
	issuer = "planboard"

	ErrInvalidToken = errors.New("invalid token")
)

// GenToken 生成 access_token 和 refresh_token，过期时间单位为分钟
func GenToken(userId string, secretKey []byte, accessExpired, refreshExpired time.Duration) (*TokenPair, error) {
	now := time.Now()

	aClaims := &AuthClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpired * time.Minute)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	aToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if err != nil {
		log.Errorw("sign access token failed", "error", err)
		return nil, err
	}

	// refresh token 只记录 subject，不能直接用于访问接口
	rClaims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshExpired * time.Minute)),
	}
	rToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if err != nil {
		log.Errorw("sign refresh token failed", "error", err)
		return nil, err
	}

	return &TokenPair{AccessToken: aToken, RefreshToken: rToken}, nil
}

// ParseToken 校验 access_token
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, keyFunc(secretKey))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshToken 使用 refresh_token 换取新的 token 对，返回新 token 与用户 id
func RefreshToken(secretKey string, accessExpire, refreshExpire time.Duration, rToken string) (*TokenPair, string, error) {
	var refreshClaims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(rToken, &refreshClaims, keyFunc(secretKey))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, "", jwt.ErrTokenExpired
		}
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || refreshClaims.Subject == "" {
		return nil, "", ErrInvalidToken
	}

	pair, err := GenToken(refreshClaims.Subject, []byte(secretKey), accessExpire, refreshExpire)
	if err != nil {
		return nil, "", err
	}
	return pair, refreshClaims.Subject, nil
}

func keyFunc(secretKey string) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		// 只接受 HMAC 签名
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}
}
