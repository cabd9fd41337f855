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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestRequestMiddleware_PreservesExistingId(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(REQUESTID).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-Id", "existing-request-id-12345")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "existing-request-id-12345", resp.Header.Get("X-Request-Id"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "existing-request-id-12345", string(body))
}

func TestRequestMiddleware_GeneratesUniqueIds(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)

		requestId := resp.Header.Get("X-Request-Id")
		_, err = uuid.Parse(requestId)
		require.NoError(t, err, "request id should be a uuid: %s", requestId)
		assert.False(t, seen[requestId])
		seen[requestId] = true
	}
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UnifiedResponseMiddleware())
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, map[string]string{"name": "board"})
		return nil
	})
	app.Get("/operation", func(c *fiber.Ctx) error {
		c.Locals(OPERATION, true)
		return nil
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return httpx.WithRepErrStatus(c, fiber.StatusConflict, httpx.SoleMember.Code, httpx.SoleMember.Msg)
	})
	app.Get("/bare-error", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusBadGateway)
		return nil
	})

	t.Run("detail", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/detail", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.EqualValues(t, httpx.Success.Code, body["code"])
		assert.Equal(t, "board", body["detail"].(map[string]any)["name"])
	})

	t.Run("operation", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/operation", nil))
		require.NoError(t, err)
		body := decode(t, resp)
		assert.EqualValues(t, httpx.Success.Code, body["code"])
		assert.NotContains(t, body, "detail")
	})

	t.Run("handler error body is kept", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		body := decode(t, resp)
		assert.EqualValues(t, httpx.SoleMember.Code, body["code"])
		assert.Equal(t, httpx.SoleMember.Msg, body["errMsg"])
	})

	t.Run("empty error body gets a generic failure", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bare-error", nil))
		require.NoError(t, err)
		body := decode(t, resp)
		assert.EqualValues(t, httpx.Failed.Code, body["code"])
	})
}

func TestExceptionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ExceptionMiddleware)
	app.Get("/panic-string", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/panic-error", func(c *fiber.Ctx) error {
		panic(io.ErrUnexpectedEOF)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic-string", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "boom", decode(t, resp)["errMsg"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic-error", nil))
	require.NoError(t, err)
	assert.Equal(t, httpx.InternalError.Msg, decode(t, resp)["errMsg"])
}

func TestAuthorizationMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	auth := httpx.Auth{
		SecretKey:      "test-secret",
		AccessExpire:   60,
		RefreshExpire:  120,
		RedisKeyPrefix: "planboard:session:",
	}

	app := fiber.New()
	app.Get("/me", AuthorizationMiddleware(auth, client), func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(claims.UserId)
	})

	pair, err := jwt.GenToken("user-1", []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	require.NoError(t, err)

	request := func(header string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("missing header", func(t *testing.T) {
		resp := request("")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.EqualValues(t, httpx.AuthorizationEmpty.Code, decode(t, resp)["code"])
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := request("Token " + pair.AccessToken)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.EqualValues(t, httpx.AuthorizationIncorrect.Code, decode(t, resp)["code"])
	})

	t.Run("invalid token", func(t *testing.T) {
		resp := request("Bearer garbage")
		assert.EqualValues(t, httpx.InvalidToken.Code, decode(t, resp)["code"])
	})

	t.Run("no session in redis", func(t *testing.T) {
		resp := request("Bearer " + pair.AccessToken)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.EqualValues(t, httpx.TokenExpired.Code, decode(t, resp)["code"])
	})

	t.Run("active session", func(t *testing.T) {
		require.NoError(t, mr.Set(auth.RedisKeyPrefix+"user-1", pair.AccessToken))
		mr.SetTTL(auth.RedisKeyPrefix+"user-1", time.Hour)

		resp := request("Bearer " + pair.AccessToken)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "user-1", string(body))
	})

	t.Run("session expired", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)
		resp := request("Bearer " + pair.AccessToken)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTraceMiddleware_PropagatesParent(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	app := fiber.New()
	app.Use(TraceMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		spanCtx := trace.SpanContextFromContext(c.UserContext())
		return c.SendString(spanCtx.TraceID().String())
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", string(body))
}

func TestSkipAccessLog(t *testing.T) {
	assert.True(t, skipAccessLog("/health"))
	assert.True(t, skipAccessLog("/metrics"))
	assert.False(t, skipAccessLog("/api/v1/task"))
}
