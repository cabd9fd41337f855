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

package router

import (
	"github.com/go-arcade/planboard/internal/engine/service"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/middleware"
	"github.com/go-arcade/planboard/pkg/metrics"
	"github.com/go-arcade/planboard/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
)

/**
 * @file: router.go
 * @description: setup router
 */

type Router struct {
	Http     *httpx.Http
	Services *service.Services
	Redis    redis.Cmdable
	Metrics  *metrics.Server
}

func NewRouter(httpConf *httpx.Http, services *service.Services, client redis.Cmdable, metricsServer *metrics.Server) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Redis:    client,
		Metrics:  metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := httpx.NewFiberApp(rt.Http)

	// 中间件
	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.CorsMiddleware(),
		middleware.TraceMiddleware(),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Http.ExposeMetrics && rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	api := app.Group(rt.Http.BasePath)
	rt.routerGroup(api)

	// 找不到路径时的处理，必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrStatus(c, fiber.StatusNotFound, httpx.NotFound.Code, "request path not found")
	})

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth, rt.Redis)

	rt.authRouter(r, auth)
	rt.workspaceRouter(r, auth)
	rt.memberRouter(r, auth)
	rt.projectRouter(r, auth)
	rt.taskRouter(r, auth)
}

// currentUserId 认证中间件之后调用，claims 缺失视为未认证
func currentUserId(c *fiber.Ctx) (string, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return "", false
	}
	return claims.UserId, true
}

func unauthenticated(c *fiber.Ctx) error {
	return httpx.WithRepErrStatus(c, fiber.StatusUnauthorized, httpx.Unauthorized.Code, httpx.Unauthorized.Msg)
}

func badRequest(c *fiber.Ctx) error {
	return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg)
}

func missingParam(c *fiber.Ctx, resp *httpx.Response) error {
	return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, resp.Code, resp.Msg)
}
