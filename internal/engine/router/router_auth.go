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
	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		// 不需要认证
		authGroup.Post("/register", rt.register)
		authGroup.Post("/login", rt.login)
		authGroup.Post("/refresh", rt.refresh)

		// 需要认证
		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/current", auth, rt.current)
	}
}

func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Auth.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Auth.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	var req refreshReq
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c)
	}
	pair, err := rt.Services.Auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, pair)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := rt.Services.Auth.Logout(c.UserContext(), userId); err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) current(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	identity, err := rt.Services.Auth.CurrentUser(c.UserContext(), userId)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, identity)
	return nil
}
