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
	"github.com/go-arcade/planboard/internal/engine/service"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_member.go
 * @description: 成员与技能路由
 */

func (rt *Router) memberRouter(r fiber.Router, auth fiber.Handler) {
	memberGroup := r.Group("/member", auth)
	{
		// ?workspaceId= 或 ?projectId=
		memberGroup.Get("/list", rt.listMembers)

		memberGroup.Delete("/:memberId", rt.removeMember)
		memberGroup.Patch("/:memberId/role", rt.changeRole)

		// 技能整体读写
		memberGroup.Get("/:memberId/skills", rt.getSkills)
		memberGroup.Put("/:memberId/skills", rt.replaceSkills)
	}
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	scope := service.Scope{WorkspaceId: c.Query("workspaceId"), ProjectId: c.Query("projectId")}
	result, err := rt.Services.Member.ListMembers(c.UserContext(), userId, scope)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	memberId := c.Params("memberId")
	if memberId == "" {
		return missingParam(c, httpx.MemberIdIsEmpty)
	}
	if err := rt.Services.Member.RemoveMember(c.UserContext(), userId, memberId); err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"id": memberId})
	return nil
}

func (rt *Router) changeRole(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.UpdateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Member.ChangeRole(c.UserContext(), userId, c.Params("memberId"), req.Role)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) getSkills(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Member.GetSkills(c.UserContext(), userId, c.Params("memberId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) replaceSkills(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.ReplaceSkillsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Member.ReplaceSkills(c.UserContext(), userId, c.Params("memberId"), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}
