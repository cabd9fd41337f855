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
 * @file: router_workspace.go
 * @description: 工作空间路由
 */

func (rt *Router) workspaceRouter(r fiber.Router, auth fiber.Handler) {
	workspaceGroup := r.Group("/workspace", auth)
	{
		// 当前用户加入的工作空间
		workspaceGroup.Get("/list", rt.listWorkspaces)

		// 创建工作空间
		workspaceGroup.Post("/create", rt.createWorkspace)

		workspaceGroup.Get("/:workspaceId", rt.getWorkspace)
		workspaceGroup.Patch("/:workspaceId", rt.updateWorkspace)
		workspaceGroup.Delete("/:workspaceId", rt.deleteWorkspace)

		// 邀请码
		workspaceGroup.Post("/:workspaceId/reset-invite-code", rt.resetInviteCode)
		workspaceGroup.Post("/:workspaceId/join", rt.joinWorkspace)

		// 统计
		workspaceGroup.Get("/:workspaceId/analytics", rt.getWorkspaceAnalytics)
	}
}

func (rt *Router) listWorkspaces(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Workspace.ListWorkspaces(c.UserContext(), userId)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) createWorkspace(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.CreateWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Workspace.CreateWorkspace(c.UserContext(), userId, &req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) getWorkspace(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Workspace.GetWorkspace(c.UserContext(), userId, c.Params("workspaceId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) updateWorkspace(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.UpdateWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Workspace.UpdateWorkspace(c.UserContext(), userId, c.Params("workspaceId"), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) deleteWorkspace(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	workspaceId := c.Params("workspaceId")
	if err := rt.Services.Workspace.DeleteWorkspace(c.UserContext(), userId, workspaceId); err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"id": workspaceId})
	return nil
}

func (rt *Router) resetInviteCode(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Workspace.ResetInviteCode(c.UserContext(), userId, c.Params("workspaceId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) joinWorkspace(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.JoinWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Workspace.JoinWorkspace(c.UserContext(), userId, c.Params("workspaceId"), req.InviteCode)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) getWorkspaceAnalytics(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return missingParam(c, httpx.WorkspaceIdIsEmpty)
	}
	result, err := rt.Services.Analytics.GetAnalytics(c.UserContext(), userId, service.Scope{WorkspaceId: workspaceId})
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}
