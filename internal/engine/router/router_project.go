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
 * @file: router_project.go
 * @description: 项目路由
 */

func (rt *Router) projectRouter(r fiber.Router, auth fiber.Handler) {
	projectGroup := r.Group("/project", auth)
	{
		// ?workspaceId=
		projectGroup.Get("/list", rt.listProjects)

		// 创建项目，generationType=ai_generated 时由 AI 生成任务
		projectGroup.Post("/create", rt.createProject)

		projectGroup.Get("/:projectId", rt.getProject)
		projectGroup.Patch("/:projectId", rt.updateProject)
		projectGroup.Delete("/:projectId", rt.deleteProject)

		projectGroup.Get("/:projectId/analytics", rt.getProjectAnalytics)
	}
}

func (rt *Router) listProjects(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	workspaceId := c.Query("workspaceId")
	if workspaceId == "" {
		return missingParam(c, httpx.WorkspaceIdIsEmpty)
	}
	result, err := rt.Services.Project.ListProjects(c.UserContext(), userId, workspaceId)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) createProject(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if req.WorkspaceId == "" {
		return missingParam(c, httpx.WorkspaceIdIsEmpty)
	}
	result, err := rt.Services.Project.CreateProject(c.UserContext(), userId, &req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) getProject(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Project.GetProject(c.UserContext(), userId, c.Params("projectId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) updateProject(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.UpdateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Project.UpdateProject(c.UserContext(), userId, c.Params("projectId"), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) deleteProject(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	projectId := c.Params("projectId")
	if err := rt.Services.Project.DeleteProject(c.UserContext(), userId, projectId); err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"id": projectId})
	return nil
}

func (rt *Router) getProjectAnalytics(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	projectId := c.Params("projectId")
	if projectId == "" {
		return missingParam(c, httpx.ProjectIdIsEmpty)
	}
	result, err := rt.Services.Analytics.GetAnalytics(c.UserContext(), userId, service.Scope{ProjectId: projectId})
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}
