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
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_task.go
 * @description: 任务、看板排序与负责人推荐路由
 */

func (rt *Router) taskRouter(r fiber.Router, auth fiber.Handler) {
	taskGroup := r.Group("/task", auth)
	{
		// ?workspaceId=&projectId=&assigneeId=&status=&search=&dueDate=
		taskGroup.Get("/list", rt.listTasks)
		taskGroup.Post("/create", rt.createTask)

		// 看板拖拽，整批成功或整批失败
		taskGroup.Post("/bulk-update", rt.bulkUpdateTasks)

		// 项目内批量推荐
		taskGroup.Post("/recommendations", rt.recommendTasks)

		taskGroup.Get("/:taskId", rt.getTask)
		taskGroup.Patch("/:taskId", rt.updateTask)
		taskGroup.Delete("/:taskId", rt.deleteTask)
		taskGroup.Get("/:taskId/recommendation", rt.recommendTask)
	}
}

func (rt *Router) listTasks(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var query model.TaskQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c)
	}
	if query.WorkspaceId == "" {
		return missingParam(c, httpx.WorkspaceIdIsEmpty)
	}
	result, err := rt.Services.Task.ListTasks(c.UserContext(), userId, &query)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) createTask(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.CreateTaskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Task.CreateTask(c.UserContext(), userId, &req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) bulkUpdateTasks(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.BulkReorderReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Task.BulkReorder(c.UserContext(), userId, req.Tasks)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) recommendTasks(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.BatchRecommendReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if req.ProjectId == "" {
		return missingParam(c, httpx.ProjectIdIsEmpty)
	}
	result, err := rt.Services.Task.RecommendBatch(c.UserContext(), userId, &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) getTask(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	result, err := rt.Services.Task.GetTask(c.UserContext(), userId, c.Params("taskId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) updateTask(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	var req model.UpdateTaskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	result, err := rt.Services.Task.UpdateTask(c.UserContext(), userId, c.Params("taskId"), &req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}

func (rt *Router) deleteTask(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	taskId := c.Params("taskId")
	if err := rt.Services.Task.DeleteTask(c.UserContext(), userId, taskId); err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"id": taskId})
	return nil
}

// recommendTask 没有匹配结果时 detail 为 null
func (rt *Router) recommendTask(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return unauthenticated(c)
	}
	taskId := c.Params("taskId")
	if taskId == "" {
		return missingParam(c, httpx.TaskIdIsEmpty)
	}
	result, err := rt.Services.Task.Recommend(c.UserContext(), userId, taskId)
	if err != nil {
		return fail(c, err)
	}
	if result == nil {
		return c.JSON(fiber.Map{"code": httpx.Success.Code, "detail": nil, "msg": httpx.Success.Msg})
	}
	c.Locals(middleware.DETAIL, result)
	return nil
}
