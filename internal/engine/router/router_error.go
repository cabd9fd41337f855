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
	"github.com/go-arcade/planboard/internal/pkg/errs"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// 业务原因到响应码的映射
var reasonCodes = map[errs.Reason]*httpx.Response{
	errs.ReasonSoleMember:      httpx.SoleMember,
	errs.ReasonIsOwner:         httpx.IsOwner,
	errs.ReasonAlreadyAdmin:    httpx.AlreadyAdmin,
	errs.ReasonLastAdmin:       httpx.Conflict,
	errs.ReasonAlreadyMember:   httpx.AlreadyMember,
	errs.ReasonDependencyCycle: httpx.DependencyCycle,
	errs.ReasonMixedWorkspaces: httpx.MixedWorkspaces,
	errs.ReasonInvalidInvite:   httpx.InvalidInviteCode,
	errs.ReasonEmailTaken:      httpx.UserAlreadyExist,
	errs.ReasonNotMember:       httpx.NotAMember,
	errs.ReasonBadCredentials:  httpx.AuthenticationFailed,
	errs.ReasonInvalidToken:    httpx.InvalidToken,
}

// statusOf 错误分类对应的 HTTP 状态码和默认响应码。
// 认证失败返回 401，其余权限拒绝返回 403。
func statusOf(err error) (int, *httpx.Response) {
	reason := errs.ReasonOf(err)
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return fiber.StatusBadRequest, httpx.ValidationFailed
	case errs.KindNotFound:
		return fiber.StatusNotFound, httpx.NotFound
	case errs.KindUnauthorized:
		if reason == errs.ReasonBadCredentials || reason == errs.ReasonInvalidToken {
			return fiber.StatusUnauthorized, httpx.Unauthorized
		}
		return fiber.StatusForbidden, httpx.PermissionDenied
	case errs.KindConflict:
		return fiber.StatusConflict, httpx.Conflict
	case errs.KindUpstream:
		return fiber.StatusBadGateway, httpx.UpstreamFailed
	default:
		return fiber.StatusInternalServerError, httpx.InternalError
	}
}

// fail 把 service 返回的错误写成统一的错误响应
func fail(c *fiber.Ctx, err error) error {
	status, resp := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).Errorw("request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return httpx.WithRepErrStatus(c, status, resp.Code, resp.Msg)
	}

	code := resp.Code
	if byReason, ok := reasonCodes[errs.ReasonOf(err)]; ok {
		code = byReason.Code
	}
	msg := errs.Message(err)
	if status == fiber.StatusBadGateway {
		msg = resp.Msg
	}
	return httpx.WithRepErrStatus(c, status, code, msg)
}
