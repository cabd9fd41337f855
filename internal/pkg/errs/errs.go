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

// Package errs 定义业务错误分类，路由层据此映射 HTTP 状态码
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindConflict
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Reason 机器可读的失败原因，用于区分同一 Kind 下的不同规则
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonSoleMember      Reason = "sole_member"
	ReasonIsOwner         Reason = "is_owner"
	ReasonAlreadyAdmin    Reason = "already_admin"
	ReasonAlreadyMember   Reason = "already_member"
	ReasonNotAdmin        Reason = "not_admin"
	ReasonLastAdmin       Reason = "last_admin"
	ReasonNotMember       Reason = "not_member"
	ReasonNotSelf         Reason = "not_self"
	ReasonMixedWorkspaces Reason = "mixed_workspaces"
	ReasonDependencyCycle Reason = "dependency_cycle"
	ReasonInvalidInvite   Reason = "invalid_invite_code"
	ReasonBadCredentials  Reason = "bad_credentials"
	ReasonInvalidToken    Reason = "invalid_token"
	ReasonEmailTaken      Reason = "email_taken"
)

type Error struct {
	Kind   Kind
	Reason Reason
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按 Kind 匹配；target 带 Reason 时 Reason 也必须一致
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrConflict     = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrValidation   = &Error{Kind: KindValidation, Msg: "validation failed"}
	ErrUpstream     = &Error{Kind: KindUpstream, Msg: "upstream failure"}
	ErrInternal     = &Error{Kind: KindInternal, Msg: "internal error"}
)

func New(kind Kind, reason Reason, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, Msg: msg}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(reason Reason, msg string) *Error {
	return &Error{Kind: KindUnauthorized, Reason: reason, Msg: msg}
}

func Conflict(reason Reason, msg string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Msg: msg}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Upstream(err error, msg string) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf 返回错误链上第一个 *Error 的 Kind，非业务错误视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf 返回错误链上第一个 *Error 的 Reason
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}

// Message 返回可展示给调用方的错误信息
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
