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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	WorkspaceIdIsEmpty            = failed(5002, "Workspace id is empty")
	ProjectIdIsEmpty              = failed(5003, "Project id is empty")
	TaskIdIsEmpty                 = failed(5004, "Task id is empty")
	MemberIdIsEmpty               = failed(5005, "Member id is empty")

	// Unauthorized 401 auth
	Unauthorized           = failed(4401, "Unauthorized")
	AuthenticationFailed   = failed(4402, "Authentication failed")
	AuthorizationIncorrect = failed(4403, "The authorization format in the request header is incorrect")
	AuthorizationEmpty     = failed(4404, "Authorization is empty")
	InvalidToken           = failed(4405, "Invalid token")
	TokenBeEmpty           = failed(4406, "Token cannot be empty")
	TokenExpired           = failed(4407, "Token is expired")

	// BadRequest 400
	BadRequest       = failed(4000, "Bad request")
	ValidationFailed = failed(4001, "Validation failed")
	NotFound         = failed(4004, "Not found")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")
	NotAMember       = failed(4032, "You are not a member of this workspace")

	// Conflict 409
	Conflict          = failed(4090, "Conflict")
	SoleMember        = failed(4091, "Cannot remove or downgrade the only member")
	IsOwner           = failed(4092, "Cannot remove or downgrade the owner of the workspace")
	AlreadyAdmin      = failed(4093, "You are already an administrator")
	AlreadyMember     = failed(4094, "You are already a member of this workspace")
	DependencyCycle   = failed(4095, "Task dependencies form a cycle")
	MixedWorkspaces   = failed(4096, "All tasks must belong to the same workspace")
	InvalidInviteCode = failed(4097, "Invalid invite code")

	// Upstream 502
	UpstreamFailed = failed(5020, "AI matching service unavailable")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	UserNotExist                  = failed(4041, "User does not exist")
	UserAlreadyExist              = failed(4042, "User already exists")
	UserIncorrectPassword         = failed(4043, "User incorrect password")
	UsernameArePasswordIsRequired = failed(4045, "Email and password are required")
	WorkspaceNotExist             = failed(4046, "Workspace does not exist")
	ProjectNotExist               = failed(4047, "Project does not exist")
	TaskNotExist                  = failed(4048, "Task does not exist")
	MemberNotExist                = failed(4049, "Member does not exist")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
