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

// Package aiclient AI 匹配服务客户端
package aiclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/planboard/internal/pkg/errs"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/go-arcade/planboard/pkg/metrics"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/go-arcade/planboard/internal/pkg/aiclient"

	EndpointGenerateTasks      = "/generate-tasks"
	EndpointIndexUsers         = "/index-users"
	EndpointIndexTasks         = "/index-tasks"
	EndpointMatchUsersForTasks = "/match-users-for-tasks"
	EndpointMatchUserForTask   = "/match-user-for-task"
)

var tracer = otel.Tracer(tracerName)

type Config struct {
	BaseURL    string
	Timeout    int // 秒
	RetryCount int
}

// SetDefaults 填充未配置的字段
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
}

// IClient 任何非成功响应都返回 errs.KindUpstream 错误
type IClient interface {
	GenerateTasks(ctx context.Context, description, projectId, managerId string) ([]Task, error)
	IndexUsers(ctx context.Context, users []UserWithSkills, projectId, managerId string) error
	IndexTasks(ctx context.Context, tasks []Task, projectId, managerId string) error
	MatchUsersForTasks(ctx context.Context, tasks []Task, projectId, managerId string) ([]Task, error)
	MatchUserForTask(ctx context.Context, task Task, projectId, managerId string) ([]UserMatch, error)
}

type Client struct {
	http *resty.Client
}

func New(cfg Config) *Client {
	cfg.SetDefaults()
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	return &Client{http: httpClient}
}

func (c *Client) GenerateTasks(ctx context.Context, description, projectId, managerId string) ([]Task, error) {
	var out tasksResp
	err := c.post(ctx, EndpointGenerateTasks, generateReq{
		ProjectDescription: description,
		ProjectId:          projectId,
		ManagerId:          managerId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) IndexUsers(ctx context.Context, users []UserWithSkills, projectId, managerId string) error {
	return c.post(ctx, EndpointIndexUsers, usersReq{Users: users, ProjectId: projectId, ManagerId: managerId}, nil)
}

func (c *Client) IndexTasks(ctx context.Context, tasks []Task, projectId, managerId string) error {
	return c.post(ctx, EndpointIndexTasks, tasksReq{Tasks: tasks, ProjectId: projectId, ManagerId: managerId}, nil)
}

func (c *Client) MatchUsersForTasks(ctx context.Context, tasks []Task, projectId, managerId string) ([]Task, error) {
	var out tasksResp
	if err := c.post(ctx, EndpointMatchUsersForTasks, tasksReq{Tasks: tasks, ProjectId: projectId, ManagerId: managerId}, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) MatchUserForTask(ctx context.Context, task Task, projectId, managerId string) ([]UserMatch, error) {
	var out matchedUsersResp
	if err := c.post(ctx, EndpointMatchUserForTask, taskReq{Task: task, ProjectId: projectId, ManagerId: managerId}, &out); err != nil {
		return nil, err
	}
	return out.MatchedUsers, nil
}

// post 发送 JSON 请求，记录调用指标和客户端 span
func (c *Client) post(ctx context.Context, endpoint string, body, result any) error {
	ctx, span := tracer.Start(ctx, "ai "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("ai.endpoint", endpoint))

	req := c.http.R().SetContext(ctx).SetBody(body)
	if result != nil {
		req.SetResult(result)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := req.Post(endpoint)
	if err == nil && resp.IsError() {
		err = fmt.Errorf("status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if err != nil {
		metrics.RecordAIRequest(endpoint, false)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithContext(ctx).Warnw("ai service request failed", "endpoint", endpoint, "error", err)
		return errs.Upstream(err, "AI service error")
	}

	metrics.RecordAIRequest(endpoint, true)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	return nil
}
