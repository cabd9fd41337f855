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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/pkg/log"
)

type AnalyticsService struct {
	taskRepo   repo.ITaskRepository
	membership *MembershipService
	now        func() time.Time
}

func NewAnalyticsService(taskRepo repo.ITaskRepository, membership *MembershipService) *AnalyticsService {
	return &AnalyticsService{
		taskRepo:   taskRepo,
		membership: membership,
		now:        time.Now,
	}
}

// taskStats 某个月份内创建的任务统计
type taskStats struct {
	total, assigned, incomplete, complete, overdue int
}

// GetAnalytics 对比本月与上月创建的任务；scope 为项目时只统计该项目
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userId string, scope Scope) (*model.Analytics, error) {
	if _, err := s.membership.RequireMember(ctx, scope, userId); err != nil {
		return nil, err
	}

	filter := repo.Filter{}
	if scope.ProjectId != "" {
		filter["project_id"] = scope.ProjectId
	} else {
		filter["workspace_id"] = scope.WorkspaceId
	}

	now := s.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	current, err := s.monthStats(ctx, filter, thisMonth, nextMonth, userId, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.monthStats(ctx, filter, lastMonth, thisMonth, userId, now)
	if err != nil {
		return nil, err
	}

	return &model.Analytics{
		TaskCount:                current.total,
		TaskDifference:           current.total - previous.total,
		AssignedTaskCount:        current.assigned,
		AssignedTaskDifference:   current.assigned - previous.assigned,
		IncompleteTaskCount:      current.incomplete,
		IncompleteTaskDifference: current.incomplete - previous.incomplete,
		CompleteTaskCount:        current.complete,
		CompleteTaskDifference:   current.complete - previous.complete,
		OverdueTaskCount:         current.overdue,
		OverdueTaskDifference:    current.overdue - previous.overdue,
	}, nil
}

func (s *AnalyticsService) monthStats(ctx context.Context, filter repo.Filter, start, end time.Time, userId string, now time.Time) (taskStats, error) {
	tasks, err := s.taskRepo.ListTasksCreatedBetween(ctx, filter, start, end)
	if err != nil {
		log.Errorw("list tasks for analytics failed", "start", start, "error", err)
		return taskStats{}, fmt.Errorf("list tasks for analytics failed: %w", err)
	}
	return countTasks(tasks, userId, now), nil
}

// countTasks 逾期指未完成且截止时间不晚于 now
func countTasks(tasks []model.Task, userId string, now time.Time) taskStats {
	var st taskStats
	for _, t := range tasks {
		st.total++
		if t.AssigneeId == userId {
			st.assigned++
		}
		if t.Status == model.TaskStatusDone {
			st.complete++
			continue
		}
		st.incomplete++
		if !t.DueDate.IsZero() && !t.DueDate.After(now) {
			st.overdue++
		}
	}
	return st
}
