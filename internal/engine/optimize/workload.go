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

// Package optimize 任务分配优化：工作量统计、依赖检查、候选人排序和看板排序键
package optimize

import "github.com/go-arcade/planboard/internal/engine/model"

// StatusWeight 不同状态的任务占用的工作量权重
func StatusWeight(status model.TaskStatus) float64 {
	switch status {
	case model.TaskStatusInProgress:
		return 2
	case model.TaskStatusInReview:
		return 1.5
	case model.TaskStatusDone:
		return 0
	default:
		return 1
	}
}

// ComputeWorkload 统计候选人当前负载，不在候选集合内的负责人忽略
func ComputeWorkload(tasks []model.Task, candidateIds []string) map[string]float64 {
	workload := make(map[string]float64, len(candidateIds))
	for _, id := range candidateIds {
		workload[id] = 0
	}
	for i := range tasks {
		assignee := tasks[i].AssigneeId
		if assignee == "" {
			continue
		}
		if current, ok := workload[assignee]; ok {
			workload[assignee] = current + StatusWeight(tasks[i].Status)
		}
	}
	return workload
}

// loadRange 负载的最小值和区间，max == min 时区间按 1 计
func loadRange(workload map[string]float64) (low, span float64) {
	first := true
	var high float64
	for _, w := range workload {
		if first {
			low, high = w, w
			first = false
			continue
		}
		if w < low {
			low = w
		}
		if w > high {
			high = w
		}
	}
	span = high - low
	if span == 0 {
		span = 1
	}
	return low, span
}

func workloadScore(load, low, span float64) float64 {
	return 1 - (load-low)/span
}

// NormalizeWorkload min-max 归一化，负载越低分数越高；负载全部相同时每人都是 1
func NormalizeWorkload(workload map[string]float64) map[string]float64 {
	low, span := loadRange(workload)
	scores := make(map[string]float64, len(workload))
	for id, w := range workload {
		scores[id] = workloadScore(w, low, span)
	}
	return scores
}
