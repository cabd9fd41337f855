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

package optimize

import "github.com/go-arcade/planboard/internal/engine/model"

// IsReady 前置任务全部 DONE 才算就绪；找不到的前置任务视为未完成
func IsReady(task *model.Task, allTasks []model.Task) bool {
	if len(task.DependsOn) == 0 {
		return true
	}
	status := make(map[string]model.TaskStatus, len(allTasks))
	for i := range allTasks {
		status[allTasks[i].Id] = allTasks[i].Status
	}
	for _, dep := range task.DependsOn {
		if s, ok := status[dep]; !ok || s != model.TaskStatusDone {
			return false
		}
	}
	return true
}

// PendingDependencies 返回尚未完成的前置任务 id，保持声明顺序
func PendingDependencies(task *model.Task, allTasks []model.Task) []string {
	status := make(map[string]model.TaskStatus, len(allTasks))
	for i := range allTasks {
		status[allTasks[i].Id] = allTasks[i].Status
	}
	var pending []string
	for _, dep := range task.DependsOn {
		if s, ok := status[dep]; !ok || s != model.TaskStatusDone {
			pending = append(pending, dep)
		}
	}
	return pending
}
