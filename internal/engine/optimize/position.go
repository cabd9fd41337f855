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

import (
	"fmt"

	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/pkg/errs"
)

const (
	DefaultPositionStep = 1000
	DefaultMinPosition  = 1000
	DefaultMaxPosition  = 1_000_000
)

// Board 看板排序键规则；排序键稀疏分布，本层不做重排
type Board struct {
	Step        int
	MinPosition int
	MaxPosition int
}

func DefaultBoard() Board {
	return Board{
		Step:        DefaultPositionStep,
		MinPosition: DefaultMinPosition,
		MaxPosition: DefaultMaxPosition,
	}
}

// SetDefaults 填充未配置的字段
func (b *Board) SetDefaults() {
	if b.Step <= 0 {
		b.Step = DefaultPositionStep
	}
	if b.MinPosition <= 0 {
		b.MinPosition = DefaultMinPosition
	}
	if b.MaxPosition <= b.MinPosition {
		b.MaxPosition = DefaultMaxPosition
	}
}

// NextPosition 同一工作空间同一状态下的下一个排序键
func (b Board) NextPosition(sameStatus []model.Task) int {
	if len(sameStatus) == 0 {
		return b.Step
	}
	highest := sameStatus[0].Position
	for i := 1; i < len(sameStatus); i++ {
		if sameStatus[i].Position > highest {
			highest = sameStatus[i].Position
		}
	}
	return highest + b.Step
}

// ValidateReorder 校验批量排序请求，返回这些任务所属的唯一工作空间。
// 任何一项不合法整个批次都被拒绝。
func (b Board) ValidateReorder(items []model.ReorderItem, existing []model.Task) (string, error) {
	if len(items) == 0 {
		return "", errs.Validation("no tasks to reorder")
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Id == "" {
			return "", errs.Validation("task id is required")
		}
		if _, dup := seen[item.Id]; dup {
			return "", errs.Validation("task %s appears more than once", item.Id)
		}
		seen[item.Id] = struct{}{}
		if _, err := model.ParseTaskStatus(string(item.Status)); err != nil {
			return "", errs.Validation("%v", err)
		}
		if item.Position < b.MinPosition || item.Position > b.MaxPosition {
			return "", errs.Validation("position %d out of range [%d, %d]", item.Position, b.MinPosition, b.MaxPosition)
		}
	}

	if len(existing) == 0 {
		return "", errs.NotFound("no tasks found")
	}
	found := make(map[string]string, len(existing))
	for i := range existing {
		found[existing[i].Id] = existing[i].WorkspaceId
	}
	workspaces := make(map[string]struct{})
	for _, item := range items {
		ws, ok := found[item.Id]
		if !ok {
			return "", errs.NotFound("task %s not found", item.Id)
		}
		workspaces[ws] = struct{}{}
	}
	if len(workspaces) != 1 {
		return "", errs.New(errs.KindValidation, errs.ReasonMixedWorkspaces,
			fmt.Sprintf("all tasks must belong to the same workspace, got %d", len(workspaces)))
	}
	for ws := range workspaces {
		return ws, nil
	}
	return "", nil
}

// NextPosition 使用默认规则
func NextPosition(sameStatus []model.Task) int {
	return DefaultBoard().NextPosition(sameStatus)
}
