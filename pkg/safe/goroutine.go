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

// Package safe 带 panic 恢复的 goroutine 启动
package safe

import (
	"runtime/debug"

	"github.com/go-arcade/planboard/pkg/log"
)

// Go 在新 goroutine 中执行 f
func Go(name string, f func()) {
	go Do(name, f)
}

// Do 执行 f，panic 时记录堆栈并返回 false
func Do(name string, f func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic", "goroutine", name, "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	f()
	return true
}
