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

// Package shutdown 进程退出信号的汇聚点，信号、监听失败等任一来源都只触发一次
package shutdown

import (
	"sync"
)

type Manager struct {
	once   sync.Once
	mu     sync.RWMutex
	reason string
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

// Shutdown 触发退出；已经触发过时返回 false，原因保持第一次的值
func (m *Manager) Shutdown(reason string) bool {
	triggered := false
	m.once.Do(func() {
		m.mu.Lock()
		m.reason = reason
		m.mu.Unlock()
		close(m.done)
		triggered = true
	})
	return triggered
}

func (m *Manager) IsShuttingDown() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Wait 触发退出后关闭
func (m *Manager) Wait() <-chan struct{} {
	return m.done
}

func (m *Manager) Reason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}
