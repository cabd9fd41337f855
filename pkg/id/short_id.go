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

package id

import (
	"strings"

	"github.com/teris-io/shortid"
)

// InviteCodeLength 工作区邀请码长度
const InviteCodeLength = 6

func ShortId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}

// InviteCode 生成指定长度的邀请码，只包含字母和数字
// shortid 可能产生 '-' 与 '_'，这里过滤后拼接直到满足长度
func InviteCode(length int) string {
	if length <= 0 {
		length = InviteCodeLength
	}
	var b strings.Builder
	for b.Len() < length {
		raw := ShortId()
		if raw == "" {
			// shortid 失败时退化为 uuid
			raw = GetUUIDWithoutDashes()
		}
		for _, r := range raw {
			if isAlphaNum(r) {
				b.WriteRune(r)
				if b.Len() == length {
					break
				}
			}
		}
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
