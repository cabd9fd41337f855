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
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenUUID(t *testing.T) {
	uuid := GetUUID()
	assert.Len(t, uuid, 36)
	assert.Equal(t, 4, strings.Count(uuid, "-"))
	assert.NotEqual(t, uuid, GetUUID())
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	assert.Len(t, GetUUIDWithoutDashes(), 32)
}

func TestInviteCode(t *testing.T) {
	alphaNum := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code := InviteCode(InviteCodeLength)
		assert.Len(t, code, InviteCodeLength)
		assert.Regexp(t, alphaNum, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)

	assert.Len(t, InviteCode(0), InviteCodeLength)
	assert.Len(t, InviteCode(20), 20)
}
