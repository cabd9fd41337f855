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

package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[log]
level = "DEBUG"

[http]
port = 8081
basePath = "/api/v1"

[http.auth]
secretKey = "s3cret"
accessExpire = 30

[database]
host = "127.0.0.1"
user = "planboard"
dbname = "planboard"

[redis]
address = "127.0.0.1:6379"

[ai]
baseURL = "http://ai.local:8000"

[board]
step = 500
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	c, err := LoadConfigFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", c.Log.Level)
	assert.Equal(t, "stdout", c.Log.Output)
	assert.Equal(t, 8081, c.Http.Port)
	assert.Equal(t, "s3cret", c.Http.Auth.SecretKey)
	assert.EqualValues(t, 30, c.Http.Auth.AccessExpire)
	assert.Equal(t, "planboard", c.Database.DBName)
	assert.Equal(t, "http://ai.local:8000", c.AI.BaseURL)
	assert.Equal(t, 30, c.AI.Timeout)
	assert.Equal(t, 500, c.Board.Step)
	assert.Equal(t, optimize.DefaultMinPosition, c.Board.MinPosition)
	assert.Equal(t, 9090, c.Metrics.Port)
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("PLANBOARD_HTTP_PORT", "9999")
	t.Setenv("PLANBOARD_HTTP_AUTH_SECRETKEY", "from-env")

	c, err := LoadConfigFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 9999, c.Http.Port)
	assert.Equal(t, "from-env", c.Http.Auth.SecretKey)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "[http]\nport = 8080\n"))
	assert.Error(t, err)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	c, err := LoadConfigFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", ProvideAuthConf(c).SecretKey)
	assert.Equal(t, 8081, ProvideHttpConf(c).Port)
	assert.Equal(t, "127.0.0.1:6379", ProvideRedisConf(c).Address)
	assert.Equal(t, 500, ProvideBoard(c).Step)
}

func TestNewViper_KeepsExplicitFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	assert.Equal(t, path, newViper(path).ConfigFileUsed())

	// 工作目录下没有 conf.d 时仍然读取指定文件
	t.Chdir(t.TempDir())
	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, c.Http.Port)
}
