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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/pkg/cache"
	"github.com/go-arcade/planboard/pkg/database"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/go-arcade/planboard/pkg/metrics"
	"github.com/spf13/viper"
)

/**
 * @file: conf.go
 * @description: 应用配置，TOML 文件 + PLANBOARD_ 前缀环境变量覆盖
 */

const envPrefix = "PLANBOARD"

type AppConfig struct {
	Log      log.Conf
	Http     httpx.Http
	Database database.Database
	Redis    cache.Redis
	AI       aiclient.Config
	Metrics  metrics.MetricsConfig
	Board    optimize.Board
}

var (
	cfg  AppConfig
	once sync.Once
	mu   sync.RWMutex
)

// NewConf 只加载一次，之后监听文件变化
func NewConf(confFile string) AppConfig {
	once.Do(func() {
		v := newViper(confFile)
		loaded, err := load(v)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
		cfg = loaded
		watch(v)
		log.Infow("configuration loaded", "file", v.ConfigFileUsed())
	})
	return Current()
}

// Current 返回最近一次成功加载的配置
func Current() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile 读取并校验配置文件，不监听变化
func LoadConfigFile(confFile string) (AppConfig, error) {
	return load(newViper(confFile))
}

func newViper(confFile string) *viper.Viper {
	v := viper.New()
	// SetConfigName 会清空 SetConfigFile 设置的路径，两者只能取其一
	if confFile != "" {
		v.SetConfigFile(confFile)
	} else {
		v.AddConfigPath("./conf.d")
		v.SetConfigName("config")
	}
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper) (AppConfig, error) {
	var c AppConfig
	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// watch 配置文件变化时重新加载；新配置不合法时保留旧配置。
// 只有日志级别会立即生效，其余字段在下次启动时生效。
func watch(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		next, err := load(v)
		if err != nil {
			log.Errorw("reload configuration failed, keeping previous", "file", e.Name, "error", err)
			return
		}
		mu.Lock()
		prev := cfg
		cfg = next
		mu.Unlock()
		if prev.Log != next.Log {
			if err := log.Init(&next.Log); err != nil {
				log.Errorw("apply log configuration failed", "error", err)
			}
		}
	})
	v.WatchConfig()
}

// SetDefaults 填充各子配置未设置的字段
func (c *AppConfig) SetDefaults() {
	defaults := log.SetDefaults()
	if c.Log.Output == "" {
		c.Log.Output = defaults.Output
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Path
	}
	if c.Log.Filename == "" {
		c.Log.Filename = defaults.Filename
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Level
	}
	c.Http.SetDefaults()
	c.AI.SetDefaults()
	c.Board.SetDefaults()
	if c.Metrics.Host == "" {
		c.Metrics.Host = "0.0.0.0"
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
}

// Validate 校验启动必需的配置
func (c *AppConfig) Validate() error {
	if c.Http.Auth.SecretKey == "" {
		return errors.New("http.auth.secretKey is required")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}
	return nil
}
