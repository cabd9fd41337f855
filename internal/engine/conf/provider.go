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
	"github.com/go-arcade/planboard/internal/engine/optimize"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/pkg/cache"
	"github.com/go-arcade/planboard/pkg/database"
	httpx "github.com/go-arcade/planboard/pkg/http"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/go-arcade/planboard/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet 提供配置以及拆分后的各子配置
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConf,
	ProvideHttpConf,
	ProvideAuthConf,
	ProvideDatabaseConf,
	ProvideRedisConf,
	ProvideAIConf,
	ProvideMetricsConf,
	ProvideBoard,
)

// ProvideConf 提供完整配置实例
func ProvideConf(configFile string) AppConfig {
	return NewConf(configFile)
}

func ProvideLogConf(appConf AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideHttpConf(appConf AppConfig) *httpx.Http {
	return &appConf.Http
}

func ProvideAuthConf(appConf AppConfig) httpx.Auth {
	return appConf.Http.Auth
}

func ProvideDatabaseConf(appConf AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConf(appConf AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideAIConf(appConf AppConfig) aiclient.Config {
	return appConf.AI
}

func ProvideMetricsConf(appConf AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

func ProvideBoard(appConf AppConfig) optimize.Board {
	return appConf.Board
}
