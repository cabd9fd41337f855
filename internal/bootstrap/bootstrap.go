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

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/planboard/internal/engine/conf"
	"github.com/go-arcade/planboard/internal/engine/router"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/go-arcade/planboard/pkg/metrics"
	"github.com/go-arcade/planboard/pkg/safe"
	"github.com/go-arcade/planboard/pkg/shutdown"
	"github.com/go-arcade/planboard/pkg/version"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	HttpApp *fiber.App
	Metrics *metrics.Server
	Logger  *zap.Logger
	AppConf conf.AppConfig
}

// InitAppFunc wire 生成的初始化函数
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *zap.Logger,
	metricsServer *metrics.Server,
	appConf conf.AppConfig,
) (*App, func(), error) {
	httpApp := rt.Router()

	cleanup := func() {
		if metricsServer != nil {
			logger.Info("Shutting down metrics server...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(ctx); err != nil {
				logger.Error("Failed to stop metrics server", zap.Error(err))
			}
		}
	}

	app := &App{
		HttpApp: httpApp,
		Metrics: metricsServer,
		Logger:  logger,
		AppConf: appConf,
	}
	return app, cleanup, nil
}

// Bootstrap 加载配置、初始化日志，再交给 wire 组装应用
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	appConf := conf.NewConf(configFile)
	if err := log.Init(&appConf.Log); err != nil {
		return nil, nil, err
	}

	v := version.GetVersion()
	log.Infow("starting planboard", "version", v.Version, "commit", v.GitCommit)

	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run 启动 HTTP 与指标服务，收到退出信号后按顺序关闭
func Run(app *App, cleanup func()) {
	logger := app.Logger.Sugar()
	appConf := app.AppConf

	if app.Metrics != nil {
		if err := app.Metrics.Start(); err != nil {
			logger.Errorw("metrics server failed to start", "error", err)
		}
	}

	mgr := shutdown.NewManager()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	safe.Go("signal", func() {
		sig := <-quit
		mgr.Shutdown("signal: " + sig.String())
	})

	safe.Go("http-listener", func() {
		addr := appConf.Http.Addr()
		logger.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, "error", err)
			mgr.Shutdown("listener failed")
		}
	})

	<-mgr.Wait()
	logger.Infow("shutting down gracefully", "reason", mgr.Reason())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(appConf.Http.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	cleanup()

	logger.Info("Server shutdown complete")
	_ = log.Sync()
}
