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

package main

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/planboard/internal/engine/conf"
	"github.com/go-arcade/planboard/internal/engine/model"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/internal/engine/service"
	"github.com/go-arcade/planboard/internal/pkg/aiclient"
	"github.com/go-arcade/planboard/pkg/cache"
	"github.com/go-arcade/planboard/pkg/database"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/spf13/cobra"
)

var (
	recToken   string
	recTask    string
	recProject string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "print assignee recommendations for a task or a whole project",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recToken, "token", "", "access token of the calling user")
	recommendCmd.Flags().StringVar(&recTask, "task", "", "task id")
	recommendCmd.Flags().StringVar(&recProject, "project", "", "project id, recommends every unfinished task")
	_ = recommendCmd.MarkFlagRequired("token")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if (recTask == "") == (recProject == "") {
		return errors.New("exactly one of --task or --project is required")
	}

	appConf, err := conf.LoadConfigFile(configFile)
	if err != nil {
		return err
	}
	if err := log.Init(&appConf.Log); err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, dbCleanup, err := database.ProvideGormDB(appConf.Database)
	if err != nil {
		return err
	}
	defer dbCleanup()
	client, redisCleanup, err := cache.ProvideRedis(appConf.Redis)
	if err != nil {
		return err
	}
	defer redisCleanup()

	services := service.NewServices(
		repo.NewRepositories(database.NewGormDB(db)),
		cache.ProvideICache(appConf.Redis, client),
		client,
		appConf.Http.Auth,
		aiclient.ProvideClient(appConf.AI),
		appConf.Board,
	)

	ctx := cmd.Context()
	identity, err := services.Auth.Authenticate(ctx, recToken)
	if err != nil {
		return err
	}

	var result any
	if recTask != "" {
		var rec *model.Recommendation
		rec, err = services.Task.Recommend(ctx, identity.Id, recTask)
		result = rec
	} else {
		result, err = services.Task.RecommendBatch(ctx, identity.Id, &model.BatchRecommendReq{ProjectId: recProject})
	}
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
