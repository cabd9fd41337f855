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
	"fmt"

	"github.com/go-arcade/planboard/internal/engine/conf"
	"github.com/go-arcade/planboard/internal/engine/repo"
	"github.com/go-arcade/planboard/pkg/database"
	"github.com/go-arcade/planboard/pkg/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConf, err := conf.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		if err := log.Init(&appConf.Log); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, cleanup, err := database.ProvideGormDB(appConf.Database)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := repo.AutoMigrate(database.NewGormDB(db)); err != nil {
			return err
		}
		log.Infow("schema migrated", "database", appConf.Database.DBName)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
		return nil
	},
}
