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
	"github.com/go-arcade/planboard/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @file: main.go
 * @description: planboard 运维命令行
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "planctl is the planboard operations tool",
	Long:  "planctl runs schema migrations and assignment recommendations against a planboard deployment",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			return
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path")
	rootCmd.AddCommand(version.VersionCmd, migrateCmd, recommendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
