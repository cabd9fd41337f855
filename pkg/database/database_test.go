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

package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func TestDatabase_DSN(t *testing.T) {
	cfg := Database{Host: "127.0.0.1", User: "root", Password: "pw", DBName: "planboard"}
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/planboard?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.Port = "3307"
	assert.Contains(t, cfg.DSN(), "127.0.0.1:3307")
}

func TestDatabase_Validate(t *testing.T) {
	assert.Error(t, (&Database{}).Validate())
	assert.NoError(t, (&Database{Host: "h", User: "u", DBName: "d"}).Validate())
}

func TestConnDurations(t *testing.T) {
	assert.Equal(t, 300*time.Second, GetConnMaxLifetime(0))
	assert.Equal(t, 10*time.Second, GetConnMaxLifetime(10))
	assert.Equal(t, 60*time.Second, GetConnMaxIdleTime(-1))
	assert.Equal(t, time.Second, getSlowThreshold(0))
	assert.Equal(t, 200*time.Millisecond, getSlowThreshold(200))
}

func TestOpen_UsesTablePrefix(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), Database{MaxOpenConns: 1, OutPut: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&sample{}))
	assert.True(t, db.Migrator().HasTable("t_sample"))

	require.NoError(t, db.Create(&sample{ID: "1", Name: "first"}).Error)

	var got sample
	require.NoError(t, NewGormDB(db).Database().First(&got, "id = ?", "1").Error)
	assert.Equal(t, "first", got.Name)
}
