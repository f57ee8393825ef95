// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 64, conf.Performance.MaxLeadingRelations)
	require.True(t, conf.Performance.EnableAdvancedJoinHint)
	require.Equal(t, "info", conf.Log.Level)
}

func TestLoadConfig(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "warn"
format = "json"

[performance]
max-leading-relations = 16
enable-advanced-join-hint = false
`
	require.NoError(t, os.WriteFile(confFile, []byte(content), 0o644))

	conf := NewConfig()
	require.NoError(t, conf.Load(confFile))
	require.Equal(t, "warn", conf.Log.Level)
	require.Equal(t, "json", conf.Log.Format)
	require.Equal(t, 16, conf.Performance.MaxLeadingRelations)
	require.False(t, conf.Performance.EnableAdvancedJoinHint)

	logConf := conf.Log.ToLogConfig()
	require.Equal(t, "warn", logConf.Config.Level)
}

func TestStoreGlobalConfig(t *testing.T) {
	origin := *GetGlobalConfig()
	defer StoreGlobalConfig(&origin)

	conf := NewConfig()
	conf.Performance.MaxLeadingRelations = 8
	StoreGlobalConfig(conf)
	require.Equal(t, 8, GetGlobalConfig().Performance.MaxLeadingRelations)
}
