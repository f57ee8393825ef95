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

// Package config holds the planner configuration.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"

	"github.com/GoGoWen/incubator-doris/pkg/util/logutil"
)

// Config contains configuration options.
type Config struct {
	Log         Log         `toml:"log" json:"log"`
	Performance Performance `toml:"performance" json:"performance"`
}

// Log is the log section of the config.
type Log struct {
	Level            string `toml:"level" json:"level"`
	Format           string `toml:"format" json:"format"`
	File             string `toml:"file" json:"file"`
	DisableTimestamp bool   `toml:"disable-timestamp" json:"disable-timestamp"`
}

// Performance is the performance section of the config.
type Performance struct {
	// MaxLeadingRelations caps how many relations one leading hint may
	// reference. It can never exceed the relation bitmap width.
	MaxLeadingRelations int `toml:"max-leading-relations" json:"max-leading-relations"`
	// EnableAdvancedJoinHint allows join method hints to coexist with join
	// order hints.
	EnableAdvancedJoinHint bool `toml:"enable-advanced-join-hint" json:"enable-advanced-join-hint"`
}

var defaultConf = Config{
	Log: Log{
		Level:  logutil.DefaultLogLevel,
		Format: logutil.DefaultLogFormat,
	},
	Performance: Performance{
		MaxLeadingRelations:    64,
		EnableAdvancedJoinHint: true,
	},
}

var globalConf = defaultConf

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return &globalConf
}

// StoreGlobalConfig replaces the global configuration.
func StoreGlobalConfig(conf *Config) {
	globalConf = *conf
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	_, err := toml.DecodeFile(confFile, c)
	return errors.Trace(err)
}

// ToLogConfig converts the log section to a logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}
