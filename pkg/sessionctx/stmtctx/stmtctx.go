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

// Package stmtctx keeps per-statement planner state. Hint resolution only
// needs the warning sink surfaced in `show warnings` and explain output.
package stmtctx

import (
	"sync"
)

// StatementContext collects information the planner accumulates while
// compiling one statement.
type StatementContext struct {
	mu struct {
		sync.Mutex
		warnings []string
	}
}

// NewStatementContext creates an empty statement context.
func NewStatementContext() *StatementContext {
	return &StatementContext{}
}

// SetHintWarning appends a hint related warning. Duplicate messages are
// kept once; a hint may fail through the same path several times within
// one statement.
func (sc *StatementContext) SetHintWarning(msg string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, warning := range sc.mu.warnings {
		if warning == msg {
			return
		}
	}
	sc.mu.warnings = append(sc.mu.warnings, msg)
}

// GetWarnings returns a copy of the collected warnings.
func (sc *StatementContext) GetWarnings() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	warnings := make([]string, len(sc.mu.warnings))
	copy(warnings, sc.mu.warnings)
	return warnings
}

// WarningCount returns the number of collected warnings.
func (sc *StatementContext) WarningCount() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.mu.warnings)
}

// TruncateWarnings discards warnings from the given index on and returns
// the discarded tail.
func (sc *StatementContext) TruncateWarnings(start int) []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if start >= len(sc.mu.warnings) {
		return nil
	}
	tail := make([]string, len(sc.mu.warnings)-start)
	copy(tail, sc.mu.warnings[start:])
	sc.mu.warnings = sc.mu.warnings[:start]
	return tail
}
