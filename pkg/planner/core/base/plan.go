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

// Package base holds the plan contracts shared by the planner packages.
package base

// RelationID identifies one relation reference inside a query. It is
// assigned by the binder and unique within the query.
type RelationID int

// AsInt returns the id as a plain int, usable as a bitmap bit position.
func (id RelationID) AsInt() int {
	return int(id)
}

// LogicalPlan is the narrow plan-tree contract the hint engine depends on.
// The engine only builds joins, selections and projections through their
// concrete constructors and walks children to compute relation bitmaps.
type LogicalPlan interface {
	// Children returns the child plans in order.
	Children() []LogicalPlan
	// SetChildren replaces the child plans.
	SetChildren(children ...LogicalPlan)
	// ExplainID returns a short operator name used in diagnostics.
	ExplainID() string
}
