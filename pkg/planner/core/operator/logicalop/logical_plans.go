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

// Package logicalop contains the logical operators the hint engine builds
// and walks. Only the narrow surface needed for join order resolution is
// modeled here; column bookkeeping lives with the surrounding planner.
package logicalop

import (
	"github.com/GoGoWen/incubator-doris/pkg/expression"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/util/hint"
)

var (
	_ base.LogicalPlan = &DataSource{}
	_ base.LogicalPlan = &LogicalSelection{}
	_ base.LogicalPlan = &LogicalProjection{}
	_ base.LogicalPlan = &LogicalSubQueryAlias{}
	_ base.LogicalPlan = &LogicalJoin{}
)

type baseLogicalPlan struct {
	tp       string
	children []base.LogicalPlan
}

// Children returns the child plans in order.
func (p *baseLogicalPlan) Children() []base.LogicalPlan {
	return p.children
}

// SetChildren replaces the child plans.
func (p *baseLogicalPlan) SetChildren(children ...base.LogicalPlan) {
	p.children = children
}

// ExplainID returns a short operator name used in diagnostics.
func (p *baseLogicalPlan) ExplainID() string {
	return p.tp
}

// DataSource is a bound scan of one base table.
type DataSource struct {
	baseLogicalPlan
	RelationID base.RelationID
	TableName  string
}

// NewDataSource creates a scan leaf for the given relation.
func NewDataSource(id base.RelationID, tableName string) *DataSource {
	return &DataSource{
		baseLogicalPlan: baseLogicalPlan{tp: "DataSource"},
		RelationID:      id,
		TableName:       tableName,
	}
}

// LogicalSubQueryAlias is an aliased subquery leaf. Like a scan it owns a
// relation id of its own.
type LogicalSubQueryAlias struct {
	baseLogicalPlan
	RelationID base.RelationID
	Alias      string
}

// NewLogicalSubQueryAlias creates an aliased subquery leaf over child.
func NewLogicalSubQueryAlias(id base.RelationID, alias string, child base.LogicalPlan) *LogicalSubQueryAlias {
	p := &LogicalSubQueryAlias{
		baseLogicalPlan: baseLogicalPlan{tp: "SubQueryAlias"},
		RelationID:      id,
		Alias:           alias,
	}
	p.SetChildren(child)
	return p
}

// LogicalSelection filters rows of its child by a conjunction.
type LogicalSelection struct {
	baseLogicalPlan
	Conditions []expression.Expression
}

// NewLogicalSelection wraps child with the given filter conjuncts.
func NewLogicalSelection(conditions []expression.Expression, child base.LogicalPlan) *LogicalSelection {
	p := &LogicalSelection{
		baseLogicalPlan: baseLogicalPlan{tp: "Selection"},
		Conditions:      conditions,
	}
	p.SetChildren(child)
	return p
}

// LogicalProjection projects columns of its child. The hint engine only
// walks through it when computing relation bitmaps.
type LogicalProjection struct {
	baseLogicalPlan
	Exprs []expression.Expression
}

// NewLogicalProjection wraps child with a projection.
func NewLogicalProjection(exprs []expression.Expression, child base.LogicalPlan) *LogicalProjection {
	p := &LogicalProjection{
		baseLogicalPlan: baseLogicalPlan{tp: "Projection"},
		Exprs:           exprs,
	}
	p.SetChildren(child)
	return p
}

// LogicalJoin joins two children. HashJoinConditions are equality
// predicates usable for a hash join build; OtherConditions is everything
// else placed on this join.
type LogicalJoin struct {
	baseLogicalPlan
	JoinType           base.JoinType
	HashJoinConditions []expression.Expression
	OtherConditions    []expression.Expression
	DistributeHint     *hint.DistributeHint

	// bitmap caches the union of the relation bitmaps of all leaves below
	// this join.
	bitmap uint64
}

// NewLogicalJoin creates a join node over left and right.
func NewLogicalJoin(joinType base.JoinType, hashConds, otherConds []expression.Expression,
	distributeHint *hint.DistributeHint, left, right base.LogicalPlan) *LogicalJoin {
	p := &LogicalJoin{
		baseLogicalPlan:    baseLogicalPlan{tp: "Join"},
		JoinType:           joinType,
		HashJoinConditions: hashConds,
		OtherConditions:    otherConds,
		DistributeHint:     distributeHint,
	}
	p.SetChildren(left, right)
	return p
}

// SetBitmap caches the relation bitmap of this join subtree.
func (p *LogicalJoin) SetBitmap(bitmap uint64) {
	p.bitmap = bitmap
}

// Bitmap returns the cached relation bitmap of this join subtree.
func (p *LogicalJoin) Bitmap() uint64 {
	return p.bitmap
}
