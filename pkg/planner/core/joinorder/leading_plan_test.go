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

package joinorder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoGoWen/incubator-doris/pkg/expression"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/operator/logicalop"
	"github.com/GoGoWen/incubator-doris/pkg/sessionctx/stmtctx"
	"github.com/GoGoWen/incubator-doris/pkg/util/hint"
	"github.com/GoGoWen/incubator-doris/pkg/util/longbitmap"
)

// newLeadingHintWithScans builds a leading hint from tokens and binds the
// given tables to fresh scans with relation ids in declaration order.
func newLeadingHintWithScans(tokens []string, tables ...string) *hint.LeadingHint {
	h := hint.NewLeadingHint(tokens, "leading("+strings.Join(tokens, " ")+")")
	for i, name := range tables {
		h.PutRelationIDAndTableName(base.RelationID(i), name)
		h.PutRelationScan(base.RelationID(i), logicalop.NewDataSource(base.RelationID(i), name))
	}
	return h
}

func eqCond(leftTbl, leftCol, rightTbl, rightCol string) *expression.ScalarFunction {
	return expression.NewFunction("eq",
		&expression.Column{TblName: leftTbl, ColName: leftCol},
		&expression.Column{TblName: rightTbl, ColName: rightCol})
}

func TestGenerateLeadingJoinPlanFlat(t *testing.T) {
	// leading(t1 t2 t3) with predicates between every adjacent pair builds
	// a left deep chain of inner joins.
	h := newLeadingHintWithScans([]string{"t1", "t2", "t3"}, "t1", "t2", "t3")
	h.AddFilter(longbitmap.New(0, 1), eqCond("t1", "a", "t2", "a"))
	h.AddFilter(longbitmap.New(1, 2), eqCond("t2", "b", "t3", "b"))

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())
	require.Zero(t, h.PendingFilterCount())
	require.Equal(t, longbitmap.New(0, 1, 2), h.InnerJoinBitmap())

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.InnerJoin, root.JoinType)
	require.Equal(t, longbitmap.New(0, 1, 2), root.Bitmap())
	require.Len(t, root.HashJoinConditions, 1)

	inner, ok := root.Children()[0].(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.InnerJoin, inner.JoinType)
	require.Equal(t, longbitmap.New(0, 1), inner.Bitmap())
	rightLeaf, ok := root.Children()[1].(*logicalop.DataSource)
	require.True(t, ok)
	require.Equal(t, "t3", rightLeaf.TableName)
}

func TestGenerateLeadingJoinPlanBushy(t *testing.T) {
	// leading(t1 {t2 t3}): the bracketed group combines first, then joins
	// t1. Without predicates every join defaults to a cross join.
	h := newLeadingHintWithScans([]string{"t1", "{", "t2", "t3", "}"}, "t1", "t2", "t3")

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.CrossJoin, root.JoinType)
	leftLeaf, ok := root.Children()[0].(*logicalop.DataSource)
	require.True(t, ok)
	require.Equal(t, "t1", leftLeaf.TableName)

	group, ok := root.Children()[1].(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.CrossJoin, group.JoinType)
	require.Equal(t, longbitmap.New(1, 2), group.Bitmap())
}

func TestGenerateLeadingJoinPlanSiblingGroups(t *testing.T) {
	// leading({t1 t2}{t3 t4}): two bushy groups joined at the top.
	h := newLeadingHintWithScans(
		[]string{"{", "t1", "t2", "}", "{", "t3", "t4", "}"}, "t1", "t2", "t3", "t4")

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, longbitmap.New(0, 1, 2, 3), root.Bitmap())
	left, ok := root.Children()[0].(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, longbitmap.New(0, 1), left.Bitmap())
	right, ok := root.Children()[1].(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, longbitmap.New(2, 3), right.Bitmap())
}

func TestGenerateLeadingJoinPlanReversedOuter(t *testing.T) {
	// LeftOuter(t1, t2) hinted as leading(t2 t1) assembles as the
	// equivalent right outer join.
	h := newLeadingHintWithScans([]string{"t2", "t1"}, "t1", "t2")
	cond := eqCond("t1", "a", "t2", "a")
	h.AddFilter(longbitmap.New(0, 1), cond)
	h.PutConditionJoinType(cond, base.LeftOuterJoin)
	constraint := NewJoinConstraint(base.LeftOuterJoin, longbitmap.New(0), longbitmap.New(1), true)

	plan, err := GenerateLeadingJoinPlan(h, []*JoinConstraint{constraint})
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.RightOuterJoin, root.JoinType)
	require.Zero(t, h.InnerJoinBitmap())
	require.True(t, constraint.Reversed())
	leftLeaf, ok := root.Children()[0].(*logicalop.DataSource)
	require.True(t, ok)
	require.Equal(t, "t2", leftLeaf.TableName)
}

func TestGenerateLeadingJoinPlanUnknownTable(t *testing.T) {
	h := newLeadingHintWithScans([]string{"t1", "tX"}, "t1", "t2")

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusSyntaxError, h.Status())
	require.Equal(t, "can not find table: tX", h.ErrorMessage())
}

func TestGenerateLeadingJoinPlanLeafFilters(t *testing.T) {
	// A single relation filter is attached at the leaf, not at a join.
	h := newLeadingHintWithScans([]string{"t1", "t2"}, "t1", "t2")
	leafCond := expression.NewFunction("lt",
		&expression.Column{TblName: "t1", ColName: "a"}, &expression.Column{TblName: "t1", ColName: "b"})
	h.AddFilter(longbitmap.New(0), leafCond)

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())
	require.Zero(t, h.PendingFilterCount())

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	sel, ok := root.Children()[0].(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.Len(t, sel.Conditions, 1)
	require.Equal(t, expression.Expression(leafCond), sel.Conditions[0])
}

func TestGenerateLeadingJoinPlanLeftoverFilters(t *testing.T) {
	// A filter needing a relation outside the hint is never consumed.
	h := newLeadingHintWithScans([]string{"t1", "t2"}, "t1", "t2")
	h.AddFilter(longbitmap.New(0, 5), eqCond("t1", "a", "t6", "a"))

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusSyntaxError, h.Status())
	require.Contains(t, h.ErrorMessage(), "unconsumed")
}

func TestGenerateLeadingJoinPlanDistribute(t *testing.T) {
	h := newLeadingHintWithScans([]string{"t1", "shuffle", "t2"}, "t1", "t2")

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)

	root, ok := plan.(*logicalop.LogicalJoin)
	require.True(t, ok)
	require.Equal(t, base.ShuffleRight, root.DistributeHint.DistributeType)
	require.True(t, root.DistributeHint.IsSuccessInLeading())
	require.True(t, h.DistributeHints()[1].IsSuccessInLeading())
}

func TestGenerateLeadingJoinPlanConditionMismatch(t *testing.T) {
	// The predicate came from a semi join but no constraint licenses one
	// here, so the synthesized inner join contradicts it.
	h := newLeadingHintWithScans([]string{"t1", "t2"}, "t1", "t2")
	cond := eqCond("t1", "a", "t2", "a")
	h.AddFilter(longbitmap.New(0, 1), cond)
	h.PutConditionJoinType(cond, base.LeftSemiJoin)

	plan, err := GenerateLeadingJoinPlan(h, nil)
	require.NoError(t, err)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusUnused, h.Status())
	require.Contains(t, h.ErrorMessage(), "do not match join type")
}

func TestGenerateLeadingJoinPlanAmbiguousConstraint(t *testing.T) {
	h := newLeadingHintWithScans([]string{"t1", "t2"}, "t1", "t2")
	c1 := NewJoinConstraint(base.LeftOuterJoin, longbitmap.New(0), longbitmap.New(1), true)
	c2 := NewJoinConstraint(base.RightOuterJoin, longbitmap.New(0), longbitmap.New(1), false)

	plan, err := GenerateLeadingJoinPlan(h, []*JoinConstraint{c1, c2})
	require.NoError(t, err)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusUnused, h.Status())
}

func TestResolveSuccess(t *testing.T) {
	sc := stmtctx.NewStatementContext()
	h := newLeadingHintWithScans([]string{"t1", "t2", "t3"}, "t1", "t2", "t3")
	h.AddFilter(longbitmap.New(0, 1), eqCond("t1", "a", "t2", "a"))
	h.AddFilter(longbitmap.New(1, 2), eqCond("t2", "b", "t3", "b"))

	plan, ok, err := Resolve(sc, h, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, plan)
	require.Equal(t, hint.StatusSuccess, h.Status())
	require.Zero(t, sc.WarningCount())
	require.Equal(t, longbitmap.New(0, 1, 2), h.TotalBitmap())
}

func TestResolveDuplicatedTable(t *testing.T) {
	sc := stmtctx.NewStatementContext()
	h := newLeadingHintWithScans([]string{"t1", "t1"}, "t1", "t2")

	plan, ok, err := Resolve(sc, h, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusSyntaxError, h.Status())
	warnings := sc.GetWarnings()
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "duplicated table")
}

func TestResolveTooManyRelations(t *testing.T) {
	sc := stmtctx.NewStatementContext()
	tokens := make([]string, 0, longbitmap.MaxRelations+1)
	for i := 0; i <= longbitmap.MaxRelations; i++ {
		tokens = append(tokens, fmt.Sprintf("t%d", i))
	}
	h := hint.NewLeadingHint(tokens, "")

	plan, ok, err := Resolve(sc, h, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, plan)
	require.Equal(t, hint.StatusUnused, h.Status())
	require.Contains(t, h.ErrorMessage(), "relation limit")
}

func TestResolveNilHint(t *testing.T) {
	plan, ok, err := Resolve(stmtctx.NewStatementContext(), nil, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, plan)
}

func TestPickLeadingHint(t *testing.T) {
	sc := stmtctx.NewStatementContext()
	h1 := hint.NewLeadingHint([]string{"t1", "t2"}, "")
	h2 := hint.NewLeadingHint([]string{"t2", "t1"}, "")

	require.Equal(t, h1, PickLeadingHint(sc, []*hint.LeadingHint{h1, h1}))
	require.Zero(t, sc.WarningCount())

	require.Nil(t, PickLeadingHint(sc, []*hint.LeadingHint{h1, h2}))
	require.Equal(t, 1, sc.WarningCount())
}
